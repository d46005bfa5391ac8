package topoindexstore

import (
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type topoIndexStagingShard struct {
	store    *topoIndexStore
	toAdd    map[uint64]*externalapi.DomainHash
	toDelete map[uint64]struct{}
}

func (tis *topoIndexStore) stagingShard(stagingArea *model.StagingArea) *topoIndexStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &topoIndexStagingShard{
			store:    tis,
			toAdd:    make(map[uint64]*externalapi.DomainHash),
			toDelete: make(map[uint64]struct{}),
		}
	}).(*topoIndexStagingShard)
}

func (tiss *topoIndexStagingShard) Commit(dbTx model.DBTransaction) error {
	for topoHeight, blockHash := range tiss.toAdd {
		err := dbTx.Put(tiss.store.topoHeightAsKey(topoHeight), blockHash.ByteSlice())
		if err != nil {
			return err
		}
		tiss.store.cache.Remove(topoHeight)
	}

	for topoHeight := range tiss.toDelete {
		err := dbTx.Delete(tiss.store.topoHeightAsKey(topoHeight))
		if err != nil {
			return err
		}
		tiss.store.cache.Remove(topoHeight)
	}
	return nil
}

func (tiss *topoIndexStagingShard) isStaged() bool {
	return len(tiss.toAdd) != 0 || len(tiss.toDelete) != 0
}
