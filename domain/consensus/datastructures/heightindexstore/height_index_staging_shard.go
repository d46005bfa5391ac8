package heightindexstore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type heightIndexStagingShard struct {
	store *heightIndexStore
	toAdd map[uint64][]*externalapi.DomainHash
}

func (his *heightIndexStore) stagingShard(stagingArea *model.StagingArea) *heightIndexStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &heightIndexStagingShard{
			store: his,
			toAdd: make(map[uint64][]*externalapi.DomainHash),
		}
	}).(*heightIndexStagingShard)
}

func (hiss *heightIndexStagingShard) Commit(dbTx model.DBTransaction) error {
	for height, blockHashes := range hiss.toAdd {
		err := dbTx.Put(hiss.store.heightAsKey(height), serialization.SerializeHashes(blockHashes))
		if err != nil {
			return err
		}
		hiss.store.cache.Remove(height)
	}
	return nil
}

func (hiss *heightIndexStagingShard) isStaged() bool {
	return len(hiss.toAdd) != 0
}
