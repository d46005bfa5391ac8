package tipsstore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type tipsStagingShard struct {
	store   *tipsStore
	newTips []*externalapi.DomainHash
}

func (ts *tipsStore) stagingShard(stagingArea *model.StagingArea) *tipsStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &tipsStagingShard{
			store:   ts,
			newTips: nil,
		}
	}).(*tipsStagingShard)
}

func (tss *tipsStagingShard) Commit(dbTx model.DBTransaction) error {
	if tss.newTips == nil {
		return nil
	}

	err := dbTx.Put(tss.store.tipsKey, serialization.SerializeHashes(tss.newTips))
	if err != nil {
		return err
	}
	tss.store.setCachedTips(nil)
	return nil
}

func (tss *tipsStagingShard) isStaged() bool {
	return tss.newTips != nil
}
