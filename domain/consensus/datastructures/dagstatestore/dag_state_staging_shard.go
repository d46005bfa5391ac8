package dagstatestore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type dagStateStagingShard struct {
	store    *dagStateStore
	newState *externalapi.DAGState
}

func (dss *dagStateStore) stagingShard(stagingArea *model.StagingArea) *dagStateStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &dagStateStagingShard{
			store:    dss,
			newState: nil,
		}
	}).(*dagStateStagingShard)
}

func (dsss *dagStateStagingShard) Commit(dbTx model.DBTransaction) error {
	if dsss.newState == nil {
		return nil
	}

	err := dbTx.Put(dsss.store.dagStateKey, serialization.SerializeDAGState(dsss.newState))
	if err != nil {
		return err
	}
	dsss.store.setCachedState(nil)
	return nil
}

func (dsss *dagStateStagingShard) isStaged() bool {
	return dsss.newState != nil
}
