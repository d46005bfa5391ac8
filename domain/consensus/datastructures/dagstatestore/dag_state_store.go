package dagstatestore

import (
	"sync"

	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

var dagStateKeyName = []byte("dag-state")

const shardID model.StagingShardID = "DAGStateStore"

type dagStateStore struct {
	dagStateKey model.DBKey
	cache       *externalapi.DAGState
	lock        sync.Mutex
}

// New instantiates a new DAGStateStore
func New() model.DAGStateStore {
	return &dagStateStore{
		dagStateKey: database.MakeBucket().Key(dagStateKeyName),
	}
}

func (dss *dagStateStore) Stage(stagingArea *model.StagingArea, state *externalapi.DAGState) {
	dss.stagingShard(stagingArea).newState = state.Clone()
}

func (dss *dagStateStore) IsStaged(stagingArea *model.StagingArea) bool {
	return dss.stagingShard(stagingArea).isStaged()
}

func (dss *dagStateStore) DAGState(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DAGState, error) {
	stagingShard := dss.stagingShard(stagingArea)

	if stagingShard.newState != nil {
		return stagingShard.newState.Clone(), nil
	}

	if cached := dss.cachedState(); cached != nil {
		return cached.Clone(), nil
	}

	stateBytes, err := dbContext.Get(dss.dagStateKey)
	if err != nil {
		return nil, err
	}

	state, err := serialization.DeserializeDAGState(stateBytes)
	if err != nil {
		return nil, err
	}
	dss.setCachedState(state)
	return state.Clone(), nil
}

func (dss *dagStateStore) HasDAGState(dbContext model.DBReader, stagingArea *model.StagingArea) (bool, error) {
	if dss.stagingShard(stagingArea).newState != nil {
		return true, nil
	}

	if dss.cachedState() != nil {
		return true, nil
	}

	return dbContext.Has(dss.dagStateKey)
}

// The cache is filled by readers, which may run concurrently
func (dss *dagStateStore) cachedState() *externalapi.DAGState {
	dss.lock.Lock()
	defer dss.lock.Unlock()
	return dss.cache
}

func (dss *dagStateStore) setCachedState(state *externalapi.DAGState) {
	dss.lock.Lock()
	defer dss.lock.Unlock()
	dss.cache = state
}
