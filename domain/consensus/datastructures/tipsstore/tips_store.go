package tipsstore

import (
	"sync"

	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

var tipsKeyName = []byte("tips")

const shardID model.StagingShardID = "TipsStore"

type tipsStore struct {
	tipsKey model.DBKey
	cache   []*externalapi.DomainHash
	lock    sync.Mutex
}

// New instantiates a new TipsStore
func New() model.TipsStore {
	return &tipsStore{
		tipsKey: database.MakeBucket().Key(tipsKeyName),
	}
}

func (ts *tipsStore) StageTips(stagingArea *model.StagingArea, tipHashes []*externalapi.DomainHash) {
	ts.stagingShard(stagingArea).newTips = externalapi.CloneHashes(tipHashes)
}

func (ts *tipsStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ts.stagingShard(stagingArea).isStaged()
}

func (ts *tipsStore) HasTips(dbContext model.DBReader, stagingArea *model.StagingArea) (bool, error) {
	if ts.stagingShard(stagingArea).newTips != nil {
		return true, nil
	}

	if ts.cachedTips() != nil {
		return true, nil
	}

	return dbContext.Has(ts.tipsKey)
}

func (ts *tipsStore) Tips(dbContext model.DBReader, stagingArea *model.StagingArea) ([]*externalapi.DomainHash, error) {
	stagingShard := ts.stagingShard(stagingArea)

	if stagingShard.newTips != nil {
		return externalapi.CloneHashes(stagingShard.newTips), nil
	}

	if cached := ts.cachedTips(); cached != nil {
		return externalapi.CloneHashes(cached), nil
	}

	tipsBytes, err := dbContext.Get(ts.tipsKey)
	if err != nil {
		return nil, err
	}

	tips, err := serialization.DeserializeHashes(tipsBytes)
	if err != nil {
		return nil, err
	}
	ts.setCachedTips(tips)
	return externalapi.CloneHashes(tips), nil
}

// The cache is filled by readers, which may run concurrently
func (ts *tipsStore) cachedTips() []*externalapi.DomainHash {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	return ts.cache
}

func (ts *tipsStore) setCachedTips(tips []*externalapi.DomainHash) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	ts.cache = tips
}
