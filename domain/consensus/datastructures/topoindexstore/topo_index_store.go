package topoindexstore

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var bucketName = []byte("topo-index")

const shardID model.StagingShardID = "TopoIndexStore"

// topoIndexStore maps topological heights to block hashes
type topoIndexStore struct {
	cache  *lrucache.KeyedLRUCache[uint64]
	bucket model.DBBucket
}

// New instantiates a new TopoIndexStore
func New(cacheSize int) (model.TopoIndexStore, error) {
	cache, err := lrucache.NewKeyed[uint64](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create topo index cache")
	}
	return &topoIndexStore{
		cache:  cache,
		bucket: database.MakeBucket(bucketName),
	}, nil
}

// Stage maps topoHeight to blockHash, replacing any previous mapping
func (tis *topoIndexStore) Stage(stagingArea *model.StagingArea, topoHeight uint64, blockHash *externalapi.DomainHash) {
	stagingShard := tis.stagingShard(stagingArea)
	delete(stagingShard.toDelete, topoHeight)
	stagingShard.toAdd[topoHeight] = blockHash
}

// StageDelete removes the mapping of topoHeight
func (tis *topoIndexStore) StageDelete(stagingArea *model.StagingArea, topoHeight uint64) {
	stagingShard := tis.stagingShard(stagingArea)
	delete(stagingShard.toAdd, topoHeight)
	stagingShard.toDelete[topoHeight] = struct{}{}
}

func (tis *topoIndexStore) IsStaged(stagingArea *model.StagingArea) bool {
	return tis.stagingShard(stagingArea).isStaged()
}

// BlockAtTopoHeight returns the block at topoHeight, or an error satisfying
// database.IsNotFoundError
func (tis *topoIndexStore) BlockAtTopoHeight(dbContext model.DBReader, stagingArea *model.StagingArea,
	topoHeight uint64) (*externalapi.DomainHash, error) {

	stagingShard := tis.stagingShard(stagingArea)

	if blockHash, ok := stagingShard.toAdd[topoHeight]; ok {
		return blockHash, nil
	}
	if _, ok := stagingShard.toDelete[topoHeight]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "topo height %d was removed", topoHeight)
	}

	if blockHash, ok := tis.cache.Get(topoHeight); ok {
		return blockHash.(*externalapi.DomainHash), nil
	}

	hashBytes, err := dbContext.Get(tis.topoHeightAsKey(topoHeight))
	if err != nil {
		return nil, err
	}
	blockHash, err := externalapi.NewDomainHashFromByteSlice(hashBytes)
	if err != nil {
		return nil, err
	}
	tis.cache.Add(topoHeight, blockHash)
	return blockHash, nil
}

// HasTopoHeight returns whether topoHeight is mapped to a block
func (tis *topoIndexStore) HasTopoHeight(dbContext model.DBReader, stagingArea *model.StagingArea,
	topoHeight uint64) (bool, error) {

	stagingShard := tis.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[topoHeight]; ok {
		return true, nil
	}
	if _, ok := stagingShard.toDelete[topoHeight]; ok {
		return false, nil
	}
	if tis.cache.Has(topoHeight) {
		return true, nil
	}
	return dbContext.Has(tis.topoHeightAsKey(topoHeight))
}

func (tis *topoIndexStore) topoHeightAsKey(topoHeight uint64) model.DBKey {
	return tis.bucket.Key(serialization.Uint64ToKeySuffix(topoHeight))
}
