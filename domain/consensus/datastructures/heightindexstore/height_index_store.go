package heightindexstore

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var bucketName = []byte("height-index")

const shardID model.StagingShardID = "HeightIndexStore"

// heightIndexStore maps every height to the blocks declared at it, in
// insertion order
type heightIndexStore struct {
	cache  *lrucache.KeyedLRUCache[uint64]
	bucket model.DBBucket
}

// New instantiates a new HeightIndexStore
func New(cacheSize int) (model.HeightIndexStore, error) {
	cache, err := lrucache.NewKeyed[uint64](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create height index cache")
	}
	return &heightIndexStore{
		cache:  cache,
		bucket: database.MakeBucket(bucketName),
	}, nil
}

// StageBlock adds blockHash to the blocks at height. Adding a block twice
// has no effect.
func (his *heightIndexStore) StageBlock(dbContext model.DBReader, stagingArea *model.StagingArea,
	height uint64, blockHash *externalapi.DomainHash) error {

	stagingShard := his.stagingShard(stagingArea)

	blockHashes, err := his.blocksAtHeight(dbContext, stagingShard, height)
	if err != nil {
		return err
	}
	for _, existing := range blockHashes {
		if existing.Equal(blockHash) {
			return nil
		}
	}
	stagingShard.toAdd[height] = append(blockHashes, blockHash)
	return nil
}

func (his *heightIndexStore) IsStaged(stagingArea *model.StagingArea) bool {
	return his.stagingShard(stagingArea).isStaged()
}

// BlocksAtHeight returns the blocks at height. A height without blocks
// yields an empty slice.
func (his *heightIndexStore) BlocksAtHeight(dbContext model.DBReader, stagingArea *model.StagingArea,
	height uint64) ([]*externalapi.DomainHash, error) {

	return his.blocksAtHeight(dbContext, his.stagingShard(stagingArea), height)
}

func (his *heightIndexStore) blocksAtHeight(dbContext model.DBReader, stagingShard *heightIndexStagingShard,
	height uint64) ([]*externalapi.DomainHash, error) {

	if blockHashes, ok := stagingShard.toAdd[height]; ok {
		return externalapi.CloneHashes(blockHashes), nil
	}

	if blockHashes, ok := his.cache.Get(height); ok {
		return externalapi.CloneHashes(blockHashes.([]*externalapi.DomainHash)), nil
	}

	hashesBytes, err := dbContext.Get(his.heightAsKey(height))
	if database.IsNotFoundError(err) {
		return []*externalapi.DomainHash{}, nil
	}
	if err != nil {
		return nil, err
	}
	blockHashes, err := serialization.DeserializeHashes(hashesBytes)
	if err != nil {
		return nil, err
	}
	his.cache.Add(height, blockHashes)
	return externalapi.CloneHashes(blockHashes), nil
}

func (his *heightIndexStore) heightAsKey(height uint64) model.DBKey {
	return his.bucket.Key(serialization.Uint64ToKeySuffix(height))
}
