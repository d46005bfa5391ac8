package blockheaderstore

import (
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var bucketName = []byte("block-headers")
var countKeyName = []byte("block-headers-count")

const shardID model.StagingShardID = "BlockHeaderStore"

// blockHeaderStore represents a store of blocks
type blockHeaderStore struct {
	cache    *lrucache.LRUCache
	bucket   model.DBBucket
	countKey model.DBKey
}

// New instantiates a new BlockHeaderStore
func New(cacheSize int) model.BlockHeaderStore {
	return &blockHeaderStore{
		cache:    lrucache.New(cacheSize),
		bucket:   database.MakeBucket(bucketName),
		countKey: database.MakeBucket().Key(countKeyName),
	}
}

// Stage stages the given block header for the given blockHash
func (bhs *blockHeaderStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader) {
	stagingShard := bhs.stagingShard(stagingArea)
	stagingShard.toAdd[*blockHash] = blockHeader.Clone()
}

func (bhs *blockHeaderStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bhs.stagingShard(stagingArea).isStaged()
}

// BlockHeader gets the block header associated with the given blockHash
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	return bhs.blockHeader(dbContext, stagingShard, blockHash)
}

func (bhs *blockHeaderStore) blockHeader(dbContext model.DBReader, stagingShard *blockHeaderStagingShard,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {

	if header, ok := stagingShard.toAdd[*blockHash]; ok {
		return header.Clone(), nil
	}

	if header, ok := bhs.cache.Get(blockHash); ok {
		return header.(*externalapi.DomainBlockHeader).Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := serialization.DeserializeBlockHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a block header with a given hash exists in the store.
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	stagingShard := bhs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bhs.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bhs.hashAsKey(blockHash))
}

// BlockHeaders gets the block headers associated with the given blockHashes
func (bhs *blockHeaderStore) BlockHeaders(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHashes []*externalapi.DomainHash) ([]*externalapi.DomainBlockHeader, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	headers := make([]*externalapi.DomainBlockHeader, len(blockHashes))
	for i, hash := range blockHashes {
		var err error
		headers[i], err = bhs.blockHeader(dbContext, stagingShard, hash)
		if err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// Count returns the number of stored headers, staged ones included
func (bhs *blockHeaderStore) Count(dbContext model.DBReader, stagingArea *model.StagingArea) (uint64, error) {
	stagingShard := bhs.stagingShard(stagingArea)

	committed, err := bhs.committedCount(dbContext)
	if err != nil {
		return 0, err
	}
	return committed + uint64(len(stagingShard.toAdd)), nil
}

func (bhs *blockHeaderStore) committedCount(dbContext model.DBReader) (uint64, error) {
	countBytes, err := dbContext.Get(bhs.countKey)
	if database.IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return serialization.DeserializeUint64(countBytes)
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bhs.bucket.Key(hash.ByteSlice())
}
