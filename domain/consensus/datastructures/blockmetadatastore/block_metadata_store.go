package blockmetadatastore

import (
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var bucketName = []byte("block-metadata")

const shardID model.StagingShardID = "BlockMetadataStore"

// blockMetadataStore represents a store of BlockMetadata
type blockMetadataStore struct {
	cache  *lrucache.LRUCache
	bucket model.DBBucket
}

// New instantiates a new BlockMetadataStore
func New(cacheSize int) model.BlockMetadataStore {
	return &blockMetadataStore{
		cache:  lrucache.New(cacheSize),
		bucket: database.MakeBucket(bucketName),
	}
}

// Stage stages the given metadata for the given blockHash. Staging the
// same hash again replaces the staged value.
func (bms *blockMetadataStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	metadata *externalapi.BlockMetadata) {

	bms.stagingShard(stagingArea).toAdd[*blockHash] = metadata.Clone()
}

func (bms *blockMetadataStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bms.stagingShard(stagingArea).isStaged()
}

// BlockMetadata gets the metadata associated with the given blockHash
func (bms *blockMetadataStore) BlockMetadata(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.BlockMetadata, error) {

	stagingShard := bms.stagingShard(stagingArea)

	if metadata, ok := stagingShard.toAdd[*blockHash]; ok {
		return metadata.Clone(), nil
	}

	if metadata, ok := bms.cache.Get(blockHash); ok {
		return metadata.(*externalapi.BlockMetadata).Clone(), nil
	}

	metadataBytes, err := dbContext.Get(bms.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	metadata, err := serialization.DeserializeBlockMetadata(metadataBytes)
	if err != nil {
		return nil, err
	}
	bms.cache.Add(blockHash, metadata)
	return metadata.Clone(), nil
}

// Has returns whether metadata for the given blockHash exists
func (bms *blockMetadataStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	if _, ok := bms.stagingShard(stagingArea).toAdd[*blockHash]; ok {
		return true, nil
	}

	if bms.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bms.hashAsKey(blockHash))
}

func (bms *blockMetadataStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bms.bucket.Key(hash.ByteSlice())
}
