package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// BlockMetadataStore represents a store of BlockMetadata
type BlockMetadataStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, metadata *externalapi.BlockMetadata)
	IsStaged(stagingArea *StagingArea) bool
	BlockMetadata(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.BlockMetadata, error)
	Has(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
}
