package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// HeightIndexStore maps a height to the set of blocks at that height
type HeightIndexStore interface {
	StageBlock(dbContext DBReader, stagingArea *StagingArea, height uint64, blockHash *externalapi.DomainHash) error
	IsStaged(stagingArea *StagingArea) bool
	BlocksAtHeight(dbContext DBReader, stagingArea *StagingArea, height uint64) ([]*externalapi.DomainHash, error)
}
