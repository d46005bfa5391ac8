package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// TopoIndexStore maps topological heights to block hashes. The reverse
// mapping is held by BlockMetadata.
type TopoIndexStore interface {
	Stage(stagingArea *StagingArea, topoHeight uint64, blockHash *externalapi.DomainHash)
	StageDelete(stagingArea *StagingArea, topoHeight uint64)
	IsStaged(stagingArea *StagingArea) bool
	BlockAtTopoHeight(dbContext DBReader, stagingArea *StagingArea, topoHeight uint64) (*externalapi.DomainHash, error)
	HasTopoHeight(dbContext DBReader, stagingArea *StagingArea, topoHeight uint64) (bool, error)
}
