package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// DAGOrderingManager maintains the topological order of the mutable window
// and the classification of the blocks in it
type DAGOrderingManager interface {
	UpdateOrder(stagingArea *StagingArea) (*OrderingResult, error)
	IsOrderable(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	OrderableTips(stagingArea *StagingArea, tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error)
}
