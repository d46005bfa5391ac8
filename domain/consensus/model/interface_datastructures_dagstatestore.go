package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// DAGStateStore represents a store of the DAG frontier and stability
// boundary
type DAGStateStore interface {
	Stage(stagingArea *StagingArea, state *externalapi.DAGState)
	IsStaged(stagingArea *StagingArea) bool
	DAGState(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DAGState, error)
	HasDAGState(dbContext DBReader, stagingArea *StagingArea) (bool, error)
}
