package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// TipsStore represents a store of the current DAG tips
type TipsStore interface {
	StageTips(stagingArea *StagingArea, tipHashes []*externalapi.DomainHash)
	IsStaged(stagingArea *StagingArea) bool
	Tips(dbContext DBReader, stagingArea *StagingArea) ([]*externalapi.DomainHash, error)
	HasTips(dbContext DBReader, stagingArea *StagingArea) (bool, error)
}
