package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// TipSelector chooses and validates the tips a block may reference
type TipSelector interface {
	SelectMiningTips(tips []*externalapi.TipInfo) []*externalapi.DomainHash
	ValidateParentSet(parents []*externalapi.TipInfo, topHeight uint64) error
	TipInfos(stagingArea *StagingArea, blockHashes []*externalapi.DomainHash) ([]*externalapi.TipInfo, error)
}
