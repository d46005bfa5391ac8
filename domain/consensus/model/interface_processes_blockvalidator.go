package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// BlockValidator exposes a set of validation classes, after which
// it's possible to determine whether a block is valid
type BlockValidator interface {
	ValidateHeaderInIsolation(block *externalapi.DomainBlock) error
	ValidateParentsExistence(stagingArea *StagingArea, header *externalapi.DomainBlockHeader) error
	ValidateParentSet(stagingArea *StagingArea, header *externalapi.DomainBlockHeader) error
	ValidateHeaderInContext(stagingArea *StagingArea, header *externalapi.DomainBlockHeader) error
}
