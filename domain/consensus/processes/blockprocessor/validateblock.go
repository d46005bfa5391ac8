package blockprocessor

import (
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// validateBlock runs every validation a block goes through before it is
// staged. Parent set policy is checked before anything reads the weight of
// the new block.
func (bp *blockProcessor) validateBlock(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	err := bp.blockValidator.ValidateHeaderInIsolation(block)
	if err != nil {
		return err
	}

	err = bp.blockValidator.ValidateParentsExistence(stagingArea, block.Header)
	if err != nil {
		return err
	}

	err = bp.blockValidator.ValidateParentSet(stagingArea, block.Header)
	if err != nil {
		return err
	}

	return bp.blockValidator.ValidateHeaderInContext(stagingArea, block.Header)
}
