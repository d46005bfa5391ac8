package blockvalidator

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/infrastructure/logger"
)

// ValidateHeaderInContext validates a block header in the context of its
// parents. The parents must already be known.
func (v *blockValidator) ValidateHeaderInContext(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateHeaderInContext")
	defer onEnd()

	parentHeaders, err := v.blockHeaderStore.BlockHeaders(v.databaseContext, stagingArea, header.ParentHashes)
	if err != nil {
		return err
	}

	err = checkHeight(header, parentHeaders)
	if err != nil {
		return err
	}

	err = checkTimestampNotBeforeParents(header, parentHeaders)
	if err != nil {
		return err
	}

	return v.checkDifficulty(stagingArea, header)
}

func checkHeight(header *externalapi.DomainBlockHeader, parentHeaders []*externalapi.DomainBlockHeader) error {
	expectedHeight := uint64(0)
	for i, parentHeader := range parentHeaders {
		if i == 0 || parentHeader.Height+1 > expectedHeight {
			expectedHeight = parentHeader.Height + 1
		}
	}
	if header.Height != expectedHeight {
		return errors.Wrapf(ruleerrors.ErrInvalidBlockHeight, "block height is %d, expected %d",
			header.Height, expectedHeight)
	}
	return nil
}

func checkTimestampNotBeforeParents(header *externalapi.DomainBlockHeader, parentHeaders []*externalapi.DomainBlockHeader) error {
	for _, parentHeader := range parentHeaders {
		if header.TimeInMilliseconds < parentHeader.TimeInMilliseconds {
			return errors.Wrapf(ruleerrors.ErrTimeTooOld, "block timestamp %d is lower than the timestamp %d "+
				"of one of its parents", header.TimeInMilliseconds, parentHeader.TimeInMilliseconds)
		}
	}
	return nil
}

func (v *blockValidator) checkDifficulty(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	if !v.enforceDifficulty || len(header.ParentHashes) == 0 {
		return nil
	}

	expectedDifficulty, err := v.difficultyManager.NextRequiredDifficulty(stagingArea, header.ParentHashes)
	if err != nil {
		return err
	}
	if header.Difficulty != expectedDifficulty {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty, "block difficulty of %d is not the expected "+
			"value of %d", header.Difficulty, expectedDifficulty)
	}
	return nil
}
