package blockvalidator

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
)

// ValidateParentsExistence returns ErrUnknownParent listing every parent of
// header that is not in the store
func (v *blockValidator) ValidateParentsExistence(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	var missingParentHashes []*externalapi.DomainHash
	for _, parentHash := range header.ParentHashes {
		exists, err := v.blockHeaderStore.HasBlockHeader(v.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if !exists {
			missingParentHashes = append(missingParentHashes, parentHash)
		}
	}

	if len(missingParentHashes) > 0 {
		return ruleerrors.NewErrUnknownParent(missingParentHashes)
	}
	return nil
}

// ValidateParentSet checks that no parent is orphaned or built on an
// orphaned block, and that the parents are close enough to each other and
// to the top of the DAG
func (v *blockValidator) ValidateParentSet(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	if len(header.ParentHashes) == 0 {
		return nil
	}

	for _, parentHash := range header.ParentHashes {
		metadata, err := v.blockMetadataStore.BlockMetadata(v.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if metadata.Classification == externalapi.ClassificationOrphaned {
			return errors.Wrapf(ruleerrors.ErrExcessiveDeviation, "parent %s is orphaned", parentHash)
		}
		isOrderable, err := v.dagOrderingManager.IsOrderable(stagingArea, parentHash)
		if err != nil {
			return err
		}
		if !isOrderable {
			return errors.Wrapf(ruleerrors.ErrExcessiveDeviation, "parent %s descends from an orphaned block", parentHash)
		}
	}

	topHeight := uint64(0)
	state, err := v.dagStateStore.DAGState(v.databaseContext, stagingArea)
	if err != nil && !database.IsNotFoundError(err) {
		return err
	}
	if err == nil {
		topHeight = state.TopHeight
	}

	parentInfos, err := v.tipSelector.TipInfos(stagingArea, header.ParentHashes)
	if err != nil {
		return err
	}
	return v.tipSelector.ValidateParentSet(parentInfos, topHeight)
}
