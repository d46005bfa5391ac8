package dagorderingmanager

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
)

// stage writes the new topological heights and classifications, and
// returns the blocks whose topological height changed
func (op *orderingPass) stage(newState *externalapi.DAGState, previouslyOrdered []*externalapi.DomainHash,
	hasOldState bool) ([]*externalapi.DomainHash, error) {

	manager := op.manager
	reordered := make([]*externalapi.DomainHash, 0)

	for i, c := range op.assigned {
		topoHeight := op.topoHeightOf(i)
		moved := !c.metadata.HasTopoHeight || c.metadata.TopoHeight != topoHeight

		classification, err := op.classify(i, newState)
		if err != nil {
			return nil, err
		}

		updated := c.metadata.Clone()
		updated.HasTopoHeight = true
		updated.TopoHeight = topoHeight
		updated.Classification = classification
		if !updated.Equal(c.metadata) {
			manager.blockMetadataStore.Stage(op.stagingArea, c.hash, updated)
		}

		if moved {
			reordered = append(reordered, c.hash)
			manager.topoIndexStore.Stage(op.stagingArea, topoHeight, c.hash)
		}
	}

	for _, c := range op.unordered {
		op.unassign(c.hash, c.metadata)
		if c.metadata.HasTopoHeight {
			reordered = append(reordered, c.hash)
		}
	}

	unorderedSet := hashset.New()
	for _, c := range op.unordered {
		unorderedSet.Add(c.hash)
	}
	for _, blockHash := range previouslyOrdered {
		if op.assignedSet.Contains(blockHash) || unorderedSet.Contains(blockHash) {
			continue
		}
		metadata, err := manager.blockMetadataStore.BlockMetadata(manager.databaseContext, op.stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		op.unassign(blockHash, metadata)
		reordered = append(reordered, blockHash)
	}

	if hasOldState {
		for topoHeight := newState.TopTopoHeight + 1; topoHeight <= op.oldState.TopTopoHeight; topoHeight++ {
			manager.topoIndexStore.StageDelete(op.stagingArea, topoHeight)
		}
	}
	return reordered, nil
}

func (op *orderingPass) unassign(blockHash *externalapi.DomainHash, metadata *externalapi.BlockMetadata) {
	updated := metadata.Clone()
	updated.HasTopoHeight = false
	updated.TopoHeight = 0
	updated.Classification = externalapi.ClassificationUnresolved
	if !updated.Equal(metadata) {
		op.manager.blockMetadataStore.Stage(op.stagingArea, blockHash, updated)
	}
}

// classify returns the classification of the index-th assigned block:
// Sync if it is stable and the first ordered block at its height, Side if
// one of the preceding lookback positions holds a block at the same or a
// greater height, Unresolved otherwise
func (op *orderingPass) classify(index int, newState *externalapi.DAGState) (externalapi.BlockClassification, error) {
	height := op.assigned[index].header.Height

	firstAtHeight := index == 0 || op.assigned[index-1].header.Height != height
	if newState.IsStableHeight(height) && firstAtHeight {
		return externalapi.ClassificationSync, nil
	}

	topoHeight := op.topoHeightOf(index)
	for distance := uint64(1); distance <= op.manager.sideBlockLookback && distance <= topoHeight; distance++ {
		precedingHeight, err := op.heightAtTopoHeight(topoHeight - distance)
		if err != nil {
			return 0, err
		}
		if precedingHeight >= height {
			return externalapi.ClassificationSide, nil
		}
	}
	return externalapi.ClassificationUnresolved, nil
}

func (op *orderingPass) heightAtTopoHeight(topoHeight uint64) (uint64, error) {
	if topoHeight >= op.startTopoHeight {
		return op.assigned[topoHeight-op.startTopoHeight].header.Height, nil
	}

	manager := op.manager
	blockHash, err := manager.topoIndexStore.BlockAtTopoHeight(manager.databaseContext, op.stagingArea, topoHeight)
	if err != nil {
		return 0, err
	}
	header, err := manager.blockHeaderStore.BlockHeader(manager.databaseContext, op.stagingArea, blockHash)
	if err != nil {
		return 0, err
	}
	return header.Height, nil
}
