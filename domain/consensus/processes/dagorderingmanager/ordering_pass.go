package dagorderingmanager

import (
	"sort"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
)

type candidate struct {
	hash     *externalapi.DomainHash
	header   *externalapi.DomainBlockHeader
	metadata *externalapi.BlockMetadata
}

// orderingPass holds the intermediate results of one UpdateOrder call
type orderingPass struct {
	manager     *dagOrderingManager
	stagingArea *model.StagingArea
	oldState    *externalapi.DAGState

	startTopoHeight uint64
	assigned        []*candidate
	assignedSet     hashset.HashSet
	unordered       []*candidate
}

func newOrderingPass(manager *dagOrderingManager, stagingArea *model.StagingArea,
	oldState *externalapi.DAGState) *orderingPass {

	startTopoHeight := uint64(0)
	if oldState.HasStableTopoHeight {
		startTopoHeight = oldState.StableTopoHeight + 1
	}
	return &orderingPass{
		manager:         manager,
		stagingArea:     stagingArea,
		oldState:        oldState,
		startTopoHeight: startTopoHeight,
		assignedSet:     hashset.New(),
	}
}

// assign sorts the candidates by ascending height, then descending
// cumulative difficulty, then ascending hash, and gives each one the next
// free topological height. A candidate with a parent that is not ordered
// is left out.
func (op *orderingPass) assign(candidateHashes []*externalapi.DomainHash) error {
	candidates := make([]*candidate, len(candidateHashes))
	for i, candidateHash := range candidateHashes {
		header, err := op.manager.blockHeaderStore.BlockHeader(op.manager.databaseContext, op.stagingArea, candidateHash)
		if err != nil {
			return err
		}
		metadata, err := op.manager.blockMetadataStore.BlockMetadata(op.manager.databaseContext, op.stagingArea, candidateHash)
		if err != nil {
			return err
		}
		candidates[i] = &candidate{hash: candidateHash, header: header, metadata: metadata}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].header.Height != candidates[j].header.Height {
			return candidates[i].header.Height < candidates[j].header.Height
		}
		if candidates[i].metadata.CumulativeDifficulty != candidates[j].metadata.CumulativeDifficulty {
			return candidates[i].metadata.CumulativeDifficulty > candidates[j].metadata.CumulativeDifficulty
		}
		return candidates[i].hash.Less(candidates[j].hash)
	})

	for _, c := range candidates {
		parentsOrdered, err := op.parentsOrdered(c.header)
		if err != nil {
			return err
		}
		if !parentsOrdered {
			op.unordered = append(op.unordered, c)
			continue
		}
		op.assigned = append(op.assigned, c)
		op.assignedSet.Add(c.hash)
	}
	return nil
}

// parentsOrdered returns whether every parent is either assigned earlier in
// this pass or holds a frozen topological height
func (op *orderingPass) parentsOrdered(header *externalapi.DomainBlockHeader) (bool, error) {
	for _, parentHash := range header.ParentHashes {
		if op.assignedSet.Contains(parentHash) {
			continue
		}
		parentHeader, err := op.manager.blockHeaderStore.BlockHeader(op.manager.databaseContext, op.stagingArea, parentHash)
		if err != nil {
			return false, err
		}
		if !op.oldState.IsStableHeight(parentHeader.Height) {
			return false, nil
		}
		parentMetadata, err := op.manager.blockMetadataStore.BlockMetadata(op.manager.databaseContext, op.stagingArea, parentHash)
		if err != nil {
			return false, err
		}
		if !parentMetadata.HasTopoHeight {
			return false, nil
		}
	}
	return true, nil
}

// previouslyOrdered returns the blocks that held the mutable topological
// heights before this pass, indexed by their old position
func (op *orderingPass) previouslyOrdered() ([]*externalapi.DomainHash, error) {
	if op.oldState.TopTopoHeight+1 < op.startTopoHeight {
		return nil, nil
	}
	previous := make([]*externalapi.DomainHash, 0, op.oldState.TopTopoHeight+1-op.startTopoHeight)
	for topoHeight := op.startTopoHeight; topoHeight <= op.oldState.TopTopoHeight; topoHeight++ {
		blockHash, err := op.manager.topoIndexStore.BlockAtTopoHeight(op.manager.databaseContext, op.stagingArea, topoHeight)
		if err != nil {
			return nil, err
		}
		previous = append(previous, blockHash)
	}
	return previous, nil
}

// completeState fills the topological fields of newState
func (op *orderingPass) completeState(newState *externalapi.DAGState) {
	if len(op.assigned) > 0 {
		newState.TopTopoHeight = op.startTopoHeight + uint64(len(op.assigned)) - 1
	} else {
		newState.TopTopoHeight = op.oldState.StableTopoHeight
	}

	newState.HasStableTopoHeight = op.oldState.HasStableTopoHeight
	newState.StableTopoHeight = op.oldState.StableTopoHeight
	for i, c := range op.assigned {
		if newState.IsStableHeight(c.header.Height) {
			newState.HasStableTopoHeight = true
			newState.StableTopoHeight = op.startTopoHeight + uint64(i)
		}
	}
}

func (op *orderingPass) topoHeightOf(index int) uint64 {
	return op.startTopoHeight + uint64(index)
}
