package dagorderingmanager

import (
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// dagOrderingManager recomputes the topological order of the mutable window
// after every insertion and classifies the blocks in it
type dagOrderingManager struct {
	databaseContext model.DBReader

	blockHeaderStore   model.BlockHeaderStore
	blockMetadataStore model.BlockMetadataStore
	tipsStore          model.TipsStore
	topoIndexStore     model.TopoIndexStore
	dagStateStore      model.DAGStateStore

	dagTraversalManager model.DAGTraversalManager

	stableHeightLimit uint64
	sideBlockLookback uint64
}

// New instantiates a new DAGOrderingManager
func New(
	databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	blockMetadataStore model.BlockMetadataStore,
	tipsStore model.TipsStore,
	topoIndexStore model.TopoIndexStore,
	dagStateStore model.DAGStateStore,
	dagTraversalManager model.DAGTraversalManager,
	stableHeightLimit uint64,
	sideBlockLookback uint64) model.DAGOrderingManager {

	return &dagOrderingManager{
		databaseContext:     databaseContext,
		blockHeaderStore:    blockHeaderStore,
		blockMetadataStore:  blockMetadataStore,
		tipsStore:           tipsStore,
		topoIndexStore:      topoIndexStore,
		dagStateStore:       dagStateStore,
		dagTraversalManager: dagTraversalManager,
		stableHeightLimit:   stableHeightLimit,
		sideBlockLookback:   sideBlockLookback,
	}
}

// UpdateOrder recomputes the order of every block above the previous stable
// height, classifies the blocks whose place may have changed and stages the
// new DAG state. Blocks at or below the previous stable height never move.
func (dom *dagOrderingManager) UpdateOrder(stagingArea *model.StagingArea) (*model.OrderingResult, error) {
	oldState, hasOldState, err := dom.oldState(stagingArea)
	if err != nil {
		return nil, err
	}

	tips, err := dom.tipsStore.Tips(dom.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	tipHeaders, err := dom.blockHeaderStore.BlockHeaders(dom.databaseContext, stagingArea, tips)
	if err != nil {
		return nil, err
	}
	newState := dom.frontierState(tipHeaders)

	pass, err := dom.passFromBestTip(stagingArea, oldState, mutableTips(oldState, tips, tipHeaders))
	if err != nil {
		return nil, err
	}

	var previouslyOrdered []*externalapi.DomainHash
	if hasOldState {
		previouslyOrdered, err = pass.previouslyOrdered()
		if err != nil {
			return nil, err
		}
	}

	pass.completeState(newState)

	reordered, err := pass.stage(newState, previouslyOrdered, hasOldState)
	if err != nil {
		return nil, err
	}
	dom.dagStateStore.Stage(stagingArea, newState)

	log.Debugf("Ordering pass: %d blocks in the mutable window, %d reordered, top topo height %d",
		len(pass.assigned), len(reordered), newState.TopTopoHeight)

	return &model.OrderingResult{
		ReorderedBlocks: reordered,
		OldState:        oldState,
		NewState:        newState,
	}, nil
}

// passFromBestTip runs the ordering pass from the heaviest tip that ends up
// ordered by it. A tip whose past cone runs through a stable block without a
// topological height is passed over. If no tip qualifies, the pass of the
// heaviest one is returned.
func (dom *dagOrderingManager) passFromBestTip(stagingArea *model.StagingArea, oldState *externalapi.DAGState,
	tips []*externalapi.DomainHash) (*orderingPass, error) {

	remaining := append([]*externalapi.DomainHash(nil), tips...)
	var heaviestPass *orderingPass
	for len(remaining) > 0 {
		tip, err := dom.dagTraversalManager.HeaviestBlock(stagingArea, remaining)
		if err != nil {
			return nil, err
		}
		pass, err := dom.passFrom(stagingArea, oldState, tip)
		if err != nil {
			return nil, err
		}
		if pass.assignedSet.Contains(tip) {
			return pass, nil
		}
		log.Debugf("Tip %s cannot be ordered, passing it over", tip)
		if heaviestPass == nil {
			heaviestPass = pass
		}
		remaining = removeHash(remaining, tip)
	}
	return heaviestPass, nil
}

func (dom *dagOrderingManager) passFrom(stagingArea *model.StagingArea, oldState *externalapi.DAGState,
	tip *externalapi.DomainHash) (*orderingPass, error) {

	candidates, err := dom.dagTraversalManager.PastConeAboveHeight(stagingArea, tip,
		oldState.HasStableHeight, oldState.StableHeight)
	if err != nil {
		return nil, err
	}
	pass := newOrderingPass(dom, stagingArea, oldState)
	err = pass.assign(candidates)
	if err != nil {
		return nil, err
	}
	return pass, nil
}

// IsOrderable returns whether blockHash holds or could receive a
// topological height under the current state. It is false for a block that
// became stable without one and for every block built on such a block.
func (dom *dagOrderingManager) IsOrderable(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	state, _, err := dom.oldState(stagingArea)
	if err != nil {
		return false, err
	}

	header, err := dom.blockHeaderStore.BlockHeader(dom.databaseContext, stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	if state.IsStableHeight(header.Height) {
		metadata, err := dom.blockMetadataStore.BlockMetadata(dom.databaseContext, stagingArea, blockHash)
		if err != nil {
			return false, err
		}
		return metadata.HasTopoHeight, nil
	}

	pass, err := dom.passFrom(stagingArea, state, blockHash)
	if err != nil {
		return false, err
	}
	return pass.assignedSet.Contains(blockHash), nil
}

// OrderableTips returns the given tips without the ones IsOrderable rejects
func (dom *dagOrderingManager) OrderableTips(stagingArea *model.StagingArea,
	tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	orderable := make([]*externalapi.DomainHash, 0, len(tips))
	for _, tip := range tips {
		isOrderable, err := dom.IsOrderable(stagingArea, tip)
		if err != nil {
			return nil, err
		}
		if isOrderable {
			orderable = append(orderable, tip)
		}
	}
	return orderable, nil
}

func removeHash(hashes []*externalapi.DomainHash, toRemove *externalapi.DomainHash) []*externalapi.DomainHash {
	result := hashes[:0]
	for _, blockHash := range hashes {
		if !blockHash.Equal(toRemove) {
			result = append(result, blockHash)
		}
	}
	return result
}

func (dom *dagOrderingManager) oldState(stagingArea *model.StagingArea) (*externalapi.DAGState, bool, error) {
	state, err := dom.dagStateStore.DAGState(dom.databaseContext, stagingArea)
	if database.IsNotFoundError(err) {
		return &externalapi.DAGState{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return state, true, nil
}

// frontierState returns a state holding the top height and the stable
// height implied by the given tip headers. Topological fields are filled by
// the ordering pass.
func (dom *dagOrderingManager) frontierState(tipHeaders []*externalapi.DomainBlockHeader) *externalapi.DAGState {
	state := &externalapi.DAGState{}
	for _, header := range tipHeaders {
		if header.Height > state.TopHeight {
			state.TopHeight = header.Height
		}
	}
	if state.TopHeight >= dom.stableHeightLimit {
		state.HasStableHeight = true
		state.StableHeight = state.TopHeight - dom.stableHeightLimit
	}
	return state
}

// mutableTips filters out tips that are already stable. They cannot carry
// the order since nothing above the stable height is in their past.
func mutableTips(oldState *externalapi.DAGState, tips []*externalapi.DomainHash,
	tipHeaders []*externalapi.DomainBlockHeader) []*externalapi.DomainHash {

	mutable := make([]*externalapi.DomainHash, 0, len(tips))
	for i, tip := range tips {
		if !oldState.IsStableHeight(tipHeaders[i].Height) {
			mutable = append(mutable, tip)
		}
	}
	if len(mutable) == 0 {
		return tips
	}
	return mutable
}
