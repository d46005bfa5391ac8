package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// OrderingResult describes what an ordering pass changed
type OrderingResult struct {
	// ReorderedBlocks are blocks whose topological height changed,
	// including blocks that lost it
	ReorderedBlocks []*externalapi.DomainHash

	OldState *externalapi.DAGState
	NewState *externalapi.DAGState
}

// StabilityAdvanced returns whether the stable height moved forward
func (r *OrderingResult) StabilityAdvanced() bool {
	if !r.NewState.HasStableHeight {
		return false
	}
	return !r.OldState.HasStableHeight || r.NewState.StableHeight > r.OldState.StableHeight
}

// NewlyStableHeights returns the inclusive range of heights that became
// stable in this pass. ok is false if none did.
func (r *OrderingResult) NewlyStableHeights() (from uint64, to uint64, ok bool) {
	if !r.StabilityAdvanced() {
		return 0, 0, false
	}
	if r.OldState.HasStableHeight {
		from = r.OldState.StableHeight + 1
	}
	return from, r.NewState.StableHeight, true
}
