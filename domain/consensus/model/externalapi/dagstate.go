package externalapi

// DAGState summarizes the frontier and the stability boundary of the DAG.
type DAGState struct {
	TopHeight     uint64
	TopTopoHeight uint64

	HasStableHeight bool
	StableHeight    uint64

	HasStableTopoHeight bool
	StableTopoHeight    uint64
}

// Clone returns a clone of DAGState
func (s *DAGState) Clone() *DAGState {
	clone := *s
	return &clone
}

// IsStableHeight returns whether a block at the given height is stable.
func (s *DAGState) IsStableHeight(height uint64) bool {
	return s.HasStableHeight && height <= s.StableHeight
}

// IsStableTopoHeight returns whether the given topological height is inside
// the stable prefix of the order.
func (s *DAGState) IsStableTopoHeight(topoHeight uint64) bool {
	return s.HasStableTopoHeight && topoHeight <= s.StableTopoHeight
}
