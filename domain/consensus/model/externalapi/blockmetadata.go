package externalapi

// BlockClassification is the role a block plays in the topological order.
type BlockClassification byte

const (
	// ClassificationUnresolved indicates that the block is still inside
	// the mutable window and is neither the sole candidate of its height
	// nor a near-frontier competitor.
	ClassificationUnresolved BlockClassification = iota

	// ClassificationSync indicates a stable block that is the heaviest
	// ordered block at its height.
	ClassificationSync

	// ClassificationSide indicates an ordered block that competes with a
	// heavier block at its height.
	ClassificationSide

	// ClassificationOrphaned indicates a block that became stable without
	// ever receiving a topological height.
	ClassificationOrphaned
)

var classificationStrings = map[BlockClassification]string{
	ClassificationUnresolved: "Unresolved",
	ClassificationSync:       "Sync",
	ClassificationSide:       "Side",
	ClassificationOrphaned:   "Orphaned",
}

func (bc BlockClassification) String() string {
	if str, ok := classificationStrings[bc]; ok {
		return str
	}
	return "Unknown"
}

// BlockMetadata is the mutable consensus data of a block. It is kept apart
// from the header so re-ordering never rewrites header bytes.
type BlockMetadata struct {
	CumulativeDifficulty uint64
	HasTopoHeight        bool
	TopoHeight           uint64
	Classification       BlockClassification
	Stabilized           bool
}

// Clone returns a clone of BlockMetadata
func (bm *BlockMetadata) Clone() *BlockMetadata {
	clone := *bm
	return &clone
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = BlockMetadata{0, false, 0, ClassificationUnresolved, false}

// Equal returns whether bm equals to other
func (bm *BlockMetadata) Equal(other *BlockMetadata) bool {
	if bm == nil || other == nil {
		return bm == other
	}
	return *bm == *other
}
