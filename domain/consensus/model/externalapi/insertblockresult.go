package externalapi

// BlockInsertionResult is auxiliary data returned from ValidateAndInsertBlock
type BlockInsertionResult struct {
	Hash     *DomainHash
	Metadata *BlockMetadata

	// ReorderedBlocks are previously inserted blocks whose topological
	// height changed during this insertion.
	ReorderedBlocks []*DomainHash

	// NewlyStableBlocks are the blocks settled by this insertion, ordered
	// ones first in topological order, then the orphaned ones.
	NewlyStableBlocks []*DomainHash

	// OrphanedTransactions were carried by blocks that became Orphaned in
	// this insertion and should be made eligible again.
	OrphanedTransactions []*DomainTransaction
}

// BlockAcceptedNotification is published after every successful insertion.
type BlockAcceptedNotification struct {
	Hash           *DomainHash
	HasTopoHeight  bool
	TopoHeight     uint64
	Classification BlockClassification
}
