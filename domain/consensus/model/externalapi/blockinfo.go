package externalapi

// BlockInfo contains the information a query about a block returns.
type BlockInfo struct {
	Exists   bool
	Hash     *DomainHash
	Header   *DomainBlockHeader
	Metadata *BlockMetadata

	TransactionCount int
	TotalFees        uint64

	// Reward is the amount credited to the miner at settlement. It is
	// meaningful only once the block is stabilized.
	Reward uint64
}

// TipInfo is the weight summary of a block that the tip selector ranks.
type TipInfo struct {
	Hash                 *DomainHash
	Height               uint64
	CumulativeDifficulty uint64
}
