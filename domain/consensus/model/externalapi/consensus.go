package externalapi

// Consensus maintains the current core state of the node
type Consensus interface {
	ValidateAndInsertBlock(block *DomainBlock) (*BlockInsertionResult, error)
	BuildBlockTemplate(minerAddress string, transactions []*DomainTransaction) (*DomainBlock, error)

	GetBlock(blockHash *DomainHash) (*DomainBlock, error)
	GetBlockHeader(blockHash *DomainHash) (*DomainBlockHeader, error)
	GetBlockInfo(blockHash *DomainHash) (*BlockInfo, error)
	GetBlockHashByTopoHeight(topoHeight uint64) (*DomainHash, error)
	GetBlockHashesAtHeight(height uint64) ([]*DomainHash, error)
	GetDAGOrder(startTopoHeight uint64, count uint64) ([]*DomainHash, error)
	GetTips() ([]*DomainHash, error)
	GetMiningTips() ([]*DomainHash, error)
	GetDAGState() (*DAGState, error)
	GetNextDifficulty() (uint64, error)

	GetBalance(address string) (uint64, error)
	GetEmittedSupply() (uint64, error)
}
