package miningmanager

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	miningmanagermodel "github.com/weightdag/dagd/domain/miningmanager/model"
)

// MiningManager creates block templates for mining as well as maintaining
// known transactions that have not yet been added to any block
type MiningManager interface {
	GetBlockTemplate(minerAddress string) (*externalapi.DomainBlock, error)
	HandleNewBlock(block *externalapi.DomainBlock, insertionResult *externalapi.BlockInsertionResult)
	ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error
	GetTransaction(transactionID *externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool)
	AllTransactions() []*externalapi.DomainTransaction
	TransactionCount() int
}

type miningManager struct {
	mempool              miningmanagermodel.Mempool
	blockTemplateBuilder miningmanagermodel.BlockTemplateBuilder
}

// GetBlockTemplate creates a block template for a miner to consume
func (mm *miningManager) GetBlockTemplate(minerAddress string) (*externalapi.DomainBlock, error) {
	return mm.blockTemplateBuilder.GetBlockTemplate(minerAddress)
}

// HandleNewBlock removes the transactions of a newly inserted block from the
// mempool and returns the transactions of blocks it orphaned to the mempool
func (mm *miningManager) HandleNewBlock(block *externalapi.DomainBlock,
	insertionResult *externalapi.BlockInsertionResult) {

	mm.mempool.RemoveTransactions(block.Transactions)
	if insertionResult != nil && len(insertionResult.OrphanedTransactions) > 0 {
		mm.mempool.ReturnTransactions(insertionResult.OrphanedTransactions)
	}
}

// ValidateAndInsertTransaction validates the given transaction, and
// adds it to the set of known transactions that have not yet been
// added to any block
func (mm *miningManager) ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	return mm.mempool.AddTransaction(transaction)
}

func (mm *miningManager) GetTransaction(
	transactionID *externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool) {

	return mm.mempool.GetTransaction(transactionID)
}

func (mm *miningManager) AllTransactions() []*externalapi.DomainTransaction {
	return mm.mempool.AllTransactions()
}

func (mm *miningManager) TransactionCount() int {
	return mm.mempool.TransactionCount()
}
