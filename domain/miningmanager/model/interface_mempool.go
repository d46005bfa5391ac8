package model

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// Mempool maintains a set of known transactions that
// are intended to be mined into new blocks
type Mempool interface {
	AddTransaction(transaction *externalapi.DomainTransaction) error
	BlockCandidateTransactions() []*externalapi.DomainTransaction
	RemoveTransactions(transactions []*externalapi.DomainTransaction)
	ReturnTransactions(transactions []*externalapi.DomainTransaction)
	GetTransaction(transactionID *externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool)
	AllTransactions() []*externalapi.DomainTransaction
	TransactionCount() int
}
