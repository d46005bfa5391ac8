package mempool

import (
	"sort"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
)

type transactionsPool struct {
	mempool         *mempool
	allTransactions idToTransaction
	nextSequence    uint64
}

func newTransactionsPool(mp *mempool) *transactionsPool {
	return &transactionsPool{
		mempool:         mp,
		allTransactions: idToTransaction{},
		nextSequence:    0,
	}
}

// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) addTransaction(transaction *externalapi.DomainTransaction) *mempoolTransaction {
	mempoolTransaction := &mempoolTransaction{
		transaction:   transaction.Clone(),
		transactionID: consensushashing.TransactionID(transaction),
		sequence:      tp.nextSequence,
	}
	tp.nextSequence++
	tp.allTransactions[*mempoolTransaction.transactionID] = mempoolTransaction
	return mempoolTransaction
}

// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) removeTransaction(transactionID *externalapi.DomainTransactionID) bool {
	if _, ok := tp.allTransactions[*transactionID]; !ok {
		return false
	}
	delete(tp.allTransactions, *transactionID)
	return true
}

// this function MUST be called with the mempool mutex locked for reads
func (tp *transactionsPool) lowestPriorityTransaction() *mempoolTransaction {
	var lowest *mempoolTransaction
	for _, mempoolTransaction := range tp.allTransactions {
		if lowest == nil || lowest.isHigherPriorityThan(mempoolTransaction) {
			lowest = mempoolTransaction
		}
	}
	return lowest
}

// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) limitTransactionCount() {
	for len(tp.allTransactions) > tp.mempool.config.MaximumTransactionCount {
		transactionToRemove := tp.lowestPriorityTransaction()
		log.Debugf("Evicting transaction %s with fee %d from the full mempool",
			transactionToRemove.transactionID, transactionToRemove.transaction.Fee)
		tp.removeTransaction(transactionToRemove.transactionID)
	}
}

// this function MUST be called with the mempool mutex locked for reads
func (tp *transactionsPool) transactionsByPriority() []*mempoolTransaction {
	transactions := make([]*mempoolTransaction, 0, len(tp.allTransactions))
	for _, mempoolTransaction := range tp.allTransactions {
		transactions = append(transactions, mempoolTransaction)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].isHigherPriorityThan(transactions[j])
	})
	return transactions
}

func (tp *transactionsPool) getTransaction(transactionID *externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool) {
	if mempoolTransaction, ok := tp.allTransactions[*transactionID]; ok {
		return mempoolTransaction.transaction.Clone(), true
	}
	return nil, false
}

func (tp *transactionsPool) transactionCount() int {
	return len(tp.allTransactions)
}
