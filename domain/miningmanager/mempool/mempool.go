package mempool

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	miningmanagermodel "github.com/weightdag/dagd/domain/miningmanager/model"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

type mempool struct {
	mtx sync.RWMutex

	config           *Config
	metrics          *metrics.Metrics
	transactionsPool *transactionsPool
}

// New constructs a new mempool. metrics may be nil.
func New(config *Config, mempoolMetrics *metrics.Metrics) miningmanagermodel.Mempool {
	mp := &mempool{
		config:  config,
		metrics: mempoolMetrics,
	}
	mp.transactionsPool = newTransactionsPool(mp)
	return mp
}

// AddTransaction validates the given transaction and adds it to the set of
// transactions that have not yet been mined
func (mp *mempool) AddTransaction(transaction *externalapi.DomainTransaction) error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	err := mp.validateAndInsertTransaction(transaction)
	if err != nil {
		return err
	}
	mp.updateMetrics()
	return nil
}

// BlockCandidateTransactions returns the highest priority transactions, at
// most MaximumTransactionsPerBlock of them. A transaction that would push
// the total fee over MaximumBlockFees is left for a later block.
func (mp *mempool) BlockCandidateTransactions() []*externalapi.DomainTransaction {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	byPriority := mp.transactionsPool.transactionsByPriority()
	candidates := make([]*externalapi.DomainTransaction, 0, len(byPriority))
	totalFees := uint64(0)
	for _, mempoolTransaction := range byPriority {
		if len(candidates) == mp.config.MaximumTransactionsPerBlock {
			break
		}
		newTotal, carry := bits.Add64(totalFees, mempoolTransaction.transaction.Fee, 0)
		if carry != 0 || newTotal > mp.config.MaximumBlockFees {
			continue
		}
		totalFees = newTotal
		candidates = append(candidates, mempoolTransaction.transaction.Clone())
	}
	return candidates
}

// RemoveTransactions removes transactions that were included in a block.
// Unknown transactions are ignored.
func (mp *mempool) RemoveTransactions(transactions []*externalapi.DomainTransaction) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	removed := 0
	for _, transaction := range transactions {
		if mp.transactionsPool.removeTransaction(consensushashing.TransactionID(transaction)) {
			removed++
		}
	}
	if removed > 0 {
		log.Debugf("Removed %d mined transactions from the mempool", removed)
	}
	mp.updateMetrics()
}

// ReturnTransactions makes the transactions of orphaned blocks eligible for
// mining again. Transactions the mempool rejects are dropped.
func (mp *mempool) ReturnTransactions(transactions []*externalapi.DomainTransaction) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	for _, transaction := range transactions {
		err := mp.validateAndInsertTransaction(transaction)
		if err != nil {
			log.Debugf("Dropping returned transaction %s: %s",
				consensushashing.TransactionID(transaction), err)
		}
	}
	mp.updateMetrics()
}

func (mp *mempool) GetTransaction(transactionID *externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool) {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	return mp.transactionsPool.getTransaction(transactionID)
}

func (mp *mempool) AllTransactions() []*externalapi.DomainTransaction {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	byPriority := mp.transactionsPool.transactionsByPriority()
	transactions := make([]*externalapi.DomainTransaction, len(byPriority))
	for i, mempoolTransaction := range byPriority {
		transactions[i] = mempoolTransaction.transaction.Clone()
	}
	return transactions
}

func (mp *mempool) TransactionCount() int {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	return mp.transactionsPool.transactionCount()
}

// this function MUST be called with the mempool mutex locked for writes
func (mp *mempool) validateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	err := mp.validateTransactionInIsolation(transaction)
	if err != nil {
		return err
	}

	transactionID := consensushashing.TransactionID(transaction)
	if _, ok := mp.transactionsPool.allTransactions[*transactionID]; ok {
		return txRuleError(RejectDuplicate,
			fmt.Sprintf("transaction %s is already in the mempool", transactionID))
	}

	if mp.transactionsPool.transactionCount() >= mp.config.MaximumTransactionCount {
		lowest := mp.transactionsPool.lowestPriorityTransaction()
		if lowest != nil && transaction.Fee <= lowest.transaction.Fee {
			return txRuleError(RejectInsufficientFee,
				fmt.Sprintf("the mempool is full and transaction %s pays a fee of %d, "+
					"not more than the lowest fee %d", transactionID, transaction.Fee, lowest.transaction.Fee))
		}
	}

	mp.transactionsPool.addTransaction(transaction)
	mp.transactionsPool.limitTransactionCount()

	log.Debugf("Accepted transaction %s (pool size: %d)", transactionID, mp.transactionsPool.transactionCount())
	return nil
}

func (mp *mempool) validateTransactionInIsolation(transaction *externalapi.DomainTransaction) error {
	if transaction == nil {
		return txRuleError(RejectMalformed, "transaction is nil")
	}
	if transaction.Sender == "" {
		return txRuleError(RejectMalformed, "transaction has no sender")
	}
	if len(transaction.Payload) > mp.config.MaximumPayloadSize {
		return txRuleError(RejectMalformed, fmt.Sprintf("transaction payload of %d bytes is larger "+
			"than the maximum of %d", len(transaction.Payload), mp.config.MaximumPayloadSize))
	}
	if transaction.Fee < mp.config.MinimumTransactionFee {
		return txRuleError(RejectInsufficientFee, fmt.Sprintf("transaction fee %d is below the "+
			"minimum of %d", transaction.Fee, mp.config.MinimumTransactionFee))
	}
	return nil
}

// this function MUST be called with the mempool mutex locked
func (mp *mempool) updateMetrics() {
	if mp.metrics != nil {
		mp.metrics.SetMempoolSize(mp.transactionsPool.transactionCount())
	}
}
