package mempool

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type idToTransaction map[externalapi.DomainTransactionID]*mempoolTransaction

type mempoolTransaction struct {
	transaction   *externalapi.DomainTransaction
	transactionID *externalapi.DomainTransactionID
	// sequence breaks fee ties in arrival order
	sequence uint64
}

// isHigherPriorityThan orders transactions by fee, then by arrival
func (mt *mempoolTransaction) isHigherPriorityThan(other *mempoolTransaction) bool {
	if mt.transaction.Fee != other.transaction.Fee {
		return mt.transaction.Fee > other.transaction.Fee
	}
	return mt.sequence < other.sequence
}
