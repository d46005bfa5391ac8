package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// BlockTransactionsStore represents a store of the transactions carried by
// each block
type BlockTransactionsStore interface {
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, transactions []*externalapi.DomainTransaction)
	IsStaged(stagingArea *StagingArea) bool
	BlockTransactions(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainTransaction, error)
}
