package blocktransactionsstore

import (
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var bucketName = []byte("block-transactions")

const shardID model.StagingShardID = "BlockTransactionsStore"

// blockTransactionsStore represents a store of the transactions of each block
type blockTransactionsStore struct {
	cache  *lrucache.LRUCache
	bucket model.DBBucket
}

// New instantiates a new BlockTransactionsStore
func New(cacheSize int) model.BlockTransactionsStore {
	return &blockTransactionsStore{
		cache:  lrucache.New(cacheSize),
		bucket: database.MakeBucket(bucketName),
	}
}

// Stage stages the transactions of the block with the given hash
func (bts *blockTransactionsStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	transactions []*externalapi.DomainTransaction) {

	bts.stagingShard(stagingArea).toAdd[*blockHash] = cloneTransactions(transactions)
}

func (bts *blockTransactionsStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bts.stagingShard(stagingArea).isStaged()
}

// BlockTransactions gets the transactions of the block with the given hash
func (bts *blockTransactionsStore) BlockTransactions(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainTransaction, error) {

	stagingShard := bts.stagingShard(stagingArea)

	if transactions, ok := stagingShard.toAdd[*blockHash]; ok {
		return cloneTransactions(transactions), nil
	}

	if transactions, ok := bts.cache.Get(blockHash); ok {
		return cloneTransactions(transactions.([]*externalapi.DomainTransaction)), nil
	}

	transactionsBytes, err := dbContext.Get(bts.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	transactions, err := serialization.DeserializeTransactions(transactionsBytes)
	if err != nil {
		return nil, err
	}
	bts.cache.Add(blockHash, transactions)
	return cloneTransactions(transactions), nil
}

func (bts *blockTransactionsStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bts.bucket.Key(hash.ByteSlice())
}

func cloneTransactions(transactions []*externalapi.DomainTransaction) []*externalapi.DomainTransaction {
	clone := make([]*externalapi.DomainTransaction, len(transactions))
	for i, tx := range transactions {
		clone[i] = tx.Clone()
	}
	return clone
}
