package blocktransactionsstore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type blockTransactionsStagingShard struct {
	store *blockTransactionsStore
	toAdd map[externalapi.DomainHash][]*externalapi.DomainTransaction
}

func (bts *blockTransactionsStore) stagingShard(stagingArea *model.StagingArea) *blockTransactionsStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &blockTransactionsStagingShard{
			store: bts,
			toAdd: make(map[externalapi.DomainHash][]*externalapi.DomainTransaction),
		}
	}).(*blockTransactionsStagingShard)
}

func (btss *blockTransactionsStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, transactions := range btss.toAdd {
		hash := hash
		err := dbTx.Put(btss.store.hashAsKey(&hash), serialization.SerializeTransactions(transactions))
		if err != nil {
			return err
		}
		btss.store.cache.Remove(&hash)
	}
	return nil
}

func (btss *blockTransactionsStagingShard) isStaged() bool {
	return len(btss.toAdd) != 0
}
