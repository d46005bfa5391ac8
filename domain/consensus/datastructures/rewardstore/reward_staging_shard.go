package rewardstore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type rewardStagingShard struct {
	store                 *rewardStore
	balances              map[string]uint64
	blockRewards          map[externalapi.DomainHash]uint64
	emittedSupply         *uint64
	lastSettledTopoHeight *uint64
}

func (rs *rewardStore) stagingShard(stagingArea *model.StagingArea) *rewardStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &rewardStagingShard{
			store:        rs,
			balances:     make(map[string]uint64),
			blockRewards: make(map[externalapi.DomainHash]uint64),
		}
	}).(*rewardStagingShard)
}

func (rss *rewardStagingShard) Commit(dbTx model.DBTransaction) error {
	for address, balance := range rss.balances {
		err := dbTx.Put(rss.store.addressAsKey(address), serialization.SerializeUint64(balance))
		if err != nil {
			return err
		}
		rss.store.balanceCache.Remove(address)
	}

	for hash, reward := range rss.blockRewards {
		err := dbTx.Put(rss.store.blockRewardsBucket.Key(hash.ByteSlice()), serialization.SerializeUint64(reward))
		if err != nil {
			return err
		}
	}

	if rss.emittedSupply != nil {
		err := dbTx.Put(rss.store.emittedSupplyKey, serialization.SerializeUint64(*rss.emittedSupply))
		if err != nil {
			return err
		}
	}

	if rss.lastSettledTopoHeight != nil {
		err := dbTx.Put(rss.store.lastSettledKey, serialization.SerializeUint64(*rss.lastSettledTopoHeight))
		if err != nil {
			return err
		}
	}
	return nil
}

func (rss *rewardStagingShard) isStaged() bool {
	return len(rss.balances) != 0 || len(rss.blockRewards) != 0 ||
		rss.emittedSupply != nil || rss.lastSettledTopoHeight != nil
}
