package rewardstore

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/lrucache"
)

var balancesBucketName = []byte("balances")
var blockRewardsBucketName = []byte("block-rewards")
var emittedSupplyKeyName = []byte("emitted-supply")
var lastSettledKeyName = []byte("last-settled-topo-height")

const shardID model.StagingShardID = "RewardStore"

// rewardStore holds the outcome of reward settlement
type rewardStore struct {
	balanceCache       *lrucache.KeyedLRUCache[string]
	balancesBucket     model.DBBucket
	blockRewardsBucket model.DBBucket
	emittedSupplyKey   model.DBKey
	lastSettledKey     model.DBKey
}

// New instantiates a new RewardStore
func New(cacheSize int) (model.RewardStore, error) {
	balanceCache, err := lrucache.NewKeyed[string](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create balance cache")
	}
	return &rewardStore{
		balanceCache:       balanceCache,
		balancesBucket:     database.MakeBucket(balancesBucketName),
		blockRewardsBucket: database.MakeBucket(blockRewardsBucketName),
		emittedSupplyKey:   database.MakeBucket().Key(emittedSupplyKeyName),
		lastSettledKey:     database.MakeBucket().Key(lastSettledKeyName),
	}, nil
}

func (rs *rewardStore) StageBalance(stagingArea *model.StagingArea, address string, balance uint64) {
	rs.stagingShard(stagingArea).balances[address] = balance
}

// Balance returns the balance of address. Unknown addresses hold zero.
func (rs *rewardStore) Balance(dbContext model.DBReader, stagingArea *model.StagingArea, address string) (uint64, error) {
	if balance, ok := rs.stagingShard(stagingArea).balances[address]; ok {
		return balance, nil
	}

	if balance, ok := rs.balanceCache.Get(address); ok {
		return balance.(uint64), nil
	}

	balance, err := rs.readUint64(dbContext, rs.addressAsKey(address))
	if err != nil {
		return 0, err
	}
	rs.balanceCache.Add(address, balance)
	return balance, nil
}

func (rs *rewardStore) StageBlockReward(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, reward uint64) {
	rs.stagingShard(stagingArea).blockRewards[*blockHash] = reward
}

// BlockReward returns the amount credited to the miner of blockHash. Blocks
// that were never settled, or were orphaned, yield zero.
func (rs *rewardStore) BlockReward(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (uint64, error) {

	if reward, ok := rs.stagingShard(stagingArea).blockRewards[*blockHash]; ok {
		return reward, nil
	}
	return rs.readUint64(dbContext, rs.blockRewardsBucket.Key(blockHash.ByteSlice()))
}

func (rs *rewardStore) StageEmittedSupply(stagingArea *model.StagingArea, supply uint64) {
	rs.stagingShard(stagingArea).emittedSupply = &supply
}

func (rs *rewardStore) EmittedSupply(dbContext model.DBReader, stagingArea *model.StagingArea) (uint64, error) {
	if supply := rs.stagingShard(stagingArea).emittedSupply; supply != nil {
		return *supply, nil
	}
	return rs.readUint64(dbContext, rs.emittedSupplyKey)
}

func (rs *rewardStore) StageLastSettledTopoHeight(stagingArea *model.StagingArea, topoHeight uint64) {
	rs.stagingShard(stagingArea).lastSettledTopoHeight = &topoHeight
}

// LastSettledTopoHeight returns the highest topological height whose block
// was settled. found is false before the first settlement.
func (rs *rewardStore) LastSettledTopoHeight(dbContext model.DBReader, stagingArea *model.StagingArea) (
	topoHeight uint64, found bool, err error) {

	if lastSettled := rs.stagingShard(stagingArea).lastSettledTopoHeight; lastSettled != nil {
		return *lastSettled, true, nil
	}

	valueBytes, err := dbContext.Get(rs.lastSettledKey)
	if database.IsNotFoundError(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	topoHeight, err = serialization.DeserializeUint64(valueBytes)
	if err != nil {
		return 0, false, err
	}
	return topoHeight, true, nil
}

func (rs *rewardStore) IsStaged(stagingArea *model.StagingArea) bool {
	return rs.stagingShard(stagingArea).isStaged()
}

func (rs *rewardStore) readUint64(dbContext model.DBReader, key model.DBKey) (uint64, error) {
	valueBytes, err := dbContext.Get(key)
	if database.IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return serialization.DeserializeUint64(valueBytes)
}

func (rs *rewardStore) addressAsKey(address string) model.DBKey {
	return rs.balancesBucket.Key([]byte(address))
}
