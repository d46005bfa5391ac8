package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// RewardManager settles the rewards of blocks that became stable
type RewardManager interface {
	BaseReward(emittedSupply uint64) uint64
	SettleRewardsUpTo(stagingArea *StagingArea, stableTopoHeight uint64) ([]*externalapi.DomainHash, error)
	SettleOrphansUpTo(stagingArea *StagingArea, fromHeight uint64, toHeight uint64) (
		orphans []*externalapi.DomainHash, returnedTransactions []*externalapi.DomainTransaction, err error)
}
