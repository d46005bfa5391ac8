package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// RewardStore holds address balances, per-block rewards, the emitted
// supply and the settlement cursor
type RewardStore interface {
	StageBalance(stagingArea *StagingArea, address string, balance uint64)
	Balance(dbContext DBReader, stagingArea *StagingArea, address string) (uint64, error)

	StageBlockReward(stagingArea *StagingArea, blockHash *externalapi.DomainHash, reward uint64)
	BlockReward(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (uint64, error)

	StageEmittedSupply(stagingArea *StagingArea, supply uint64)
	EmittedSupply(dbContext DBReader, stagingArea *StagingArea) (uint64, error)

	StageLastSettledTopoHeight(stagingArea *StagingArea, topoHeight uint64)
	LastSettledTopoHeight(dbContext DBReader, stagingArea *StagingArea) (topoHeight uint64, found bool, err error)

	IsStaged(stagingArea *StagingArea) bool
}
