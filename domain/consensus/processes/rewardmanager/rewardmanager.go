package rewardmanager

import (
	"math/bits"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// rewardManager credits miners and the developer address for blocks that
// became stable, and orphans the blocks that became stable unordered
type rewardManager struct {
	databaseContext model.DBReader

	blockHeaderStore       model.BlockHeaderStore
	blockMetadataStore     model.BlockMetadataStore
	blockTransactionsStore model.BlockTransactionsStore
	topoIndexStore         model.TopoIndexStore
	heightIndexStore       model.HeightIndexStore
	rewardStore            model.RewardStore

	maxSupply              uint64
	emissionSpeedFactor    uint64
	sideBlockRewardPercent uint64
	devFeePercent          uint64
	devAddress             string
}

// New instantiates a new RewardManager
func New(
	databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	blockMetadataStore model.BlockMetadataStore,
	blockTransactionsStore model.BlockTransactionsStore,
	topoIndexStore model.TopoIndexStore,
	heightIndexStore model.HeightIndexStore,
	rewardStore model.RewardStore,
	maxSupply uint64,
	emissionSpeedFactor uint64,
	sideBlockRewardPercent uint64,
	devFeePercent uint64,
	devAddress string) model.RewardManager {

	return &rewardManager{
		databaseContext:        databaseContext,
		blockHeaderStore:       blockHeaderStore,
		blockMetadataStore:     blockMetadataStore,
		blockTransactionsStore: blockTransactionsStore,
		topoIndexStore:         topoIndexStore,
		heightIndexStore:       heightIndexStore,
		rewardStore:            rewardStore,
		maxSupply:              maxSupply,
		emissionSpeedFactor:    emissionSpeedFactor,
		sideBlockRewardPercent: sideBlockRewardPercent,
		devFeePercent:          devFeePercent,
		devAddress:             devAddress,
	}
}

// BaseReward returns the emission of the next rewarded block given the
// supply emitted so far
func (rm *rewardManager) BaseReward(emittedSupply uint64) uint64 {
	if emittedSupply >= rm.maxSupply {
		return 0
	}
	return (rm.maxSupply - emittedSupply) >> rm.emissionSpeedFactor
}

// SettleRewardsUpTo settles every ordered block from the settlement cursor
// up to stableTopoHeight, in topological order. Blocks already marked
// Stabilized are skipped, so settling the same range twice credits nothing.
func (rm *rewardManager) SettleRewardsUpTo(stagingArea *model.StagingArea,
	stableTopoHeight uint64) ([]*externalapi.DomainHash, error) {

	lastSettled, found, err := rm.rewardStore.LastSettledTopoHeight(rm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	startTopoHeight := uint64(0)
	if found {
		if lastSettled >= stableTopoHeight {
			return nil, nil
		}
		startTopoHeight = lastSettled + 1
	}

	supply, err := rm.rewardStore.EmittedSupply(rm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	settled := make([]*externalapi.DomainHash, 0, stableTopoHeight+1-startTopoHeight)
	for topoHeight := startTopoHeight; topoHeight <= stableTopoHeight; topoHeight++ {
		blockHash, err := rm.topoIndexStore.BlockAtTopoHeight(rm.databaseContext, stagingArea, topoHeight)
		if err != nil {
			return nil, err
		}
		metadata, err := rm.blockMetadataStore.BlockMetadata(rm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		if metadata.Stabilized {
			continue
		}

		paidBase, err := rm.settleBlock(stagingArea, blockHash, metadata, supply)
		if err != nil {
			return nil, err
		}
		supply += paidBase
		settled = append(settled, blockHash)
	}

	rm.rewardStore.StageEmittedSupply(stagingArea, supply)
	rm.rewardStore.StageLastSettledTopoHeight(stagingArea, stableTopoHeight)

	log.Debugf("Settled %d blocks up to topo height %d, emitted supply is now %d",
		len(settled), stableTopoHeight, supply)
	return settled, nil
}

// settleBlock credits a single stable block and returns the part of the
// base emission it paid out
func (rm *rewardManager) settleBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	metadata *externalapi.BlockMetadata, supply uint64) (uint64, error) {

	var paidBase uint64
	switch metadata.Classification {
	case externalapi.ClassificationSync:
		paidBase = rm.BaseReward(supply)
	case externalapi.ClassificationSide:
		paidBase = rm.BaseReward(supply) * rm.sideBlockRewardPercent / 100
	default:
		return 0, errors.Errorf("cannot settle block %s classified as %s", blockHash, metadata.Classification)
	}

	header, err := rm.blockHeaderStore.BlockHeader(rm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, err
	}
	transactions, err := rm.blockTransactionsStore.BlockTransactions(rm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, err
	}
	devFee := paidBase * rm.devFeePercent / 100
	minerReward := paidBase - devFee
	for _, transaction := range transactions {
		minerReward, err = addAmounts(minerReward, transaction.Fee)
		if err != nil {
			return 0, errors.Wrapf(err, "fees of block %s", blockHash)
		}
	}

	err = rm.credit(stagingArea, header.MinerAddress, minerReward)
	if err != nil {
		return 0, err
	}
	err = rm.credit(stagingArea, rm.devAddress, devFee)
	if err != nil {
		return 0, err
	}
	rm.rewardStore.StageBlockReward(stagingArea, blockHash, minerReward)

	stabilized := metadata.Clone()
	stabilized.Stabilized = true
	rm.blockMetadataStore.Stage(stagingArea, blockHash, stabilized)

	log.Tracef("Block %s (%s) paid %d to %s and %d to the developer address",
		blockHash, metadata.Classification, minerReward, header.MinerAddress, devFee)
	return paidBase, nil
}

func (rm *rewardManager) credit(stagingArea *model.StagingArea, address string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := rm.rewardStore.Balance(rm.databaseContext, stagingArea, address)
	if err != nil {
		return err
	}
	newBalance, err := addAmounts(balance, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", address)
	}
	rm.rewardStore.StageBalance(stagingArea, address, newBalance)
	return nil
}

func addAmounts(a uint64, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errors.Errorf("%d + %d overflows", a, b)
	}
	return sum, nil
}

// SettleOrphansUpTo marks every unordered block between fromHeight and
// toHeight (inclusive) as Orphaned and returns the transactions they carried
func (rm *rewardManager) SettleOrphansUpTo(stagingArea *model.StagingArea, fromHeight uint64, toHeight uint64) (
	orphans []*externalapi.DomainHash, returnedTransactions []*externalapi.DomainTransaction, err error) {

	for height := fromHeight; height <= toHeight; height++ {
		blockHashes, err := rm.heightIndexStore.BlocksAtHeight(rm.databaseContext, stagingArea, height)
		if err != nil {
			return nil, nil, err
		}
		for _, blockHash := range blockHashes {
			metadata, err := rm.blockMetadataStore.BlockMetadata(rm.databaseContext, stagingArea, blockHash)
			if err != nil {
				return nil, nil, err
			}
			if metadata.HasTopoHeight || metadata.Stabilized {
				continue
			}

			orphaned := metadata.Clone()
			orphaned.Classification = externalapi.ClassificationOrphaned
			orphaned.Stabilized = true
			rm.blockMetadataStore.Stage(stagingArea, blockHash, orphaned)

			transactions, err := rm.blockTransactionsStore.BlockTransactions(rm.databaseContext, stagingArea, blockHash)
			if err != nil {
				return nil, nil, err
			}
			orphans = append(orphans, blockHash)
			returnedTransactions = append(returnedTransactions, transactions...)
		}
	}

	if len(orphans) > 0 {
		log.Debugf("Orphaned %d blocks between heights %d and %d", len(orphans), fromHeight, toHeight)
	}
	return orphans, returnedTransactions, nil
}
