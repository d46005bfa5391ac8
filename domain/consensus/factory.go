package consensus

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	consensusdatabase "github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/datastructures/blockheaderstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/blockmetadatastore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/blocktransactionsstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/dagstatestore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/heightindexstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/rewardstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/tipsstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/topoindexstore"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/notifications"
	"github.com/weightdag/dagd/domain/consensus/processes/blockprocessor"
	"github.com/weightdag/dagd/domain/consensus/processes/blockvalidator"
	"github.com/weightdag/dagd/domain/consensus/processes/dagorderingmanager"
	"github.com/weightdag/dagd/domain/consensus/processes/dagtraversalmanager"
	"github.com/weightdag/dagd/domain/consensus/processes/difficultymanager"
	"github.com/weightdag/dagd/domain/consensus/processes/rewardmanager"
	"github.com/weightdag/dagd/domain/consensus/processes/tipselector"
	"github.com/weightdag/dagd/domain/dagconfig"
	"github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/metrics"
	"github.com/weightdag/dagd/util/mstime"
)

const (
	defaultBlockCacheSize  = 200
	defaultIndexCacheSize  = 1000
	defaultRewardCacheSize = 1000
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(dagParams *dagconfig.Params, db database.Database, consensusMetrics *metrics.Metrics) (Consensus, error)

	// SetTimeSource replaces the clock the consensus checks timestamps
	// against. Meant for tests.
	SetTimeSource(timeSource func() time.Time)
}

type factory struct {
	timeSource func() time.Time
}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{timeSource: mstime.Now}
}

func (f *factory) SetTimeSource(timeSource func() time.Time) {
	f.timeSource = timeSource
}

// NewConsensus instantiates a new Consensus over db and inserts the genesis
// block of dagParams if the database is empty. consensusMetrics may be nil.
func (f *factory) NewConsensus(dagParams *dagconfig.Params, db database.Database,
	consensusMetrics *metrics.Metrics) (Consensus, error) {

	err := dagParams.Validate()
	if err != nil {
		return nil, err
	}
	dbManager := consensusdatabase.New(db)

	// Data Structures
	blockHeaderStore := blockheaderstore.New(defaultBlockCacheSize)
	blockTransactionsStore := blocktransactionsstore.New(defaultBlockCacheSize)
	blockMetadataStore := blockmetadatastore.New(defaultBlockCacheSize)
	tipsStore := tipsstore.New()
	dagStateStore := dagstatestore.New()
	topoIndexStore, err := topoindexstore.New(defaultIndexCacheSize)
	if err != nil {
		return nil, err
	}
	heightIndexStore, err := heightindexstore.New(defaultIndexCacheSize)
	if err != nil {
		return nil, err
	}
	rewardStore, err := rewardstore.New(defaultRewardCacheSize)
	if err != nil {
		return nil, err
	}

	// Processes
	dagTraversalManager := dagtraversalmanager.New(
		dbManager,
		blockHeaderStore,
		blockMetadataStore)
	difficultyManager := difficultymanager.New(
		dbManager,
		blockHeaderStore,
		dagTraversalManager,
		dagParams.TargetTimePerBlock,
		dagParams.MinimumDifficulty,
		dagParams.GenesisDifficulty,
		dagParams.DifficultyWindowSize,
		dagParams.DifficultyClampPercent)
	tipSelector := tipselector.New(
		dbManager,
		blockHeaderStore,
		blockMetadataStore,
		dagParams.MaxTipDeviationPercent,
		dagParams.MaxTipHeightDeviation,
		dagParams.MaxBlockParents)
	dagOrderingManager := dagorderingmanager.New(
		dbManager,
		blockHeaderStore,
		blockMetadataStore,
		tipsStore,
		topoIndexStore,
		dagStateStore,
		dagTraversalManager,
		dagParams.StableHeightLimit,
		dagParams.SideBlockLookback)
	rewardManager := rewardmanager.New(
		dbManager,
		blockHeaderStore,
		blockMetadataStore,
		blockTransactionsStore,
		topoIndexStore,
		heightIndexStore,
		rewardStore,
		dagParams.MaxSupply,
		dagParams.EmissionSpeedFactor,
		dagParams.SideBlockRewardPercent,
		dagParams.DevFeePercent,
		dagParams.DevAddress)
	blockValidator := blockvalidator.New(
		dbManager,
		dagParams.GenesisHash,
		dagParams.MaxBlockParents,
		dagParams.TimestampInFutureLimit,
		dagParams.EnforceDifficulty,
		dagParams.MaxSupply,
		blockHeaderStore,
		blockMetadataStore,
		dagStateStore,
		tipSelector,
		difficultyManager,
		dagOrderingManager,
		f.timeSource)
	blockProcessor := blockprocessor.New(
		dagParams.GenesisHash,
		dbManager,
		f.timeSource,
		blockValidator,
		dagOrderingManager,
		rewardManager,
		tipSelector,
		difficultyManager,
		blockHeaderStore,
		blockTransactionsStore,
		blockMetadataStore,
		tipsStore,
		heightIndexStore,
		dagStateStore)

	notifier, err := notifications.New(notifications.DefaultSubscriptionBufferSize)
	if err != nil {
		return nil, err
	}

	c := &consensus{
		lock:            &sync.RWMutex{},
		databaseContext: dbManager,

		blockProcessor:     blockProcessor,
		dagOrderingManager: dagOrderingManager,
		tipSelector:        tipSelector,
		difficultyManager:  difficultyManager,

		blockHeaderStore:       blockHeaderStore,
		blockTransactionsStore: blockTransactionsStore,
		blockMetadataStore:     blockMetadataStore,
		tipsStore:              tipsStore,
		topoIndexStore:         topoIndexStore,
		heightIndexStore:       heightIndexStore,
		dagStateStore:          dagStateStore,
		rewardStore:            rewardStore,

		notifier: notifier,
		metrics:  consensusMetrics,
	}

	err = c.initGenesisIfNeeded(dagParams)
	if err != nil {
		notifier.Close()
		return nil, err
	}
	return c, nil
}

func (s *consensus) initGenesisIfNeeded(dagParams *dagconfig.Params) error {
	isInitialized, err := s.dagStateStore.HasDAGState(s.databaseContext, model.NewStagingArea())
	if err != nil {
		return consensusdatabase.NewStorageFailure("initialization", err)
	}
	if isInitialized {
		hasGenesis, err := s.blockHeaderStore.HasBlockHeader(s.databaseContext, model.NewStagingArea(), dagParams.GenesisHash)
		if err != nil {
			return consensusdatabase.NewStorageFailure("initialization", err)
		}
		if !hasGenesis {
			return errors.Errorf("the database holds a DAG of a network other than %s", dagParams.Name)
		}
		return nil
	}

	log.Infof("Inserting the %s genesis block %s", dagParams.Name, dagParams.GenesisHash)
	_, err = s.ValidateAndInsertBlock(dagParams.GenesisBlock)
	return err
}
