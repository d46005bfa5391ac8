package blockprocessor

import (
	"time"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// blockProcessor is responsible for processing incoming blocks
// and creating blocks from the current state
type blockProcessor struct {
	genesisHash     *externalapi.DomainHash
	databaseContext model.DBManager
	timeSource      func() time.Time

	blockValidator     model.BlockValidator
	dagOrderingManager model.DAGOrderingManager
	rewardManager      model.RewardManager
	tipSelector        model.TipSelector
	difficultyManager  model.DifficultyManager

	blockHeaderStore       model.BlockHeaderStore
	blockTransactionsStore model.BlockTransactionsStore
	blockMetadataStore     model.BlockMetadataStore
	tipsStore              model.TipsStore
	heightIndexStore       model.HeightIndexStore
	dagStateStore          model.DAGStateStore
}

// New instantiates a new BlockProcessor
func New(
	genesisHash *externalapi.DomainHash,
	databaseContext model.DBManager,
	timeSource func() time.Time,
	blockValidator model.BlockValidator,
	dagOrderingManager model.DAGOrderingManager,
	rewardManager model.RewardManager,
	tipSelector model.TipSelector,
	difficultyManager model.DifficultyManager,
	blockHeaderStore model.BlockHeaderStore,
	blockTransactionsStore model.BlockTransactionsStore,
	blockMetadataStore model.BlockMetadataStore,
	tipsStore model.TipsStore,
	heightIndexStore model.HeightIndexStore,
	dagStateStore model.DAGStateStore) model.BlockProcessor {

	return &blockProcessor{
		genesisHash:     genesisHash,
		databaseContext: databaseContext,
		timeSource:      timeSource,

		blockValidator:     blockValidator,
		dagOrderingManager: dagOrderingManager,
		rewardManager:      rewardManager,
		tipSelector:        tipSelector,
		difficultyManager:  difficultyManager,

		blockHeaderStore:       blockHeaderStore,
		blockTransactionsStore: blockTransactionsStore,
		blockMetadataStore:     blockMetadataStore,
		tipsStore:              tipsStore,
		heightIndexStore:       heightIndexStore,
		dagStateStore:          dagStateStore,
	}
}
