package blockvalidator

import (
	"time"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// blockValidator exposes a set of validation classes, after which
// it's possible to determine whether either a block is valid
type blockValidator struct {
	databaseContext        model.DBReader
	genesisHash            *externalapi.DomainHash
	maxBlockParents        int
	timestampInFutureLimit time.Duration
	enforceDifficulty      bool
	maxTotalFees           uint64

	blockHeaderStore   model.BlockHeaderStore
	blockMetadataStore model.BlockMetadataStore
	dagStateStore      model.DAGStateStore

	tipSelector        model.TipSelector
	difficultyManager  model.DifficultyManager
	dagOrderingManager model.DAGOrderingManager

	timeSource func() time.Time
}

// New instantiates a new BlockValidator
func New(databaseContext model.DBReader,
	genesisHash *externalapi.DomainHash,
	maxBlockParents int,
	timestampInFutureLimit time.Duration,
	enforceDifficulty bool,
	maxTotalFees uint64,
	blockHeaderStore model.BlockHeaderStore,
	blockMetadataStore model.BlockMetadataStore,
	dagStateStore model.DAGStateStore,
	tipSelector model.TipSelector,
	difficultyManager model.DifficultyManager,
	dagOrderingManager model.DAGOrderingManager,
	timeSource func() time.Time) model.BlockValidator {

	return &blockValidator{
		databaseContext:        databaseContext,
		genesisHash:            genesisHash,
		maxBlockParents:        maxBlockParents,
		timestampInFutureLimit: timestampInFutureLimit,
		enforceDifficulty:      enforceDifficulty,
		maxTotalFees:           maxTotalFees,
		blockHeaderStore:       blockHeaderStore,
		blockMetadataStore:     blockMetadataStore,
		dagStateStore:          dagStateStore,
		tipSelector:            tipSelector,
		difficultyManager:      difficultyManager,
		dagOrderingManager:     dagOrderingManager,
		timeSource:             timeSource,
	}
}
