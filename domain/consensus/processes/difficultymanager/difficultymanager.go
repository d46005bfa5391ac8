package difficultymanager

import (
	"math"
	"math/big"
	"time"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// maxIntervalFactor bounds a single solve time to this many target times
const maxIntervalFactor = 6

// difficultyManager computes the difficulty of the next block with a
// linearly weighted moving average over the recent solve times of the
// selected parent chain
type difficultyManager struct {
	databaseContext     model.DBReader
	blockHeaderStore    model.BlockHeaderStore
	dagTraversalManager model.DAGTraversalManager

	targetTimePerBlock   time.Duration
	minimumDifficulty    uint64
	genesisDifficulty    uint64
	difficultyWindowSize int
	clampPercent         uint64
}

// New instantiates a new difficultyManager
func New(databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	dagTraversalManager model.DAGTraversalManager,
	targetTimePerBlock time.Duration,
	minimumDifficulty uint64,
	genesisDifficulty uint64,
	difficultyWindowSize int,
	clampPercent uint64) model.DifficultyManager {

	return &difficultyManager{
		databaseContext:      databaseContext,
		blockHeaderStore:     blockHeaderStore,
		dagTraversalManager:  dagTraversalManager,
		targetTimePerBlock:   targetTimePerBlock,
		minimumDifficulty:    minimumDifficulty,
		genesisDifficulty:    genesisDifficulty,
		difficultyWindowSize: difficultyWindowSize,
		clampPercent:         clampPercent,
	}
}

// RequiredDifficulty returns the difficulty that follows the given window,
// ordered oldest first
func (dm *difficultyManager) RequiredDifficulty(window []model.DifficultyWindowEntry) uint64 {
	if len(window) == 0 {
		return dm.minimumDifficulty
	}
	lastDifficulty := window[len(window)-1].Difficulty
	if len(window) < 2 {
		return dm.floor(lastDifficulty)
	}

	targetTime := dm.targetTimePerBlock.Milliseconds()
	maxInterval := maxIntervalFactor * targetTime

	weightedIntervals := big.NewInt(0)
	weightSum := int64(0)
	for i := 1; i < len(window); i++ {
		interval := window[i].TimeInMilliseconds - window[i-1].TimeInMilliseconds
		if interval < 1 {
			interval = 1
		}
		if interval > maxInterval {
			interval = maxInterval
		}
		weight := int64(i)
		weightedIntervals.Add(weightedIntervals, big.NewInt(weight*interval))
		weightSum += weight
	}

	// next = last * target / (weightedIntervals / weightSum)
	last := new(big.Int).SetUint64(lastDifficulty)
	next := new(big.Int).Mul(last, big.NewInt(targetTime))
	next.Mul(next, big.NewInt(weightSum))
	next.Div(next, weightedIntervals)

	clamp := new(big.Int).SetUint64(dm.clampPercent)
	hundred := big.NewInt(100)
	lowerBound := new(big.Int).Mul(last, hundred)
	lowerBound.Div(lowerBound, clamp)
	upperBound := new(big.Int).Mul(last, clamp)
	upperBound.Div(upperBound, hundred)

	if next.Cmp(lowerBound) < 0 {
		next = lowerBound
	}
	if next.Cmp(upperBound) > 0 {
		next = upperBound
	}
	if !next.IsUint64() {
		return math.MaxUint64
	}
	return dm.floor(next.Uint64())
}

// NextRequiredDifficulty returns the difficulty required from a block with
// the given parents
func (dm *difficultyManager) NextRequiredDifficulty(stagingArea *model.StagingArea,
	parentHashes []*externalapi.DomainHash) (uint64, error) {

	if len(parentHashes) == 0 {
		return dm.genesisDifficulty, nil
	}

	selectedParent, err := dm.dagTraversalManager.HeaviestBlock(stagingArea, parentHashes)
	if err != nil {
		return 0, err
	}
	chain, err := dm.dagTraversalManager.SelectedParentChain(stagingArea, selectedParent, dm.difficultyWindowSize+1)
	if err != nil {
		return 0, err
	}
	headers, err := dm.blockHeaderStore.BlockHeaders(dm.databaseContext, stagingArea, chain)
	if err != nil {
		return 0, err
	}

	window := make([]model.DifficultyWindowEntry, len(headers))
	for i, header := range headers {
		window[i] = model.DifficultyWindowEntry{
			TimeInMilliseconds: header.TimeInMilliseconds,
			Difficulty:         header.Difficulty,
		}
	}
	return dm.RequiredDifficulty(window), nil
}

func (dm *difficultyManager) floor(difficulty uint64) uint64 {
	if difficulty < dm.minimumDifficulty {
		return dm.minimumDifficulty
	}
	return difficulty
}
