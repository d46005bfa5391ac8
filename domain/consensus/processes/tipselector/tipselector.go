package tipselector

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
)

// tipSelector chooses the tips a block template references and checks the
// parent set of incoming blocks against the same weight rules
type tipSelector struct {
	databaseContext    model.DBReader
	blockHeaderStore   model.BlockHeaderStore
	blockMetadataStore model.BlockMetadataStore

	maxTipDeviationPercent uint64
	maxTipHeightDeviation  uint64
	maxBlockParents        int
}

// New instantiates a new TipSelector
func New(databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	blockMetadataStore model.BlockMetadataStore,
	maxTipDeviationPercent uint64,
	maxTipHeightDeviation uint64,
	maxBlockParents int) model.TipSelector {

	return &tipSelector{
		databaseContext:        databaseContext,
		blockHeaderStore:       blockHeaderStore,
		blockMetadataStore:     blockMetadataStore,
		maxTipDeviationPercent: maxTipDeviationPercent,
		maxTipHeightDeviation:  maxTipHeightDeviation,
		maxBlockParents:        maxBlockParents,
	}
}

// SelectMiningTips returns up to maxBlockParents tips, heaviest first, that
// together satisfy the deviation rules. It returns nil only for an empty
// tip set.
func (ts *tipSelector) SelectMiningTips(tips []*externalapi.TipInfo) []*externalapi.DomainHash {
	if len(tips) == 0 {
		return nil
	}

	topHeight := uint64(0)
	for _, tip := range tips {
		if tip.Height > topHeight {
			topHeight = tip.Height
		}
	}

	candidates := make([]*externalapi.TipInfo, 0, len(tips))
	for _, tip := range tips {
		if ts.isHeightDeviated(tip.Height, topHeight) {
			continue
		}
		candidates = append(candidates, tip)
	}
	sortByWeight(candidates)

	selected := make([]*externalapi.DomainHash, 0, ts.maxBlockParents)
	heaviestWeight := candidates[0].CumulativeDifficulty
	for _, candidate := range candidates {
		if len(selected) == ts.maxBlockParents {
			break
		}
		// Candidates are sorted by weight, so every following one
		// deviates even more
		if ts.isWeightDeviated(heaviestWeight, candidate.CumulativeDifficulty) {
			break
		}
		selected = append(selected, candidate.Hash)
	}
	return selected
}

// ValidateParentSet returns ErrExcessiveDeviation if the given parents are
// too far apart in cumulative difficulty, or if any of them is too far below
// topHeight
func (ts *tipSelector) ValidateParentSet(parents []*externalapi.TipInfo, topHeight uint64) error {
	if len(parents) == 0 {
		return nil
	}

	maxWeight := parents[0].CumulativeDifficulty
	minWeight := parents[0].CumulativeDifficulty
	for _, parent := range parents {
		if parent.CumulativeDifficulty > maxWeight {
			maxWeight = parent.CumulativeDifficulty
		}
		if parent.CumulativeDifficulty < minWeight {
			minWeight = parent.CumulativeDifficulty
		}

		if ts.isHeightDeviated(parent.Height, topHeight) {
			return errors.Wrapf(ruleerrors.ErrExcessiveDeviation, "parent %s at height %d is more than %d "+
				"below the top height %d", parent.Hash, parent.Height, ts.maxTipHeightDeviation, topHeight)
		}
	}

	if ts.isWeightDeviated(maxWeight, minWeight) {
		return errors.Wrapf(ruleerrors.ErrExcessiveDeviation, "parent cumulative difficulties %d and %d "+
			"are more than %d%% apart", maxWeight, minWeight, ts.maxTipDeviationPercent)
	}
	return nil
}

// TipInfos returns the weight summaries of the given blocks
func (ts *tipSelector) TipInfos(stagingArea *model.StagingArea,
	blockHashes []*externalapi.DomainHash) ([]*externalapi.TipInfo, error) {

	tipInfos := make([]*externalapi.TipInfo, len(blockHashes))
	for i, blockHash := range blockHashes {
		header, err := ts.blockHeaderStore.BlockHeader(ts.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		metadata, err := ts.blockMetadataStore.BlockMetadata(ts.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		tipInfos[i] = &externalapi.TipInfo{
			Hash:                 blockHash,
			Height:               header.Height,
			CumulativeDifficulty: metadata.CumulativeDifficulty,
		}
	}
	return tipInfos, nil
}

func (ts *tipSelector) isHeightDeviated(height uint64, topHeight uint64) bool {
	return height+ts.maxTipHeightDeviation < topHeight
}

// isWeightDeviated returns whether (max - min) * 100 > percent * max
func (ts *tipSelector) isWeightDeviated(maxWeight uint64, minWeight uint64) bool {
	difference := new(big.Int).SetUint64(maxWeight - minWeight)
	difference.Mul(difference, big.NewInt(100))
	allowed := new(big.Int).SetUint64(maxWeight)
	allowed.Mul(allowed, new(big.Int).SetUint64(ts.maxTipDeviationPercent))
	return difference.Cmp(allowed) > 0
}

func sortByWeight(tips []*externalapi.TipInfo) {
	sort.Slice(tips, func(i, j int) bool {
		if tips[i].CumulativeDifficulty != tips[j].CumulativeDifficulty {
			return tips[i].CumulativeDifficulty > tips[j].CumulativeDifficulty
		}
		return tips[i].Hash.Less(tips[j].Hash)
	})
}
