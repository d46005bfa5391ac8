package dagtraversalmanager

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
)

// dagTraversalManager exposes methods for travering blocks
// in the DAG
type dagTraversalManager struct {
	databaseContext model.DBReader

	blockHeaderStore   model.BlockHeaderStore
	blockMetadataStore model.BlockMetadataStore
}

// New instantiates a new DAGTraversalManager
func New(
	databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	blockMetadataStore model.BlockMetadataStore) model.DAGTraversalManager {

	return &dagTraversalManager{
		databaseContext:    databaseContext,
		blockHeaderStore:   blockHeaderStore,
		blockMetadataStore: blockMetadataStore,
	}
}

// SelectedParent returns the heaviest parent of the given block. It returns
// nil for genesis.
func (dtm *dagTraversalManager) SelectedParent(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {

	header, err := dtm.blockHeaderStore.BlockHeader(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if len(header.ParentHashes) == 0 {
		return nil, nil
	}
	return dtm.HeaviestBlock(stagingArea, header.ParentHashes)
}

// HeaviestBlock returns the block with the highest cumulative difficulty,
// ties broken by the lowest hash
func (dtm *dagTraversalManager) HeaviestBlock(stagingArea *model.StagingArea,
	blockHashes []*externalapi.DomainHash) (*externalapi.DomainHash, error) {

	if len(blockHashes) == 0 {
		return nil, errors.New("HeaviestBlock called with no blocks")
	}

	var heaviest *externalapi.DomainHash
	var heaviestWeight uint64
	for _, blockHash := range blockHashes {
		metadata, err := dtm.blockMetadataStore.BlockMetadata(dtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		if heaviest == nil || metadata.CumulativeDifficulty > heaviestWeight ||
			(metadata.CumulativeDifficulty == heaviestWeight && blockHash.Less(heaviest)) {

			heaviest = blockHash
			heaviestWeight = metadata.CumulativeDifficulty
		}
	}
	return heaviest, nil
}

// SelectedParentChain returns up to maxBlocks blocks of the selected parent
// chain ending at highHash, oldest first
func (dtm *dagTraversalManager) SelectedParentChain(stagingArea *model.StagingArea,
	highHash *externalapi.DomainHash, maxBlocks int) ([]*externalapi.DomainHash, error) {

	chain := make([]*externalapi.DomainHash, 0, maxBlocks)
	current := highHash
	for current != nil && len(chain) < maxBlocks {
		chain = append(chain, current)

		var err error
		current, err = dtm.SelectedParent(stagingArea, current)
		if err != nil {
			return nil, err
		}
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// PastConeAboveHeight returns highHash and every block in its past whose
// height is above lowHeight, in no particular order. Ancestors at or below
// lowHeight are neither returned nor traversed. With hasLowHeight false the
// whole past is returned.
func (dtm *dagTraversalManager) PastConeAboveHeight(stagingArea *model.StagingArea, highHash *externalapi.DomainHash,
	hasLowHeight bool, lowHeight uint64) ([]*externalapi.DomainHash, error) {

	visited := hashset.New()
	result := make([]*externalapi.DomainHash, 0)
	queue := []*externalapi.DomainHash{highHash}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited.Contains(current) {
			continue
		}
		visited.Add(current)

		header, err := dtm.blockHeaderStore.BlockHeader(dtm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		if hasLowHeight && header.Height <= lowHeight {
			continue
		}

		result = append(result, current)
		for _, parentHash := range header.ParentHashes {
			if !visited.Contains(parentHash) {
				queue = append(queue, parentHash)
			}
		}
	}
	return result, nil
}
