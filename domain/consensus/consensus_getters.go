package consensus

import (
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

func (s *consensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	header, err := s.blockHeaderStore.BlockHeader(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	transactions, err := s.blockTransactionsStore.BlockTransactions(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return &externalapi.DomainBlock{Header: header, Transactions: transactions}, nil
}

func (s *consensus) GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.blockHeaderStore.BlockHeader(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	blockInfo := &externalapi.BlockInfo{Hash: blockHash}

	exists, err := s.blockHeaderStore.HasBlockHeader(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if !exists {
		return blockInfo, nil
	}
	blockInfo.Exists = true

	blockInfo.Header, err = s.blockHeaderStore.BlockHeader(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.Metadata, err = s.blockMetadataStore.BlockMetadata(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	transactions, err := s.blockTransactionsStore.BlockTransactions(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.TransactionCount = len(transactions)
	for _, transaction := range transactions {
		blockInfo.TotalFees += transaction.Fee
	}

	if blockInfo.Metadata.Stabilized {
		blockInfo.Reward, err = s.rewardStore.BlockReward(s.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
	}
	return blockInfo, nil
}

func (s *consensus) GetBlockHashByTopoHeight(topoHeight uint64) (*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.topoIndexStore.BlockAtTopoHeight(s.databaseContext, model.NewStagingArea(), topoHeight)
}

func (s *consensus) GetBlockHashesAtHeight(height uint64) ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.heightIndexStore.BlocksAtHeight(s.databaseContext, model.NewStagingArea(), height)
}

// GetDAGOrder returns up to count block hashes in topological order,
// starting at startTopoHeight
func (s *consensus) GetDAGOrder(startTopoHeight uint64, count uint64) ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	state, err := s.dagStateStore.DAGState(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	if count == 0 || startTopoHeight > state.TopTopoHeight {
		return []*externalapi.DomainHash{}, nil
	}

	endTopoHeight := state.TopTopoHeight
	if count-1 < endTopoHeight-startTopoHeight {
		endTopoHeight = startTopoHeight + count - 1
	}

	order := make([]*externalapi.DomainHash, 0, endTopoHeight-startTopoHeight+1)
	for topoHeight := startTopoHeight; topoHeight <= endTopoHeight; topoHeight++ {
		blockHash, err := s.topoIndexStore.BlockAtTopoHeight(s.databaseContext, stagingArea, topoHeight)
		if err != nil {
			return nil, err
		}
		order = append(order, blockHash)
	}
	return order, nil
}

func (s *consensus) GetTips() ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tipsStore.Tips(s.databaseContext, model.NewStagingArea())
}

func (s *consensus) GetMiningTips() ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.miningTips(model.NewStagingArea())
}

func (s *consensus) miningTips(stagingArea *model.StagingArea) ([]*externalapi.DomainHash, error) {
	tips, err := s.tipsStore.Tips(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	tips, err = s.dagOrderingManager.OrderableTips(stagingArea, tips)
	if err != nil {
		return nil, err
	}
	tipInfos, err := s.tipSelector.TipInfos(stagingArea, tips)
	if err != nil {
		return nil, err
	}
	return s.tipSelector.SelectMiningTips(tipInfos), nil
}

func (s *consensus) GetDAGState() (*externalapi.DAGState, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.dagStateStore.DAGState(s.databaseContext, model.NewStagingArea())
}

// GetNextDifficulty returns the difficulty a block built over the current
// mining tips must declare
func (s *consensus) GetNextDifficulty() (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	parents, err := s.miningTips(stagingArea)
	if err != nil {
		return 0, err
	}
	return s.difficultyManager.NextRequiredDifficulty(stagingArea, parents)
}

func (s *consensus) GetBalance(address string) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.rewardStore.Balance(s.databaseContext, model.NewStagingArea(), address)
}

func (s *consensus) GetEmittedSupply() (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.rewardStore.EmittedSupply(s.databaseContext, model.NewStagingArea())
}

// IsNotFoundError returns whether err reports a block, topological height or
// record that does not exist
func IsNotFoundError(err error) bool {
	return database.IsNotFoundError(err)
}
