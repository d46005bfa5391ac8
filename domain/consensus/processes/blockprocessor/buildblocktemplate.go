package blockprocessor

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/merkle"
	"github.com/weightdag/dagd/util/mstime"
)

const blockVersion = 1

// BuildBlockTemplate builds a block over the current tips carrying the
// given transactions. The nonce is left for the miner.
func (bp *blockProcessor) BuildBlockTemplate(minerAddress string,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	stagingArea := model.NewStagingArea()
	header, err := bp.buildHeader(stagingArea, minerAddress, transactions)
	if err != nil {
		return nil, database.NewStorageFailure("block template", err)
	}
	return &externalapi.DomainBlock{
		Header:       header,
		Transactions: transactions,
	}, nil
}

func (bp *blockProcessor) buildHeader(stagingArea *model.StagingArea, minerAddress string,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlockHeader, error) {

	tips, err := bp.tipsStore.Tips(bp.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	tips, err = bp.dagOrderingManager.OrderableTips(stagingArea, tips)
	if err != nil {
		return nil, err
	}
	tipInfos, err := bp.tipSelector.TipInfos(stagingArea, tips)
	if err != nil {
		return nil, err
	}
	parents := bp.tipSelector.SelectMiningTips(tipInfos)
	if len(parents) == 0 {
		return nil, errors.New("no tips to build a block template on")
	}

	parentHeaders, err := bp.blockHeaderStore.BlockHeaders(bp.databaseContext, stagingArea, parents)
	if err != nil {
		return nil, err
	}
	height := uint64(0)
	timeInMilliseconds := mstime.TimeToUnixMilli(bp.timeSource())
	for _, parentHeader := range parentHeaders {
		if parentHeader.Height+1 > height {
			height = parentHeader.Height + 1
		}
		if parentHeader.TimeInMilliseconds > timeInMilliseconds {
			timeInMilliseconds = parentHeader.TimeInMilliseconds
		}
	}

	difficulty, err := bp.difficultyManager.NextRequiredDifficulty(stagingArea, parents)
	if err != nil {
		return nil, err
	}

	return &externalapi.DomainBlockHeader{
		Version:            blockVersion,
		ParentHashes:       parents,
		Height:             height,
		TimeInMilliseconds: timeInMilliseconds,
		Difficulty:         difficulty,
		MinerAddress:       minerAddress,
		TransactionsRoot:   *merkle.CalculateTransactionsRoot(transactions),
	}, nil
}
