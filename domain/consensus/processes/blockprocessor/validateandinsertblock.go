package blockprocessor

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/processes/blockprocessor/blocklogger"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
	"github.com/weightdag/dagd/infrastructure/logger"
)

// ValidateAndInsertBlock validates the given block and, if it is valid,
// inserts it, re-orders the mutable window and settles whatever became
// stable. Everything is committed in a single database transaction, so on
// any error nothing is written.
func (bp *blockProcessor) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateAndInsertBlock")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	result, err := bp.validateAndInsertBlock(stagingArea, block)
	if err != nil {
		if ruleerrors.IsRuleError(err) {
			return nil, err
		}
		return nil, database.NewStorageFailure("block insertion", err)
	}

	err = bp.commit(stagingArea)
	if err != nil {
		return nil, database.NewStorageFailure("block insertion commit", err)
	}

	blocklogger.LogBlock(block)
	return result, nil
}

func (bp *blockProcessor) validateAndInsertBlock(stagingArea *model.StagingArea,
	block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {

	blockHash := consensushashing.BlockHash(block)
	log.Debugf("Validating block %s", blockHash)

	err := bp.checkBlockStatus(stagingArea, blockHash, block.Header)
	if err != nil {
		return nil, err
	}

	err = bp.validateBlock(stagingArea, block)
	if err != nil {
		return nil, err
	}

	err = bp.stageBlock(stagingArea, blockHash, block)
	if err != nil {
		return nil, err
	}

	orderingResult, err := bp.dagOrderingManager.UpdateOrder(stagingArea)
	if err != nil {
		return nil, err
	}

	newlyStable, orphanedTransactions, err := bp.settle(stagingArea, orderingResult)
	if err != nil {
		return nil, err
	}

	metadata, err := bp.blockMetadataStore.BlockMetadata(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	reorderedBlocks := make([]*externalapi.DomainHash, 0, len(orderingResult.ReorderedBlocks))
	for _, reorderedHash := range orderingResult.ReorderedBlocks {
		if !reorderedHash.Equal(blockHash) {
			reorderedBlocks = append(reorderedBlocks, reorderedHash)
		}
	}

	log.Debugf("Block %s validated and inserted", blockHash)
	log.Debugf("%s", logger.NewLogClosure(func() string {
		return fmt.Sprintf("Block %s: height %d, cumulative difficulty %d, classification %s, "+
			"%d reordered, %d newly stable, top height %d, stable height %d",
			blockHash, block.Header.Height, metadata.CumulativeDifficulty, metadata.Classification,
			len(reorderedBlocks), len(newlyStable), orderingResult.NewState.TopHeight,
			orderingResult.NewState.StableHeight)
	}))

	return &externalapi.BlockInsertionResult{
		Hash:                 blockHash,
		Metadata:             metadata,
		ReorderedBlocks:      reorderedBlocks,
		NewlyStableBlocks:    newlyStable,
		OrphanedTransactions: orphanedTransactions,
	}, nil
}

func (bp *blockProcessor) checkBlockStatus(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	if len(header.ParentHashes) == 0 {
		isInitialized, err := bp.dagStateStore.HasDAGState(bp.databaseContext, stagingArea)
		if err != nil {
			return err
		}
		if isInitialized {
			return errors.Wrapf(ruleerrors.ErrGenesisOnInitializedConsensus,
				"cannot insert parentless block %s into an initialized DAG", blockHash)
		}
	}

	exists, err := bp.blockHeaderStore.HasBlockHeader(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
	}
	return nil
}

// stageBlock stages the block data, its metadata, the height index entry
// and the new tip set
func (bp *blockProcessor) stageBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	block *externalapi.DomainBlock) error {

	header := block.Header
	cumulativeDifficulty, err := bp.cumulativeDifficulty(stagingArea, header)
	if err != nil {
		return err
	}
	metadata := &externalapi.BlockMetadata{
		CumulativeDifficulty: cumulativeDifficulty,
		Classification:       externalapi.ClassificationUnresolved,
	}

	bp.blockHeaderStore.Stage(stagingArea, blockHash, header)
	bp.blockTransactionsStore.Stage(stagingArea, blockHash, block.Transactions)
	bp.blockMetadataStore.Stage(stagingArea, blockHash, metadata)
	err = bp.heightIndexStore.StageBlock(bp.databaseContext, stagingArea, header.Height, blockHash)
	if err != nil {
		return err
	}

	return bp.updateTips(stagingArea, blockHash, header.ParentHashes)
}

func (bp *blockProcessor) cumulativeDifficulty(stagingArea *model.StagingArea,
	header *externalapi.DomainBlockHeader) (uint64, error) {

	maxParentCumulativeDifficulty := uint64(0)
	for _, parentHash := range header.ParentHashes {
		parentMetadata, err := bp.blockMetadataStore.BlockMetadata(bp.databaseContext, stagingArea, parentHash)
		if err != nil {
			return 0, err
		}
		if parentMetadata.CumulativeDifficulty > maxParentCumulativeDifficulty {
			maxParentCumulativeDifficulty = parentMetadata.CumulativeDifficulty
		}
	}
	return maxParentCumulativeDifficulty + header.Difficulty, nil
}

func (bp *blockProcessor) updateTips(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	parentHashes []*externalapi.DomainHash) error {

	var tips []*externalapi.DomainHash
	hasTips, err := bp.tipsStore.HasTips(bp.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if hasTips {
		tips, err = bp.tipsStore.Tips(bp.databaseContext, stagingArea)
		if err != nil {
			return err
		}
	}

	parents := hashset.NewFromSlice(parentHashes...)
	newTips := make([]*externalapi.DomainHash, 0, len(tips)+1)
	for _, tip := range tips {
		if !parents.Contains(tip) {
			newTips = append(newTips, tip)
		}
	}
	newTips = append(newTips, blockHash)
	bp.tipsStore.StageTips(stagingArea, newTips)
	return nil
}

// settle credits the blocks that became stable in topological order and
// orphans the unordered blocks at the newly stable heights
func (bp *blockProcessor) settle(stagingArea *model.StagingArea, orderingResult *model.OrderingResult) (
	newlyStable []*externalapi.DomainHash, orphanedTransactions []*externalapi.DomainTransaction, err error) {

	fromHeight, toHeight, ok := orderingResult.NewlyStableHeights()
	if !ok {
		return nil, nil, nil
	}

	if orderingResult.NewState.HasStableTopoHeight {
		newlyStable, err = bp.rewardManager.SettleRewardsUpTo(stagingArea, orderingResult.NewState.StableTopoHeight)
		if err != nil {
			return nil, nil, err
		}
	}

	orphans, orphanedTransactions, err := bp.rewardManager.SettleOrphansUpTo(stagingArea, fromHeight, toHeight)
	if err != nil {
		return nil, nil, err
	}
	if len(orphans) > 0 {
		log.Infof("%d blocks became stable without being ordered and were orphaned", len(orphans))
	}
	return append(newlyStable, orphans...), orphanedTransactions, nil
}

func (bp *blockProcessor) commit(stagingArea *model.StagingArea) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "commit")
	defer onEnd()

	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = stagingArea.Commit(dbTx)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}
