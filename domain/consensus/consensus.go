package consensus

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/notifications"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

// Consensus maintains the current core state of the node
type Consensus interface {
	externalapi.Consensus

	// Subscribe returns a handle receiving a BlockAccepted notification
	// after every successful insertion
	Subscribe() (*notifications.Subscription, error)

	// Close stops notification delivery. The database is owned by the
	// caller and stays open.
	Close()
}

type consensus struct {
	lock            *sync.RWMutex
	databaseContext model.DBManager

	blockProcessor     model.BlockProcessor
	dagOrderingManager model.DAGOrderingManager
	tipSelector        model.TipSelector
	difficultyManager  model.DifficultyManager

	blockHeaderStore       model.BlockHeaderStore
	blockTransactionsStore model.BlockTransactionsStore
	blockMetadataStore     model.BlockMetadataStore
	tipsStore              model.TipsStore
	topoIndexStore         model.TopoIndexStore
	heightIndexStore       model.HeightIndexStore
	dagStateStore          model.DAGStateStore
	rewardStore            model.RewardStore

	notifier *notifications.Notifier
	metrics  *metrics.Metrics
}

// ValidateAndInsertBlock validates the given block and, if valid, applies it
// to the current state
func (s *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	start := time.Now()
	result, err := s.blockProcessor.ValidateAndInsertBlock(block)
	if err != nil {
		s.observeRejection(err)
		return nil, err
	}

	s.notifier.Publish(&externalapi.BlockAcceptedNotification{
		Hash:           result.Hash,
		HasTopoHeight:  result.Metadata.HasTopoHeight,
		TopoHeight:     result.Metadata.TopoHeight,
		Classification: result.Metadata.Classification,
	})

	// The block is committed at this point, so a metrics failure must not
	// be reported as a failed insertion
	err = s.observeInsertion(time.Since(start), result)
	if err != nil {
		log.Warnf("Failed recording the metrics of block %s: %s", result.Hash, err)
	}
	return result, nil
}

func (s *consensus) observeRejection(err error) {
	if s.metrics == nil {
		return
	}
	var ruleErr ruleerrors.RuleError
	switch {
	case errors.As(err, &ruleErr):
		s.metrics.ObserveBlockRejected(ruleErr.Message())
	case database.IsStorageFailure(err):
		s.metrics.ObserveBlockRejected("StorageFailure")
	default:
		s.metrics.ObserveBlockRejected("Unknown")
	}
}

func (s *consensus) observeInsertion(duration time.Duration, result *externalapi.BlockInsertionResult) error {
	if s.metrics == nil {
		return nil
	}

	stagingArea := model.NewStagingArea()
	for _, blockHash := range result.NewlyStableBlocks {
		metadata, err := s.blockMetadataStore.BlockMetadata(s.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		s.metrics.ObserveBlockStabilized(metadata.Classification.String())
	}

	snapshot, err := s.dagSnapshot(stagingArea)
	if err != nil {
		return err
	}
	s.metrics.ObserveBlockInserted(duration, len(result.ReorderedBlocks), snapshot)
	return nil
}

func (s *consensus) dagSnapshot(stagingArea *model.StagingArea) (*metrics.DAGSnapshot, error) {
	state, err := s.dagStateStore.DAGState(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	tips, err := s.tipsStore.Tips(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	supply, err := s.rewardStore.EmittedSupply(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	return &metrics.DAGSnapshot{
		TopHeight:       state.TopHeight,
		TopTopoHeight:   state.TopTopoHeight,
		HasStableHeight: state.HasStableHeight,
		StableHeight:    state.StableHeight,
		TipCount:        len(tips),
		EmittedSupply:   supply,
	}, nil
}

// BuildBlockTemplate builds a block over the current mining tips carrying
// the given transactions
func (s *consensus) BuildBlockTemplate(minerAddress string,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.blockProcessor.BuildBlockTemplate(minerAddress, transactions)
}

func (s *consensus) Subscribe() (*notifications.Subscription, error) {
	return s.notifier.Subscribe()
}

func (s *consensus) Close() {
	s.notifier.Close()
}
