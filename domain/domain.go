package domain

import (
	"github.com/weightdag/dagd/domain/consensus"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/dagconfig"
	"github.com/weightdag/dagd/domain/miningmanager"
	"github.com/weightdag/dagd/domain/miningmanager/mempool"
	infrastructuredatabase "github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

// Domain provides a reference to the domain's external apis
type Domain interface {
	MiningManager() miningmanager.MiningManager
	Consensus() consensus.Consensus

	// SubmitBlock inserts block into the consensus and keeps the mempool
	// in sync with the result
	SubmitBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error)
	Close()
}

type domain struct {
	miningManager miningmanager.MiningManager
	consensus     consensus.Consensus
}

func (d *domain) Consensus() consensus.Consensus {
	return d.consensus
}

func (d *domain) MiningManager() miningmanager.MiningManager {
	return d.miningManager
}

func (d *domain) SubmitBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {
	insertionResult, err := d.consensus.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}
	d.miningManager.HandleNewBlock(block, insertionResult)
	return insertionResult, nil
}

func (d *domain) Close() {
	d.consensus.Close()
}

// New instantiates a new instance of a Domain object. domainMetrics may be
// nil.
func New(dagParams *dagconfig.Params, db infrastructuredatabase.Database, mempoolConfig *mempool.Config,
	domainMetrics *metrics.Metrics) (Domain, error) {

	consensusFactory := consensus.NewFactory()
	consensusInstance, err := consensusFactory.NewConsensus(dagParams, db, domainMetrics)
	if err != nil {
		return nil, err
	}

	domainMempoolConfig := *mempoolConfig
	if domainMempoolConfig.MaximumBlockFees > dagParams.MaxSupply {
		domainMempoolConfig.MaximumBlockFees = dagParams.MaxSupply
	}
	miningManagerFactory := miningmanager.NewFactory()
	miningManager := miningManagerFactory.NewMiningManager(consensusInstance, &domainMempoolConfig, domainMetrics)

	return &domain{
		consensus:     consensusInstance,
		miningManager: miningManager,
	}, nil
}
