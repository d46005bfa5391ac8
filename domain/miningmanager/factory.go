package miningmanager

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/miningmanager/blocktemplatebuilder"
	"github.com/weightdag/dagd/domain/miningmanager/mempool"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

// Factory instantiates new mining managers
type Factory interface {
	NewMiningManager(consensus externalapi.Consensus, mempoolConfig *mempool.Config,
		mempoolMetrics *metrics.Metrics) MiningManager
}

type factory struct{}

// NewMiningManager instantiate a new mining manager. mempoolMetrics may be
// nil.
func (f *factory) NewMiningManager(consensus externalapi.Consensus, mempoolConfig *mempool.Config,
	mempoolMetrics *metrics.Metrics) MiningManager {

	mempool := mempool.New(mempoolConfig, mempoolMetrics)
	blockTemplateBuilder := blocktemplatebuilder.New(consensus, mempool)

	return &miningManager{
		mempool:              mempool,
		blockTemplateBuilder: blockTemplateBuilder,
	}
}

// NewFactory creates a new mining manager factory
func NewFactory() Factory {
	return &factory{}
}
