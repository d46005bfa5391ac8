package app

import (
	"fmt"
	"sync/atomic"

	"github.com/weightdag/dagd/app/blockgenerator"
	"github.com/weightdag/dagd/app/queryserver"
	"github.com/weightdag/dagd/domain"
	"github.com/weightdag/dagd/domain/miningmanager/mempool"
	"github.com/weightdag/dagd/infrastructure/config"
	infrastructuredatabase "github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/metrics"
	"github.com/weightdag/dagd/util/panics"
)

// ComponentManager is a wrapper for all the dagd services
type ComponentManager struct {
	cfg            *config.Config
	domain         domain.Domain
	metrics        *metrics.Metrics
	queryServer    *queryserver.Server
	blockGenerator *blockgenerator.BlockGenerator
	acceptedLogger *blockAcceptedLogger

	started, shutdown int32
}

// Start launches all the dagd services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Tracef("Starting dagd")

	if a.queryServer != nil {
		err := a.queryServer.Start(a.cfg.QueryListen)
		if err != nil {
			panics.Exit(log, fmt.Sprintf("Error starting the query server: %+v", err))
		}
	}

	if a.blockGenerator != nil {
		a.blockGenerator.Start()
	}
}

// Stop gracefully shuts down all the dagd services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Dagd is already in the process of shutting down")
		return
	}

	log.Warnf("Dagd shutting down")

	if a.blockGenerator != nil {
		a.blockGenerator.Stop()
	}

	if a.queryServer != nil {
		err := a.queryServer.Stop()
		if err != nil {
			log.Errorf("Error stopping the query server: %+v", err)
		}
	}

	a.acceptedLogger.stop()
	a.domain.Close()
}

// Domain returns the domain of this ComponentManager
func (a *ComponentManager) Domain() domain.Domain {
	return a.domain
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, db infrastructuredatabase.Database) (*ComponentManager, error) {
	nodeMetrics := metrics.New()

	mempoolConfig := mempool.DefaultConfig()
	mempoolConfig.MaximumTransactionCount = cfg.MaxMempoolTransactions
	mempoolConfig.MaximumTransactionsPerBlock = cfg.MaxBlockTransactions
	mempoolConfig.MinimumTransactionFee = cfg.MinTxFee

	domain, err := domain.New(cfg.NetParams(), db, mempoolConfig, nodeMetrics)
	if err != nil {
		return nil, err
	}

	acceptedLogger, err := newBlockAcceptedLogger(domain.Consensus())
	if err != nil {
		domain.Close()
		return nil, err
	}

	componentManager := &ComponentManager{
		cfg:            cfg,
		domain:         domain,
		metrics:        nodeMetrics,
		acceptedLogger: acceptedLogger,
	}

	if !cfg.DisableQuery {
		componentManager.queryServer = queryserver.New(domain.Consensus(), cfg.NetParams().Name, nodeMetrics)
	}
	if cfg.Generate {
		componentManager.blockGenerator = blockgenerator.New(domain, cfg.MiningAddr, cfg.GenerateInterval)
	}

	return componentManager, nil
}
