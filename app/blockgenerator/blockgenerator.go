package blockgenerator

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
)

// BlockGenerator periodically builds a block template over the mining tips,
// fills it with mempool transactions and submits it to the local DAG
type BlockGenerator struct {
	domain       domain.Domain
	minerAddress string
	interval     time.Duration

	quit              chan struct{}
	wg                sync.WaitGroup
	started, shutdown int32
}

// New returns a BlockGenerator crediting minerAddress every interval
func New(domain domain.Domain, minerAddress string, interval time.Duration) *BlockGenerator {
	return &BlockGenerator{
		domain:       domain,
		minerAddress: minerAddress,
		interval:     interval,
		quit:         make(chan struct{}),
	}
}

// Start launches the generation loop
func (bg *BlockGenerator) Start() {
	if atomic.AddInt32(&bg.started, 1) != 1 {
		return
	}

	log.Infof("Generating a block every %s for %s", bg.interval, bg.minerAddress)
	bg.wg.Add(1)
	spawn("BlockGenerator.generateLoop", bg.generateLoop)
}

// Stop stops the generation loop and waits for it to exit
func (bg *BlockGenerator) Stop() {
	if atomic.AddInt32(&bg.shutdown, 1) != 1 {
		return
	}
	close(bg.quit)
	bg.wg.Wait()
}

func (bg *BlockGenerator) generateLoop() {
	defer bg.wg.Done()

	ticker := time.NewTicker(bg.interval)
	defer ticker.Stop()
	for {
		select {
		case <-bg.quit:
			return
		case <-ticker.C:
		}

		blockHash, err := bg.GenerateBlock()
		if err != nil {
			if database.IsStorageFailure(err) {
				log.Errorf("Stopping block generation: %+v", err)
				return
			}
			log.Warnf("Generated block was rejected: %s", err)
			continue
		}
		log.Debugf("Generated block %s", blockHash)
	}
}

// GenerateBlock builds a single block over the current mining tips and
// submits it
func (bg *BlockGenerator) GenerateBlock() (*externalapi.DomainHash, error) {
	block, err := bg.domain.MiningManager().GetBlockTemplate(bg.minerAddress)
	if err != nil {
		return nil, err
	}
	block.Header.Nonce = rand.Uint64()

	blockHash := consensushashing.BlockHash(block)
	_, err = bg.domain.SubmitBlock(block)
	if err != nil {
		if errors.Is(err, ruleerrors.ErrDuplicateBlock) {
			return nil, errors.Wrapf(err, "generated block %s already exists", blockHash)
		}
		return nil, err
	}
	return blockHash, nil
}
