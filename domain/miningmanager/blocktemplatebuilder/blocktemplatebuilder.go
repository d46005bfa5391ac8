package blocktemplatebuilder

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/miningmanager/model"
)

// blockTemplateBuilder creates block templates for a miner to consume
type blockTemplateBuilder struct {
	consensus externalapi.Consensus
	mempool   model.Mempool
}

// New creates a new blockTemplateBuilder
func New(consensus externalapi.Consensus, mempool model.Mempool) model.BlockTemplateBuilder {
	return &blockTemplateBuilder{
		consensus: consensus,
		mempool:   mempool,
	}
}

// GetBlockTemplate creates a block template over the mining tips, filled
// with the highest priority mempool transactions
func (btb *blockTemplateBuilder) GetBlockTemplate(minerAddress string) (*externalapi.DomainBlock, error) {
	transactions := btb.mempool.BlockCandidateTransactions()
	template, err := btb.consensus.BuildBlockTemplate(minerAddress, transactions)
	if err != nil {
		return nil, err
	}
	log.Debugf("Built a block template at height %d with %d parents and %d transactions",
		template.Header.Height, len(template.Header.ParentHashes), len(template.Transactions))
	return template, nil
}
