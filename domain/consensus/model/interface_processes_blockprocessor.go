package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// BlockProcessor is responsible for processing incoming blocks
// and creating blocks from the current state
type BlockProcessor interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error)
	BuildBlockTemplate(minerAddress string, transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error)
}
