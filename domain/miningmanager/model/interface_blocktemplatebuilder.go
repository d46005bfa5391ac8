package model

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// BlockTemplateBuilder builds block templates for miners to consume
type BlockTemplateBuilder interface {
	GetBlockTemplate(minerAddress string) (*externalapi.DomainBlock, error)
}
