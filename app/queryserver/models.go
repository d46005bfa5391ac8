package queryserver

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type infoResponse struct {
	Network          string  `json:"network"`
	TopHeight        uint64  `json:"topHeight"`
	TopTopoHeight    uint64  `json:"topTopoHeight"`
	StableHeight     *uint64 `json:"stableHeight"`
	StableTopoHeight *uint64 `json:"stableTopoHeight"`
	TipCount         int     `json:"tipCount"`
	EmittedSupply    uint64  `json:"emittedSupply"`
}

type blockResponse struct {
	Hash                 string   `json:"hash"`
	Version              uint16   `json:"version"`
	ParentHashes         []string `json:"parentHashes"`
	Height               uint64   `json:"height"`
	Timestamp            int64    `json:"timestamp"`
	Difficulty           uint64   `json:"difficulty"`
	Nonce                uint64   `json:"nonce"`
	MinerAddress         string   `json:"minerAddress"`
	TransactionsRoot     string   `json:"transactionsRoot"`
	TransactionCount     int      `json:"transactionCount"`
	TotalFees            uint64   `json:"totalFees"`
	CumulativeDifficulty uint64   `json:"cumulativeDifficulty"`
	TopoHeight           *uint64  `json:"topoHeight"`
	Classification       string   `json:"classification"`
	Stabilized           bool     `json:"stabilized"`
	Reward               *uint64  `json:"reward"`
}

type tipsResponse struct {
	Tips       []string `json:"tips"`
	MiningTips []string `json:"miningTips"`
}

type orderResponse struct {
	StartTopoHeight uint64   `json:"startTopoHeight"`
	Hashes          []string `json:"hashes"`
}

type blocksAtHeightResponse struct {
	Height uint64   `json:"height"`
	Hashes []string `json:"hashes"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type difficultyResponse struct {
	NextDifficulty uint64 `json:"nextDifficulty"`
}

func convertBlockInfoToBlockResponse(blockInfo *externalapi.BlockInfo) *blockResponse {
	header := blockInfo.Header
	metadata := blockInfo.Metadata
	response := &blockResponse{
		Hash:                 blockInfo.Hash.String(),
		Version:              header.Version,
		ParentHashes:         hashesToStrings(header.ParentHashes),
		Height:               header.Height,
		Timestamp:            header.TimeInMilliseconds,
		Difficulty:           header.Difficulty,
		Nonce:                header.Nonce,
		MinerAddress:         header.MinerAddress,
		TransactionsRoot:     header.TransactionsRoot.String(),
		TransactionCount:     blockInfo.TransactionCount,
		TotalFees:            blockInfo.TotalFees,
		CumulativeDifficulty: metadata.CumulativeDifficulty,
		Classification:       metadata.Classification.String(),
		Stabilized:           metadata.Stabilized,
	}
	if metadata.HasTopoHeight {
		topoHeight := metadata.TopoHeight
		response.TopoHeight = &topoHeight
	}
	if metadata.Stabilized {
		reward := blockInfo.Reward
		response.Reward = &reward
	}
	return response
}

func hashesToStrings(hashes []*externalapi.DomainHash) []string {
	strings := make([]string, len(hashes))
	for i, hash := range hashes {
		strings[i] = hash.String()
	}
	return strings
}
