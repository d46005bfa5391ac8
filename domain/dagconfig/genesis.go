package dagconfig

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
)

const (
	mainnetDevAddress = "dag1devfund0000000000000000000000000000main"
	testnetDevAddress = "dagtest1devfund00000000000000000000000test"
	devnetDevAddress  = "dagdev1devfund000000000000000000000000dev"
	simnetDevAddress  = "dagsim1devfund000000000000000000000000sim"
)

func newGenesisBlock(timeInMilliseconds int64, devAddress string) externalapi.DomainBlock {
	return externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            1,
			ParentHashes:       []*externalapi.DomainHash{},
			Height:             0,
			TimeInMilliseconds: timeInMilliseconds,
			Difficulty:         defaultGenesisDifficulty,
			Nonce:              0,
			MinerAddress:       devAddress,
			TransactionsRoot:   externalapi.DomainHash{},
		},
		Transactions: []*externalapi.DomainTransaction{},
	}
}

// mainnetGenesisBlock defines the genesis block of the block DAG which serves
// as the public transaction ledger for the main network.
var mainnetGenesisBlock = newGenesisBlock(1700000000000, mainnetDevAddress)

// mainnetGenesisHash is the hash of the first block in the block DAG for the
// main network.
var mainnetGenesisHash = consensushashing.BlockHash(&mainnetGenesisBlock)

var testnetGenesisBlock = newGenesisBlock(1700000001000, testnetDevAddress)
var testnetGenesisHash = consensushashing.BlockHash(&testnetGenesisBlock)

var devnetGenesisBlock = newGenesisBlock(1700000002000, devnetDevAddress)
var devnetGenesisHash = consensushashing.BlockHash(&devnetGenesisBlock)

var simnetGenesisBlock = newGenesisBlock(1700000003000, simnetDevAddress)
var simnetGenesisHash = consensushashing.BlockHash(&simnetGenesisBlock)
