package consensus

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	"github.com/weightdag/dagd/domain/consensus/utils/merkle"
	"github.com/weightdag/dagd/domain/dagconfig"
	"github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/db/database/ldb"
)

// TestConsensus is a Consensus with helpers for building blocks over
// arbitrary parents
type TestConsensus interface {
	Consensus

	DAGParams() *dagconfig.Params

	// BuildBlockWithParents builds a valid block over parentHashes. A zero
	// difficulty means the required difficulty.
	BuildBlockWithParents(parentHashes []*externalapi.DomainHash, difficulty uint64, minerAddress string,
		transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error)

	// AddBlock builds a block with BuildBlockWithParents and inserts it
	AddBlock(parentHashes []*externalapi.DomainHash, difficulty uint64, minerAddress string,
		transactions []*externalapi.DomainTransaction) (*externalapi.DomainHash, *externalapi.BlockInsertionResult, error)
}

type testConsensus struct {
	*consensus
	dagParams *dagconfig.Params
}

// NewTestConsensus creates a consensus over a LevelDB database in a
// temporary directory. Everything is closed when the test ends.
func NewTestConsensus(t testing.TB, dagParams *dagconfig.Params) TestConsensus {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewTestConsensus: error opening database: %s", err)
	}
	t.Cleanup(func() {
		err := db.Close()
		if err != nil {
			t.Errorf("NewTestConsensus: error closing database: %s", err)
		}
	})
	return NewTestConsensusWithDatabase(t, dagParams, db)
}

// NewTestConsensusWithDatabase creates a consensus over the given database
func NewTestConsensusWithDatabase(t testing.TB, dagParams *dagconfig.Params, db database.Database) TestConsensus {
	c, err := NewFactory().NewConsensus(dagParams, db, nil)
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	t.Cleanup(c.Close)
	return &testConsensus{consensus: c.(*consensus), dagParams: dagParams}
}

func (tc *testConsensus) DAGParams() *dagconfig.Params {
	return tc.dagParams
}

func (tc *testConsensus) BuildBlockWithParents(parentHashes []*externalapi.DomainHash, difficulty uint64,
	minerAddress string, transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	height := uint64(0)
	timeInMilliseconds := int64(0)
	for _, parentHash := range parentHashes {
		parentHeader, err := tc.GetBlockHeader(parentHash)
		if err != nil {
			return nil, err
		}
		if parentHeader.Height+1 > height {
			height = parentHeader.Height + 1
		}
		if parentHeader.TimeInMilliseconds > timeInMilliseconds {
			timeInMilliseconds = parentHeader.TimeInMilliseconds
		}
	}

	if difficulty == 0 {
		tc.lock.RLock()
		requiredDifficulty, err := tc.difficultyManager.NextRequiredDifficulty(model.NewStagingArea(), parentHashes)
		tc.lock.RUnlock()
		if err != nil {
			return nil, err
		}
		difficulty = requiredDifficulty
	}

	if transactions == nil {
		transactions = []*externalapi.DomainTransaction{}
	}
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            1,
			ParentHashes:       externalapi.CloneHashes(parentHashes),
			Height:             height,
			TimeInMilliseconds: timeInMilliseconds + tc.dagParams.TargetTimePerBlock.Milliseconds(),
			Difficulty:         difficulty,
			MinerAddress:       minerAddress,
			TransactionsRoot:   *merkle.CalculateTransactionsRoot(transactions),
		},
		Transactions: transactions,
	}, nil
}

func (tc *testConsensus) AddBlock(parentHashes []*externalapi.DomainHash, difficulty uint64, minerAddress string,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainHash, *externalapi.BlockInsertionResult, error) {

	block, err := tc.BuildBlockWithParents(parentHashes, difficulty, minerAddress, transactions)
	if err != nil {
		return nil, nil, err
	}
	result, err := tc.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, nil, err
	}
	return consensushashing.BlockHash(block), result, nil
}
