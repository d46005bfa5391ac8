package blockvalidator

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/datastructures/blockheaderstore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/blockmetadatastore"
	"github.com/weightdag/dagd/domain/consensus/datastructures/dagstatestore"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/processes/tipselector"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
	"github.com/weightdag/dagd/domain/consensus/utils/merkle"
	"github.com/weightdag/dagd/domain/consensus/utils/testutils"
	"github.com/weightdag/dagd/util/mstime"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const testMaxTotalFees = 1_000_000

type fixedDifficultyManager struct {
	difficulty uint64
}

func (f *fixedDifficultyManager) RequiredDifficulty([]model.DifficultyWindowEntry) uint64 {
	return f.difficulty
}

func (f *fixedDifficultyManager) NextRequiredDifficulty(*model.StagingArea, []*externalapi.DomainHash) (uint64, error) {
	return f.difficulty, nil
}

// fixedOrderingManager reports every block as orderable except the ones in
// unorderable
type fixedOrderingManager struct {
	unorderable hashset.HashSet
}

func (f *fixedOrderingManager) UpdateOrder(*model.StagingArea) (*model.OrderingResult, error) {
	return nil, errors.New("UpdateOrder is not used by the validator")
}

func (f *fixedOrderingManager) IsOrderable(_ *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	return !f.unorderable.Contains(blockHash), nil
}

func (f *fixedOrderingManager) OrderableTips(_ *model.StagingArea,
	tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	return tips, nil
}

type testValidator struct {
	dbManager          model.DBManager
	stagingArea        *model.StagingArea
	blockHeaderStore   model.BlockHeaderStore
	blockMetadataStore model.BlockMetadataStore
	dagStateStore      model.DAGStateStore
	orderingManager    *fixedOrderingManager
	validator          model.BlockValidator
}

func newTestValidator(t *testing.T, genesisHash *externalapi.DomainHash, enforceDifficulty bool) *testValidator {
	dbManager := testutils.NewTestDBManager(t)
	headerStore := blockheaderstore.New(10)
	metadataStore := blockmetadatastore.New(10)
	stateStore := dagstatestore.New()
	selector := tipselector.New(dbManager, headerStore, metadataStore, 9, 7, 3)
	orderingManager := &fixedOrderingManager{unorderable: hashset.New()}
	return &testValidator{
		dbManager:          dbManager,
		stagingArea:        model.NewStagingArea(),
		blockHeaderStore:   headerStore,
		blockMetadataStore: metadataStore,
		dagStateStore:      stateStore,
		orderingManager:    orderingManager,
		validator: New(dbManager, genesisHash, 3, 2*time.Second, enforceDifficulty, testMaxTotalFees,
			headerStore, metadataStore, stateStore, selector, &fixedDifficultyManager{difficulty: 42},
			orderingManager, func() time.Time { return testNow }),
	}
}

func (tv *testValidator) stageParent(id byte, height uint64, timeInMilliseconds int64,
	cumulativeDifficulty uint64, classification externalapi.BlockClassification) *externalapi.DomainHash {

	blockHash := testutils.HashFromByte(id)
	tv.blockHeaderStore.Stage(tv.stagingArea, blockHash, &externalapi.DomainBlockHeader{
		ParentHashes:       []*externalapi.DomainHash{},
		Height:             height,
		TimeInMilliseconds: timeInMilliseconds,
		Difficulty:         1,
	})
	tv.blockMetadataStore.Stage(tv.stagingArea, blockHash, &externalapi.BlockMetadata{
		CumulativeDifficulty: cumulativeDifficulty,
		Classification:       classification,
	})
	return blockHash
}

func validBlock(parents ...*externalapi.DomainHash) *externalapi.DomainBlock {
	transactions := []*externalapi.DomainTransaction{
		{Sender: "alice", Nonce: 1, Fee: 10, Payload: []byte{1}},
		{Sender: "bob", Nonce: 1, Fee: 20, Payload: []byte{2}},
	}
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            1,
			ParentHashes:       parents,
			Height:             1,
			TimeInMilliseconds: mstime.TimeToUnixMilli(testNow),
			Difficulty:         42,
			MinerAddress:       "miner",
			TransactionsRoot:   *merkle.CalculateTransactionsRoot(transactions),
		},
		Transactions: transactions,
	}
}

func TestValidateHeaderInIsolation(t *testing.T) {
	genesis := &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:          1,
			ParentHashes:     []*externalapi.DomainHash{},
			Difficulty:       1,
			TransactionsRoot: externalapi.DomainHash{},
		},
		Transactions: []*externalapi.DomainTransaction{},
	}
	tv := newTestValidator(t, consensushashing.BlockHash(genesis), false)

	tests := []struct {
		name          string
		modify        func(block *externalapi.DomainBlock)
		block         *externalapi.DomainBlock
		expectedError error
	}{
		{
			name:   "valid block",
			modify: func(*externalapi.DomainBlock) {},
		},
		{
			name:  "genesis without parents",
			block: genesis,
		},
		{
			name:          "no parents",
			modify:        func(block *externalapi.DomainBlock) { block.Header.ParentHashes = nil },
			expectedError: ruleerrors.ErrInvalidParentSet,
		},
		{
			name: "too many parents",
			modify: func(block *externalapi.DomainBlock) {
				block.Header.ParentHashes = []*externalapi.DomainHash{testutils.HashFromByte(1),
					testutils.HashFromByte(2), testutils.HashFromByte(3), testutils.HashFromByte(4)}
			},
			expectedError: ruleerrors.ErrInvalidParentSet,
		},
		{
			name: "duplicate parents",
			modify: func(block *externalapi.DomainBlock) {
				block.Header.ParentHashes = []*externalapi.DomainHash{testutils.HashFromByte(1), testutils.HashFromByte(1)}
			},
			expectedError: ruleerrors.ErrInvalidParentSet,
		},
		{
			name:          "zero difficulty",
			modify:        func(block *externalapi.DomainBlock) { block.Header.Difficulty = 0 },
			expectedError: ruleerrors.ErrUnexpectedDifficulty,
		},
		{
			name:          "bad merkle root",
			modify:        func(block *externalapi.DomainBlock) { block.Transactions[0].Fee++ },
			expectedError: ruleerrors.ErrBadMerkleRoot,
		},
		{
			name: "fees at the maximum",
			modify: func(block *externalapi.DomainBlock) {
				block.Transactions[0].Fee = testMaxTotalFees - block.Transactions[1].Fee
				block.Header.TransactionsRoot = *merkle.CalculateTransactionsRoot(block.Transactions)
			},
		},
		{
			name: "fees above the maximum",
			modify: func(block *externalapi.DomainBlock) {
				block.Transactions[0].Fee = testMaxTotalFees
				block.Header.TransactionsRoot = *merkle.CalculateTransactionsRoot(block.Transactions)
			},
			expectedError: ruleerrors.ErrExcessiveFees,
		},
		{
			name: "fees overflow",
			modify: func(block *externalapi.DomainBlock) {
				block.Transactions[0].Fee = math.MaxUint64
				block.Transactions[1].Fee = 2
				block.Header.TransactionsRoot = *merkle.CalculateTransactionsRoot(block.Transactions)
			},
			expectedError: ruleerrors.ErrExcessiveFees,
		},
		{
			name: "timestamp at the future limit",
			modify: func(block *externalapi.DomainBlock) {
				block.Header.TimeInMilliseconds = mstime.TimeToUnixMilli(testNow.Add(2 * time.Second))
			},
		},
		{
			name: "timestamp beyond the future limit",
			modify: func(block *externalapi.DomainBlock) {
				block.Header.TimeInMilliseconds = mstime.TimeToUnixMilli(testNow.Add(2*time.Second + time.Millisecond))
			},
			expectedError: ruleerrors.ErrTimeTooMuchInTheFuture,
		},
	}

	for _, test := range tests {
		block := test.block
		if block == nil {
			block = validBlock(testutils.HashFromByte(1))
			test.modify(block)
		}
		err := tv.validator.ValidateHeaderInIsolation(block)
		if test.expectedError == nil {
			if err != nil {
				t.Fatalf("TestValidateHeaderInIsolation: %s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Fatalf("TestValidateHeaderInIsolation: %s: expected %s, got %v", test.name, test.expectedError, err)
		}
	}
}

func TestValidateParentsExistence(t *testing.T) {
	tv := newTestValidator(t, testutils.HashFromByte(0xff), false)
	known := tv.stageParent(1, 0, 0, 1, externalapi.ClassificationUnresolved)
	missing := testutils.HashFromByte(2)

	err := tv.validator.ValidateParentsExistence(tv.stagingArea, validBlock(known).Header)
	if err != nil {
		t.Fatalf("TestValidateParentsExistence: unexpected error: %s", err)
	}

	err = tv.validator.ValidateParentsExistence(tv.stagingArea, validBlock(known, missing).Header)
	var unknownParentErr ruleerrors.ErrUnknownParent
	if !errors.As(err, &unknownParentErr) {
		t.Fatalf("TestValidateParentsExistence: expected ErrUnknownParent, got %v", err)
	}
	if !externalapi.HashesEqual(unknownParentErr.MissingParentHashes, []*externalapi.DomainHash{missing}) {
		t.Fatalf("TestValidateParentsExistence: unexpected missing parents %v", unknownParentErr.MissingParentHashes)
	}
}

func TestValidateParentSet(t *testing.T) {
	tv := newTestValidator(t, testutils.HashFromByte(0xff), false)
	heavy := tv.stageParent(1, 10, 0, 1000, externalapi.ClassificationUnresolved)
	near := tv.stageParent(2, 10, 0, 950, externalapi.ClassificationUnresolved)
	light := tv.stageParent(3, 10, 0, 900, externalapi.ClassificationUnresolved)
	orphan := tv.stageParent(4, 10, 0, 1000, externalapi.ClassificationOrphaned)
	stale := tv.stageParent(5, 2, 0, 1000, externalapi.ClassificationUnresolved)
	orphanDescendant := tv.stageParent(6, 10, 0, 1000, externalapi.ClassificationUnresolved)
	tv.orderingManager.unorderable.Add(orphanDescendant)
	tv.dagStateStore.Stage(tv.stagingArea, &externalapi.DAGState{TopHeight: 10})

	tests := []struct {
		name          string
		parents       []*externalapi.DomainHash
		expectedError error
	}{
		{name: "within deviation", parents: []*externalapi.DomainHash{heavy, near}},
		{name: "weight deviation", parents: []*externalapi.DomainHash{heavy, light}, expectedError: ruleerrors.ErrExcessiveDeviation},
		{name: "orphaned parent", parents: []*externalapi.DomainHash{heavy, orphan}, expectedError: ruleerrors.ErrExcessiveDeviation},
		{name: "parent built on an orphaned block", parents: []*externalapi.DomainHash{heavy, orphanDescendant},
			expectedError: ruleerrors.ErrExcessiveDeviation},
		{name: "height deviation", parents: []*externalapi.DomainHash{stale}, expectedError: ruleerrors.ErrExcessiveDeviation},
	}
	for _, test := range tests {
		err := tv.validator.ValidateParentSet(tv.stagingArea, validBlock(test.parents...).Header)
		if test.expectedError == nil {
			if err != nil {
				t.Fatalf("TestValidateParentSet: %s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Fatalf("TestValidateParentSet: %s: expected %s, got %v", test.name, test.expectedError, err)
		}
	}
}

func TestValidateHeaderInContext(t *testing.T) {
	tests := []struct {
		name              string
		enforceDifficulty bool
		modify            func(header *externalapi.DomainBlockHeader)
		expectedError     error
	}{
		{name: "valid", modify: func(*externalapi.DomainBlockHeader) {}},
		{
			name:          "height too low",
			modify:        func(header *externalapi.DomainBlockHeader) { header.Height = 5 },
			expectedError: ruleerrors.ErrInvalidBlockHeight,
		},
		{
			name:          "height too high",
			modify:        func(header *externalapi.DomainBlockHeader) { header.Height = 7 },
			expectedError: ruleerrors.ErrInvalidBlockHeight,
		},
		{
			name:          "older than a parent",
			modify:        func(header *externalapi.DomainBlockHeader) { header.TimeInMilliseconds = 1999 },
			expectedError: ruleerrors.ErrTimeTooOld,
		},
		{
			name:              "expected difficulty",
			enforceDifficulty: true,
			modify:            func(header *externalapi.DomainBlockHeader) { header.Difficulty = 42 },
		},
		{
			name:              "unexpected difficulty",
			enforceDifficulty: true,
			modify:            func(header *externalapi.DomainBlockHeader) { header.Difficulty = 41 },
			expectedError:     ruleerrors.ErrUnexpectedDifficulty,
		},
		{
			name:   "difficulty is not enforced",
			modify: func(header *externalapi.DomainBlockHeader) { header.Difficulty = 41 },
		},
	}

	for _, test := range tests {
		tv := newTestValidator(t, testutils.HashFromByte(0xff), test.enforceDifficulty)
		low := tv.stageParent(1, 3, 1000, 1, externalapi.ClassificationUnresolved)
		high := tv.stageParent(2, 5, 2000, 1, externalapi.ClassificationUnresolved)

		header := validBlock(low, high).Header
		header.Height = 6
		header.TimeInMilliseconds = 2000
		test.modify(header)

		err := tv.validator.ValidateHeaderInContext(tv.stagingArea, header)
		if test.expectedError == nil {
			if err != nil {
				t.Fatalf("TestValidateHeaderInContext: %s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Fatalf("TestValidateHeaderInContext: %s: expected %s, got %v", test.name, test.expectedError, err)
		}
	}
}
