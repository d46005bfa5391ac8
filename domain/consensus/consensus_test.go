package consensus

import (
	"math"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	"github.com/weightdag/dagd/domain/dagconfig"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

func newSimnetConsensus(t *testing.T) TestConsensus {
	params := dagconfig.SimnetParams
	return NewTestConsensus(t, &params)
}

func addBlock(t *testing.T, tc TestConsensus, parents []*externalapi.DomainHash, difficulty uint64,
	miner string, transactions ...*externalapi.DomainTransaction) (*externalapi.DomainHash, *externalapi.BlockInsertionResult) {

	blockHash, result, err := tc.AddBlock(parents, difficulty, miner, transactions)
	if err != nil {
		t.Fatalf("%s: AddBlock: %+v", t.Name(), err)
	}
	return blockHash, result
}

// addChain adds length single-parent blocks on top of tip and returns the
// last one
func addChain(t *testing.T, tc TestConsensus, tip *externalapi.DomainHash, length int, difficulty uint64) *externalapi.DomainHash {
	for i := 0; i < length; i++ {
		tip, _ = addBlock(t, tc, []*externalapi.DomainHash{tip}, difficulty, "chain")
	}
	return tip
}

func blockInfo(t *testing.T, tc TestConsensus, blockHash *externalapi.DomainHash) *externalapi.BlockInfo {
	info, err := tc.GetBlockInfo(blockHash)
	if err != nil {
		t.Fatalf("%s: GetBlockInfo: %+v", t.Name(), err)
	}
	if !info.Exists {
		t.Fatalf("%s: block %s does not exist", t.Name(), blockHash)
	}
	return info
}

func requireClassification(t *testing.T, tc TestConsensus, blockHash *externalapi.DomainHash,
	expected externalapi.BlockClassification) {

	info := blockInfo(t, tc, blockHash)
	if info.Metadata.Classification != expected {
		t.Fatalf("%s: expected block %s to be %s, got %s", t.Name(), blockHash, expected,
			info.Metadata.Classification)
	}
}

func hashes(blockHashes ...*externalapi.DomainHash) []*externalapi.DomainHash {
	return blockHashes
}

func TestGenesisIsInsertedOnce(t *testing.T) {
	tc := newSimnetConsensus(t)
	genesisHash := tc.DAGParams().GenesisHash

	tips, err := tc.GetTips()
	if err != nil || !externalapi.HashesEqual(tips, hashes(genesisHash)) {
		t.Fatalf("TestGenesisIsInsertedOnce: unexpected tips (%v, %v)", tips, err)
	}
	orderedHash, err := tc.GetBlockHashByTopoHeight(0)
	if err != nil || !orderedHash.Equal(genesisHash) {
		t.Fatalf("TestGenesisIsInsertedOnce: genesis is not at topo height 0 (%v, %v)", orderedHash, err)
	}

	_, err = tc.ValidateAndInsertBlock(tc.DAGParams().GenesisBlock)
	if !errors.Is(err, ruleerrors.ErrGenesisOnInitializedConsensus) {
		t.Fatalf("TestGenesisIsInsertedOnce: expected ErrGenesisOnInitializedConsensus, got %v", err)
	}
}

// TestTwoChildrenOfGenesis inserts two equally weighted children of genesis
// and checks that the heavier one becomes Sync once their height is stable
func TestTwoChildrenOfGenesis(t *testing.T) {
	tc := newSimnetConsensus(t)
	genesisHash := tc.DAGParams().GenesisHash

	childA, _ := addBlock(t, tc, hashes(genesisHash), 100, "alice")
	childB, _ := addBlock(t, tc, hashes(genesisHash), 105, "bob")

	tips, err := tc.GetTips()
	if err != nil || !externalapi.HashesEqual(tips, hashes(childA, childB)) {
		t.Fatalf("TestTwoChildrenOfGenesis: unexpected tips (%v, %v)", tips, err)
	}
	for _, child := range hashes(childA, childB) {
		info := blockInfo(t, tc, child)
		if info.Header.Height != 1 {
			t.Fatalf("TestTwoChildrenOfGenesis: unexpected height %d", info.Header.Height)
		}
		if info.Metadata.Classification == externalapi.ClassificationSync {
			t.Fatalf("TestTwoChildrenOfGenesis: block %s is Sync before stability", child)
		}
	}

	merge, _ := addBlock(t, tc, hashes(childA, childB), 100, "carol")
	addChain(t, tc, merge, int(tc.DAGParams().StableHeightLimit)-1, 100)

	state, err := tc.GetDAGState()
	if err != nil || !state.IsStableHeight(1) {
		t.Fatalf("TestTwoChildrenOfGenesis: height 1 is not stable: %s", spew.Sdump(state))
	}
	requireClassification(t, tc, childB, externalapi.ClassificationSync)
	requireClassification(t, tc, childA, externalapi.ClassificationSide)
}

func TestChainStabilizesGenesisAndFirstBlock(t *testing.T) {
	tc := newSimnetConsensus(t)
	params := tc.DAGParams()

	first, _ := addBlock(t, tc, hashes(params.GenesisHash), 10, "alice")
	tip := addChain(t, tc, first, int(params.StableHeightLimit), 10)

	state, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestChainStabilizesGenesisAndFirstBlock: %+v", err)
	}
	if state.TopHeight != params.StableHeightLimit+1 || state.StableHeight != 1 || state.StableTopoHeight != 1 {
		t.Fatalf("TestChainStabilizesGenesisAndFirstBlock: unexpected state %s", spew.Sdump(state))
	}

	requireClassification(t, tc, params.GenesisHash, externalapi.ClassificationSync)
	requireClassification(t, tc, first, externalapi.ClassificationSync)
	requireClassification(t, tc, tip, externalapi.ClassificationUnresolved)

	genesisReward := uint64(params.MaxSupply>>params.EmissionSpeedFactor) * (100 - params.DevFeePercent) / 100
	firstInfo := blockInfo(t, tc, first)
	if !firstInfo.Metadata.Stabilized || firstInfo.Reward == 0 {
		t.Fatalf("TestChainStabilizesGenesisAndFirstBlock: the first block was not settled: %s", spew.Sdump(firstInfo))
	}
	balance, err := tc.GetBalance("alice")
	if err != nil || balance != firstInfo.Reward {
		t.Fatalf("TestChainStabilizesGenesisAndFirstBlock: unexpected balance (%d, %v)", balance, err)
	}
	supply, err := tc.GetEmittedSupply()
	if err != nil || supply <= genesisReward {
		t.Fatalf("TestChainStabilizesGenesisAndFirstBlock: unexpected emitted supply (%d, %v)", supply, err)
	}
}

func TestMiningTipsExcludeDeviatedTip(t *testing.T) {
	tc := newSimnetConsensus(t)
	genesisHash := tc.DAGParams().GenesisHash

	heavy1, _ := addBlock(t, tc, hashes(genesisHash), 1000, "a")
	addBlock(t, tc, hashes(genesisHash), 1000, "b")
	addBlock(t, tc, hashes(genesisHash), 1000, "c")
	// 9.5% below the heaviest cumulative difficulty of 1001
	light, _ := addBlock(t, tc, hashes(genesisHash), 905, "d")

	miningTips, err := tc.GetMiningTips()
	if err != nil {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: %+v", err)
	}
	if len(miningTips) != 3 {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: expected 3 mining tips, got %v", miningTips)
	}
	for _, tip := range miningTips {
		if tip.Equal(light) {
			t.Fatalf("TestMiningTipsExcludeDeviatedTip: the deviated tip was selected")
		}
	}

	template, err := tc.BuildBlockTemplate("miner", nil)
	if err != nil {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: BuildBlockTemplate: %+v", err)
	}
	if !externalapi.HashesEqual(template.Header.ParentHashes, miningTips) {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: template parents differ from the mining tips")
	}
	_, err = tc.ValidateAndInsertBlock(template)
	if err != nil {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: the template was rejected: %+v", err)
	}

	_, _, err = tc.AddBlock(hashes(heavy1, light), 1000, "e", nil)
	if !errors.Is(err, ruleerrors.ErrExcessiveDeviation) {
		t.Fatalf("TestMiningTipsExcludeDeviatedTip: expected ErrExcessiveDeviation, got %v", err)
	}
}

func TestOrphanedBlockIsNotRewarded(t *testing.T) {
	tc := newSimnetConsensus(t)
	params := tc.DAGParams()

	transaction := &externalapi.DomainTransaction{Sender: "bob", Nonce: 1, Fee: 5, Payload: []byte{}}
	heavy, _ := addBlock(t, tc, hashes(params.GenesisHash), 1000, "alice")
	orphan, _ := addBlock(t, tc, hashes(params.GenesisHash), 10, "bob", transaction)

	var returnedTransactions []*externalapi.DomainTransaction
	tip := heavy
	for i := uint64(0); i < params.StableHeightLimit; i++ {
		var result *externalapi.BlockInsertionResult
		tip, result = addBlock(t, tc, hashes(tip), 1000, "alice")
		returnedTransactions = append(returnedTransactions, result.OrphanedTransactions...)
	}

	info := blockInfo(t, tc, orphan)
	if info.Metadata.Classification != externalapi.ClassificationOrphaned || !info.Metadata.Stabilized ||
		info.Metadata.HasTopoHeight {
		t.Fatalf("TestOrphanedBlockIsNotRewarded: unexpected metadata %s", spew.Sdump(info.Metadata))
	}
	if info.Reward != 0 {
		t.Fatalf("TestOrphanedBlockIsNotRewarded: the orphan was rewarded %d", info.Reward)
	}
	balance, err := tc.GetBalance("bob")
	if err != nil || balance != 0 {
		t.Fatalf("TestOrphanedBlockIsNotRewarded: unexpected balance (%d, %v)", balance, err)
	}
	if len(returnedTransactions) != 1 || !returnedTransactions[0].Equal(transaction) {
		t.Fatalf("TestOrphanedBlockIsNotRewarded: unexpected returned transactions %s", spew.Sdump(returnedTransactions))
	}
	requireClassification(t, tc, heavy, externalapi.ClassificationSync)

	_, _, err = tc.AddBlock(hashes(tip, orphan), 1000, "carol", nil)
	if !errors.Is(err, ruleerrors.ErrExcessiveDeviation) {
		t.Fatalf("TestOrphanedBlockIsNotRewarded: expected ErrExcessiveDeviation for an orphaned parent, got %v", err)
	}
}

func TestOrphanedBranchCannotTakeOverTheOrder(t *testing.T) {
	tc := newSimnetConsensus(t)
	genesisHash := tc.DAGParams().GenesisHash

	first, _ := addBlock(t, tc, hashes(genesisHash), 100, "alice")
	orphan, _ := addBlock(t, tc, hashes(genesisHash), 10, "bob")
	orphanChild, _ := addBlock(t, tc, hashes(orphan), 10, "bob")
	second, _ := addBlock(t, tc, hashes(first), 100, "alice")
	tip := addChain(t, tc, second, 7, 100)
	requireClassification(t, tc, orphan, externalapi.ClassificationOrphaned)

	stateBefore, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: GetDAGState: %+v", err)
	}
	if stateBefore.TopTopoHeight != 9 {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: unexpected state %s", spew.Sdump(stateBefore))
	}

	// The child of the orphan is still mutable, but nothing built on it can
	// ever be ordered
	_, _, err = tc.AddBlock(hashes(orphanChild), 1000000, "bob", nil)
	if !errors.Is(err, ruleerrors.ErrExcessiveDeviation) {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: expected ErrExcessiveDeviation, got %v", err)
	}

	miningTips, err := tc.GetMiningTips()
	if err != nil {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: GetMiningTips: %+v", err)
	}
	if !externalapi.HashesEqual(miningTips, hashes(tip)) {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: unexpected mining tips %v", miningTips)
	}

	addBlock(t, tc, hashes(tip), 100, "alice")
	stateAfter, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: GetDAGState: %+v", err)
	}
	if stateAfter.TopTopoHeight != 10 || stateAfter.StableHeight != 2 {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: unexpected state %s", spew.Sdump(stateAfter))
	}
	requireClassification(t, tc, second, externalapi.ClassificationSync)
	info := blockInfo(t, tc, second)
	if !info.Metadata.HasTopoHeight || info.Metadata.TopoHeight != 2 {
		t.Fatalf("TestOrphanedBranchCannotTakeOverTheOrder: unexpected metadata %s", spew.Sdump(info.Metadata))
	}
	requireClassification(t, tc, orphanChild, externalapi.ClassificationOrphaned)
}

func TestInsertionRuleErrors(t *testing.T) {
	tc := newSimnetConsensus(t)
	genesisHash := tc.DAGParams().GenesisHash

	block, err := tc.BuildBlockWithParents(hashes(genesisHash), 10, "alice", nil)
	if err != nil {
		t.Fatalf("TestInsertionRuleErrors: %+v", err)
	}
	_, err = tc.ValidateAndInsertBlock(block)
	if err != nil {
		t.Fatalf("TestInsertionRuleErrors: %+v", err)
	}
	_, err = tc.ValidateAndInsertBlock(block)
	if !errors.Is(err, ruleerrors.ErrDuplicateBlock) {
		t.Fatalf("TestInsertionRuleErrors: expected ErrDuplicateBlock, got %v", err)
	}

	unknown := block.Clone()
	unknown.Header.ParentHashes = hashes(externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{7}))
	_, err = tc.ValidateAndInsertBlock(unknown)
	var unknownParentErr ruleerrors.ErrUnknownParent
	if !errors.As(err, &unknownParentErr) || len(unknownParentErr.MissingParentHashes) != 1 {
		t.Fatalf("TestInsertionRuleErrors: expected ErrUnknownParent, got %v", err)
	}

	wrongHeight := block.Clone()
	wrongHeight.Header.Height = 2
	_, err = tc.ValidateAndInsertBlock(wrongHeight)
	if !errors.Is(err, ruleerrors.ErrInvalidBlockHeight) {
		t.Fatalf("TestInsertionRuleErrors: expected ErrInvalidBlockHeight, got %v", err)
	}

	tooOld := block.Clone()
	tooOld.Header.TimeInMilliseconds = tc.DAGParams().GenesisBlock.Header.TimeInMilliseconds - 1
	_, err = tc.ValidateAndInsertBlock(tooOld)
	if !errors.Is(err, ruleerrors.ErrTimeTooOld) {
		t.Fatalf("TestInsertionRuleErrors: expected ErrTimeTooOld, got %v", err)
	}

	if database.IsStorageFailure(err) {
		t.Fatalf("TestInsertionRuleErrors: a rule error was reported as a storage failure")
	}

	overflowingFees := []*externalapi.DomainTransaction{
		{Sender: "bob", Nonce: 1, Fee: math.MaxUint64, Payload: []byte{}},
		{Sender: "bob", Nonce: 2, Fee: 2, Payload: []byte{}},
	}
	_, _, err = tc.AddBlock(hashes(genesisHash), 10, "bob", overflowingFees)
	if !errors.Is(err, ruleerrors.ErrExcessiveFees) {
		t.Fatalf("TestInsertionRuleErrors: expected ErrExcessiveFees, got %v", err)
	}
}

func TestBlockAcceptedNotification(t *testing.T) {
	tc := newSimnetConsensus(t)
	subscription, err := tc.Subscribe()
	if err != nil {
		t.Fatalf("TestBlockAcceptedNotification: %+v", err)
	}

	blockHash, _ := addBlock(t, tc, hashes(tc.DAGParams().GenesisHash), 10, "alice")
	notification := <-subscription.Notifications()
	if !notification.Hash.Equal(blockHash) || !notification.HasTopoHeight || notification.TopoHeight != 1 {
		t.Fatalf("TestBlockAcceptedNotification: unexpected notification %s", spew.Sdump(notification))
	}
}

// unknownStableBlockProcessor reports a block that is not in the store as
// newly stable, which makes recording the insertion metrics fail
type unknownStableBlockProcessor struct {
	model.BlockProcessor
}

func (bp *unknownStableBlockProcessor) ValidateAndInsertBlock(block *externalapi.DomainBlock) (
	*externalapi.BlockInsertionResult, error) {

	result, err := bp.BlockProcessor.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}
	result.NewlyStableBlocks = append(result.NewlyStableBlocks,
		externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xee}))
	return result, nil
}

func TestMetricsFailureDoesNotFailInsertion(t *testing.T) {
	tc := newSimnetConsensus(t)
	inner := tc.(*testConsensus).consensus
	inner.metrics = metrics.New()
	inner.blockProcessor = &unknownStableBlockProcessor{BlockProcessor: inner.blockProcessor}

	subscription, err := tc.Subscribe()
	if err != nil {
		t.Fatalf("TestMetricsFailureDoesNotFailInsertion: %+v", err)
	}

	blockHash, result, err := tc.AddBlock(hashes(tc.DAGParams().GenesisHash), 10, "alice", nil)
	if err != nil {
		t.Fatalf("TestMetricsFailureDoesNotFailInsertion: the committed block was reported as failed: %+v", err)
	}
	if !result.Hash.Equal(blockHash) {
		t.Fatalf("TestMetricsFailureDoesNotFailInsertion: unexpected result %s", spew.Sdump(result))
	}
	notification := <-subscription.Notifications()
	if !notification.Hash.Equal(blockHash) {
		t.Fatalf("TestMetricsFailureDoesNotFailInsertion: unexpected notification %s", spew.Sdump(notification))
	}
	blockInfo(t, tc, blockHash)
}

// buildRandomDAG grows a DAG by building over random subsets of the mining
// tips with random difficulties
func buildRandomDAG(t *testing.T, tc TestConsensus, blockCount int, seed int64) []*externalapi.DomainHash {
	random := rand.New(rand.NewSource(seed))
	blockHashes := hashes(tc.DAGParams().GenesisHash)
	for i := 0; i < blockCount; i++ {
		miningTips, err := tc.GetMiningTips()
		if err != nil {
			t.Fatalf("%s: GetMiningTips: %+v", t.Name(), err)
		}
		parentCount := 1 + random.Intn(len(miningTips))
		parents := miningTips[:parentCount]
		difficulty := uint64(95 + random.Intn(10))
		miner := string(rune('a' + random.Intn(4)))

		blockHash, _ := addBlock(t, tc, parents, difficulty, miner)
		blockHashes = append(blockHashes, blockHash)

		// Siblings make the order non-trivial
		if random.Intn(3) == 0 {
			sibling, _ := addBlock(t, tc, parents, difficulty+uint64(random.Intn(5)), miner+"-sibling")
			blockHashes = append(blockHashes, sibling)
		}
	}
	return blockHashes
}

func TestTopologicalOrderIsABijection(t *testing.T) {
	tc := newSimnetConsensus(t)
	blockHashes := buildRandomDAG(t, tc, 40, 1)

	state, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestTopologicalOrderIsABijection: %+v", err)
	}
	order, err := tc.GetDAGOrder(0, state.TopTopoHeight+1)
	if err != nil {
		t.Fatalf("TestTopologicalOrderIsABijection: %+v", err)
	}
	if uint64(len(order)) != state.TopTopoHeight+1 {
		t.Fatalf("TestTopologicalOrderIsABijection: order has %d blocks, expected %d", len(order), state.TopTopoHeight+1)
	}

	seen := make(map[externalapi.DomainHash]uint64)
	for topoHeight, blockHash := range order {
		if _, ok := seen[*blockHash]; ok {
			t.Fatalf("TestTopologicalOrderIsABijection: block %s appears twice in the order", blockHash)
		}
		seen[*blockHash] = uint64(topoHeight)
	}

	for _, blockHash := range blockHashes {
		info := blockInfo(t, tc, blockHash)
		topoHeight, ordered := seen[*blockHash]
		if ordered != info.Metadata.HasTopoHeight {
			t.Fatalf("TestTopologicalOrderIsABijection: block %s disagrees with the topo index", blockHash)
		}
		if ordered && topoHeight != info.Metadata.TopoHeight {
			t.Fatalf("TestTopologicalOrderIsABijection: block %s is at topo height %d but claims %d",
				blockHash, topoHeight, info.Metadata.TopoHeight)
		}
		if ordered {
			for _, parentHash := range info.Header.ParentHashes {
				parentTopoHeight, parentOrdered := seen[*parentHash]
				if !parentOrdered || parentTopoHeight >= topoHeight {
					t.Fatalf("TestTopologicalOrderIsABijection: block %s is ordered before its parent %s",
						blockHash, parentHash)
				}
			}
		}
	}
}

func TestStableClassificationIsExclusive(t *testing.T) {
	tc := newSimnetConsensus(t)
	blockHashes := buildRandomDAG(t, tc, 40, 2)

	state, err := tc.GetDAGState()
	if err != nil || !state.HasStableHeight {
		t.Fatalf("TestStableClassificationIsExclusive: no stable height (%v, %v)", state, err)
	}

	syncAtHeight := make(map[uint64]*externalapi.DomainHash)
	for _, blockHash := range blockHashes {
		info := blockInfo(t, tc, blockHash)
		if !state.IsStableHeight(info.Header.Height) {
			if info.Metadata.Stabilized {
				t.Fatalf("TestStableClassificationIsExclusive: mutable block %s is stabilized", blockHash)
			}
			continue
		}
		if !info.Metadata.Stabilized {
			t.Fatalf("TestStableClassificationIsExclusive: stable block %s was not settled", blockHash)
		}

		switch info.Metadata.Classification {
		case externalapi.ClassificationSync:
			if other, ok := syncAtHeight[info.Header.Height]; ok {
				t.Fatalf("TestStableClassificationIsExclusive: blocks %s and %s are both Sync at height %d",
					other, blockHash, info.Header.Height)
			}
			syncAtHeight[info.Header.Height] = blockHash
		case externalapi.ClassificationSide:
			if !info.Metadata.HasTopoHeight {
				t.Fatalf("TestStableClassificationIsExclusive: Side block %s is not ordered", blockHash)
			}
		case externalapi.ClassificationOrphaned:
			if info.Metadata.HasTopoHeight {
				t.Fatalf("TestStableClassificationIsExclusive: orphan %s is ordered", blockHash)
			}
		default:
			t.Fatalf("TestStableClassificationIsExclusive: stable block %s is %s", blockHash,
				info.Metadata.Classification)
		}
	}
	for height := uint64(0); height <= state.StableHeight; height++ {
		if _, ok := syncAtHeight[height]; !ok {
			t.Fatalf("TestStableClassificationIsExclusive: no Sync block at stable height %d", height)
		}
	}
}

func TestStablePrefixIsFrozen(t *testing.T) {
	tc := newSimnetConsensus(t)
	params := tc.DAGParams()
	addChain(t, tc, params.GenesisHash, int(params.StableHeightLimit)+4, 100)

	state, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestStablePrefixIsFrozen: %+v", err)
	}
	stablePrefix, err := tc.GetDAGOrder(0, state.StableTopoHeight+1)
	if err != nil {
		t.Fatalf("TestStablePrefixIsFrozen: %+v", err)
	}

	// The lowest block a new block may still point to is one above the
	// stable height. A single heavy block over it outweighs the whole
	// current chain.
	lowestParents, err := tc.GetBlockHashesAtHeight(state.StableHeight + 1)
	if err != nil || len(lowestParents) != 1 {
		t.Fatalf("TestStablePrefixIsFrozen: unexpected blocks above the stable height (%v, %v)", lowestParents, err)
	}
	competitor, result := addBlock(t, tc, lowestParents, 100*(params.StableHeightLimit+1), "competitor")

	if len(result.ReorderedBlocks) == 0 {
		t.Fatalf("TestStablePrefixIsFrozen: the competitor did not reorder the mutable window")
	}
	for _, reordered := range result.ReorderedBlocks {
		info := blockInfo(t, tc, reordered)
		if state.IsStableHeight(info.Header.Height) {
			t.Fatalf("TestStablePrefixIsFrozen: stable block %s was reordered", reordered)
		}
	}
	newPrefix, err := tc.GetDAGOrder(0, state.StableTopoHeight+1)
	if err != nil || !externalapi.HashesEqual(stablePrefix, newPrefix) {
		t.Fatalf("TestStablePrefixIsFrozen: the stable prefix changed from %v to %v (%v)", stablePrefix, newPrefix, err)
	}
	newState, err := tc.GetDAGState()
	if err != nil || newState.StableHeight != state.StableHeight {
		t.Fatalf("TestStablePrefixIsFrozen: the stable height moved (%v, %v)", newState, err)
	}
	competitorInfo := blockInfo(t, tc, competitor)
	if !competitorInfo.Metadata.HasTopoHeight || competitorInfo.Metadata.TopoHeight != newState.TopTopoHeight {
		t.Fatalf("TestStablePrefixIsFrozen: the competitor is not on top of the order: %s",
			spew.Sdump(competitorInfo.Metadata))
	}
}

func TestSyncBlockWeightIsMonotonic(t *testing.T) {
	tc := newSimnetConsensus(t)
	params := tc.DAGParams()

	tip := params.GenesisHash
	for i := 0; i < 2*int(params.StableHeightLimit); i++ {
		tip, _ = addBlock(t, tc, hashes(tip), 100, "alice")
		addBlock(t, tc, blockInfo(t, tc, tip).Header.ParentHashes, 95, "bob")
	}

	state, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestSyncBlockWeightIsMonotonic: %+v", err)
	}
	order, err := tc.GetDAGOrder(0, state.StableTopoHeight+1)
	if err != nil {
		t.Fatalf("TestSyncBlockWeightIsMonotonic: %+v", err)
	}
	previous := uint64(0)
	for _, blockHash := range order {
		info := blockInfo(t, tc, blockHash)
		if info.Metadata.Classification != externalapi.ClassificationSync {
			continue
		}
		if info.Metadata.CumulativeDifficulty < previous {
			t.Fatalf("TestSyncBlockWeightIsMonotonic: Sync block %s is lighter than its predecessor", blockHash)
		}
		previous = info.Metadata.CumulativeDifficulty
	}
}

func TestSettlementSurvivesRestart(t *testing.T) {
	params := dagconfig.SimnetParams
	db := newTestDatabase(t)
	tc := NewTestConsensusWithDatabase(t, &params, db)

	first, _ := addBlock(t, tc, hashes(params.GenesisHash), 10, "alice")
	tip := addChain(t, tc, first, int(params.StableHeightLimit), 10)
	balance, err := tc.GetBalance("alice")
	if err != nil || balance == 0 {
		t.Fatalf("TestSettlementSurvivesRestart: unexpected balance (%d, %v)", balance, err)
	}
	supply, err := tc.GetEmittedSupply()
	if err != nil {
		t.Fatalf("TestSettlementSurvivesRestart: %+v", err)
	}
	tc.Close()

	restarted := NewTestConsensusWithDatabase(t, &params, db)
	restartedBalance, err := restarted.GetBalance("alice")
	if err != nil || restartedBalance != balance {
		t.Fatalf("TestSettlementSurvivesRestart: balance changed across restart (%d, %v)", restartedBalance, err)
	}

	// Only the block that became stable now is settled
	_, result := addBlock(t, restarted, hashes(tip), 10, "bob")
	if len(result.NewlyStableBlocks) != 1 {
		t.Fatalf("TestSettlementSurvivesRestart: expected one newly stable block, got %v", result.NewlyStableBlocks)
	}
	restartedBalance, err = restarted.GetBalance("alice")
	if err != nil || restartedBalance != balance {
		t.Fatalf("TestSettlementSurvivesRestart: a settled block was paid again (%d, %v)", restartedBalance, err)
	}
	newSupply, err := restarted.GetEmittedSupply()
	if err != nil || newSupply <= supply {
		t.Fatalf("TestSettlementSurvivesRestart: unexpected supply %d after %d (%v)", newSupply, supply, err)
	}
}

func TestFailedCommitLeavesStoreUnchanged(t *testing.T) {
	params := dagconfig.SimnetParams
	db := newTestDatabase(t)
	tc := NewTestConsensusWithDatabase(t, &params, db)
	tip := addChain(t, tc, params.GenesisHash, int(params.StableHeightLimit), 10)

	stateBefore, err := tc.GetDAGState()
	if err != nil {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: %+v", err)
	}
	supplyBefore, err := tc.GetEmittedSupply()
	if err != nil {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: %+v", err)
	}

	block, err := tc.BuildBlockWithParents(hashes(tip), 10, "alice", nil)
	if err != nil {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: %+v", err)
	}
	db.failCommits = true
	_, err = tc.ValidateAndInsertBlock(block)
	if !database.IsStorageFailure(err) {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: expected a storage failure, got %v", err)
	}
	db.failCommits = false

	stateAfter, err := tc.GetDAGState()
	if err != nil || *stateAfter != *stateBefore {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: state changed from %s to %s (%v)",
			spew.Sdump(stateBefore), spew.Sdump(stateAfter), err)
	}
	supplyAfter, err := tc.GetEmittedSupply()
	if err != nil || supplyAfter != supplyBefore {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: supply changed from %d to %d", supplyBefore, supplyAfter)
	}
	info, err := tc.GetBlockInfo(consensushashing.BlockHash(block))
	if err != nil || info.Exists {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: the failed block was stored (%v)", err)
	}
	tips, err := tc.GetTips()
	if err != nil || !externalapi.HashesEqual(tips, hashes(tip)) {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: tips changed to %v (%v)", tips, err)
	}

	_, err = tc.ValidateAndInsertBlock(block)
	if err != nil {
		t.Fatalf("TestFailedCommitLeavesStoreUnchanged: the block was rejected after the failure: %+v", err)
	}
}
