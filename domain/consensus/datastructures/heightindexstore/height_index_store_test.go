package heightindexstore

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/testutils"
)

func TestHeightIndexStore(t *testing.T) {
	dbManager := testutils.NewTestDBManager(t)
	store, err := New(10)
	if err != nil {
		t.Fatalf("TestHeightIndexStore: %s", err)
	}

	blocks, err := store.BlocksAtHeight(dbManager, model.NewStagingArea(), 5)
	if err != nil || len(blocks) != 0 {
		t.Fatalf("TestHeightIndexStore: an empty height returned (%v, %v)", blocks, err)
	}

	a, b := testutils.HashFromByte(1), testutils.HashFromByte(2)
	stagingArea := model.NewStagingArea()
	for _, blockHash := range []*externalapi.DomainHash{a, b, a} {
		err := store.StageBlock(dbManager, stagingArea, 5, blockHash)
		if err != nil {
			t.Fatalf("TestHeightIndexStore: StageBlock: %s", err)
		}
	}
	testutils.CommitStagingArea(t, dbManager, stagingArea)

	blocks, err = store.BlocksAtHeight(dbManager, model.NewStagingArea(), 5)
	if err != nil || !externalapi.HashesEqual(blocks, []*externalapi.DomainHash{a, b}) {
		t.Fatalf("TestHeightIndexStore: unexpected blocks (%v, %v)", blocks, err)
	}

	// A later insertion at the same height extends the committed set
	c := testutils.HashFromByte(3)
	stagingArea = model.NewStagingArea()
	err = store.StageBlock(dbManager, stagingArea, 5, c)
	if err != nil {
		t.Fatalf("TestHeightIndexStore: StageBlock: %s", err)
	}
	testutils.CommitStagingArea(t, dbManager, stagingArea)

	blocks, err = store.BlocksAtHeight(dbManager, model.NewStagingArea(), 5)
	if err != nil || !externalapi.HashesEqual(blocks, []*externalapi.DomainHash{a, b, c}) {
		t.Fatalf("TestHeightIndexStore: unexpected blocks after extension (%v, %v)", blocks, err)
	}
}

func TestHeightIndexStoreCacheSize(t *testing.T) {
	_, err := New(0)
	if err == nil {
		t.Fatalf("TestHeightIndexStoreCacheSize: a zero cache size was accepted")
	}

	// A single cache slot is evicted between heights without losing data
	dbManager := testutils.NewTestDBManager(t)
	store, err := New(1)
	if err != nil {
		t.Fatalf("TestHeightIndexStoreCacheSize: %s", err)
	}
	stagingArea := model.NewStagingArea()
	for height := uint64(0); height < 3; height++ {
		err := store.StageBlock(dbManager, stagingArea, height, testutils.HashFromByte(byte(height)))
		if err != nil {
			t.Fatalf("TestHeightIndexStoreCacheSize: StageBlock: %s", err)
		}
	}
	testutils.CommitStagingArea(t, dbManager, stagingArea)

	for _, height := range []uint64{0, 1, 2, 0} {
		blocks, err := store.BlocksAtHeight(dbManager, model.NewStagingArea(), height)
		expected := []*externalapi.DomainHash{testutils.HashFromByte(byte(height))}
		if err != nil || !externalapi.HashesEqual(blocks, expected) {
			t.Fatalf("TestHeightIndexStoreCacheSize: unexpected blocks at height %d (%v, %v)", height, blocks, err)
		}
	}
}
