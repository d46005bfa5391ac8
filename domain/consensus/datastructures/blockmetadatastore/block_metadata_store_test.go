package blockmetadatastore

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/testutils"
)

func TestBlockMetadataStoreRestage(t *testing.T) {
	dbManager := testutils.NewTestDBManager(t)
	store := New(10)
	hash := testutils.HashFromByte(1)

	initial := &externalapi.BlockMetadata{CumulativeDifficulty: 10}
	stagingArea := model.NewStagingArea()
	store.Stage(stagingArea, hash, initial)
	testutils.CommitStagingArea(t, dbManager, stagingArea)

	// Warm the cache, then overwrite the committed value
	_, err := store.BlockMetadata(dbManager, model.NewStagingArea(), hash)
	if err != nil {
		t.Fatalf("TestBlockMetadataStoreRestage: %s", err)
	}

	updated := &externalapi.BlockMetadata{
		CumulativeDifficulty: 10,
		HasTopoHeight:        true,
		TopoHeight:           4,
		Classification:       externalapi.ClassificationSide,
	}
	stagingArea = model.NewStagingArea()
	store.Stage(stagingArea, hash, updated)
	testutils.CommitStagingArea(t, dbManager, stagingArea)

	stored, err := store.BlockMetadata(dbManager, model.NewStagingArea(), hash)
	if err != nil {
		t.Fatalf("TestBlockMetadataStoreRestage: %s", err)
	}
	if !stored.Equal(updated) {
		t.Fatalf("TestBlockMetadataStoreRestage: the cache served a stale value: %s", spew.Sdump(stored))
	}

	exists, err := store.Has(dbManager, model.NewStagingArea(), testutils.HashFromByte(2))
	if err != nil || exists {
		t.Fatalf("TestBlockMetadataStoreRestage: Has of an unknown hash returned (%t, %v)", exists, err)
	}
}

func TestBlockMetadataStoreUncommittedAreaIsDiscarded(t *testing.T) {
	dbManager := testutils.NewTestDBManager(t)
	store := New(10)
	hash := testutils.HashFromByte(1)

	stagingArea := model.NewStagingArea()
	store.Stage(stagingArea, hash, &externalapi.BlockMetadata{CumulativeDifficulty: 1})

	exists, err := store.Has(dbManager, model.NewStagingArea(), hash)
	if err != nil || exists {
		t.Fatalf("TestBlockMetadataStoreUncommittedAreaIsDiscarded: staged data leaked: (%t, %v)", exists, err)
	}
}
