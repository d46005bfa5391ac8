// Package testutils holds helpers shared by the consensus tests.
package testutils

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/database"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/infrastructure/db/database/ldb"
)

// NewTestDBManager opens a LevelDB database in a temporary directory and
// returns a consensus handle to it. The database is closed when the test
// ends.
func NewTestDBManager(t testing.TB) model.DBManager {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewTestDBManager: error opening database: %s", err)
	}
	t.Cleanup(func() {
		err := db.Close()
		if err != nil {
			t.Errorf("NewTestDBManager: error closing database: %s", err)
		}
	})
	return database.New(db)
}

// CommitStagingArea commits stagingArea into dbManager in a single
// database transaction.
func CommitStagingArea(t testing.TB, dbManager model.DBManager, stagingArea *model.StagingArea) {
	dbTx, err := dbManager.Begin()
	if err != nil {
		t.Fatalf("CommitStagingArea: Begin: %s", err)
	}
	defer dbTx.RollbackUnlessClosed()

	err = stagingArea.Commit(dbTx)
	if err != nil {
		t.Fatalf("CommitStagingArea: Commit staging area: %s", err)
	}
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("CommitStagingArea: Commit transaction: %s", err)
	}
}

// HashFromByte returns a hash whose first byte is b, for readable fixtures
func HashFromByte(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}
