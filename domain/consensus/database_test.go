package consensus

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/db/database/ldb"
)

// testDatabase wraps a LevelDB database and fails transaction commits on
// demand
type testDatabase struct {
	database.Database
	failCommits bool
}

type testTransaction struct {
	database.Transaction
	db *testDatabase
}

func newTestDatabase(t *testing.T) *testDatabase {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("newTestDatabase: %s", err)
	}
	t.Cleanup(func() {
		err := db.Close()
		if err != nil {
			t.Errorf("newTestDatabase: error closing database: %s", err)
		}
	})
	return &testDatabase{Database: db}
}

func (db *testDatabase) Begin() (database.Transaction, error) {
	transaction, err := db.Database.Begin()
	if err != nil {
		return nil, err
	}
	return &testTransaction{Transaction: transaction, db: db}, nil
}

func (tx *testTransaction) Commit() error {
	if tx.db.failCommits {
		err := tx.Transaction.Rollback()
		if err != nil {
			return err
		}
		return errors.New("injected commit failure")
	}
	return tx.Transaction.Commit()
}
