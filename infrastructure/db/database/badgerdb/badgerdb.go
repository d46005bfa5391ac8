package badgerdb

import (
	badger "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/infrastructure/db/database"
)

// BadgerDB defines a thin wrapper around badger.
type BadgerDB struct {
	db *badger.DB
}

// Options returns the badger options used to open a database at path.
// It's defined as a variable for the sake of testing.
var Options = func(path string, cacheSizeMiB int) badger.Options {
	options := badger.DefaultOptions(path).
		WithLogger(badgerLogger{log: log}).
		WithValueLogFileSize(256 << 20).
		WithNumCompactors(2)
	if cacheSizeMiB > 0 {
		options = options.WithBlockCacheSize(int64(cacheSizeMiB) << 20)
	}
	if path == "" {
		options = options.WithInMemory(true)
	}
	return options
}

// NewBadgerDB opens a badger instance defined by the given path. An empty
// path opens an in-memory instance.
func NewBadgerDB(path string, cacheSizeMiB int) (*BadgerDB, error) {
	db, err := badger.Open(Options(path, cacheSizeMiB))
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening badger database at %s", path)
	}
	return &BadgerDB{db: db}, nil
}

// Compact flattens the LSM tree and garbage collects the value log.
func (db *BadgerDB) Compact() error {
	err := db.db.Flatten(2)
	if err != nil {
		return errors.WithStack(err)
	}
	err = db.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return errors.WithStack(err)
	}
	return nil
}

// Close closes the badger instance.
func (db *BadgerDB) Close() error {
	return errors.WithStack(db.db.Close())
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (db *BadgerDB) Put(key *database.Key, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.Bytes(), value)
	})
	return errors.WithStack(err)
}

// Get gets the value for the given key. It returns
// ErrNotFound if the given key does not exist.
func (db *BadgerDB) Get(key *database.Key) ([]byte, error) {
	var value []byte
	err := db.db.View(func(txn *badger.Txn) error {
		var err error
		value, err = get(txn, key)
		return err
	})
	return value, err
}

// Has returns true if the database does contains the
// given key.
func (db *BadgerDB) Has(key *database.Key) (bool, error) {
	var exists bool
	err := db.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = has(txn, key)
		return err
	})
	return exists, err
}

// Delete deletes the value for the given key. Will not
// return an error if the key doesn't exist.
func (db *BadgerDB) Delete(key *database.Key) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key.Bytes())
	})
	return errors.WithStack(err)
}

// Cursor begins a new cursor over the given bucket. The cursor owns a
// read-only transaction that is discarded when the cursor is closed.
func (db *BadgerDB) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	txn := db.db.NewTransaction(false)
	return newCursor(txn, bucket, txn.Discard), nil
}

func get(txn *badger.Txn, key *database.Key) ([]byte, error) {
	item, err := txn.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.Wrapf(database.ErrNotFound, "key %s not found", key)
		}
		return nil, errors.WithStack(err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

func has(txn *badger.Txn, key *database.Key) (bool, error) {
	_, err := txn.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}
