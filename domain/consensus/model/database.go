package model

// DBCursor iterates over the entries of one bucket in key order.
type DBCursor interface {
	// Next moves to the next entry and reports whether one exists. The
	// first call lands on the first entry. Panics if the cursor is closed.
	Next() bool

	// First moves to the first entry and reports whether one exists.
	First() bool

	// Seek moves to the entry with exactly the given key, or returns
	// ErrNotFound.
	Seek(key DBKey) error

	// Key returns the key of the current entry, or ErrNotFound when
	// exhausted.
	Key() (DBKey, error)

	// Value returns the value of the current entry, or ErrNotFound when
	// exhausted.
	Value() ([]byte, error)

	// Close releases the cursor.
	Close() error
}

// DBReader is the read side of the consensus database. Stores receive it
// for every lookup so a read may be served by either the database itself or
// an open transaction.
type DBReader interface {
	// Get returns the value of key, or an error satisfying
	// database.IsNotFoundError.
	Get(key DBKey) ([]byte, error)

	// Has returns whether key exists.
	Has(key DBKey) (bool, error)

	// Cursor opens a cursor over bucket.
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter is the write side of the consensus database
type DBWriter interface {
	DBReader

	// Put sets the value of key, overwriting any previous value.
	Put(key DBKey, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key DBKey) error
}

// DBTransaction is an open database transaction. Staging areas are
// committed into one.
type DBTransaction interface {
	DBWriter

	Rollback() error
	Commit() error

	// RollbackUnlessClosed rolls back unless Commit or Rollback were
	// already called. It is meant for defer.
	RollbackUnlessClosed() error
}

// DBManager is the consensus handle to the database
type DBManager interface {
	DBWriter

	// Begin begins a new database transaction.
	Begin() (DBTransaction, error)
}

// DBKey is a full database key made of a bucket and a suffix
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a key prefix that may hold keys and nested buckets
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}
