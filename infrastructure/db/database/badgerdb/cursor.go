package badgerdb

import (
	"bytes"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/infrastructure/db/database"
)

// BadgerCursor adapts a prefix-bounded badger iterator to the
// database.Cursor contract: the cursor starts before the first entry and
// the first call to Next lands on it.
type BadgerCursor struct {
	iterator *badger.Iterator
	bucket   *database.Bucket
	prefix   []byte
	started  bool
	onClose  func()

	isClosed bool
}

func newCursor(txn *badger.Txn, bucket *database.Bucket, onClose func()) *BadgerCursor {
	prefix := bucket.Path()
	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	return &BadgerCursor{
		iterator: txn.NewIterator(options),
		bucket:   bucket,
		prefix:   prefix,
		onClose:  onClose,
	}
}

// Next moves the iterator to the next key/value pair. It returns whether the
// iterator is exhausted. Panics if the cursor is closed.
func (c *BadgerCursor) Next() bool {
	if c.isClosed {
		panic("cannot call next on a closed cursor")
	}
	if !c.started {
		c.started = true
		c.iterator.Rewind()
	} else if c.iterator.ValidForPrefix(c.prefix) {
		c.iterator.Next()
	}
	return c.iterator.ValidForPrefix(c.prefix)
}

// First moves the iterator to the first key/value pair. It returns false if
// such a pair does not exist. Panics if the cursor is closed.
func (c *BadgerCursor) First() bool {
	if c.isClosed {
		panic("cannot call first on a closed cursor")
	}
	c.started = true
	c.iterator.Rewind()
	return c.iterator.ValidForPrefix(c.prefix)
}

// Seek moves the iterator to the first key/value pair whose key is greater
// than or equal to the given key. It returns ErrNotFound if such pair does not
// exist.
func (c *BadgerCursor) Seek(key *database.Key) error {
	if c.isClosed {
		return errors.New("cannot seek a closed cursor")
	}
	c.started = true
	c.iterator.Seek(key.Bytes())

	notFoundErr := errors.Wrapf(database.ErrNotFound, "key %s not found", key)
	if !c.iterator.ValidForPrefix(c.prefix) {
		return notFoundErr
	}
	if !bytes.Equal(c.iterator.Item().Key(), key.Bytes()) {
		return notFoundErr
	}
	return nil
}

// Key returns the key of the current key/value pair, or ErrNotFound if done.
func (c *BadgerCursor) Key() (*database.Key, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the key of a closed cursor")
	}
	if !c.started || !c.iterator.ValidForPrefix(c.prefix) {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"key of an exhausted cursor")
	}
	suffix := bytes.TrimPrefix(c.iterator.Item().KeyCopy(nil), c.prefix)
	return c.bucket.Key(suffix), nil
}

// Value returns the value of the current key/value pair, or ErrNotFound if done.
func (c *BadgerCursor) Value() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the value of a closed cursor")
	}
	if !c.started || !c.iterator.ValidForPrefix(c.prefix) {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"value of an exhausted cursor")
	}
	value, err := c.iterator.Item().ValueCopy(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

// Close releases associated resources.
func (c *BadgerCursor) Close() error {
	if c.isClosed {
		return errors.New("cannot close an already closed cursor")
	}
	c.isClosed = true
	c.iterator.Close()
	if c.onClose != nil {
		c.onClose()
	}
	return nil
}
