package database

import "github.com/pkg/errors"

// ErrNotFound denotes that the requested item was not
// found in the database.
var ErrNotFound = errors.New("not found")

// IsNotFoundError checks whether an error is an ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StorageFailureError wraps any error raised by the underlying storage
// engine while serving a consensus operation. It marks the operation as
// failed without any observable partial mutation.
type StorageFailureError struct {
	Operation string
	Err       error
}

func (e *StorageFailureError) Error() string {
	return "storage failure during " + e.Operation + ": " + e.Err.Error()
}

// Unwrap satisfies the errors.Unwrap interface
func (e *StorageFailureError) Unwrap() error {
	return e.Err
}

// NewStorageFailure wraps err in a StorageFailureError. It returns nil if
// err is nil, and err itself if it is already a storage failure.
func NewStorageFailure(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsStorageFailure(err) {
		return err
	}
	return errors.WithStack(&StorageFailureError{Operation: operation, Err: err})
}

// IsStorageFailure checks whether an error is, or wraps, a
// StorageFailureError.
func IsStorageFailure(err error) bool {
	var storageFailure *StorageFailureError
	return errors.As(err, &storageFailure)
}
