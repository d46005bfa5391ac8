package database

import (
	"github.com/weightdag/dagd/infrastructure/db/database"
)

// ErrNotFound denotes that the requested item was not
// found in the database.
var ErrNotFound = database.ErrNotFound

// IsNotFoundError checks whether an error is an ErrNotFound.
func IsNotFoundError(err error) bool {
	return database.IsNotFoundError(err)
}

// IsStorageFailure checks whether an error is a storage failure raised
// while serving a consensus operation.
func IsStorageFailure(err error) bool {
	return database.IsStorageFailure(err)
}

// NewStorageFailure wraps a storage engine error raised during operation.
func NewStorageFailure(operation string, err error) error {
	return database.NewStorageFailure(operation, err)
}
