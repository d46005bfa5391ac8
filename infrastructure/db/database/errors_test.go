package database

import (
	"testing"

	"github.com/pkg/errors"
)

func TestStorageFailure(t *testing.T) {
	engineErr := errors.New("disk on fire")
	err := NewStorageFailure("insert", engineErr)
	if !IsStorageFailure(err) {
		t.Fatalf("TestStorageFailure: expected a storage failure, got %v", err)
	}
	if !errors.Is(err, engineErr) {
		t.Fatalf("TestStorageFailure: storage failure does not wrap the engine error")
	}
	if NewStorageFailure("insert", err) != err {
		t.Fatalf("TestStorageFailure: an existing storage failure was wrapped twice")
	}
	if NewStorageFailure("insert", nil) != nil {
		t.Fatalf("TestStorageFailure: a nil error was wrapped")
	}
	if IsStorageFailure(ErrNotFound) {
		t.Fatalf("TestStorageFailure: ErrNotFound is not a storage failure")
	}
}
