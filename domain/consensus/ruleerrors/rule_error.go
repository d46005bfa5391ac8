package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists.
	ErrDuplicateBlock = newRuleError("ErrDuplicateBlock")

	// ErrInvalidParentSet indicates that the parent set of a block is
	// empty, holds more than the allowed number of parents, or references
	// the same parent twice.
	ErrInvalidParentSet = newRuleError("ErrInvalidParentSet")

	// ErrExcessiveDeviation indicates that the parents of a block are too
	// far apart in cumulative difficulty or in height, or that one of them
	// is orphaned.
	ErrExcessiveDeviation = newRuleError("ErrExcessiveDeviation")

	// ErrInvalidBlockHeight indicates that the declared height is not one
	// more than the highest parent.
	ErrInvalidBlockHeight = newRuleError("ErrInvalidBlockHeight")

	// ErrTimeTooOld indicates the time is before the timestamp of one of
	// the block's parents.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld")

	//ErrTimeTooMuchInTheFuture indicates that the block timestamp is too much in the future.
	ErrTimeTooMuchInTheFuture = newRuleError("ErrTimeTooMuchInTheFuture")

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value.
	ErrBadMerkleRoot = newRuleError("ErrBadMerkleRoot")

	// ErrUnexpectedDifficulty indicates the declared difficulty does not
	// match the value required by the difficulty window.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrExcessiveFees indicates that the fees of the block transactions
	// add up to more than the maximum supply or overflow.
	ErrExcessiveFees = newRuleError("ErrExcessiveFees")

	// ErrGenesisOnInitializedConsensus indicates that a parentless block
	// was submitted after genesis, or that it isn't the network's genesis.
	ErrGenesisOnInitializedConsensus = newRuleError("ErrGenesisOnInitializedConsensus")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Message returns the name of the violated rule without any details
func (e RuleError) Message() string {
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is reports whether target is a RuleError with the same message, so a
// RuleError carrying details still matches its sentinel.
func (e RuleError) Is(target error) bool {
	other, ok := target.(RuleError)
	return ok && other.message == e.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrUnknownParent indicates a block points to parent(s) that are not in
// the store.
type ErrUnknownParent struct {
	MissingParentHashes []*externalapi.DomainHash
}

func (e ErrUnknownParent) Error() string {
	return fmt.Sprintf("missing the following parent hashes: %v", e.MissingParentHashes)
}

// NewErrUnknownParent creates a new ErrUnknownParent error wrapped in a RuleError
func NewErrUnknownParent(missingParentHashes []*externalapi.DomainHash) error {
	return errors.WithStack(RuleError{
		message: "ErrUnknownParent",
		inner:   ErrUnknownParent{missingParentHashes},
	})
}

// IsRuleError returns whether err is, or wraps, a RuleError
func IsRuleError(err error) bool {
	return errors.As(err, &RuleError{})
}
