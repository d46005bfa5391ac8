package mempool

import (
	"fmt"

	"github.com/pkg/errors"
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a transaction failed due to one of the mempool admission
// rules. The caller can use errors.As to determine if a failure was
// specifically due to a rule violation and use the Err field to access the
// underlying TxRuleError.
type RuleError struct {
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.Err == nil {
		return "<nil>"
	}
	return e.Err.Error()
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.Err
}

// RejectCode represents a numeric value by which a transaction is
// reported as rejected.
type RejectCode uint8

// These constants define the various supported reject codes.
const (
	RejectMalformed       RejectCode = 0x01
	RejectDuplicate       RejectCode = 0x12
	RejectInsufficientFee RejectCode = 0x42
)

// Map of reject codes back strings for pretty printing.
var rejectCodeStrings = map[RejectCode]string{
	RejectMalformed:       "REJECT_MALFORMED",
	RejectDuplicate:       "REJECT_DUPLICATE",
	RejectInsufficientFee: "REJECT_INSUFFICIENTFEE",
}

// String returns the RejectCode in human-readable form.
func (code RejectCode) String() string {
	if s, ok := rejectCodeStrings[code]; ok {
		return s
	}

	return fmt.Sprintf("Unknown RejectCode (%d)", uint8(code))
}

// TxRuleError identifies a rule violation. The caller can access the
// RejectCode field to ascertain the specific reason for the rule violation.
type TxRuleError struct {
	RejectCode  RejectCode // The code reported for the rejection
	Description string     // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e TxRuleError) Error() string {
	return e.Description
}

// txRuleError creates an underlying TxRuleError with the given a set of
// arguments and returns a RuleError that encapsulates it.
func txRuleError(c RejectCode, desc string) error {
	return errors.WithStack(RuleError{
		Err: TxRuleError{RejectCode: c, Description: desc},
	})
}

// ExtractRejectCode returns the reject code of a mempool rule error
func ExtractRejectCode(err error) (RejectCode, bool) {
	var txRuleErr TxRuleError
	if errors.As(err, &txRuleErr) {
		return txRuleErr.RejectCode, true
	}
	return 0, false
}
