package ruleerrors

import (
	"errors"
	"testing"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

func TestNewErrUnknownParent(t *testing.T) {
	missing := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{255, 255, 255})
	outer := NewErrUnknownParent([]*externalapi.DomainHash{missing})
	expectedOuterErr := "ErrUnknownParent: missing the following parent hashes: " +
		"[ffffff0000000000000000000000000000000000000000000000000000000000]"

	inner := &ErrUnknownParent{}
	if !errors.As(outer, inner) {
		t.Fatal("TestNewErrUnknownParent: Outer should contain ErrUnknownParent in it")
	}
	if len(inner.MissingParentHashes) != 1 || !inner.MissingParentHashes[0].Equal(missing) {
		t.Fatalf("TestNewErrUnknownParent: unexpected missing hashes %v", inner.MissingParentHashes)
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestNewErrUnknownParent: Outer should contain RuleError in it")
	}
	if rule.message != "ErrUnknownParent" {
		t.Fatalf("TestNewErrUnknownParent: Expected message = 'ErrUnknownParent', found: '%s'", rule.message)
	}

	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestNewErrUnknownParent: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}

func TestRuleErrorIs(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrExcessiveDeviation)
	if !errors.Is(wrapped, ErrExcessiveDeviation) {
		t.Fatalf("TestRuleErrorIs: wrapped sentinel not found")
	}
	if errors.Is(ErrExcessiveDeviation, ErrInvalidParentSet) {
		t.Fatalf("TestRuleErrorIs: different rule errors matched")
	}
	if !IsRuleError(wrapped) {
		t.Fatalf("TestRuleErrorIs: IsRuleError should find the rule error")
	}
	if IsRuleError(errors.New("plain")) {
		t.Fatalf("TestRuleErrorIs: a plain error is not a rule error")
	}
}
