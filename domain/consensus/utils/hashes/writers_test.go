package hashes

import "testing"

func TestDomainSeparation(t *testing.T) {
	blockWriter := NewBlockHashWriter()
	blockWriter.InfallibleWrite([]byte("payload"))
	txWriter := NewTransactionIDWriter()
	txWriter.InfallibleWrite([]byte("payload"))

	if blockWriter.Finalize().Equal(txWriter.Finalize()) {
		t.Fatalf("TestDomainSeparation: block hash and transaction ID of the same bytes are equal")
	}
}

func TestFinalizeIsDeterministic(t *testing.T) {
	first := NewMerkleBranchHashWriter()
	first.InfallibleWrite([]byte{1, 2, 3})
	second := NewMerkleBranchHashWriter()
	second.InfallibleWrite([]byte{1})
	second.InfallibleWrite([]byte{2, 3})

	if !first.Finalize().Equal(second.Finalize()) {
		t.Fatalf("TestFinalizeIsDeterministic: split writes produced a different hash")
	}
}
