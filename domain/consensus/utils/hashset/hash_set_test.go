package hashset

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

func TestHashSet(t *testing.T) {
	a := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1})
	b := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{2})

	set := NewFromSlice(a, a)
	if len(set) != 1 {
		t.Fatalf("TestHashSet: duplicates were not collapsed")
	}
	if !set.Contains(a) || set.Contains(b) {
		t.Fatalf("TestHashSet: unexpected membership")
	}
	set.Add(b)
	if !set.ContainsAllInSlice([]*externalapi.DomainHash{a, b}) {
		t.Fatalf("TestHashSet: ContainsAllInSlice failed after Add")
	}

	slice := set.ToSlice()
	if len(slice) != 2 || slice[0].Equal(slice[1]) {
		t.Fatalf("TestHashSet: ToSlice returned %v", slice)
	}

	set.Remove(a)
	if set.Contains(a) {
		t.Fatalf("TestHashSet: Remove failed")
	}
}
