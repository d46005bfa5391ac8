package lrucache

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := New(2)
	a := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1})
	b := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{2})
	c := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{3})

	cache.Add(a, 1)
	cache.Add(b, 2)
	if _, ok := cache.Get(a); !ok {
		t.Fatalf("TestLRUCacheEvictsLeastRecentlyUsed: a is missing")
	}
	cache.Add(c, 3)

	if cache.Has(b) {
		t.Fatalf("TestLRUCacheEvictsLeastRecentlyUsed: b should have been evicted")
	}
	if !cache.Has(a) || !cache.Has(c) || cache.Len() != 2 {
		t.Fatalf("TestLRUCacheEvictsLeastRecentlyUsed: unexpected cache content")
	}

	cache.Remove(a)
	if cache.Has(a) {
		t.Fatalf("TestLRUCacheEvictsLeastRecentlyUsed: Remove failed")
	}
}

func TestKeyedLRUCache(t *testing.T) {
	_, err := NewKeyed[uint64](0)
	if err == nil {
		t.Fatalf("TestKeyedLRUCache: a zero capacity was accepted")
	}

	cache, err := NewKeyed[uint64](2)
	if err != nil {
		t.Fatalf("TestKeyedLRUCache: %s", err)
	}
	cache.Add(1, "one")
	cache.Add(2, "two")
	cache.Get(1)
	cache.Add(3, "three")

	if cache.Has(2) {
		t.Fatalf("TestKeyedLRUCache: 2 should have been evicted")
	}
	value, ok := cache.Get(1)
	if !ok || value.(string) != "one" || cache.Len() != 2 {
		t.Fatalf("TestKeyedLRUCache: unexpected cache content")
	}
	cache.Remove(1)
	if cache.Has(1) {
		t.Fatalf("TestKeyedLRUCache: Remove failed")
	}
}
