package lrucache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// LRUCache is a least-recently-used cache for any type
// that's able to be indexed by DomainHash
type LRUCache struct {
	cache *lru.Cache
}

// New creates a new LRUCache
func New(capacity int) *LRUCache {
	cache, err := lru.New(capacity)
	if err != nil {
		panic(errors.Wrapf(err, "invalid LRU cache capacity %d", capacity))
	}
	return &LRUCache{cache: cache}
}

// Add adds an entry to the LRUCache
func (c *LRUCache) Add(key *externalapi.DomainHash, value interface{}) {
	c.cache.Add(*key, value)
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *LRUCache) Get(key *externalapi.DomainHash) (interface{}, bool) {
	return c.cache.Get(*key)
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *externalapi.DomainHash) bool {
	return c.cache.Contains(*key)
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache) Remove(key *externalapi.DomainHash) {
	c.cache.Remove(*key)
}

// Len returns the number of cached entries
func (c *LRUCache) Len() int {
	return c.cache.Len()
}

// KeyedLRUCache is a least-recently-used cache for stores indexed by
// something other than a DomainHash, such as a height or an address
type KeyedLRUCache[K comparable] struct {
	cache *lru.Cache
}

// NewKeyed creates a new KeyedLRUCache. It fails on a non-positive
// capacity.
func NewKeyed[K comparable](capacity int) (*KeyedLRUCache[K], error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid LRU cache capacity %d", capacity)
	}
	return &KeyedLRUCache[K]{cache: cache}, nil
}

// Add adds an entry to the KeyedLRUCache
func (c *KeyedLRUCache[K]) Add(key K, value interface{}) {
	c.cache.Add(key, value)
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *KeyedLRUCache[K]) Get(key K) (interface{}, bool) {
	return c.cache.Get(key)
}

// Has returns whether the KeyedLRUCache contains the given key
func (c *KeyedLRUCache[K]) Has(key K) bool {
	return c.cache.Contains(key)
}

// Remove removes the entry for the given key
func (c *KeyedLRUCache[K]) Remove(key K) {
	c.cache.Remove(key)
}

// Len returns the number of cached entries
func (c *KeyedLRUCache[K]) Len() int {
	return c.cache.Len()
}
