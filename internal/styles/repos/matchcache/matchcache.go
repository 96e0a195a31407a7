// Package matchcache caches raw per-block match vectors by page address.
// Entries hold pure predicate results from before any enabled gating, so a
// toggle never invalidates them; a registry reload purges the cache
// wholesale through the matcher's reindex.
package matchcache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is the match-vector cache consumed by the matcher.
type Cache interface {
	Get(uri string) ([][]bool, bool)
	Put(uri string, vec [][]bool)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// matchCache is the LRU-backed implementation with basic counters.
type matchCache struct {
	lru       *lru.Cache[string, [][]bool]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache always misses; used when size <= 0.
type disabledCache struct{}

// New creates a Cache with the given capacity. Size <= 0 returns a disabled
// no-op cache that always misses and tracks no metrics.
func New(size int) (Cache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}
	var mc matchCache
	// NewWithEvict so Purge-induced evictions are counted too.
	cache, err := lru.NewWithEvict(size, func(_ string, _ [][]bool) {
		atomic.AddUint64(&mc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	mc.lru = cache
	return &mc, nil
}

// Get looks up the vector for an address, counting hits and misses.
func (c *matchCache) Get(uri string) ([][]bool, bool) {
	if vec, ok := c.lru.Get(uri); ok {
		atomic.AddUint64(&c.hits, 1)
		return vec, true
	}
	atomic.AddUint64(&c.misses, 1)
	return nil, false
}

// Put stores the vector for an address.
func (c *matchCache) Put(uri string, vec [][]bool) {
	c.lru.Add(uri, vec)
}

// Len returns the number of cached addresses.
func (c *matchCache) Len() int { return c.lru.Len() }

// Purge clears all entries.
func (c *matchCache) Purge() { c.lru.Purge() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *matchCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (disabledCache) Get(string) ([][]bool, bool)     { return nil, false }
func (disabledCache) Put(string, [][]bool)            {}
func (disabledCache) Len() int                        { return 0 }
func (disabledCache) Purge()                          {}
func (disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var (
	_ Cache = (*matchCache)(nil)
	_ Cache = disabledCache{}
)
