package enrich

import (
	"sync"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// MemoryCache is the in-process enrichment cache: one entry per (URL, kind),
// no expiry, lifetime equals the process run. Safe for concurrent use by the
// orchestrator's worker pool.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]domain.CacheEntry
}

type cacheKey struct {
	url  string
	kind domain.ContentKind
}

var _ ports.EnrichmentCache = (*MemoryCache)(nil)

// NewMemoryCache builds an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[cacheKey]domain.CacheEntry{}}
}

// Get returns the cached resolution for a (URL, kind) pair, if present.
func (c *MemoryCache) Get(url string, kind domain.ContentKind) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey{url: url, kind: kind}]
	return entry, ok
}

// Put records the resolution for a (URL, kind) pair.
func (c *MemoryCache) Put(url string, kind domain.ContentKind, entry domain.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{url: url, kind: kind}] = entry
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
