package ranker

import (
	"time"

	"github.com/mathserve/mathserve/pkg/term"
)

// resultCache keeps recent ranking results keyed by (query, context
// fingerprint). Size-bounded with LRU eviction and a TTL; the ranker mutex
// guards all access. A zero-size cache disables caching entirely.
type resultCache struct {
	entries     map[string]*cacheEntry
	maxEntries  int
	ttl         time.Duration
	accessCount int64
}

type cacheEntry struct {
	results    []term.RankedSuggestion
	storedAt   time.Time
	lastAccess int64
}

func newResultCache(maxEntries, ttlSeconds int) *resultCache {
	return &resultCache{
		entries:    make(map[string]*cacheEntry, maxEntries),
		maxEntries: maxEntries,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *resultCache) get(key string) ([]term.RankedSuggestion, bool) {
	if c.maxEntries <= 0 {
		return nil, false
	}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	c.accessCount++
	entry.lastAccess = c.accessCount
	return copyResults(entry.results), true
}

func (c *resultCache) put(key string, results []term.RankedSuggestion) {
	if c.maxEntries <= 0 {
		return
	}
	if len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	c.accessCount++
	c.entries[key] = &cacheEntry{
		results:    copyResults(results),
		storedAt:   time.Now(),
		lastAccess: c.accessCount,
	}
}

func (c *resultCache) clear() {
	for key := range c.entries {
		delete(c.entries, key)
	}
}

func (c *resultCache) evictLRU() {
	var oldestKey string
	oldest := int64(1<<63 - 1)
	for key, entry := range c.entries {
		if entry.lastAccess < oldest {
			oldest = entry.lastAccess
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// copyResults snapshots a result slice so the cache never aliases anything
// handed to a caller. The Components maps are copied too; a caller mutating
// its breakdown must not corrupt the cached entry.
func copyResults(in []term.RankedSuggestion) []term.RankedSuggestion {
	out := make([]term.RankedSuggestion, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Components == nil {
			continue
		}
		components := make(map[string]float64, len(out[i].Components))
		for k, v := range out[i].Components {
			components[k] = v
		}
		out[i].Components = components
	}
	return out
}
