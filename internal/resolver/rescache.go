// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"sync"
	"time"

	"github.com/tflens/tflens/internal/log"
)

// Stats reports result-cache behavior for the --stats surface.
type Stats struct {
	Entries   int `json:"entries" yaml:"entries"`
	Hits      int `json:"hits" yaml:"hits"`
	Misses    int `json:"misses" yaml:"misses"`
	Evictions int `json:"evictions" yaml:"evictions"`
}

// resultCache is the expression-level cache: (uri, expression) -> Result.
// Entries expire after ttl, and once max entries exist the next insert
// evicts the entry with the oldest insert timestamp. Lookups do not refresh
// timestamps; eviction order is strictly by insertion.
type resultCache struct {
	mu  sync.Mutex
	ttl time.Duration
	max int

	entries map[string]cacheEntry

	hits, misses, evictions int

	// now is a test seam.
	now func() time.Time
}

type cacheEntry struct {
	result Result
	stamp  time.Time
}

func newResultCache(ttl time.Duration, max int) *resultCache {
	return &resultCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(uri, expr string) string {
	return uri + "\x00" + expr
}

func (c *resultCache) get(uri, expr string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey(uri, expr)]
	if !ok {
		c.misses++
		return Result{}, false
	}
	if c.now().Sub(e.stamp) > c.ttl {
		delete(c.entries, cacheKey(uri, expr))
		c.misses++
		return Result{}, false
	}
	c.hits++
	log.Tracef("result cache hit: uri=%s, expr=%s", uri, expr)
	return e.result, true
}

func (c *resultCache) put(uri, expr string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(uri, expr)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{result: r, stamp: c.now()}
}

// invalidate drops all entries belonging to a uri.
func (c *resultCache) invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := uri + "\x00"
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

func (c *resultCache) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evictOldestLocked removes exactly the oldest-stamped entry. Caller holds
// the lock.
func (c *resultCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.stamp.Before(oldest) {
			oldestKey = k
			oldest = e.stamp
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}
