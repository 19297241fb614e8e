// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clockedCache returns a cache whose clock the test controls.
func clockedCache(ttl time.Duration, max int) (*resultCache, *time.Time) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	c := newResultCache(ttl, max)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestResultCache_HitWithinTTL(t *testing.T) {
	c, now := clockedCache(60*time.Second, 10)

	c.put("file:///a", "local.x", Result{Value: 1, Confidence: ConfidenceExact})
	*now = now.Add(59 * time.Second)

	r, ok := c.get("file:///a", "local.x")
	require.True(t, ok)
	assert.Equal(t, 1, r.Value)
	assert.Equal(t, 1, c.stats().Hits)
}

func TestResultCache_ExpiresAfterTTL(t *testing.T) {
	c, now := clockedCache(60*time.Second, 10)

	c.put("file:///a", "local.x", Result{Value: 1})
	*now = now.Add(61 * time.Second)

	_, ok := c.get("file:///a", "local.x")
	assert.False(t, ok)
	assert.Equal(t, 0, c.stats().Entries, "expired entry must be dropped")
	assert.Equal(t, 1, c.stats().Misses)
}

// TestResultCache_EvictsExactlyOldest verifies the insert-order eviction
// policy: at capacity the single oldest entry goes, nothing else.
func TestResultCache_EvictsExactlyOldest(t *testing.T) {
	c, now := clockedCache(time.Hour, 2)

	c.put("file:///a", "local.x", Result{Value: "x"})
	*now = now.Add(time.Second)
	c.put("file:///a", "local.y", Result{Value: "y"})
	*now = now.Add(time.Second)
	c.put("file:///a", "local.z", Result{Value: "z"})

	_, ok := c.get("file:///a", "local.x")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.get("file:///a", "local.y")
	assert.True(t, ok)
	_, ok = c.get("file:///a", "local.z")
	assert.True(t, ok)
	assert.Equal(t, 1, c.stats().Evictions)
}

// TestResultCache_GetDoesNotRefresh verifies lookups leave the insert stamp
// alone, so a recently read entry can still be the eviction victim.
func TestResultCache_GetDoesNotRefresh(t *testing.T) {
	c, now := clockedCache(time.Hour, 2)

	c.put("file:///a", "local.x", Result{Value: "x"})
	*now = now.Add(time.Second)
	c.put("file:///a", "local.y", Result{Value: "y"})
	*now = now.Add(time.Second)

	_, ok := c.get("file:///a", "local.x")
	require.True(t, ok)

	c.put("file:///a", "local.z", Result{Value: "z"})
	_, ok = c.get("file:///a", "local.x")
	assert.False(t, ok, "read must not rescue the oldest entry")
}

func TestResultCache_ReplaceDoesNotEvict(t *testing.T) {
	c, now := clockedCache(time.Hour, 2)

	c.put("file:///a", "local.x", Result{Value: "x"})
	c.put("file:///a", "local.y", Result{Value: "y"})
	*now = now.Add(time.Second)
	c.put("file:///a", "local.x", Result{Value: "x2"})

	assert.Equal(t, 2, c.stats().Entries)
	assert.Equal(t, 0, c.stats().Evictions)

	r, ok := c.get("file:///a", "local.x")
	require.True(t, ok)
	assert.Equal(t, "x2", r.Value)
}

func TestResultCache_InvalidateByURI(t *testing.T) {
	c, _ := clockedCache(time.Hour, 10)

	c.put("file:///a", "local.x", Result{Value: "x"})
	c.put("file:///a", "local.y", Result{Value: "y"})
	c.put("file:///b", "local.x", Result{Value: "bx"})

	c.invalidate("file:///a")

	_, ok := c.get("file:///a", "local.x")
	assert.False(t, ok)
	_, ok = c.get("file:///b", "local.x")
	assert.True(t, ok, "other files' entries must survive")
}
