// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package includecache

import (
	"sync"

	"github.com/tflens/tflens/internal/extract"
	"github.com/tflens/tflens/internal/log"
)

// Entry is a cached cross-file snapshot plus its provenance: where the values
// came from and how that path was computed (e.g. "find_in_parent_folders()").
type Entry struct {
	Name         string
	Values       extract.Values
	SourceURI    string
	ResolvedPath string
}

// Cache stores extracted-value snapshots keyed by consuming file. Each
// consumer has two independent key spaces: one for named include blocks, one
// for named config-read bindings. Entries are created only during a file's
// pre-load step and fully replaced on every re-parse.
type Cache struct {
	mu       sync.RWMutex
	includes map[string]map[string]Entry
	reads    map[string]map[string]Entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		includes: make(map[string]map[string]Entry),
		reads:    make(map[string]map[string]Entry),
	}
}

// PutInclude records the snapshot for a named include block of consumerURI.
func (c *Cache) PutInclude(consumerURI, name string, values extract.Values, sourceURI, resolvedPath string) {
	c.put(c.includes, consumerURI, name, values, sourceURI, resolvedPath)
}

// PutRead records the snapshot for a named config-read binding of
// consumerURI.
func (c *Cache) PutRead(consumerURI, name string, values extract.Values, sourceURI, resolvedPath string) {
	c.put(c.reads, consumerURI, name, values, sourceURI, resolvedPath)
}

// GetInclude returns the snapshot cached for consumerURI's include block with
// the given name.
func (c *Cache) GetInclude(consumerURI, name string) (Entry, bool) {
	return c.get(c.includes, consumerURI, name)
}

// GetRead returns the snapshot cached for consumerURI's config-read binding
// with the given name.
func (c *Cache) GetRead(consumerURI, name string) (Entry, bool) {
	return c.get(c.reads, consumerURI, name)
}

// All returns every cached entry for a consumer, include snapshots first.
func (c *Cache) All(consumerURI string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Entry
	for _, m := range []map[string]map[string]Entry{c.includes, c.reads} {
		for _, e := range m[consumerURI] {
			out = append(out, e)
		}
	}
	return out
}

// Includes returns the include-space entries for a consumer.
func (c *Cache) Includes(consumerURI string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Entry
	for _, e := range c.includes[consumerURI] {
		out = append(out, e)
	}
	return out
}

// Clear drops both key spaces for a consumer. Called at the start of the
// consumer's pre-load so a changed include path cannot leave a stale target
// behind.
func (c *Cache) Clear(consumerURI string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.includes, consumerURI)
	delete(c.reads, consumerURI)
	log.Tracef("include cache cleared: consumer=%s", consumerURI)
}

func (c *Cache) put(space map[string]map[string]Entry, consumerURI, name string, values extract.Values, sourceURI, resolvedPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := space[consumerURI]
	if !ok {
		m = make(map[string]Entry)
		space[consumerURI] = m
	}
	m[name] = Entry{
		Name:         name,
		Values:       values,
		SourceURI:    sourceURI,
		ResolvedPath: resolvedPath,
	}
	log.Tracef("include cache put: consumer=%s, name=%s, source=%s", consumerURI, name, sourceURI)
}

func (c *Cache) get(space map[string]map[string]Entry, consumerURI, name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := space[consumerURI][name]
	return e, ok
}
