// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"sync"

	"github.com/tflens/tflens/internal/hclscan"
	"github.com/tflens/tflens/internal/log"
)

// SymbolKind enumerates the definition kinds the index tracks.
type SymbolKind string

const (
	KindLocal      SymbolKind = "local"
	KindVariable   SymbolKind = "variable"
	KindOutput     SymbolKind = "output"
	KindResource   SymbolKind = "resource"
	KindData       SymbolKind = "data"
	KindModule     SymbolKind = "module"
	KindDependency SymbolKind = "dependency"
	KindInclude    SymbolKind = "include"
)

// Symbol is one definition discovered in an indexed document.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	FileURI string
	Range   hclscan.Range
}

// Index owns the parsed trees and the reverse symbol table for the whole
// workspace, keyed by file URI. It is safe for concurrent use; a document
// update replaces that file's entries wholesale, so readers never observe a
// half-updated symbol list.
type Index struct {
	mu      sync.RWMutex
	trees   map[string][]*hclscan.Node
	symbols map[string][]Symbol // "kind:name" -> definitions
	byFile  map[string][]string // uri -> "kind:name" keys it contributed
}

// New returns an empty index.
func New() *Index {
	return &Index{
		trees:   make(map[string][]*hclscan.Node),
		symbols: make(map[string][]Symbol),
		byFile:  make(map[string][]string),
	}
}

// IndexDocument replaces any previously indexed tree and symbols for uri.
func (ix *Index) IndexDocument(uri string, tree []*hclscan.Node) {
	syms := collectSymbols(uri, tree)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.purgeLocked(uri)
	ix.trees[uri] = tree

	keys := make([]string, 0, len(syms))
	for _, s := range syms {
		k := key(s.Kind, s.Name)
		ix.symbols[k] = append(ix.symbols[k], s)
		keys = append(keys, k)
	}
	ix.byFile[uri] = keys
	log.Debugf("indexed: uri=%s, symbols=%d", uri, len(syms))
}

// Remove drops a file from the index entirely.
func (ix *Index) Remove(uri string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.purgeLocked(uri)
	delete(ix.trees, uri)
}

// Tree returns the last indexed tree for uri, or nil if the file is unknown.
func (ix *Index) Tree(uri string) []*hclscan.Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.trees[uri]
}

// FindSymbol returns all definitions of kind:name across indexed files. More
// than one hit is legitimate (the same local name in sibling trees).
func (ix *Index) FindSymbol(kind SymbolKind, name string) []Symbol {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	found := ix.symbols[key(kind, name)]
	out := make([]Symbol, len(found))
	copy(out, found)
	return out
}

// SymbolsIn returns all symbols of the given kind defined in uri. An empty
// uri means every indexed file.
func (ix *Index) SymbolsIn(kind SymbolKind, uri string) []Symbol {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []Symbol
	for _, defs := range ix.symbols {
		for _, s := range defs {
			if s.Kind == kind && (uri == "" || s.FileURI == uri) {
				out = append(out, s)
			}
		}
	}
	return out
}

// FindDependents returns the files whose trees reference at least one symbol
// defined in uri. This is the invalidation boundary for cached resolutions:
// direct dependents only, no transitive closure.
func (ix *Index) FindDependents(uri string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	defined := make(map[string]bool)
	for _, k := range ix.byFile[uri] {
		for _, s := range ix.symbols[k] {
			if s.FileURI == uri {
				defined[string(s.Kind)+"."+s.Name] = true
			}
		}
	}
	if len(defined) == 0 {
		return nil
	}

	var out []string
	for other, tree := range ix.trees {
		if other == uri {
			continue
		}
		if referencesAny(tree, defined) {
			out = append(out, other)
		}
	}
	return out
}

// purgeLocked removes uri's symbols from the reverse table. Caller holds the
// write lock.
func (ix *Index) purgeLocked(uri string) {
	for _, k := range ix.byFile[uri] {
		defs := ix.symbols[k]
		kept := defs[:0]
		for _, s := range defs {
			if s.FileURI != uri {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(ix.symbols, k)
		} else {
			ix.symbols[k] = kept
		}
	}
	delete(ix.byFile, uri)
}

func key(kind SymbolKind, name string) string {
	return string(kind) + ":" + name
}

// collectSymbols walks a tree and derives the symbol table contribution of
// one file.
func collectSymbols(uri string, tree []*hclscan.Node) []Symbol {
	var out []Symbol

	add := func(kind SymbolKind, name string, rng hclscan.Range) {
		if name == "" && kind != KindInclude {
			return
		}
		out = append(out, Symbol{Name: name, Kind: kind, FileURI: uri, Range: rng})
	}

	for _, n := range tree {
		if n.Kind != hclscan.KindBlock {
			continue
		}
		switch n.Name {
		case "locals":
			for _, c := range n.Children {
				if c.Kind == hclscan.KindAttribute {
					add(KindLocal, c.Name, c.Range)
				}
			}
		case "variable":
			add(KindVariable, n.BlockName(), n.Range)
		case "output":
			add(KindOutput, n.BlockName(), n.Range)
		case "resource":
			add(KindResource, n.BlockName(), n.Range)
		case "data":
			add(KindData, n.BlockName(), n.Range)
		case "module":
			add(KindModule, n.BlockName(), n.Range)
		case "dependency":
			add(KindDependency, n.BlockName(), n.Range)
		case "include":
			// Unlabeled include blocks are legal; they index under "".
			add(KindInclude, n.BlockName(), n.Range)
		}
	}
	return out
}

// referencesAny reports whether any reference node in the tree points at one
// of the defined symbols ("kind.name" keys, with prefix mapped to kind).
func referencesAny(tree []*hclscan.Node, defined map[string]bool) bool {
	for _, n := range tree {
		if n == nil {
			continue
		}
		if n.Kind == hclscan.KindReference && len(n.Path) > 0 {
			prefix := n.Prefix
			if prefix == "var" {
				prefix = string(KindVariable)
			}
			if defined[prefix+"."+n.Path[0]] {
				return true
			}
		}
		if n.Value != nil && referencesAny([]*hclscan.Node{n.Value}, defined) {
			return true
		}
		if referencesAny(n.Children, defined) {
			return true
		}
	}
	return false
}
