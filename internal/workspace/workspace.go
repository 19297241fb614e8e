// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"path/filepath"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/diag"
	"github.com/tflens/tflens/internal/extract"
	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/hclscan"
	"github.com/tflens/tflens/internal/includecache"
	"github.com/tflens/tflens/internal/index"
	"github.com/tflens/tflens/internal/log"
)

// Workspace ties the per-file stores together and drives the document-change
// pipeline: parse, index, include pre-load, then diagnostics, strictly in
// that order because each step assumes the previous one reflects the new
// text.
type Workspace struct {
	FS       *fsaccess.FS
	Index    *index.Index
	Includes *includecache.Cache
}

// New returns a workspace rooted at the given directory.
func New(fs *fsaccess.FS) *Workspace {
	return &Workspace{
		FS:       fs,
		Index:    index.New(),
		Includes: includecache.New(),
	}
}

// UpdateDocument ingests new content for uri and returns validation
// diagnostics. The include cache for uri is fully rebuilt, never merged.
func (w *Workspace) UpdateDocument(uri, text string) []diag.Diagnostic {
	uri = fsaccess.ToURI(fsaccess.ToPath(uri))

	tree := hclscan.Parse(uri, text)
	w.Index.IndexDocument(uri, tree)
	w.preload(uri, tree)
	return diag.Validate(uri, text)
}

// LoadFile reads uri through the file-access collaborator and ingests it.
// A missing file reports false; it is not a fault.
func (w *Workspace) LoadFile(uri string) bool {
	text, ok := w.FS.ReadFile(uri)
	if !ok {
		return false
	}
	w.UpdateDocument(uri, text)
	return true
}

// EnsureLoaded loads uri only if it is not indexed yet.
func (w *Workspace) EnsureLoaded(uri string) bool {
	uri = fsaccess.ToURI(fsaccess.ToPath(uri))
	if w.Index.Tree(uri) != nil {
		return true
	}
	return w.LoadFile(uri)
}

// Values returns the extracted snapshot of an indexed file.
func (w *Workspace) Values(uri string) (extract.Values, bool) {
	uri = fsaccess.ToURI(fsaccess.ToPath(uri))
	tree := w.Index.Tree(uri)
	if tree == nil {
		return extract.Values{}, false
	}
	return extract.ExtractAll(tree), true
}

// preload pre-evaluates uri's include blocks and config-read bindings into
// the cross-file cache.
func (w *Workspace) preload(uri string, tree []*hclscan.Node) {
	w.Includes.Clear(uri)

	for _, block := range hclscan.FindBlocks(tree, "include") {
		name := block.BlockName()
		pathAttr := hclscan.FindAttribute(block.Children, "path")
		if pathAttr == nil {
			continue
		}
		srcURI, provenance, ok := w.resolveTarget(uri, pathAttr.Value)
		if !ok {
			log.Debugf("include target unresolved: consumer=%s, name=%s", uri, name)
			continue
		}
		if vals, ok := w.extractFile(srcURI); ok {
			w.Includes.PutInclude(uri, name, vals, srcURI, provenance)
		}
	}

	for _, locals := range hclscan.FindBlocks(tree, "locals") {
		for _, attr := range locals.Children {
			if attr.Kind != hclscan.KindAttribute || attr.Value == nil {
				continue
			}
			call := attr.Value
			if call.Kind != hclscan.KindCall || call.Name != "read_terragrunt_config" {
				continue
			}
			if len(call.Children) == 0 {
				continue
			}
			srcURI, provenance, ok := w.resolveTarget(uri, call.Children[0])
			if !ok {
				log.Debugf("config-read target unresolved: consumer=%s, local=%s", uri, attr.Name)
				continue
			}
			if vals, ok := w.extractFile(srcURI); ok {
				w.Includes.PutRead(uri, attr.Name, vals, srcURI, provenance)
			}
		}
	}
}

// resolveTarget turns an include path expression into a concrete source URI
// plus the provenance string describing how the path was computed. Supported
// shapes: a literal relative/absolute path, and find_in_parent_folders with
// an optional file-name argument.
func (w *Workspace) resolveTarget(consumerURI string, expr *hclscan.Node) (string, string, bool) {
	if expr == nil {
		return "", "", false
	}
	consumerDir := filepath.Dir(fsaccess.ToPath(consumerURI))

	switch expr.Kind {
	case hclscan.KindLiteral:
		rel, ok := expr.Lit.(string)
		if !ok || rel == "" {
			return "", "", false
		}
		p := rel
		if !filepath.IsAbs(p) {
			p = filepath.Join(consumerDir, rel)
		}
		// A directory path means its config file.
		if !w.FS.Exists(p) {
			p = filepath.Join(p, config.ConfigFile())
		}
		if !w.FS.Exists(p) {
			return "", "", false
		}
		return fsaccess.ToURI(p), rel, true

	case hclscan.KindCall:
		if expr.Name != "find_in_parent_folders" {
			return "", "", false
		}
		fileName := config.ConfigFile()
		if len(expr.Children) > 0 {
			if s, ok := expr.Children[0].Lit.(string); ok && s != "" {
				fileName = s
			}
		}
		found, ok := w.FS.FindUpwardExcluding(consumerURI, fileName)
		if !ok {
			return "", "", false
		}
		return found, expr.ExprString(), true

	default:
		return "", "", false
	}
}

// extractFile parses and extracts a target file without indexing it as an
// open document.
func (w *Workspace) extractFile(uri string) (extract.Values, bool) {
	text, ok := w.FS.ReadFile(uri)
	if !ok {
		return extract.Values{}, false
	}
	return extract.ExtractAll(hclscan.Parse(uri, text)), true
}
