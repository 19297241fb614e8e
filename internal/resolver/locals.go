// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"path/filepath"
	"strings"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/fsaccess"
)

// localsResolver answers local.<name>[.<path>] references. Lookup order:
// the current file, a sibling locals file, the consumer's include and
// config-read snapshots, then a bounded upward search.
type localsResolver struct {
	e *Engine
}

func (r *localsResolver) Name() string { return "locals" }

func (r *localsResolver) CanResolve(expr string) bool {
	return strings.HasPrefix(expr, "local.") && len(splitExpr(expr)) >= 2
}

func (r *localsResolver) Resolve(expr string, ctx *Context) Result {
	segs := splitExpr(expr)
	name := segs[1]
	rest := segs[2:]
	uri := ctx.CurrentURI

	// Current file. A local bound by read_terragrunt_config continues into
	// the read snapshot: local.cfg.locals.x drills into the read file.
	if vals, ok := r.e.ws.Values(uri); ok {
		if _, found := vals.Locals[name]; found {
			if entry, isRead := r.e.ws.Includes.GetRead(uri, name); isRead && len(rest) > 0 {
				v, ok := navigateSnapshot(entry.Values, rest)
				if !ok {
					return unknown(expr + " has no element at " + strings.Join(rest, "."))
				}
				chain := []Step{
					{Description: "local \"" + name + "\" reads " + entry.ResolvedPath, SourceURI: uri},
					{Description: "drilled into " + strings.Join(rest, "."), SourceURI: entry.SourceURI},
				}
				return r.e.resolveValue(v, ctx, entry.SourceURI, chain)
			}

			v, ok := lookupPath(vals.Locals, name, rest)
			if !ok {
				return unknown(expr + " has no element at " + strings.Join(rest, "."))
			}
			chain := []Step{{Description: "found local \"" + name + "\" in current file", SourceURI: uri}}
			return r.e.resolveValue(v, ctx, uri, chain)
		}
	}

	// Sibling locals file in the same directory.
	sibling := filepath.Join(filepath.Dir(fsaccess.ToPath(uri)), config.LocalsFile())
	if sibURI := fsaccess.ToURI(sibling); sibURI != uri && r.e.ws.EnsureLoaded(sibURI) {
		if vals, ok := r.e.ws.Values(sibURI); ok {
			if v, found := lookupPath(vals.Locals, name, rest); found {
				chain := []Step{{Description: "found local \"" + name + "\" in sibling " + config.LocalsFile(), SourceURI: sibURI}}
				return r.e.resolveValue(v, ctx, sibURI, chain)
			}
		}
	}

	// Snapshots pre-loaded for this consumer.
	for _, entry := range r.e.ws.Includes.All(uri) {
		if v, found := lookupPath(entry.Values.Locals, name, rest); found {
			chain := []Step{{
				Description: "found local \"" + name + "\" via " + entry.ResolvedPath,
				SourceURI:   entry.SourceURI,
			}}
			return r.e.resolveValue(v, ctx, entry.SourceURI, chain)
		}
	}

	// Upward search: a shared locals file first, then parent configs.
	for _, fileName := range []string{config.LocalsFile(), config.ConfigFile()} {
		found, ok := r.e.ws.FS.FindUpwardExcluding(uri, fileName)
		if !ok || !r.e.ws.EnsureLoaded(found) {
			continue
		}
		vals, ok := r.e.ws.Values(found)
		if !ok {
			continue
		}
		if v, okv := lookupPath(vals.Locals, name, rest); okv {
			chain := []Step{{Description: "found local \"" + name + "\" in ancestor " + fileName, SourceURI: found}}
			return r.e.resolveValue(v, ctx, found, chain)
		}
	}

	return unknown(expr + " not found from " + uri)
}
