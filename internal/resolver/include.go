// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"strings"
)

// includeResolver answers include.<name>.<section>.<path> references using
// the snapshots pre-loaded when the consumer was parsed. An anonymous
// include block is cached under the empty name, so include.locals.region is
// also accepted.
type includeResolver struct {
	e *Engine
}

func (r *includeResolver) Name() string { return "include" }

func (r *includeResolver) CanResolve(expr string) bool {
	return strings.HasPrefix(expr, "include.") && len(splitExpr(expr)) >= 2
}

func (r *includeResolver) Resolve(expr string, ctx *Context) Result {
	segs := splitExpr(expr)
	uri := ctx.CurrentURI

	name := segs[1]
	path := segs[2:]
	entry, ok := r.e.ws.Includes.GetInclude(uri, name)
	if !ok {
		// Anonymous include: the segment after "include" is already the
		// section.
		entry, ok = r.e.ws.Includes.GetInclude(uri, "")
		if !ok {
			return unknown("no include \"" + name + "\" in " + uri)
		}
		name = ""
		path = segs[1:]
	}

	v, ok := navigateSnapshot(entry.Values, path)
	if !ok {
		return unknown(expr + " has no element at " + strings.Join(path, "."))
	}

	chain := []Step{{
		Description: "include \"" + name + "\" resolves " + entry.ResolvedPath,
		SourceURI:   entry.SourceURI,
	}}
	return r.e.resolveValue(v, ctx, entry.SourceURI, chain)
}
