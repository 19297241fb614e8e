// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"strings"

	"github.com/tflens/tflens/internal/extract"
)

// inputsResolver answers inputs.<path> references against the current file's
// inputs, falling back to the consumer's pre-loaded snapshots so a child can
// see inputs merged down from a parent it includes.
type inputsResolver struct {
	e *Engine
}

func (r *inputsResolver) Name() string { return "inputs" }

func (r *inputsResolver) CanResolve(expr string) bool {
	return strings.HasPrefix(expr, "inputs.") && len(splitExpr(expr)) >= 2
}

func (r *inputsResolver) Resolve(expr string, ctx *Context) Result {
	path := splitExpr(expr)[1:]
	uri := ctx.CurrentURI

	if vals, ok := r.e.ws.Values(uri); ok {
		if v, found := extract.Navigate(vals.Inputs, path); found {
			chain := []Step{{Description: "found input " + strings.Join(path, ".") + " in current file", SourceURI: uri}}
			return r.e.resolveValue(v, ctx, uri, chain)
		}
	}

	for _, entry := range r.e.ws.Includes.All(uri) {
		if v, found := extract.Navigate(entry.Values.Inputs, path); found {
			chain := []Step{{
				Description: "found input " + strings.Join(path, ".") + " via " + entry.ResolvedPath,
				SourceURI:   entry.SourceURI,
			}}
			return r.e.resolveValue(v, ctx, entry.SourceURI, chain)
		}
	}

	return unknown(expr + " not found from " + uri)
}
