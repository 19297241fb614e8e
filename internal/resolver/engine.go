// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/extract"
	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/index"
	"github.com/tflens/tflens/internal/log"
	"github.com/tflens/tflens/internal/state"
	"github.com/tflens/tflens/internal/workspace"

	"github.com/joho/godotenv"
)

// Engine orchestrates resolution: fast-reject, result cache, cycle check,
// then the resolver chain in priority order. It owns the expression-level
// cache and the per-call cycle stacks; the workspace owns everything keyed
// by file.
type Engine struct {
	ws        *workspace.Workspace
	state     state.OutputLookup
	cache     *resultCache
	resolvers []Resolver
}

// New builds an engine over a workspace. A nil OutputLookup declares the
// dependency-outputs shape permanently unsupported and makes the engine
// fast-reject it.
func New(ws *workspace.Workspace, st state.OutputLookup) *Engine {
	e := &Engine{
		ws:    ws,
		state: st,
		cache: newResultCache(
			time.Duration(config.CacheTTLSeconds())*time.Second,
			config.CacheMaxSize(),
		),
	}
	e.resolvers = []Resolver{
		&localsResolver{e},
		&includeResolver{e},
		&inputsResolver{e},
		&envResolver{e},
		&dependencyResolver{e},
		&functionResolver{e},
	}
	return e
}

// Workspace exposes the engine's workspace to the command layer.
func (e *Engine) Workspace() *workspace.Workspace {
	return e.ws
}

// CacheStats reports result-cache counters.
func (e *Engine) CacheStats() Stats {
	return e.cache.stats()
}

// InvalidateFile drops cached results for a changed file and for its direct
// dependents, per the index's invalidation boundary.
func (e *Engine) InvalidateFile(uri string) {
	uri = fsaccess.ToURI(fsaccess.ToPath(uri))
	e.cache.invalidate(uri)
	for _, dep := range e.ws.Index.FindDependents(uri) {
		e.cache.invalidate(dep)
	}
}

// Resolve answers "what does this expression evaluate to, and why" for an
// expression occurring in fileURI. It never returns an error: every failure
// mode is an in-band Result with ConfidenceUnknown.
func (e *Engine) Resolve(fileURI, expr string) Result {
	uri := fsaccess.ToURI(fsaccess.ToPath(fileURI))
	return e.resolveWith(expr, NewContext(uri))
}

// resolveWith is the re-entrant core. Resolvers call it for nested
// references, carrying the shared cycle stack in ctx.
func (e *Engine) resolveWith(expr string, ctx *Context) Result {
	expr = strings.TrimSpace(expr)
	uri := ctx.CurrentURI

	if expr == "" {
		return unknown("empty expression")
	}

	// Resolvers assume the context file is parsed and pre-loaded, including
	// when a nested reference moved the context to another file.
	e.ws.EnsureLoaded(uri)

	// Permanently unsupported shapes are rejected before any resolver runs.
	if e.state == nil && strings.HasPrefix(expr, "dependency.") {
		return unknown("dependency outputs are unsupported: no state lookup configured")
	}

	if r, ok := e.cache.get(uri, expr); ok {
		return r
	}

	key := uri + ":" + expr
	if ctx.stack.contains(key) {
		log.Debugf("cycle detected: key=%s", key)
		return Result{
			Confidence: ConfidenceUnknown,
			Source:     "circular-dependency",
			Circular:   true,
			Chain: []Step{{
				Description: "circular reference: " + expr + " is already being resolved in " + uri,
				SourceURI:   uri,
			}},
		}
	}

	ctx.stack.push(key)
	defer ctx.stack.pop()

	for _, r := range e.resolvers {
		if !r.CanResolve(expr) {
			continue
		}
		res := r.Resolve(expr, ctx)
		if res.Confidence == ConfidenceUnknown && !res.Circular {
			log.Tracef("resolver passed: name=%s, expr=%s", r.Name(), expr)
			continue
		}
		e.cache.put(uri, expr, res)
		return res
	}

	return unknown("no resolver matched " + expr)
}

// resolveValue turns an extracted snapshot value into a final result:
// literals pass through exact, deferred markers recurse through the engine,
// and circular sentinels become a distinguishable failure.
func (e *Engine) resolveValue(v any, ctx *Context, sourceURI string, chain []Step) Result {
	if extract.IsCircular(v) {
		return Result{
			Confidence: ConfidenceUnknown,
			Source:     "circular-dependency",
			Circular:   true,
			Chain: append(chain, Step{
				Description: "value is a circular reference: " + v.(string),
				SourceURI:   sourceURI,
			}),
		}
	}

	if u, ok := v.(extract.Unresolved); ok {
		nested := e.resolveWith(u.Expr, ctx.WithURI(sourceURI))
		nested.Chain = append(chain, nested.Chain...)
		return nested
	}

	value, conf, circular := e.resolveEmbedded(v, ctx, sourceURI)
	if circular {
		return Result{
			Confidence: ConfidenceUnknown,
			Source:     "circular-dependency",
			Circular:   true,
			Chain: append(chain, Step{
				Description: "value contains a circular reference",
				SourceURI:   sourceURI,
			}),
		}
	}

	return Result{
		Value:      value,
		Source:     sourceURI,
		Confidence: conf,
		Chain:      chain,
	}
}

// resolveEmbedded rebuilds a composite value, resolving deferred markers
// nested inside it through the engine. It reports the weakest confidence any
// member produced, and whether a circular sentinel or cycle was hit anywhere
// in the value. A member that stays unresolved keeps its expression text and
// costs the composite its exact grade.
func (e *Engine) resolveEmbedded(v any, ctx *Context, sourceURI string) (any, Confidence, bool) {
	switch t := v.(type) {
	case extract.Unresolved:
		nested := e.resolveWith(t.Expr, ctx.WithURI(sourceURI))
		if nested.Circular {
			return nil, ConfidenceUnknown, true
		}
		if nested.Confidence == ConfidenceUnknown {
			return t.Expr, ConfidenceInferred, false
		}
		return nested.Value, nested.Confidence, false

	case string:
		if extract.IsCircular(t) {
			return nil, ConfidenceUnknown, true
		}
		return t, ConfidenceExact, false

	case map[string]any:
		out := make(map[string]any, len(t))
		conf := ConfidenceExact
		for k, elem := range t {
			rv, c, circular := e.resolveEmbedded(elem, ctx, sourceURI)
			if circular {
				return nil, ConfidenceUnknown, true
			}
			out[k] = rv
			conf = weakerOf(conf, c)
		}
		return out, conf, false

	case []any:
		out := make([]any, len(t))
		conf := ConfidenceExact
		for i, elem := range t {
			rv, c, circular := e.resolveEmbedded(elem, ctx, sourceURI)
			if circular {
				return nil, ConfidenceUnknown, true
			}
			out[i] = rv
			conf = weakerOf(conf, c)
		}
		return out, conf, false

	default:
		return v, ConfidenceExact, false
	}
}

func weakerOf(a, b Confidence) Confidence {
	if a == ConfidenceInferred || b == ConfidenceInferred {
		return ConfidenceInferred
	}
	return ConfidenceExact
}

// VariableInfo is one row of a ListVariables answer.
type VariableInfo struct {
	Name       string     `json:"name" yaml:"name"`
	Value      any        `json:"value" yaml:"value"`
	Source     string     `json:"source" yaml:"source"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// ListVariables enumerates and resolves all symbols of a category. fileURI
// narrows the listing to one file; for the includes and envVars categories
// it is required, since both are per-file notions.
func (e *Engine) ListVariables(category, fileURI string) []VariableInfo {
	uri := ""
	if fileURI != "" {
		uri = fsaccess.ToURI(fsaccess.ToPath(fileURI))
		e.ws.EnsureLoaded(uri)
	}

	var out []VariableInfo

	switch category {
	case "locals":
		seen := map[string]bool{}
		for _, sym := range e.ws.Index.SymbolsIn(index.KindLocal, uri) {
			k := sym.FileURI + "\x00" + sym.Name
			if seen[k] {
				continue
			}
			seen[k] = true
			res := e.Resolve(sym.FileURI, "local."+sym.Name)
			out = append(out, VariableInfo{
				Name:       sym.Name,
				Value:      res.Value,
				Source:     res.Source,
				Confidence: res.Confidence,
			})
		}

	case "includes":
		if uri == "" {
			return nil
		}
		for _, entry := range e.ws.Includes.Includes(uri) {
			out = append(out, VariableInfo{
				Name:       entry.Name,
				Value:      entry.SourceURI,
				Source:     entry.SourceURI,
				Confidence: ConfidenceExact,
			})
		}

	case "envVars":
		if uri == "" {
			return nil
		}
		dir := filepath.Dir(fsaccess.ToPath(uri))
		envFile := filepath.Join(dir, config.EnvFile())
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return nil
		}
		for name, val := range vars {
			out = append(out, VariableInfo{
				Name:       name,
				Value:      val,
				Source:     fsaccess.ToURI(envFile),
				Confidence: ConfidenceExact,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
