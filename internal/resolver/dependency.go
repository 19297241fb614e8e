// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"path/filepath"
	"strings"

	"github.com/tflens/tflens/internal/extract"
	"github.com/tflens/tflens/internal/fsaccess"
	"github.com/tflens/tflens/internal/hclscan"
)

// dependencyResolver answers dependency.<name>.outputs.<output> references.
// Real state in the dependency's module directory is exact; a static output
// definition in its .tf files is only inferred, it shows intent rather than
// an applied value.
type dependencyResolver struct {
	e *Engine
}

// Candidate files for the static-definition fallback.
var outputFiles = []string{"outputs.tf", "main.tf"}

func (r *dependencyResolver) Name() string { return "dependency" }

func (r *dependencyResolver) CanResolve(expr string) bool {
	segs := splitExpr(expr)
	return len(segs) >= 4 && segs[0] == "dependency" && segs[2] == "outputs"
}

func (r *dependencyResolver) Resolve(expr string, ctx *Context) Result {
	segs := splitExpr(expr)
	name := segs[1]
	output := segs[3]
	rest := segs[4:]
	uri := ctx.CurrentURI

	moduleDir, ok := r.moduleDir(uri, name)
	if !ok {
		return unknown("no dependency \"" + name + "\" with a literal config_path in " + uri)
	}

	if val, found := r.e.state.Output(moduleDir, output); found {
		v := val
		if len(rest) > 0 {
			nv, ok := extract.Navigate(v, rest)
			if !ok {
				return unknown(expr + " has no element at " + strings.Join(rest, "."))
			}
			v = nv
		}
		return Result{
			Value:      v,
			Source:     fsaccess.ToURI(moduleDir),
			Confidence: ConfidenceExact,
			Chain: []Step{
				{Description: "dependency \"" + name + "\" points at " + moduleDir, SourceURI: uri},
				{Description: "output \"" + output + "\" read from state, " + r.e.state.Describe(moduleDir)},
			},
		}
	}

	// No state yet. Fall back to the output's definition in the module
	// source.
	for _, f := range outputFiles {
		p := filepath.Join(moduleDir, f)
		text, ok := r.e.ws.FS.ReadFile(p)
		if !ok {
			continue
		}
		srcURI := fsaccess.ToURI(p)
		vals := extract.ExtractAll(hclscan.Parse(srcURI, text))
		v, found := extract.Navigate(vals.Attributes, append([]string{"output", output, "value"}, rest...))
		if !found {
			continue
		}
		chain := []Step{
			{Description: "dependency \"" + name + "\" points at " + moduleDir, SourceURI: uri},
			{Description: "no state; using the definition of output \"" + output + "\"", SourceURI: srcURI},
		}
		res := r.e.resolveValue(v, ctx, srcURI, chain)
		if res.Confidence == ConfidenceExact {
			res.Confidence = ConfidenceInferred
		}
		return res
	}

	return unknown("output \"" + output + "\" of dependency \"" + name + "\" not found in state or source")
}

// moduleDir locates the dependency block named name in the consumer and
// returns its config_path resolved against the consumer's directory.
func (r *dependencyResolver) moduleDir(uri, name string) (string, bool) {
	tree := r.e.ws.Index.Tree(uri)
	for _, block := range hclscan.FindBlocks(tree, "dependency") {
		if block.BlockName() != name {
			continue
		}
		attr := hclscan.FindAttribute(block.Children, "config_path")
		if attr == nil || attr.Value == nil {
			return "", false
		}
		rel, ok := attr.Value.Lit.(string)
		if !ok || rel == "" {
			return "", false
		}
		if filepath.IsAbs(rel) {
			return filepath.Clean(rel), true
		}
		return filepath.Join(filepath.Dir(fsaccess.ToPath(uri)), rel), true
	}
	return "", false
}
