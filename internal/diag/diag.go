// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/tflens/tflens/internal/log"
)

// Severity levels reported by Validate.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is one finding from the validation pass.
type Diagnostic struct {
	File     string
	Severity string
	Summary  string
	Detail   string
	Line     int
	Column   int
}

// knownPrefixes are the reference roots the resolver understands. Anything
// else is probably a typo worth flagging.
var knownPrefixes = map[string]bool{
	"local":      true,
	"var":        true,
	"include":    true,
	"dependency": true,
	"inputs":     true,
	"module":     true,
	"data":       true,
	"path":       true,
	"terraform":  true,
	"each":       true,
	"count":      true,
	"self":       true,
}

// Validate runs a real HCL parse over the document and lints what the
// structural scanner is too permissive to notice: syntax errors, references
// with unknown roots, and constant attributes bound to empty strings. It is
// the last step of the document-change pipeline and never fails.
func Validate(uri, text string) []Diagnostic {
	out := validate(uri, text)
	for i := range out {
		out[i].File = uri
	}
	log.Debugf("validated: uri=%s, findings=%d", uri, len(out))
	return out
}

func validate(uri, text string) []Diagnostic {
	var out []Diagnostic

	file, diags := hclsyntax.ParseConfig([]byte(text), uri, hcl.Pos{Line: 1, Column: 1})
	for _, d := range diags {
		out = append(out, fromHCL(d))
	}

	if file == nil {
		return out
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok || body == nil {
		return out
	}

	return append(out, lintBody(body)...)
}

func lintBody(body *hclsyntax.Body) []Diagnostic {
	var out []Diagnostic

	for _, attr := range body.Attributes {
		out = append(out, lintExpr(attr.Name, attr.Expr)...)
	}
	for _, block := range body.Blocks {
		out = append(out, lintBody(block.Body)...)
	}
	return out
}

func lintExpr(name string, expr hclsyntax.Expression) []Diagnostic {
	var out []Diagnostic

	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		if !knownPrefixes[root] {
			rng := traversal.SourceRange()
			out = append(out, Diagnostic{
				Severity: SeverityWarning,
				Summary:  "unknown reference prefix",
				Detail:   "reference root " + root + " in attribute " + name + " is not resolvable",
				Line:     rng.Start.Line,
				Column:   rng.Start.Column,
			})
		}
	}

	// Constant-foldable attributes bound to "" are usually half-edited
	// config (an include path or config_path someone meant to fill in).
	if val, diags := expr.Value(nil); !diags.HasErrors() {
		if val.Type() == cty.String && !val.IsNull() && val.IsKnown() && val.AsString() == "" {
			rng := expr.Range()
			out = append(out, Diagnostic{
				Severity: SeverityWarning,
				Summary:  "empty value",
				Detail:   "attribute " + name + " is the empty string",
				Line:     rng.Start.Line,
				Column:   rng.Start.Column,
			})
		}
	}

	return out
}

func fromHCL(d *hcl.Diagnostic) Diagnostic {
	sev := SeverityWarning
	if d.Severity == hcl.DiagError {
		sev = SeverityError
	}
	out := Diagnostic{
		Severity: sev,
		Summary:  d.Summary,
		Detail:   d.Detail,
	}
	if d.Subject != nil {
		out.Line = d.Subject.Start.Line
		out.Column = d.Subject.Start.Column
	}
	return out
}
