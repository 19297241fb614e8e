// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"strings"

	"github.com/tflens/tflens/internal/extract"
)

// Confidence grades how a value was obtained. There is no separate error
// channel: failure to resolve is ConfidenceUnknown, always with a chain entry
// saying why.
type Confidence string

const (
	// ConfidenceExact means the value was found directly.
	ConfidenceExact Confidence = "exact"
	// ConfidenceInferred means the value came from a weaker signal, such as
	// a static output definition instead of real state.
	ConfidenceInferred Confidence = "inferred"
	// ConfidenceUnknown means no resolver produced a value.
	ConfidenceUnknown Confidence = "unknown"
)

// Step is one link in the chain of evidence justifying a result.
type Step struct {
	Description string `json:"description" yaml:"description"`
	SourceURI   string `json:"sourceUri,omitempty" yaml:"sourceUri,omitempty"`
	Line        int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Result is the outcome of resolving one expression. Chain is first-class
// output, not a debug log: it lists, in order, the files and decisions that
// produced the value.
type Result struct {
	Value        any        `json:"value" yaml:"value"`
	Source       string     `json:"source" yaml:"source"`
	Chain        []Step     `json:"chain" yaml:"chain"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	ResolvedPath string     `json:"resolvedPath,omitempty" yaml:"resolvedPath,omitempty"`
	Circular     bool       `json:"circular,omitempty" yaml:"circular,omitempty"`
}

// unknown builds a failure result carrying one explanatory chain step.
func unknown(description string) Result {
	return Result{
		Confidence: ConfidenceUnknown,
		Source:     "not-found",
		Chain:      []Step{{Description: description}},
	}
}

// Context carries the per-top-level-call resolution state: the file the
// expression occurs in and the in-flight stack used for cycle detection. The
// stack is shared by derived contexts and must be popped on every exit path.
type Context struct {
	CurrentURI string
	stack      *stack
}

// NewContext starts a fresh top-level resolution rooted at uri. Each
// top-level call gets its own stack; sharing one across concurrent calls
// would be a correctness bug.
func NewContext(uri string) *Context {
	return &Context{CurrentURI: uri, stack: &stack{}}
}

// WithURI derives a context for resolving inside another file while keeping
// the same in-flight stack.
func (c *Context) WithURI(uri string) *Context {
	if uri == c.CurrentURI {
		return c
	}
	return &Context{CurrentURI: uri, stack: c.stack}
}

type stack struct {
	keys []string
}

func (s *stack) contains(key string) bool {
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *stack) push(key string) {
	s.keys = append(s.keys, key)
}

func (s *stack) pop() {
	if len(s.keys) > 0 {
		s.keys = s.keys[:len(s.keys)-1]
	}
}

// Resolver is the capability each member of the chain implements. CanResolve
// is a cheap syntactic test; Resolve may call back into the engine for
// nested references. A resolver that cannot produce a value returns
// ConfidenceUnknown, which the engine treats as "try the next one".
type Resolver interface {
	Name() string
	CanResolve(expr string) bool
	Resolve(expr string, ctx *Context) Result
}

// splitExpr breaks a dotted expression into its segments.
func splitExpr(expr string) []string {
	return strings.Split(expr, ".")
}

// navigateSnapshot indexes into an extracted snapshot: the first segment
// names a section (locals, inputs, variables), anything else is looked up
// among the file's plain attributes.
func navigateSnapshot(vals extract.Values, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	switch path[0] {
	case "locals":
		return extract.Navigate(vals.Locals, path[1:])
	case "inputs":
		return extract.Navigate(vals.Inputs, path[1:])
	case "variables":
		return extract.Navigate(vals.Variables, path[1:])
	default:
		return extract.Navigate(vals.Attributes, path)
	}
}

// lookupPath finds name in a value map and optionally navigates deeper.
func lookupPath(m map[string]any, name string, rest []string) (any, bool) {
	v, ok := m[name]
	if !ok {
		return nil, false
	}
	if len(rest) == 0 {
		return v, true
	}
	return extract.Navigate(v, rest)
}
