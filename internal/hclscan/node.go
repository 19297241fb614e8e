// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package hclscan

import (
	"strconv"
	"strings"
)

// Kind discriminates the node variants produced by the scanner.
type Kind int

const (
	// KindBlock is a braced block: `locals { ... }`, `dependency "vpc" { ... }`.
	KindBlock Kind = iota
	// KindAttribute is a `name = value` binding.
	KindAttribute
	// KindLiteral is a string, number, or bool. Unparseable input degrades to
	// a literal carrying the raw text.
	KindLiteral
	// KindReference is a dotted symbolic reference such as `local.region`.
	KindReference
	// KindCall is a function call such as `find_in_parent_folders()`.
	KindCall
	// KindArray is a `[ ... ]` sequence of value nodes.
	KindArray
)

// Range is a file-relative span. Lines and columns are 1-based.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node is one element of the structural tree. Which fields are meaningful
// depends on Kind:
//
//   - KindBlock: Name (block keyword), Labels, Children
//   - KindAttribute: Name, Value
//   - KindLiteral: Lit (string/float64/bool) and Raw (original text)
//   - KindReference: Prefix, Path
//   - KindCall: Name, Children (arguments)
//   - KindArray: Children (elements)
//
// Trees returned by Parse are shared via memoization and must be treated as
// read-only by all callers.
type Node struct {
	Kind     Kind
	Name     string
	Labels   []string
	Value    *Node
	Children []*Node
	Lit      any
	Raw      string
	Prefix   string
	Path     []string
	Range    Range
}

// BlockName returns the last label of a block, the conventional "name" slot of
// a `keyword "type" "name" {` header. Empty for unlabeled blocks.
func (n *Node) BlockName() string {
	if n.Kind != KindBlock || len(n.Labels) == 0 {
		return ""
	}
	return n.Labels[len(n.Labels)-1]
}

// RefString reconstructs the dotted expression of a reference node.
func (n *Node) RefString() string {
	if n.Kind != KindReference {
		return ""
	}
	if len(n.Path) == 0 {
		return n.Prefix
	}
	return n.Prefix + "." + strings.Join(n.Path, ".")
}

// ExprString renders an expression node back to its textual form, close
// enough to the source for provenance strings and re-recognition.
func (n *Node) ExprString() string {
	switch n.Kind {
	case KindReference:
		return n.RefString()
	case KindCall:
		args := make([]string, 0, len(n.Children))
		for _, a := range n.Children {
			args = append(args, a.ExprString())
		}
		return n.Name + "(" + strings.Join(args, ", ") + ")"
	case KindLiteral:
		if n.Raw != "" {
			return n.Raw
		}
		if s, ok := n.Lit.(string); ok {
			return `"` + s + `"`
		}
		return rawOf(n.Lit)
	default:
		return n.Raw
	}
}

func rawOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// FindBlocks returns the top-level blocks with the given keyword.
func FindBlocks(tree []*Node, keyword string) []*Node {
	var out []*Node
	for _, n := range tree {
		if n.Kind == KindBlock && n.Name == keyword {
			out = append(out, n)
		}
	}
	return out
}

// FindAttribute returns the named attribute among the given nodes, or nil.
func FindAttribute(nodes []*Node, name string) *Node {
	for _, n := range nodes {
		if n.Kind == KindAttribute && n.Name == name {
			return n
		}
	}
	return nil
}
