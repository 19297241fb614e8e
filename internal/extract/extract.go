// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tflens/tflens/internal/config"
	"github.com/tflens/tflens/internal/hclscan"
	"github.com/tflens/tflens/internal/log"
)

// Unresolved is the deferred-reference marker recorded in place of a symbolic
// value during extraction. It is a distinguished type, not a magic string, so
// the fixed-point pass can match it exhaustively.
type Unresolved struct {
	Expr string
}

func (u Unresolved) String() string {
	return u.Expr
}

// Values is the flattened, partially-resolved snapshot of one file. Value
// trees are nested map[string]any / []any structures whose leaves are
// literals, Unresolved markers, or circular sentinels.
type Values struct {
	Locals     map[string]any
	Inputs     map[string]any
	Variables  map[string]any
	Attributes map[string]any
}

// circularPrefix marks a same-file local cycle that the fixed-point pass
// could not break. Callers must treat it as an error signal, never as a
// confident value.
const circularPrefix = "[Circular: "

// CircularSentinel renders the sentinel for an expression.
func CircularSentinel(expr string) string {
	return circularPrefix + expr + "]"
}

// IsCircular reports whether a value is a circular-reference sentinel.
func IsCircular(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, circularPrefix)
}

// ExtractAll walks one file's tree and produces its value snapshot. Same-file
// local indirection is resolved by a bounded fixed-point pass; cross-file
// references stay deferred as Unresolved markers for the resolver chain.
func ExtractAll(tree []*hclscan.Node) Values {
	v := Values{
		Locals:     map[string]any{},
		Inputs:     map[string]any{},
		Variables:  map[string]any{},
		Attributes: map[string]any{},
	}

	for _, n := range tree {
		switch {
		case n.Kind == hclscan.KindBlock && n.Name == "locals":
			mergeChildren(v.Locals, n.Children)

		case n.Kind == hclscan.KindBlock && n.Name == "inputs":
			mergeChildren(v.Inputs, n.Children)

		case n.Kind == hclscan.KindAttribute && n.Name == "inputs":
			if m, ok := toValue(n.Value).(map[string]any); ok {
				for k, val := range m {
					v.Inputs[k] = val
				}
			}

		case n.Kind == hclscan.KindBlock && n.Name == "variable":
			name := n.BlockName()
			if name == "" {
				continue
			}
			if def := hclscan.FindAttribute(n.Children, "default"); def != nil {
				v.Variables[name] = toValue(def.Value)
			} else {
				v.Variables[name] = blockToMap(n.Children)
			}

		case n.Kind == hclscan.KindBlock:
			sub := blockToMap(n.Children)
			if name := n.BlockName(); name != "" {
				outer, ok := v.Attributes[n.Name].(map[string]any)
				if !ok {
					outer = map[string]any{}
					v.Attributes[n.Name] = outer
				}
				outer[name] = sub
			} else {
				v.Attributes[n.Name] = sub
			}

		case n.Kind == hclscan.KindAttribute:
			v.Attributes[n.Name] = toValue(n.Value)
		}
	}

	v.fixedPoint()
	v.sentinelPass()
	return v
}

// Navigate indexes into a value tree by dotted-path segments. Array segments
// accept numeric indexes.
func Navigate(value any, path []string) (any, bool) {
	cur := value
	for _, seg := range path {
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// toValue converts an expression node to a snapshot value.
func toValue(n *hclscan.Node) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case hclscan.KindLiteral:
		if n.Lit == nil && n.Raw != "" && n.Raw != "null" {
			return n.Raw
		}
		return n.Lit
	case hclscan.KindReference:
		return Unresolved{Expr: n.RefString()}
	case hclscan.KindCall:
		return Unresolved{Expr: n.ExprString()}
	case hclscan.KindBlock:
		return blockToMap(n.Children)
	case hclscan.KindArray:
		out := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, toValue(c))
		}
		return out
	default:
		return nil
	}
}

// blockToMap converts block children to a nested map. Anonymous nested blocks
// merge into the parent map, modeling inline map literals.
func blockToMap(children []*hclscan.Node) map[string]any {
	m := map[string]any{}
	mergeChildren(m, children)
	return m
}

func mergeChildren(m map[string]any, children []*hclscan.Node) {
	for _, c := range children {
		switch {
		case c.Kind == hclscan.KindAttribute:
			m[c.Name] = toValue(c.Value)
		case c.Kind == hclscan.KindBlock && c.Name == "":
			mergeChildren(m, c.Children)
		case c.Kind == hclscan.KindBlock:
			if name := c.BlockName(); name != "" {
				m[c.Name+"."+name] = blockToMap(c.Children)
			} else {
				m[c.Name] = blockToMap(c.Children)
			}
		}
	}
}

// fixedPoint repeatedly substitutes fully-resolved locals into all four maps
// until a sweep changes nothing, bounded by a hard cap. Keys are visited in
// sorted order so convergence is deterministic.
func (v *Values) fixedPoint() {
	for iter := 0; iter < config.DefaultFixedPointCap; iter++ {
		prev := Values{
			Locals:     deepCopyMap(v.Locals),
			Inputs:     deepCopyMap(v.Inputs),
			Variables:  deepCopyMap(v.Variables),
			Attributes: deepCopyMap(v.Attributes),
		}

		for _, m := range []map[string]any{v.Locals, v.Inputs, v.Variables, v.Attributes} {
			for _, k := range sortedKeys(m) {
				m[k] = v.substitute(m[k])
			}
		}

		if reflect.DeepEqual(prev, *v) {
			log.Tracef("fixed point converged: iter=%d", iter)
			return
		}
	}
	log.Debugf("fixed point cap reached")
}

// substitute replaces local.<name> markers whose target local is already
// fully resolved. Everything else passes through untouched.
func (v *Values) substitute(val any) any {
	switch t := val.(type) {
	case Unresolved:
		path := strings.Split(t.Expr, ".")
		if len(path) < 2 || path[0] != "local" {
			return val
		}
		target, ok := v.Locals[path[1]]
		if !ok || !fullyResolved(target) {
			return val
		}
		if resolved, ok := Navigate(target, path[2:]); ok {
			return resolved
		}
		return val

	case map[string]any:
		for _, k := range sortedKeys(t) {
			t[k] = v.substitute(t[k])
		}
		return t

	case []any:
		for i := range t {
			t[i] = v.substitute(t[i])
		}
		return t

	default:
		return val
	}
}

// sentinelPass rewrites markers that sit on a same-file local cycle as
// circular sentinels. Deferred cross-file markers are left alone.
func (v *Values) sentinelPass() {
	cyclic := v.cyclicLocals()
	if len(cyclic) == 0 {
		return
	}

	var rewrite func(val any) any
	rewrite = func(val any) any {
		switch t := val.(type) {
		case Unresolved:
			path := strings.Split(t.Expr, ".")
			if len(path) >= 2 && path[0] == "local" && cyclic[path[1]] {
				return CircularSentinel(t.Expr)
			}
			return val
		case map[string]any:
			for k := range t {
				t[k] = rewrite(t[k])
			}
			return t
		case []any:
			for i := range t {
				t[i] = rewrite(t[i])
			}
			return t
		default:
			return val
		}
	}

	for _, m := range []map[string]any{v.Locals, v.Inputs, v.Variables, v.Attributes} {
		for k := range m {
			m[k] = rewrite(m[k])
		}
	}
}

// cyclicLocals finds local names participating in a same-file reference
// cycle via three-color DFS over the local-to-local edges.
func (v *Values) cyclicLocals() map[string]bool {
	edges := map[string][]string{}
	for name, val := range v.Locals {
		for _, ref := range localRefs(val) {
			if _, ok := v.Locals[ref]; ok {
				edges[name] = append(edges[name], ref)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	cyclic := map[string]bool{}

	var visit func(n string, stack []string)
	visit = func(n string, stack []string) {
		color[n] = gray
		for _, next := range edges[n] {
			switch color[next] {
			case white:
				visit(next, append(stack, n))
			case gray:
				// Everything from next back through the stack is on the cycle.
				cyclic[next] = true
				cyclic[n] = true
				for i := len(stack) - 1; i >= 0; i-- {
					cyclic[stack[i]] = true
					if stack[i] == next {
						break
					}
				}
			}
		}
		color[n] = black
	}

	for _, name := range sortedKeys(v.Locals) {
		if color[name] == white {
			visit(name, nil)
		}
	}
	return cyclic
}

// localRefs collects the root local names referenced anywhere in a value.
func localRefs(val any) []string {
	var out []string
	switch t := val.(type) {
	case Unresolved:
		path := strings.Split(t.Expr, ".")
		if len(path) >= 2 && path[0] == "local" {
			out = append(out, path[1])
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			out = append(out, localRefs(t[k])...)
		}
	case []any:
		for _, e := range t {
			out = append(out, localRefs(e)...)
		}
	}
	return out
}

// fullyResolved reports whether a value contains no Unresolved markers.
func fullyResolved(val any) bool {
	switch t := val.(type) {
	case Unresolved:
		return false
	case map[string]any:
		for _, e := range t {
			if !fullyResolved(e) {
				return false
			}
		}
	case []any:
		for _, e := range t {
			if !fullyResolved(e) {
				return false
			}
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(val any) any {
	switch t := val.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return val
	}
}
