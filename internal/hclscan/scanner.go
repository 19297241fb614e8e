// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package hclscan

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tflens/tflens/internal/log"
)

// memo caches parsed trees by content fingerprint so re-parsing unchanged
// text is free. Trees are shared; callers must not mutate them.
var memo *lru.Cache[string, []*Node]

func init() {
	memo, _ = lru.New[string, []*Node](128) //nolint:mnd
}

var (
	blockRe  = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*((?:"[^"]*"\s*)*)\{\s*$`)
	inlineRe = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*((?:"[^"]*"\s*)*)\{(.*)\}\s*$`)
	closeRe  = regexp.MustCompile(`^[}\]]\s*,?\s*$`)
	attrRe   = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*=\s*(.+)$`)
	labelRe  = regexp.MustCompile(`"([^"]*)"`)
	callRe   = regexp.MustCompile(`^([A-Za-z_][\w]*)\((.*)\)$`)
	refRe    = regexp.MustCompile(`^[A-Za-z_][\w-]*(\.[\w*][\w*-]*)+$`)
	numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// Parse scans configuration text into a structural node tree. It is
// deliberately permissive: lines it cannot classify degrade to best-effort
// literal nodes and never fail the parse. Results are memoized by a content
// fingerprint, so the uri participates only in logging.
func Parse(uri, text string) []*Node {
	fp := fingerprint(text)
	if tree, ok := memo.Get(fp); ok {
		log.Tracef("parse memo hit: uri=%s", uri)
		return tree
	}

	s := &scanner{lines: strings.Split(text, "\n")}
	tree, _ := s.body(0)
	memo.Add(fp, tree)
	log.Debugf("parsed: uri=%s, nodes=%d", uri, len(tree))
	return tree
}

// fingerprint returns the hex sha256 of the text.
func fingerprint(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

type scanner struct {
	lines []string
}

// body parses lines starting at index i (0-based) until an unmatched closing
// brace or EOF. It returns the nodes and the index of the line following the
// consumed close.
func (s *scanner) body(i int) ([]*Node, int) {
	var nodes []*Node

	for i < len(s.lines) {
		raw := s.lines[i]
		t := strings.TrimSpace(raw)

		switch {
		case t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//"):
			i++

		case closeRe.MatchString(t):
			return nodes, i + 1

		case inlineRe.MatchString(t) && balanced(t):
			m := inlineRe.FindStringSubmatch(t)
			nodes = append(nodes, &Node{
				Kind:     KindBlock,
				Name:     m[1],
				Labels:   labels(m[2]),
				Children: parseInlinePairs(m[3], i),
				Range:    lineRange(i, raw),
			})
			i++

		case blockRe.MatchString(t):
			m := blockRe.FindStringSubmatch(t)
			kids, next := s.body(i + 1)
			nodes = append(nodes, &Node{
				Kind:     KindBlock,
				Name:     m[1],
				Labels:   labels(m[2]),
				Children: kids,
				Range:    spanRange(i, next-1, s.lines),
			})
			i = next

		case attrRe.MatchString(t):
			m := attrRe.FindStringSubmatch(t)
			node, next := s.attribute(i, raw, m[1], strings.TrimSpace(m[2]))
			nodes = append(nodes, node)
			i = next

		default:
			// Unclassifiable line. Keep it as a best-effort literal so the
			// rest of the file still parses.
			nodes = append(nodes, &Node{
				Kind:  KindLiteral,
				Raw:   t,
				Lit:   t,
				Range: lineRange(i, raw),
			})
			i++
		}
	}

	return nodes, len(s.lines)
}

// attribute parses one `name = value` binding starting at line i, consuming
// continuation lines for multi-line map and array values. Returns the node
// and the index of the next unconsumed line.
func (s *scanner) attribute(i int, raw, name, val string) (*Node, int) {
	val = strings.TrimSuffix(val, ",")
	col := strings.Index(raw, name) + 1

	var value *Node
	next := i + 1

	switch {
	case strings.HasPrefix(val, "{") && delta(val, '{', '}') > 0:
		// Multi-line map literal. The body scanner consumes through the
		// matching close brace; quoted braces inside do not terminate it.
		kids, after := s.body(i + 1)
		if rest := strings.TrimSpace(val[1:]); rest != "" {
			kids = append(parseInlinePairs(rest, i), kids...)
		}
		value = &Node{
			Kind:     KindBlock,
			Children: kids,
			Range:    spanRange(i, after-1, s.lines),
		}
		next = after

	case strings.HasPrefix(val, "[") && delta(val, '[', ']') > 0:
		// Multi-line array literal: accumulate until brackets balance.
		text := val
		j := i + 1
		d := delta(val, '[', ']')
		for j < len(s.lines) && d > 0 {
			text += " " + strings.TrimSpace(s.lines[j])
			d += delta(s.lines[j], '[', ']')
			j++
		}
		value = parseExpr(text, i, col)
		next = j

	default:
		value = parseExpr(val, i, col)
	}

	endLine := next - 1
	if endLine < i {
		endLine = i
	}
	return &Node{
		Kind:  KindAttribute,
		Name:  name,
		Value: value,
		Range: spanRange(i, endLine, s.lines),
	}, next
}

// parseExpr classifies a single expression string. line is the 0-based line
// the expression starts on; col is its 1-based start column.
func parseExpr(raw string, line, col int) *Node {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ","))
	rng := Range{StartLine: line + 1, StartCol: col, EndLine: line + 1, EndCol: col + len(raw)}

	switch {
	case raw == "":
		return &Node{Kind: KindLiteral, Raw: raw, Lit: "", Range: rng}

	case strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2:
		inner := raw[1 : len(raw)-1]
		// A string that is exactly one interpolation resolves like the bare
		// expression it wraps.
		if strings.HasPrefix(inner, "${") && strings.HasSuffix(inner, "}") &&
			!strings.Contains(inner[2:len(inner)-1], "${") {
			if n := parseExpr(inner[2:len(inner)-1], line, col); n.Kind == KindReference || n.Kind == KindCall {
				return n
			}
		}
		return &Node{Kind: KindLiteral, Raw: raw, Lit: unquote(inner), Range: rng}

	case strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}"):
		return &Node{
			Kind:     KindBlock,
			Children: parseInlinePairs(raw[1:len(raw)-1], line),
			Range:    rng,
		}

	case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		node := &Node{Kind: KindArray, Range: rng}
		for _, part := range splitTop(raw[1:len(raw)-1], ',') {
			if p := strings.TrimSpace(part); p != "" {
				node.Children = append(node.Children, parseExpr(p, line, col))
			}
		}
		return node

	case raw == "true" || raw == "false":
		return &Node{Kind: KindLiteral, Raw: raw, Lit: raw == "true", Range: rng}

	case raw == "null":
		return &Node{Kind: KindLiteral, Raw: raw, Lit: nil, Range: rng}

	case numberRe.MatchString(raw):
		f, _ := strconv.ParseFloat(raw, 64)
		return &Node{Kind: KindLiteral, Raw: raw, Lit: f, Range: rng}

	case callRe.MatchString(raw) && balanced(raw):
		m := callRe.FindStringSubmatch(raw)
		node := &Node{Kind: KindCall, Name: m[1], Range: rng}
		for _, part := range splitTop(m[2], ',') {
			if p := strings.TrimSpace(part); p != "" {
				node.Children = append(node.Children, parseExpr(p, line, col))
			}
		}
		return node

	case refRe.MatchString(raw):
		parts := strings.Split(raw, ".")
		return &Node{Kind: KindReference, Prefix: parts[0], Path: parts[1:], Range: rng}

	default:
		return &Node{Kind: KindLiteral, Raw: raw, Lit: raw, Range: rng}
	}
}

// parseInlinePairs parses `k = v, k2 = v2` content from a single-line map.
// Anything that is not a pair degrades to a literal child.
func parseInlinePairs(content string, line int) []*Node {
	var out []*Node
	for _, part := range splitTop(content, ',') {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if m := attrRe.FindStringSubmatch(p); m != nil {
			out = append(out, &Node{
				Kind:  KindAttribute,
				Name:  m[1],
				Value: parseExpr(strings.TrimSpace(m[2]), line, 1),
				Range: Range{StartLine: line + 1, StartCol: 1, EndLine: line + 1, EndCol: len(p)},
			})
		} else {
			out = append(out, parseExpr(p, line, 1))
		}
	}
	return out
}

// delta returns the net count of open minus close delimiters in s, ignoring
// any inside double-quoted strings.
func delta(s string, open, close byte) int {
	d := 0
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr && c == '\\':
			i++
		case c == '"':
			inStr = !inStr
		case !inStr && c == open:
			d++
		case !inStr && c == close:
			d--
		}
	}
	return d
}

// balanced reports whether parens, braces, and brackets all balance in s.
func balanced(s string) bool {
	return delta(s, '(', ')') == 0 && delta(s, '{', '}') == 0 && delta(s, '[', ']') == 0
}

// splitTop splits s on sep occurrences that are outside quotes and outside
// any nesting of (), {}, [].
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr && c == '\\':
			i++
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// unquote handles the two escapes the scanner cares about inside string
// literals.
func unquote(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// labels extracts quoted labels from a block header remainder.
func labels(s string) []string {
	var out []string
	for _, m := range labelRe.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

func lineRange(i int, raw string) Range {
	return Range{StartLine: i + 1, StartCol: 1, EndLine: i + 1, EndCol: len(raw) + 1}
}

func spanRange(start, end int, lines []string) Range {
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if end < start {
		end = start
	}
	return Range{
		StartLine: start + 1,
		StartCol:  1,
		EndLine:   end + 1,
		EndCol:    len(lines[end]) + 1,
	}
}
