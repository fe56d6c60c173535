package model

import (
	"fmt"
	"slices"
	"strings"
)

// contentTerm is one element of a content expression: a set of accepted
// node types and a repetition range. max < 0 means unbounded.
type contentTerm struct {
	types []*NodeType
	min   int
	max   int
}

func (t contentTerm) accepts(nt *NodeType) bool {
	return slices.Contains(t.types, nt)
}

// ContentExpr is a parsed content expression: a sequence of terms, each a
// node type or group name with an optional "*", "+" or "?" quantifier, or a
// parenthesized "|" alternation of names.
type ContentExpr struct {
	source string
	terms  []contentTerm
}

func parseContentExpr(s *Schema, source string) (*ContentExpr, error) {
	expr := &ContentExpr{source: source}
	tokens := tokenizeContent(source)
	for i := 0; i < len(tokens); i++ {
		var names []string
		if tokens[i] == "(" {
			i++
			for ; i < len(tokens) && tokens[i] != ")"; i++ {
				if tokens[i] != "|" {
					names = append(names, tokens[i])
				}
			}
			if i == len(tokens) {
				return nil, fmt.Errorf("unclosed group in %q", source)
			}
		} else {
			names = []string{tokens[i]}
		}

		term := contentTerm{min: 1, max: 1}
		if i+1 < len(tokens) {
			switch tokens[i+1] {
			case "*":
				term.min, term.max = 0, -1
				i++
			case "+":
				term.min, term.max = 1, -1
				i++
			case "?":
				term.min, term.max = 0, 1
				i++
			}
		}

		for _, name := range names {
			resolved := resolveContentName(s, name)
			if len(resolved) == 0 {
				return nil, fmt.Errorf("no node type or group %q", name)
			}
			term.types = append(term.types, resolved...)
		}
		expr.terms = append(expr.terms, term)
	}
	return expr, nil
}

func tokenizeContent(source string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range source {
		switch r {
		case ' ', '\t', '\n':
			flush()
		case '(', ')', '|', '*', '+', '?':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func resolveContentName(s *Schema, name string) []*NodeType {
	if nt := s.nodes[name]; nt != nil {
		return []*NodeType{nt}
	}
	var out []*NodeType
	for _, nt := range s.nodeOrder {
		if nt.InGroup(name) {
			out = append(out, nt)
		}
	}
	return out
}

func (e *ContentExpr) empty() bool { return len(e.terms) == 0 }

func (e *ContentExpr) inlineContent() bool {
	if len(e.terms) == 0 || len(e.terms[0].types) == 0 {
		return false
	}
	return e.terms[0].types[0].IsInline()
}

// String returns the source expression.
func (e *ContentExpr) String() string { return e.source }

func (e *ContentExpr) matches(nodes []*Node) bool {
	types := make([]*NodeType, len(nodes))
	for i, n := range nodes {
		types[i] = n.typ
	}
	return e.match(types, 0, 0, false)
}

// prefixMatches reports whether types can be extended into a full match.
func (e *ContentExpr) prefixMatches(types []*NodeType) bool {
	return e.match(types, 0, 0, true)
}

func (e *ContentExpr) match(types []*NodeType, ti, ni int, prefix bool) bool {
	if prefix && ni == len(types) {
		return true
	}
	if ti == len(e.terms) {
		return ni == len(types)
	}
	t := e.terms[ti]
	n := 0
	for ni+n < len(types) && (t.max < 0 || n < t.max) && t.accepts(types[ni+n]) {
		n++
	}
	for k := n; k >= t.min; k-- {
		if e.match(types, ti+1, ni+k, prefix) {
			return true
		}
	}
	// A prefix may stop inside a term that still needs more nodes.
	return prefix && ni+n == len(types)
}

// fill returns the minimal content satisfying the expression, or nil when
// a required term has no type that can be created without attributes.
func (e *ContentExpr) fill() []*Node {
	out := []*Node{}
	for _, t := range e.terms {
		if t.min == 0 {
			continue
		}
		var def *NodeType
		for _, nt := range t.types {
			if !nt.IsText() && !nt.HasRequiredAttrs() {
				def = nt
				break
			}
		}
		if def == nil {
			return nil
		}
		for i := 0; i < t.min; i++ {
			n := def.CreateAndFill(nil, nil, nil)
			if n == nil {
				return nil
			}
			out = append(out, n)
		}
	}
	return out
}
