// Package matcher implements declarative structural patterns over syntax
// tree nodes.
//
// A Pattern is plain data: a node shape with per-field sub-patterns, a
// predicate over a leaf, an alternation, or a quantified element sequence.
// Matching is a pure function of node and pattern.
package matcher

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/slyp/internal/parser"
)

// Kind identifies the variant of a Pattern.
type Kind int

const (
	// KindAny matches anything, including absent fields.
	KindAny Kind = iota
	// KindShape matches a node of a given type whose fields match.
	KindShape
	// KindValue matches a token field with exactly the given text.
	KindValue
	// KindPred matches when a predicate over the leaf returns true.
	KindPred
	// KindOneOf matches when any alternative matches.
	KindOneOf
	// KindAbsent matches a missing node or an empty token field.
	KindAbsent
	// KindSeq matches a list field element by element.
	KindSeq
	// KindAtLeastN matches at least N consecutive list elements. It is
	// only meaningful inside a KindSeq.
	KindAtLeastN
)

var kindNames = map[Kind]string{
	KindAny:      "Any",
	KindShape:    "Shape",
	KindValue:    "Value",
	KindPred:     "Pred",
	KindOneOf:    "OneOf",
	KindAbsent:   "Absent",
	KindSeq:      "Seq",
	KindAtLeastN: "AtLeastN",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Pattern describes an acceptable node, field, or list.
type Pattern struct {
	Kind Kind

	// Type is the node type name for KindShape, e.g. "Concat". An empty
	// Type accepts any node type.
	Type   string
	Fields []FieldPattern

	// Value is the expected token text for KindValue.
	Value string

	// Desc names the predicate for KindPred.
	Desc string
	Pred func(leaf any) bool

	// Alts holds the alternatives of KindOneOf and the elements of KindSeq.
	Alts []Pattern

	// N and Elem configure KindAtLeastN. A nil Elem matches any element.
	N    int
	Elem *Pattern
}

// FieldPattern pairs a field name with the pattern its value must match.
type FieldPattern struct {
	Name    string
	Pattern Pattern
}

// Any matches anything.
func Any() Pattern { return Pattern{Kind: KindAny} }

// Shape matches a node of the given type whose named fields match.
// Fields that are not listed are not examined.
func Shape(typ string, fields ...FieldPattern) Pattern {
	return Pattern{Kind: KindShape, Type: typ, Fields: fields}
}

// Field builds a FieldPattern.
func Field(name string, p Pattern) FieldPattern {
	return FieldPattern{Name: name, Pattern: p}
}

// Value matches a token field whose text is exactly v.
func Value(v string) Pattern { return Pattern{Kind: KindValue, Value: v} }

// Pred matches a leaf for which fn returns true. The leaf is a string for
// token fields and a parser.Node otherwise.
func Pred(desc string, fn func(leaf any) bool) Pattern {
	return Pattern{Kind: KindPred, Desc: desc, Pred: fn}
}

// OneOf matches when any of alts matches.
func OneOf(alts ...Pattern) Pattern { return Pattern{Kind: KindOneOf, Alts: alts} }

// Absent matches a missing node or an empty token field.
func Absent() Pattern { return Pattern{Kind: KindAbsent} }

// Seq matches a list field whose elements match elems in order. Elements
// built with ZeroOrMore or AtLeastN consume a run of list elements.
func Seq(elems ...Pattern) Pattern { return Pattern{Kind: KindSeq, Alts: elems} }

// ZeroOrMore consumes any number of list elements.
func ZeroOrMore() Pattern { return Pattern{Kind: KindAtLeastN} }

// AtLeastN consumes n or more list elements.
func AtLeastN(n int) Pattern { return Pattern{Kind: KindAtLeastN, N: n} }

// AtLeastNOf consumes n or more list elements that each match elem.
func AtLeastNOf(n int, elem Pattern) Pattern {
	return Pattern{Kind: KindAtLeastN, N: n, Elem: &elem}
}

// Contains matches a token field containing substr.
func Contains(substr string) Pattern {
	return Pred(fmt.Sprintf("contains %q", substr), func(leaf any) bool {
		s, ok := leaf.(string)
		return ok && strings.Contains(s, substr)
	})
}

// NotContains matches a token field that does not contain substr.
func NotContains(substr string) Pattern {
	return Pred(fmt.Sprintf("not contains %q", substr), func(leaf any) bool {
		s, ok := leaf.(string)
		return ok && !strings.Contains(s, substr)
	})
}

// Unparenthesized matches an expression with no grouping parentheses.
func Unparenthesized() FieldPattern { return Field("lpar", Value("")) }

// Matches reports whether n matches p.
func Matches(n parser.Node, p Pattern) bool {
	switch p.Kind {
	case KindAny:
		return true
	case KindAbsent:
		return parser.IsNil(n)
	case KindOneOf:
		for _, alt := range p.Alts {
			if Matches(n, alt) {
				return true
			}
		}
		return false
	case KindPred:
		return !parser.IsNil(n) && p.Pred(n)
	case KindShape:
		if parser.IsNil(n) {
			return false
		}
		if p.Type != "" && parser.KindOf(n) != p.Type {
			return false
		}
		for _, fp := range p.Fields {
			f, ok := lookup(n, fp.Name)
			if !ok || !matchField(f, fp.Pattern) {
				return false
			}
		}
		return true
	}
	return false
}

// MatchesList reports whether list matches a KindSeq pattern.
func MatchesList[T parser.Node](list []T, p Pattern) bool {
	nodes := make([]parser.Node, len(list))
	for i, n := range list {
		nodes[i] = n
	}
	return matchField(parser.Field{Kind: parser.FieldList, List: nodes}, p)
}

func matchField(f parser.Field, p Pattern) bool {
	switch p.Kind {
	case KindAny:
		return true
	case KindOneOf:
		for _, alt := range p.Alts {
			if matchField(f, alt) {
				return true
			}
		}
		return false
	}

	switch f.Kind {
	case parser.FieldValue:
		switch p.Kind {
		case KindValue:
			return f.Value == p.Value
		case KindAbsent:
			return f.Value == ""
		case KindPred:
			return p.Pred(f.Value)
		}
		return false
	case parser.FieldList:
		if p.Kind != KindSeq {
			return false
		}
		return matchSeq(f.List, p.Alts)
	default:
		return Matches(f.Node, p)
	}
}

// matchSeq matches nodes against a sequence of element patterns. A
// quantifier tries the shortest run first and stops extending the run at
// the first element that fails its element pattern.
func matchSeq(nodes []parser.Node, pats []Pattern) bool {
	if len(pats) == 0 {
		return len(nodes) == 0
	}
	p := pats[0]
	if p.Kind != KindAtLeastN {
		return len(nodes) > 0 && Matches(nodes[0], p) && matchSeq(nodes[1:], pats[1:])
	}

	if len(nodes) < p.N {
		return false
	}
	for i := 0; i < p.N; i++ {
		if p.Elem != nil && !Matches(nodes[i], *p.Elem) {
			return false
		}
	}
	for k := p.N; ; k++ {
		if matchSeq(nodes[k:], pats[1:]) {
			return true
		}
		if k == len(nodes) || (p.Elem != nil && !Matches(nodes[k], *p.Elem)) {
			return false
		}
	}
}

// lookup finds a field by name. The pseudo-fields "lpar" and "rpar" expose
// an expression's grouping parentheses as text.
func lookup(n parser.Node, name string) (parser.Field, bool) {
	if name == "lpar" || name == "rpar" {
		e, ok := n.(parser.Expr)
		if !ok {
			return parser.Field{}, false
		}
		toks := e.Group().Lpar
		if name == "rpar" {
			toks = e.Group().Rpar
		}
		var b strings.Builder
		for _, t := range toks {
			b.WriteString(t.Value)
		}
		return parser.Field{Name: name, Kind: parser.FieldValue, Value: b.String()}, true
	}
	for _, f := range parser.Fields(n) {
		if f.Name == name {
			return f, true
		}
	}
	return parser.Field{}, false
}

// String renders the pattern for diagnostics and tests.
func (p Pattern) String() string {
	switch p.Kind {
	case KindShape:
		typ := p.Type
		if typ == "" {
			typ = "Node"
		}
		parts := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			parts[i] = f.Name + "=" + f.Pattern.String()
		}
		return typ + "(" + strings.Join(parts, ", ") + ")"
	case KindValue:
		return fmt.Sprintf("%q", p.Value)
	case KindPred:
		return "Pred(" + p.Desc + ")"
	case KindOneOf, KindSeq:
		parts := make([]string, len(p.Alts))
		for i, a := range p.Alts {
			parts[i] = a.String()
		}
		if p.Kind == KindSeq {
			return "[" + strings.Join(parts, ", ") + "]"
		}
		return strings.Join(parts, " | ")
	case KindAtLeastN:
		if p.N == 0 && p.Elem == nil {
			return "ZeroOrMore()"
		}
		if p.Elem == nil {
			return fmt.Sprintf("AtLeastN(%d)", p.N)
		}
		return fmt.Sprintf("AtLeastN(%d, %s)", p.N, p.Elem)
	}
	return p.Kind.String() + "()"
}
