package fix

import (
	"slices"
	"strings"

	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// MergeStrings joins two literals concatenated on the same line into one,
// as in "foo " "bar" -> "foo bar".
//
// The literals must use the same single-character quote, and their
// prefixes must agree. A plain literal joins a formatted one only when it
// holds no braces.
type MergeStrings struct{}

// Name returns the identifier for this rule.
func (r *MergeStrings) Name() string {
	return "merge_strings"
}

// Fix merges n when it is a same-line concatenation of two literals.
func (r *MergeStrings) Fix(n parser.Node, _ *formatter.Context) parser.Node {
	c, ok := n.(*parser.Concat)
	if !ok {
		return n
	}
	left, lok := literalToken(c.Left)
	right, rok := literalToken(c.Right)
	if !lok || !rok || strings.Contains(right.Prefix, "\n") {
		return n
	}

	l, lok := splitLiteral(left.Value)
	r2, rok := splitLiteral(right.Value)
	if !lok || !rok || l.quote != r2.quote {
		return n
	}

	lf := left.Kind == parser.TokenFString
	rf := right.Kind == parser.TokenFString
	var (
		prefix string
		kind   = parser.TokenString
	)
	switch {
	case !lf && !rf:
		if l.prefix != r2.prefix && !bothIn(l.prefix, r2.prefix, "br", "rb") {
			return n
		}
		prefix = l.prefix
	case lf && rf:
		if l.prefix != r2.prefix && !bothIn(l.prefix, r2.prefix, "fr", "rf") {
			return n
		}
		prefix, kind = l.prefix, parser.TokenFString
	case !lf && rf:
		if !(l.prefix == "" && r2.prefix == "f") && !bothIn(l.prefix, r2.prefix, "r", "rf", "fr") {
			return n
		}
		if strings.ContainsAny(l.body, "{}") {
			return n
		}
		prefix, kind = r2.prefix, parser.TokenFString
	default:
		if !(l.prefix == "f" && r2.prefix == "") && !bothIn(l.prefix, r2.prefix, "r", "rf", "fr") {
			return n
		}
		if strings.ContainsAny(r2.body, "{}") {
			return n
		}
		prefix, kind = l.prefix, parser.TokenFString
	}

	tok := left.Clone()
	tok.Kind = kind
	tok.Value = prefix + l.quote + l.body + r2.body + l.quote

	parens := parser.Parens{Lpar: slices.Clone(c.Lpar), Rpar: slices.Clone(c.Rpar)}
	if kind == parser.TokenFString {
		return &parser.FString{Parens: parens, Tok: tok}
	}
	return &parser.String{Parens: parens, Tok: tok}
}

func literalToken(e parser.Expr) (*parser.Token, bool) {
	switch x := e.(type) {
	case *parser.String:
		return x.Tok, len(x.Lpar) == 0
	case *parser.FString:
		return x.Tok, len(x.Lpar) == 0
	}
	return nil, false
}

type literal struct {
	prefix string
	quote  string
	body   string
}

// splitLiteral breaks a single-quoted literal into its prefix, quote, and
// body. Triple-quoted literals are rejected.
func splitLiteral(s string) (literal, bool) {
	i := strings.IndexAny(s, `'"`)
	if i < 0 || len(s)-i < 2 {
		return literal{}, false
	}
	q := s[i : i+1]
	if strings.HasPrefix(s[i:], strings.Repeat(q, 3)) && len(s)-i >= 6 {
		return literal{}, false
	}
	if !strings.HasSuffix(s, q) {
		return literal{}, false
	}
	return literal{prefix: s[:i], quote: q, body: s[i+1 : len(s)-1]}, true
}

// bothIn reports whether a and b are both in set.
func bothIn(a, b string, set ...string) bool {
	return slices.Contains(set, a) && slices.Contains(set, b)
}
