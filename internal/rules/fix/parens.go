// Package fix holds the rewrite rules applied by the fixer.
package fix

import (
	"slices"

	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// RedundantParens removes grouping parentheses that open and close on the
// same line.
//
// Parentheses that span lines are kept. Shapes whose grouping can carry
// meaning (tuples, operators, lambdas and the like) only lose extra pairs
// and always keep their innermost one. So does a number followed by
// attribute access, and any expression under a splat argument or a unary
// operator or used as an if/while condition.
type RedundantParens struct{}

// Name returns the identifier for this rule.
func (r *RedundantParens) Name() string {
	return "redundant_parens"
}

// Fix strips the same-line innermost pairs of n.
func (r *RedundantParens) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	e, ok := n.(parser.Expr)
	if !ok || len(e.Group().Lpar) == 0 {
		return n
	}

	var preserve bool
	switch e.(type) {
	case *parser.Name, *parser.Attribute, *parser.Subscript, *parser.Call,
		*parser.Dict, *parser.DictComp, *parser.List, *parser.ListComp,
		*parser.Set, *parser.SetComp, *parser.Ellipsis,
		*parser.String, *parser.FString, *parser.Concat:
		preserve = innermostRequired(e, ctx.Parent)
	case *parser.Number:
		// "1.real" does not tokenize; "(1).real" does.
		attr, ok := ctx.Parent.(*parser.Attribute)
		preserve = ok && attr.Value == e || innermostRequired(e, ctx.Parent)
	case *parser.Tuple, *parser.UnaryOp, *parser.BinaryOp, *parser.BoolOp,
		*parser.Compare, *parser.Lambda, *parser.Yield,
		*parser.GeneratorExp, *parser.IfExp, *parser.Await,
		*parser.NamedExpr, *parser.MatchAs:
		if len(e.Group().Lpar) < 2 {
			return n
		}
		preserve = true
	default:
		return n
	}

	g := e.Group()
	if preserve && len(g.Lpar) == 1 {
		return n
	}
	k := sameLinePairs(g)
	if preserve {
		k--
	}
	if k <= 0 {
		return n
	}
	return unwrap(e, k, ctx)
}

// innermostRequired reports whether the parent of e needs e to keep its
// innermost parentheses.
func innermostRequired(e parser.Expr, parent parser.Node) bool {
	if matcher.Matches(parent, matcher.InnermostParensParent) {
		return true
	}
	switch p := parent.(type) {
	case *parser.If:
		return p.Test == e
	case *parser.While:
		return p.Test == e
	}
	return false
}

// sameLinePairs counts the consecutive innermost pairs of g whose open and
// close tokens sit on the same line.
func sameLinePairs(g *parser.Parens) int {
	n := 0
	for off := range g.Lpar {
		l := g.Lpar[len(g.Lpar)-1-off]
		r := g.Rpar[off]
		if l.Line == 0 || l.Line != r.Line {
			break
		}
		n++
	}
	return n
}

// unwrap returns a copy of e without its k innermost pairs. The trivia
// before the outermost removed "(" moves onto the expression.
func unwrap(e parser.Expr, k int, ctx *formatter.Context) parser.Expr {
	g := e.Group()
	keep := len(g.Lpar) - k
	removed := g.Lpar[keep]

	out := parser.Copy(e)
	og := out.Group()
	og.Lpar = slices.Clone(g.Lpar[:keep])
	og.Rpar = slices.Clone(g.Rpar[k:])

	first, last := innerTokens(out)
	if first == nil {
		return e
	}
	ctx.SetPrefix(first, removed.Prefix)
	if keep == 0 {
		ctx.SpaceBefore(first)
		ctx.SpaceAfter(last)
	}
	return out
}

// innerTokens returns the first and last tokens of e inside its own
// parentheses.
func innerTokens(e parser.Expr) (first, last *parser.Token) {
	var toks []*parser.Token
	parser.EachToken(e, func(t *parser.Token) bool {
		toks = append(toks, t)
		return true
	})
	g := e.Group()
	toks = toks[len(g.Lpar) : len(toks)-len(g.Rpar)]
	if len(toks) == 0 {
		return nil, nil
	}
	return toks[0], toks[len(toks)-1]
}
