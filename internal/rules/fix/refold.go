package fix

import (
	"strings"

	"github.com/donaldgifford/slyp/internal/config"
	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// RefoldConcat wraps an unparenthesized multi-line string concatenation in
// parentheses and puts every fragment on its own line at a common
// indentation. It applies to keyword argument values, dict values, and
// elements of collections that hold other elements too.
//
// With the "fixed" indent mode the closing parenthesis sits refold_offset
// columns deeper than the enclosing statement; with "surrounding" it sits
// at the indentation of the line the concatenation starts on. Fragments
// go indent_width columns deeper than the closing parenthesis.
type RefoldConcat struct{}

// Name returns the identifier for this rule.
func (r *RefoldConcat) Name() string {
	return "refold_concat"
}

// Fix refolds the concatenations held by n.
func (r *RefoldConcat) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	switch x := n.(type) {
	case *parser.Arg:
		if x.Keyword == nil || !matcher.Matches(x.Value, matcher.MultilineConcat) {
			return n
		}
		out := parser.Copy(x)
		out.Value = refold(x.Value.(*parser.Concat), ctx)
		return out

	case *parser.DictElement:
		if x.Star != nil || !matcher.Matches(x.Value, matcher.MultilineConcat) {
			return n
		}
		out := parser.Copy(x)
		out.Value = refold(x.Value.(*parser.Concat), ctx)
		return out

	case *parser.Tuple:
		if elems, ok := refoldElements(x.Elements, ctx); ok {
			out := parser.Copy(x)
			out.Elements = elems
			return out
		}
	case *parser.List:
		if elems, ok := refoldElements(x.Elements, ctx); ok {
			out := parser.Copy(x)
			out.Elements = elems
			return out
		}
	case *parser.Set:
		if elems, ok := refoldElements(x.Elements, ctx); ok {
			out := parser.Copy(x)
			out.Elements = elems
			return out
		}
	}
	return n
}

func refoldElements(elems []*parser.Element, ctx *formatter.Context) ([]*parser.Element, bool) {
	if !matcher.MatchesList(elems, matcher.ConcatInElementList) {
		return nil, false
	}
	out := make([]*parser.Element, len(elems))
	for i, e := range elems {
		out[i] = e
		if matcher.Matches(e, matcher.ConcatElement) {
			ne := parser.Copy(e)
			ne.Value = refold(e.Value.(*parser.Concat), ctx)
			out[i] = ne
		}
	}
	return out, true
}

// refold returns a parenthesized copy of c with one fragment per line.
func refold(c *parser.Concat, ctx *formatter.Context) *parser.Concat {
	var frags []parser.Expr
	var cur parser.Expr = c
	for {
		cc, ok := cur.(*parser.Concat)
		if !ok {
			frags = append(frags, cur)
			break
		}
		frags = append(frags, cc.Left)
		cur = cc.Right
	}

	closing, inner := refoldIndent(ctx.Line(c), ctx)

	first := parser.FirstToken(frags[0])
	lpar := parser.NewToken(parser.TokenOp, "(", first.Prefix)
	rpar := parser.NewToken(parser.TokenOp, ")", "\n"+closing)

	ctx.SetPrefix(first, "\n"+inner)
	for _, f := range frags[1:] {
		t := parser.FirstToken(f)
		ctx.SetPrefix(t, boundary(t.Prefix, inner))
	}

	out := parser.Copy(c)
	out.Lpar = []*parser.Token{lpar}
	out.Rpar = []*parser.Token{rpar}
	return out
}

// refoldIndent returns the whitespace before the closing parenthesis and
// before each fragment.
func refoldIndent(line int, ctx *formatter.Context) (closing, inner string) {
	if ctx.Config.RefoldIndent == config.RefoldSurrounding {
		closing = ctx.LineLead(line)
	} else {
		closing = ctx.StmtLead(line) + ctx.Columns(ctx.Config.RefoldOffset)
	}
	return closing, closing + ctx.IndentUnit()
}

// boundary rebuilds the trivia between two fragments. A comment trailing
// the previous fragment stays on its line; comments on lines of their own
// are kept at the fragment indentation.
func boundary(ws, indent string) string {
	var b strings.Builder
	lines := strings.Split(ws, "\n")
	if i := strings.IndexByte(lines[0], '#'); i >= 0 {
		b.WriteString("  ")
		b.WriteString(strings.TrimRight(lines[0][i:], " \t\r"))
	}
	b.WriteString("\n")
	for _, l := range lines[1:] {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "#") {
			b.WriteString(indent)
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	b.WriteString(indent)
	return b.String()
}
