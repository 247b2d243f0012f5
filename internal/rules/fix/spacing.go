package fix

import (
	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// MissingSpace inserts the space a keyword needs before its operand when
// the source has none, as in "if(x):" or "yield(x)". It also puts a space
// after the colon of a dict entry.
type MissingSpace struct{}

// Name returns the identifier for this rule.
func (r *MissingSpace) Name() string {
	return "missing_space"
}

// Fix pads the token following the keyword of n.
func (r *MissingSpace) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	var t *parser.Token
	switch x := n.(type) {
	case *parser.Yield:
		if x.Value == nil {
			return n
		}
		t = x.From
		if t == nil {
			t = parser.FirstToken(x.Value)
		}
	case *parser.Match:
		t = parser.FirstToken(x.Subject)
	case *parser.If:
		t = parser.FirstToken(x.Test)
	case *parser.With:
		t = x.Lpar
		if t == nil && len(x.Items) > 0 {
			t = parser.FirstToken(x.Items[0])
		}
	case *parser.ImportFrom:
		switch {
		case x.Lpar != nil:
			t = x.Lpar
		case x.Star != nil:
			t = x.Star
		case len(x.Names) > 0:
			t = parser.FirstToken(x.Names[0])
		}
	case *parser.DictElement:
		if x.Star != nil {
			return n
		}
		t = parser.FirstToken(x.Value)
	}
	if t != nil && t.Prefix == "" {
		ctx.SetPrefix(t, " ")
	}
	return n
}

// WrapperParens drops a pair of parentheses around the items of a with
// statement or the names of a from-import when both sit on one line, as
// in "with (open(p)):" or "from os import (path)". A trailing comma keeps
// them.
type WrapperParens struct{}

// Name returns the identifier for this rule.
func (r *WrapperParens) Name() string {
	return "wrapper_parens"
}

// Fix returns n without its wrapper parentheses.
func (r *WrapperParens) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	switch x := n.(type) {
	case *parser.With:
		if !sameLine(x.Lpar, x.Rpar) || len(x.Items) == 0 || x.Items[len(x.Items)-1].Comma != nil {
			return n
		}
		moveParenPrefix(x.Lpar, parser.FirstToken(x.Items[0]), ctx)
		out := parser.Copy(x)
		out.Lpar, out.Rpar = nil, nil
		return out

	case *parser.ImportFrom:
		if !sameLine(x.Lpar, x.Rpar) || len(x.Names) == 0 || x.Names[len(x.Names)-1].Comma != nil {
			return n
		}
		moveParenPrefix(x.Lpar, parser.FirstToken(x.Names[0]), ctx)
		out := parser.Copy(x)
		out.Lpar, out.Rpar = nil, nil
		return out
	}
	return n
}

func sameLine(l, r *parser.Token) bool {
	return l != nil && r != nil && l.Line != 0 && l.Line == r.Line
}

func moveParenPrefix(lpar, first *parser.Token, ctx *formatter.Context) {
	ctx.SetPrefix(first, lpar.Prefix)
	ctx.SpaceBefore(first)
}
