package fix

import (
	"slices"
	"strings"

	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// BuiltinCalls replaces calls to the collection builtins with literal
// syntax where the result is the same:
//
//	dict()              -> {}
//	list()              -> []
//	tuple()             -> ()
//	dict(a=1, **b)      -> {"a": 1, **b}
//	list(x for x in y)  -> [x for x in y]
//	set(x for x in y)   -> {x for x in y}
//	list(list(x))       -> list(x)
//	list(sorted(x))     -> sorted(x)
//
// set() and frozenset() have no empty literal and are left alone.
type BuiltinCalls struct{}

// Name returns the identifier for this rule.
func (r *BuiltinCalls) Name() string {
	return "builtin_calls"
}

// absorbs[outer] lists the calls whose argument outer can take directly,
// since outer copies its input regardless of order.
var absorbs = map[string][]string{
	"list":   {"list", "tuple"},
	"tuple":  {"list", "tuple"},
	"set":    {"list", "tuple", "set", "sorted", "reversed"},
	"sorted": {"list", "tuple"},
}

// supersedes[outer] lists the calls that already return what outer would
// build from them.
var supersedes = map[string][]string{
	"list": {"sorted"},
}

// Fix rewrites n when it is a call to a collection builtin.
func (r *BuiltinCalls) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	call, ok := n.(*parser.Call)
	if !ok {
		return n
	}
	name := builtinName(call)
	if name == "" {
		return n
	}

	if len(call.Args) == 0 {
		if lit := emptyLiteral(call, name); lit != nil {
			return lit
		}
		return n
	}
	if name == "dict" {
		if d := dictLiteral(call, ctx); d != nil {
			return d
		}
		return n
	}
	if comp := comprehension(call, name); comp != nil {
		return comp
	}

	var out parser.Expr = call
	for {
		next := unwrapCall(out, ctx)
		if next == nil {
			break
		}
		out = next
	}
	return out
}

// builtinName returns the name a call is made through, if it is a plain
// unparenthesized name.
func builtinName(c *parser.Call) string {
	fn, ok := c.Func.(*parser.Name)
	if !ok || len(fn.Lpar) > 0 {
		return ""
	}
	return fn.Tok.Value
}

// opening and closing build a bracket token taking over the trivia of the
// call's name and closing parenthesis.
func opening(c *parser.Call, value string) *parser.Token {
	return parser.NewToken(parser.TokenOp, value, c.Func.(*parser.Name).Tok.Prefix)
}

func closing(c *parser.Call, value string) *parser.Token {
	return parser.NewToken(parser.TokenOp, value, c.Rpar.Prefix)
}

func cloneParens(c *parser.Call) parser.Parens {
	return parser.Parens{Lpar: slices.Clone(c.Parens.Lpar), Rpar: slices.Clone(c.Parens.Rpar)}
}

func emptyLiteral(c *parser.Call, name string) parser.Expr {
	switch name {
	case "dict":
		return &parser.Dict{Parens: cloneParens(c), Lbrace: opening(c, "{"), Rbrace: closing(c, "}")}
	case "list":
		return &parser.List{Parens: cloneParens(c), Lbracket: opening(c, "["), Rbracket: closing(c, "]")}
	case "tuple":
		p := cloneParens(c)
		p.Lpar = append(p.Lpar, opening(c, "("))
		p.Rpar = append([]*parser.Token{closing(c, ")")}, p.Rpar...)
		return &parser.Tuple{Parens: p}
	}
	return nil
}

// dictLiteral converts dict(k=v, **m) to a dict display. Any positional
// argument prevents the rewrite.
func dictLiteral(c *parser.Call, ctx *formatter.Context) parser.Expr {
	for _, a := range c.Args {
		if a.Keyword == nil && !(a.Star != nil && a.Star.Value == "**") {
			return nil
		}
	}

	d := &parser.Dict{Parens: cloneParens(c), Lbrace: opening(c, "{"), Rbrace: closing(c, "}")}
	for _, a := range c.Args {
		if a.Keyword == nil {
			d.Elements = append(d.Elements, &parser.DictElement{Star: a.Star, Value: a.Value, Comma: a.Comma})
			continue
		}
		kw := a.Keyword.Tok
		key := parser.NewToken(parser.TokenString, `"`+kw.Value+`"`, kw.Prefix)
		colon := parser.NewToken(parser.TokenOp, ":", a.Equal.Prefix)
		if t := parser.FirstToken(a.Value); t != nil && t.Prefix == "" {
			ctx.SetPrefix(t, " ")
		}
		d.Elements = append(d.Elements, &parser.DictElement{
			Key:   &parser.String{Tok: key},
			Colon: colon,
			Value: a.Value,
			Comma: a.Comma,
		})
	}
	return d
}

// comprehension converts list(<genexp>) and set(<genexp>) to the matching
// comprehension.
func comprehension(c *parser.Call, name string) parser.Expr {
	if name != "list" && name != "set" || len(c.Args) != 1 {
		return nil
	}
	a := c.Args[0]
	g, ok := a.Value.(*parser.GeneratorExp)
	if !ok || a.Star != nil || a.Keyword != nil || a.Comma != nil || len(g.Lpar) > 0 {
		return nil
	}
	if name == "list" {
		return &parser.ListComp{
			Parens:   cloneParens(c),
			Lbracket: opening(c, "["),
			Elt:      g.Elt,
			For:      g.For,
			Rbracket: closing(c, "]"),
		}
	}
	return &parser.SetComp{
		Parens: cloneParens(c),
		Lbrace: opening(c, "{"),
		Elt:    g.Elt,
		For:    g.For,
		Rbrace: closing(c, "}"),
	}
}

// unwrapCall removes one redundant layer from outer(inner(x)), or returns
// nil when there is none.
func unwrapCall(e parser.Expr, ctx *formatter.Context) parser.Expr {
	outer, ok := e.(*parser.Call)
	if !ok || len(outer.Args) == 0 {
		return nil
	}
	outerName := builtinName(outer)
	first := outer.Args[0]
	if first.Star != nil || first.Keyword != nil {
		return nil
	}
	inner, ok := first.Value.(*parser.Call)
	if !ok || len(inner.Parens.Lpar) > 0 {
		return nil
	}
	innerName := builtinName(inner)
	if innerName == "" {
		return nil
	}
	innerTok := inner.Func.(*parser.Name).Tok

	// list(sorted(x)) -> sorted(x)
	if slices.Contains(supersedes[outerName], innerName) && len(outer.Args) == 1 {
		if hasComment(outer.Lpar, outer.Rpar, innerTok) || first.Comma != nil {
			return nil
		}
		ctx.SetPrefix(innerTok, outer.Func.(*parser.Name).Tok.Prefix)
		out := parser.Copy(inner)
		out.Parens = cloneParens(outer)
		return out
	}

	// list(list(x)) -> list(x)
	if !slices.Contains(absorbs[outerName], innerName) {
		return nil
	}
	if len(outer.Args) > 1 && outerName != "sorted" {
		return nil
	}
	for _, a := range outer.Args[1:] {
		if a.Keyword == nil {
			return nil
		}
	}
	if len(inner.Args) != 1 {
		return nil
	}
	arg := inner.Args[0]
	if arg.Star != nil || arg.Keyword != nil || arg.Comma != nil {
		return nil
	}
	if _, ok := arg.Value.(*parser.GeneratorExp); ok && len(arg.Value.Group().Lpar) == 0 {
		return nil
	}
	t := parser.FirstToken(arg.Value)
	if t == nil || hasComment(inner.Lpar, inner.Rpar, t) {
		return nil
	}
	ctx.SetPrefix(t, innerTok.Prefix)

	na := parser.Copy(first)
	na.Value = arg.Value
	out := parser.Copy(outer)
	out.Args = slices.Clone(outer.Args)
	out.Args[0] = na
	return out
}

func hasComment(toks ...*parser.Token) bool {
	for _, t := range toks {
		if strings.Contains(t.Prefix, "#") {
			return true
		}
	}
	return false
}
