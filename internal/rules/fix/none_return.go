package fix

import (
	"strings"

	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// NoneReturn rewrites "if x is None: return x" to return None. An inline
// body is moved onto its own line; a comment trailing it stays on the if.
type NoneReturn struct{}

// Name returns the identifier for this rule.
func (r *NoneReturn) Name() string {
	return "none_checked_return"
}

// Fix rewrites the body of n. The rewrite is keyed on the line of the
// return statement as well as the if.
func (r *NoneReturn) Fix(n parser.Node, ctx *formatter.Context) parser.Node {
	stmt, ok := n.(*parser.If)
	if !ok || !matcher.Matches(stmt.Test, matcher.IsNoneCheck) {
		return n
	}
	name := stmt.Test.(*parser.Compare).Left.(*parser.Name).Tok.Value
	if !matcher.Matches(stmt.Body, matcher.ReturnsName(name)) {
		return n
	}

	switch body := stmt.Body.(type) {
	case *parser.IndentedBlock:
		ret := body.Body[0].(*parser.SimpleStatementLine).Body[0].(*parser.Return)
		if ctx.Disabled(ctx.Line(ret)) {
			return n
		}
		ctx.SetValue(ret.Value.(*parser.Name).Tok, "None")
		return n

	case *parser.SimpleSuite:
		ret := body.Body[0].(*parser.Return)
		if ctx.Disabled(ctx.Line(ret)) {
			return n
		}
		out := parser.Copy(stmt)
		out.Body = indentReturnNone(body, ret, ctx.LineLead(ctx.Line(stmt))+ctx.IndentUnit())
		return out
	}
	return n
}

// indentReturnNone builds an indented block holding "return None" in
// place of an inline suite.
func indentReturnNone(suite *parser.SimpleSuite, ret *parser.Return, indent string) *parser.IndentedBlock {
	nl := suite.Newline.Value
	if nl == "" {
		nl = "\n"
	}
	header := ""
	if i := strings.IndexByte(suite.Newline.Prefix, '#'); i >= 0 {
		header = "  " + strings.TrimRight(suite.Newline.Prefix[i:], " \t")
	}

	kw := ret.Kw.Clone()
	kw.Prefix = indent
	value := parser.NewToken(parser.TokenName, "None", " ")

	return &parser.IndentedBlock{
		Colon:   suite.Colon,
		Newline: parser.NewToken(parser.TokenNewline, nl, header),
		Body: []parser.Stmt{
			&parser.SimpleStatementLine{
				Body:    []parser.SmallStmt{&parser.Return{Kw: kw, Value: &parser.Name{Tok: value}}},
				Semis:   []*parser.Token{nil},
				Newline: parser.NewToken(parser.TokenNewline, suite.Newline.Value, ""),
			},
		},
	}
}
