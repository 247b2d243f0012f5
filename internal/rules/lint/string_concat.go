// Package lint holds the diagnostic checks run by the linter.
package lint

import (
	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// sameLineConcat is an implicit concatenation written on one line.
var sameLineConcat = matcher.Shape("Concat",
	matcher.Field("whitespace_between", matcher.SameLineWhitespace),
)

// StringConcat reports string literals that are joined on a single line,
// either implicitly (E100) or with "+" (E101).
type StringConcat struct{}

// Name returns the identifier for this rule.
func (r *StringConcat) Name() string {
	return "string_concat"
}

// Check walks every expression of mod.
func (r *StringConcat) Check(mod *parser.Module, ctx *linter.Context) error {
	parser.Walk(mod, func(n parser.Node) bool {
		switch x := n.(type) {
		case *parser.Concat:
			if matcher.Matches(x, sameLineConcat) {
				ctx.Report(ctx.Line(x.Left), codes.StringConcat)
			}
		case *parser.BinaryOp:
			if x.Op.Is("+") && isStringLiteral(x.Left) && isStringLiteral(x.Right) {
				ctx.Report(x.Op.Line, codes.StringConcatPlus)
			}
		}
		return true
	})
	return nil
}

func isStringLiteral(e parser.Expr) bool {
	switch e.(type) {
	case *parser.String, *parser.FString, *parser.Concat:
		return true
	}
	return false
}
