package lint

import (
	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// NoneReturn reports "if x is None: return x" (E110).
type NoneReturn struct{}

// Name returns the identifier for this rule.
func (r *NoneReturn) Name() string {
	return "none_checked_return"
}

// Check walks every if and elif clause of mod. A reported clause is not
// searched further.
func (r *NoneReturn) Check(mod *parser.Module, ctx *linter.Context) error {
	parser.Walk(mod, func(n parser.Node) bool {
		stmt, ok := n.(*parser.If)
		if !ok || !matcher.Matches(stmt.Test, matcher.IsNoneCheck) {
			return true
		}
		name := stmt.Test.(*parser.Compare).Left.(*parser.Name).Tok.Value
		if matcher.Matches(stmt.Body, matcher.ReturnsName(name)) {
			ctx.Report(ctx.Line(stmt), codes.NoneCheckedReturned)
			return false
		}
		return true
	})
	return nil
}
