package lint

import (
	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/matcher"
	"github.com/donaldgifford/slyp/internal/parser"
)

// ConcatPlacement reports implicit concatenations that cross a line break
// without parentheses where the layout hides what the value is: keyword
// arguments (W104), dict values (W102), and collections holding other
// elements (W103).
type ConcatPlacement struct{}

// Name returns the identifier for this rule.
func (r *ConcatPlacement) Name() string {
	return "concat_placement"
}

// Check walks every expression of mod.
func (r *ConcatPlacement) Check(mod *parser.Module, ctx *linter.Context) error {
	parser.Walk(mod, func(n parser.Node) bool {
		switch x := n.(type) {
		case *parser.Arg:
			if x.Keyword != nil && matcher.Matches(x.Value, matcher.MultilineConcat) {
				reportConcat(ctx, x.Value, codes.ConcatInKeywordArg)
			}
		case *parser.DictElement:
			if x.Star == nil && matcher.Matches(x.Value, matcher.MultilineConcat) {
				reportConcat(ctx, x.Value, codes.ConcatInDictValue)
			}
		case *parser.Tuple:
			checkElements(ctx, x.Elements)
		case *parser.List:
			checkElements(ctx, x.Elements)
		case *parser.Set:
			checkElements(ctx, x.Elements)
		}
		return true
	})
	return nil
}

func checkElements(ctx *linter.Context, elems []*parser.Element) {
	if !matcher.MatchesList(elems, matcher.ConcatInElementList) {
		return
	}
	for _, e := range elems {
		if matcher.Matches(e, matcher.ConcatElement) {
			reportConcat(ctx, e.Value, codes.ConcatInCollection)
		}
	}
}

// reportConcat reports code at the line of the first fragment.
func reportConcat(ctx *linter.Context, e parser.Expr, code string) {
	ctx.Report(ctx.Line(e.(*parser.Concat).Left), code)
}
