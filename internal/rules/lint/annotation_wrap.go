package lint

import (
	"strings"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// AnnotationWrap reports parameter annotations written as a bare union
// that breaks across lines around its first "|" (W120).
type AnnotationWrap struct{}

// Name returns the identifier for this rule.
func (r *AnnotationWrap) Name() string {
	return "annotation_wrap"
}

// Check inspects every parameter annotation of mod.
func (r *AnnotationWrap) Check(mod *parser.Module, ctx *linter.Context) error {
	parser.Walk(mod, func(n parser.Node) bool {
		p, ok := n.(*parser.Param)
		if !ok {
			return true
		}
		union, ok := p.Annotation.(*parser.BinaryOp)
		if !ok || len(union.Lpar) > 0 {
			return true
		}

		leftmost := union
		for {
			next, ok := leftmost.Left.(*parser.BinaryOp)
			if !ok {
				break
			}
			leftmost = next
		}
		if !leftmost.Op.Is("|") {
			return true
		}
		before := leftmost.Op.Prefix
		after := ""
		if t := parser.FirstToken(leftmost.Right); t != nil {
			after = t.Prefix
		}
		if strings.Contains(before, "\n") || strings.Contains(after, "\n") {
			ctx.Report(ctx.Line(leftmost), codes.UnionAnnotationWrap)
		}
		return true
	})
	return nil
}
