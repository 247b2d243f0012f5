package fix

import (
	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// InitAnnotation adds "-> None" to an __init__ method without a return
// annotation.
type InitAnnotation struct{}

// Name returns the identifier for this rule.
func (r *InitAnnotation) Name() string {
	return "init_annotation"
}

// Fix annotates n when it is an unannotated __init__.
func (r *InitAnnotation) Fix(n parser.Node, _ *formatter.Context) parser.Node {
	fn, ok := n.(*parser.FunctionDef)
	if !ok || fn.Name.Tok.Value != "__init__" || fn.Returns != nil {
		return n
	}
	out := parser.Copy(fn)
	out.Arrow = parser.NewToken(parser.TokenOp, "->", " ")
	out.Returns = &parser.Name{Tok: parser.NewToken(parser.TokenName, "None", " ")}
	return out
}
