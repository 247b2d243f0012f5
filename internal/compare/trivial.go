package compare

import "github.com/donaldgifford/slyp/internal/parser"

// IsTrivialList reports whether a list is empty or holds a single trivial
// node.
func IsTrivialList(list []parser.Node) bool {
	switch len(list) {
	case 0:
		return true
	case 1:
		return IsTrivial(list[0])
	}
	return false
}

// IsTrivial reports whether n is too small for a duplicate of it to be
// interesting on its own: pass, break, continue, a constant or name, a
// return or yield of a trivial value, a name assigned a trivial value, an
// attribute of a trivial value, a call of trivial non-call positional
// arguments, or a bare raise.
func IsTrivial(n parser.Node) bool {
	switch x := n.(type) {
	case nil:
		return true
	case *parser.IndentedBlock, *parser.SimpleSuite, *parser.Else, *parser.Finally:
		return IsTrivialList(Statements(x))
	case *parser.SimpleStatementLine:
		return len(x.Body) == 1 && IsTrivial(x.Body[0])

	case *parser.Pass, *parser.Break, *parser.Continue:
		return true
	case *parser.ExprStmt:
		return IsTrivial(x.Value)
	case *parser.Return:
		return parser.IsNil(x.Value) || IsTrivial(x.Value)
	case *parser.Raise:
		return parser.IsNil(x.Exc)
	case *parser.Assign:
		if len(x.Targets) != 1 {
			return false
		}
		_, ok := x.Targets[0].Target.(*parser.Name)
		return ok && IsTrivial(x.Value)

	case *parser.Name, *parser.Number, *parser.String, *parser.FString,
		*parser.Concat, *parser.Ellipsis:
		return true
	case *parser.Yield:
		return parser.IsNil(x.Value) || IsTrivial(x.Value)
	case *parser.Attribute:
		return IsTrivial(x.Value)
	case *parser.Call:
		if !IsTrivial(x.Func) {
			return false
		}
		for _, arg := range x.Args {
			if arg.Keyword != nil || arg.Star != nil {
				return false
			}
			if _, isCall := arg.Value.(*parser.Call); isCall || !IsTrivial(arg.Value) {
				return false
			}
		}
		return true
	}
	return false
}
