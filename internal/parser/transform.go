package parser

// TransformFunc rewrites a node whose children have already been
// transformed. It returns the node to put in n's place, which may be n.
type TransformFunc func(n, parent Node) Node

// Transform rewrites the tree under root bottom-up and returns the new
// root. Children are replaced in place.
func Transform(root Node, fn TransformFunc) Node {
	t := &transformer{fn: fn}
	return t.node(root, nil)
}

type transformer struct {
	fn TransformFunc
}

// xf transforms a child of a known static type. A rewrite returning a node
// of the wrong type panics, which the caller recovers per file.
func xf[T Node](t *transformer, n T, parent Node) T {
	if IsNil(n) {
		return n
	}
	r := t.node(n, parent)
	if r == nil {
		var zero T
		return zero
	}
	return r.(T)
}

func xfList[T Node](t *transformer, list []T, parent Node) {
	for i, n := range list {
		list[i] = xf(t, n, parent)
	}
}

func (t *transformer) node(n, parent Node) Node {
	if IsNil(n) {
		return n
	}

	switch x := n.(type) {
	case *Module:
		xfList(t, x.Body, x)

	case *Name, *Number, *String, *FString, *Ellipsis:
	case *Concat:
		x.Left = xf(t, x.Left, x)
		x.Right = xf(t, x.Right, x)

	case *Attribute:
		x.Value = xf(t, x.Value, x)
		x.Attr = xf(t, x.Attr, x)
	case *Subscript:
		x.Value = xf(t, x.Value, x)
		xfList(t, x.Elements, x)
	case *SubscriptElement:
		x.Value = xf(t, x.Value, x)
	case *Slice:
		x.Lower = xf(t, x.Lower, x)
		x.Upper = xf(t, x.Upper, x)
		x.Step = xf(t, x.Step, x)
	case *Call:
		x.Func = xf(t, x.Func, x)
		xfList(t, x.Args, x)
	case *Arg:
		x.Keyword = xf(t, x.Keyword, x)
		x.Value = xf(t, x.Value, x)

	case *BinaryOp:
		x.Left = xf(t, x.Left, x)
		x.Right = xf(t, x.Right, x)
	case *BoolOp:
		x.Left = xf(t, x.Left, x)
		x.Right = xf(t, x.Right, x)
	case *UnaryOp:
		x.Operand = xf(t, x.Operand, x)
	case *Compare:
		x.Left = xf(t, x.Left, x)
		xfList(t, x.Comparisons, x)
	case *CompTarget:
		x.Comparator = xf(t, x.Comparator, x)
	case *IfExp:
		x.Body = xf(t, x.Body, x)
		x.Test = xf(t, x.Test, x)
		x.Orelse = xf(t, x.Orelse, x)
	case *Lambda:
		x.Params = xf(t, x.Params, x)
		x.Body = xf(t, x.Body, x)
	case *Await:
		x.Value = xf(t, x.Value, x)
	case *Yield:
		x.Value = xf(t, x.Value, x)
	case *NamedExpr:
		x.Target = xf(t, x.Target, x)
		x.Value = xf(t, x.Value, x)
	case *Starred:
		x.Value = xf(t, x.Value, x)
	case *MatchAs:
		x.Pattern = xf(t, x.Pattern, x)
		x.Name = xf(t, x.Name, x)

	case *Tuple:
		xfList(t, x.Elements, x)
	case *List:
		xfList(t, x.Elements, x)
	case *Set:
		xfList(t, x.Elements, x)
	case *Element:
		x.Value = xf(t, x.Value, x)
	case *Dict:
		xfList(t, x.Elements, x)
	case *DictElement:
		x.Key = xf(t, x.Key, x)
		x.Value = xf(t, x.Value, x)
	case *ListComp:
		x.Elt = xf(t, x.Elt, x)
		x.For = xf(t, x.For, x)
	case *SetComp:
		x.Elt = xf(t, x.Elt, x)
		x.For = xf(t, x.For, x)
	case *DictComp:
		x.Key = xf(t, x.Key, x)
		x.Value = xf(t, x.Value, x)
		x.For = xf(t, x.For, x)
	case *GeneratorExp:
		x.Elt = xf(t, x.Elt, x)
		x.For = xf(t, x.For, x)
	case *CompFor:
		x.Target = xf(t, x.Target, x)
		x.Iter = xf(t, x.Iter, x)
		xfList(t, x.Ifs, x)
		x.Inner = xf(t, x.Inner, x)
	case *CompIf:
		x.Test = xf(t, x.Test, x)

	case *Params:
		xfList(t, x.Params, x)
	case *Param:
		x.Name = xf(t, x.Name, x)
		x.Annotation = xf(t, x.Annotation, x)
		x.Default = xf(t, x.Default, x)
	case *TypeParams:
		xfList(t, x.Params, x)
	case *TypeParam:
		x.Name = xf(t, x.Name, x)
		x.Bound = xf(t, x.Bound, x)
		x.Default = xf(t, x.Default, x)

	case *SimpleStatementLine:
		xfList(t, x.Body, x)
	case *ExprStmt:
		x.Value = xf(t, x.Value, x)
	case *Assign:
		xfList(t, x.Targets, x)
		x.Value = xf(t, x.Value, x)
	case *AssignTarget:
		x.Target = xf(t, x.Target, x)
	case *AugAssign:
		x.Target = xf(t, x.Target, x)
		x.Value = xf(t, x.Value, x)
	case *AnnAssign:
		x.Target = xf(t, x.Target, x)
		x.Annotation = xf(t, x.Annotation, x)
		x.Value = xf(t, x.Value, x)
	case *Return:
		x.Value = xf(t, x.Value, x)
	case *Pass, *Break, *Continue:
	case *Del:
		x.Target = xf(t, x.Target, x)
	case *Global:
		xfList(t, x.Names, x)
	case *NameItem:
		x.Name = xf(t, x.Name, x)
	case *Import:
		xfList(t, x.Names, x)
	case *ImportAlias:
		x.Name = xf(t, x.Name, x)
		x.AsName = xf(t, x.AsName, x)
	case *ImportFrom:
		x.Module = xf(t, x.Module, x)
		xfList(t, x.Names, x)
	case *Raise:
		x.Exc = xf(t, x.Exc, x)
		x.Cause = xf(t, x.Cause, x)
	case *Assert:
		x.Test = xf(t, x.Test, x)
		x.Msg = xf(t, x.Msg, x)
	case *TypeAlias:
		x.Name = xf(t, x.Name, x)
		x.TypeParams = xf(t, x.TypeParams, x)
		x.Value = xf(t, x.Value, x)

	case *IndentedBlock:
		xfList(t, x.Body, x)
	case *SimpleSuite:
		xfList(t, x.Body, x)
	case *If:
		x.Test = xf(t, x.Test, x)
		x.Body = xf(t, x.Body, x)
		x.Orelse = xf(t, x.Orelse, x)
	case *Else:
		x.Body = xf(t, x.Body, x)
	case *While:
		x.Test = xf(t, x.Test, x)
		x.Body = xf(t, x.Body, x)
		x.Orelse = xf(t, x.Orelse, x)
	case *For:
		x.Target = xf(t, x.Target, x)
		x.Iter = xf(t, x.Iter, x)
		x.Body = xf(t, x.Body, x)
		x.Orelse = xf(t, x.Orelse, x)
	case *Try:
		x.Body = xf(t, x.Body, x)
		xfList(t, x.Handlers, x)
		x.Orelse = xf(t, x.Orelse, x)
		x.Finally = xf(t, x.Finally, x)
	case *ExceptHandler:
		x.Type = xf(t, x.Type, x)
		x.Name = xf(t, x.Name, x)
		x.Body = xf(t, x.Body, x)
	case *Finally:
		x.Body = xf(t, x.Body, x)
	case *With:
		xfList(t, x.Items, x)
		x.Body = xf(t, x.Body, x)
	case *WithItem:
		x.Item = xf(t, x.Item, x)
		x.Target = xf(t, x.Target, x)
	case *FunctionDef:
		xfList(t, x.Decorators, x)
		x.Name = xf(t, x.Name, x)
		x.TypeParams = xf(t, x.TypeParams, x)
		x.Params = xf(t, x.Params, x)
		x.Returns = xf(t, x.Returns, x)
		x.Body = xf(t, x.Body, x)
	case *ClassDef:
		xfList(t, x.Decorators, x)
		x.Name = xf(t, x.Name, x)
		x.TypeParams = xf(t, x.TypeParams, x)
		xfList(t, x.Args, x)
		x.Body = xf(t, x.Body, x)
	case *Decorator:
		x.Value = xf(t, x.Value, x)
	case *Match:
		x.Subject = xf(t, x.Subject, x)
		xfList(t, x.Cases, x)
	case *MatchCase:
		x.Pattern = xf(t, x.Pattern, x)
		x.Guard = xf(t, x.Guard, x)
		x.Body = xf(t, x.Body, x)
	}

	return t.fn(n, parent)
}
