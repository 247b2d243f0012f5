package parser

// FieldKind tells which member of a Field is set.
type FieldKind int

const (
	// FieldNode is a single, possibly absent, child node.
	FieldNode FieldKind = iota
	// FieldList is an ordered list of child nodes.
	FieldList
	// FieldValue is the text of a token.
	FieldValue
)

// Field is one named field of a node, as seen by pattern matching and
// structural comparison. Grouping parentheses are never reported.
type Field struct {
	Name  string
	Kind  FieldKind
	Node  Node
	List  []Node
	Value string
	// Trivia marks fields that only describe formatting, such as the
	// whitespace between two concatenated strings. Equivalence ignores them.
	Trivia bool
}

func nodeField(name string, n Node) Field {
	if IsNil(n) {
		n = nil
	}
	return Field{Name: name, Kind: FieldNode, Node: n}
}

func listField[T Node](name string, list []T) Field {
	nodes := make([]Node, 0, len(list))
	for _, n := range list {
		nodes = append(nodes, n)
	}
	return Field{Name: name, Kind: FieldList, List: nodes}
}

func valueField(name string, t *Token) Field {
	return Field{Name: name, Kind: FieldValue, Value: tokenValue(t)}
}

func tokenValue(t *Token) string {
	if t == nil {
		return ""
	}
	return t.Value
}

func tokensValue(ts []*Token) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += " "
		}
		s += t.Value
	}
	return s
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	for _, f := range Fields(n) {
		switch f.Kind {
		case FieldNode:
			if f.Node != nil {
				out = append(out, f.Node)
			}
		case FieldList:
			out = append(out, f.List...)
		}
	}
	return out
}

// Fields returns the named fields of n. Operator and keyword tokens that
// distinguish otherwise identical shapes are reported as values; pure
// punctuation is omitted.
func Fields(n Node) []Field {
	switch x := n.(type) {
	case *Module:
		return []Field{listField("body", x.Body)}

	case *Name:
		return []Field{valueField("value", x.Tok)}
	case *Number:
		return []Field{valueField("value", x.Tok)}
	case *String:
		return []Field{valueField("value", x.Tok)}
	case *FString:
		return []Field{valueField("value", x.Tok)}
	case *Ellipsis:
		return nil
	case *Concat:
		ws := ""
		if t := FirstToken(x.Right); t != nil {
			ws = t.Prefix
		}
		return []Field{
			nodeField("left", x.Left),
			nodeField("right", x.Right),
			{Name: "whitespace_between", Kind: FieldValue, Value: ws, Trivia: true},
		}

	case *Attribute:
		return []Field{nodeField("value", x.Value), nodeField("attr", x.Attr)}
	case *Subscript:
		return []Field{nodeField("value", x.Value), listField("slice", x.Elements)}
	case *SubscriptElement:
		return []Field{nodeField("slice", x.Value)}
	case *Slice:
		return []Field{nodeField("lower", x.Lower), nodeField("upper", x.Upper), nodeField("step", x.Step)}
	case *Call:
		return []Field{nodeField("func", x.Func), listField("args", x.Args)}
	case *Arg:
		return []Field{
			valueField("star", x.Star),
			nodeField("keyword", x.Keyword),
			nodeField("value", x.Value),
		}

	case *BinaryOp:
		return []Field{nodeField("left", x.Left), valueField("operator", x.Op), nodeField("right", x.Right)}
	case *BoolOp:
		return []Field{nodeField("left", x.Left), valueField("operator", x.Op), nodeField("right", x.Right)}
	case *UnaryOp:
		return []Field{valueField("operator", x.Op), nodeField("expression", x.Operand)}
	case *Compare:
		return []Field{nodeField("left", x.Left), listField("comparisons", x.Comparisons)}
	case *CompTarget:
		return []Field{
			{Name: "operator", Kind: FieldValue, Value: tokensValue(x.Op)},
			nodeField("comparator", x.Comparator),
		}
	case *IfExp:
		return []Field{nodeField("test", x.Test), nodeField("body", x.Body), nodeField("orelse", x.Orelse)}
	case *Lambda:
		return []Field{nodeField("params", x.Params), nodeField("body", x.Body)}
	case *Await:
		return []Field{nodeField("expression", x.Value)}
	case *Yield:
		return []Field{valueField("from", x.From), nodeField("value", x.Value)}
	case *NamedExpr:
		return []Field{nodeField("target", x.Target), nodeField("value", x.Value)}
	case *Starred:
		return []Field{nodeField("value", x.Value)}
	case *MatchAs:
		return []Field{nodeField("pattern", x.Pattern), nodeField("name", x.Name)}

	case *Tuple:
		return []Field{listField("elements", x.Elements)}
	case *List:
		return []Field{listField("elements", x.Elements)}
	case *Set:
		return []Field{listField("elements", x.Elements)}
	case *Element:
		return []Field{nodeField("value", x.Value)}
	case *Dict:
		return []Field{listField("elements", x.Elements)}
	case *DictElement:
		return []Field{valueField("star", x.Star), nodeField("key", x.Key), nodeField("value", x.Value)}
	case *ListComp:
		return []Field{nodeField("elt", x.Elt), nodeField("for_in", x.For)}
	case *SetComp:
		return []Field{nodeField("elt", x.Elt), nodeField("for_in", x.For)}
	case *DictComp:
		return []Field{nodeField("key", x.Key), nodeField("value", x.Value), nodeField("for_in", x.For)}
	case *GeneratorExp:
		return []Field{nodeField("elt", x.Elt), nodeField("for_in", x.For)}
	case *CompFor:
		return []Field{
			valueField("async", x.Async),
			nodeField("target", x.Target),
			nodeField("iter", x.Iter),
			listField("ifs", x.Ifs),
			nodeField("inner_for_in", x.Inner),
		}
	case *CompIf:
		return []Field{nodeField("test", x.Test)}

	case *Params:
		return []Field{listField("params", x.Params)}
	case *Param:
		return []Field{
			valueField("star", x.Star),
			nodeField("name", x.Name),
			nodeField("annotation", x.Annotation),
			nodeField("default", x.Default),
		}
	case *TypeParams:
		return []Field{listField("params", x.Params)}
	case *TypeParam:
		return []Field{
			valueField("star", x.Star),
			nodeField("name", x.Name),
			nodeField("bound", x.Bound),
			nodeField("default", x.Default),
		}

	case *SimpleStatementLine:
		return []Field{listField("body", x.Body)}
	case *ExprStmt:
		return []Field{nodeField("value", x.Value)}
	case *Assign:
		return []Field{listField("targets", x.Targets), nodeField("value", x.Value)}
	case *AssignTarget:
		return []Field{nodeField("target", x.Target)}
	case *AugAssign:
		return []Field{nodeField("target", x.Target), valueField("operator", x.Op), nodeField("value", x.Value)}
	case *AnnAssign:
		return []Field{nodeField("target", x.Target), nodeField("annotation", x.Annotation), nodeField("value", x.Value)}
	case *Return:
		return []Field{nodeField("value", x.Value)}
	case *Pass, *Break, *Continue:
		return nil
	case *Del:
		return []Field{nodeField("target", x.Target)}
	case *Global:
		return []Field{valueField("keyword", x.Kw), listField("names", x.Names)}
	case *NameItem:
		return []Field{nodeField("name", x.Name)}
	case *Import:
		return []Field{listField("names", x.Names)}
	case *ImportAlias:
		return []Field{nodeField("name", x.Name), nodeField("asname", x.AsName)}
	case *ImportFrom:
		dots := ""
		for _, d := range x.Dots {
			dots += d.Value
		}
		return []Field{
			{Name: "relative", Kind: FieldValue, Value: dots},
			nodeField("module", x.Module),
			listField("names", x.Names),
			valueField("star", x.Star),
		}
	case *Raise:
		return []Field{nodeField("exc", x.Exc), nodeField("cause", x.Cause)}
	case *Assert:
		return []Field{nodeField("test", x.Test), nodeField("msg", x.Msg)}
	case *TypeAlias:
		return []Field{nodeField("name", x.Name), nodeField("type_parameters", x.TypeParams), nodeField("value", x.Value)}

	case *IndentedBlock:
		return []Field{listField("body", x.Body)}
	case *SimpleSuite:
		return []Field{listField("body", x.Body)}
	case *If:
		return []Field{valueField("keyword", x.Kw), nodeField("test", x.Test), nodeField("body", x.Body), nodeField("orelse", x.Orelse)}
	case *Else:
		return []Field{nodeField("body", x.Body)}
	case *While:
		return []Field{nodeField("test", x.Test), nodeField("body", x.Body), nodeField("orelse", x.Orelse)}
	case *For:
		return []Field{
			valueField("async", x.Async),
			nodeField("target", x.Target),
			nodeField("iter", x.Iter),
			nodeField("body", x.Body),
			nodeField("orelse", x.Orelse),
		}
	case *Try:
		return []Field{
			nodeField("body", x.Body),
			listField("handlers", x.Handlers),
			nodeField("orelse", x.Orelse),
			nodeField("finalbody", x.Finally),
		}
	case *ExceptHandler:
		return []Field{valueField("star", x.Star), nodeField("type", x.Type), nodeField("name", x.Name), nodeField("body", x.Body)}
	case *Finally:
		return []Field{nodeField("body", x.Body)}
	case *With:
		return []Field{valueField("async", x.Async), listField("items", x.Items), nodeField("body", x.Body)}
	case *WithItem:
		return []Field{nodeField("item", x.Item), nodeField("asname", x.Target)}
	case *FunctionDef:
		return []Field{
			listField("decorators", x.Decorators),
			valueField("async", x.Async),
			nodeField("name", x.Name),
			nodeField("type_parameters", x.TypeParams),
			nodeField("params", x.Params),
			nodeField("returns", x.Returns),
			nodeField("body", x.Body),
		}
	case *ClassDef:
		return []Field{
			listField("decorators", x.Decorators),
			nodeField("name", x.Name),
			nodeField("type_parameters", x.TypeParams),
			listField("bases", x.Args),
			nodeField("body", x.Body),
		}
	case *Decorator:
		return []Field{nodeField("decorator", x.Value)}
	case *Match:
		return []Field{nodeField("subject", x.Subject), listField("cases", x.Cases)}
	case *MatchCase:
		return []Field{nodeField("pattern", x.Pattern), nodeField("guard", x.Guard), nodeField("body", x.Body)}
	}
	return nil
}
