package parser

// tokenVisitor receives nodes and tokens in source order.
type tokenVisitor interface {
	enter(n Node)
	token(t *Token) bool
	leave(n Node)
}

type tokenWalker struct {
	v       tokenVisitor
	stopped bool
}

// EachToken calls fn for every token under n in source order, stopping
// early when fn returns false.
func EachToken(n Node, fn func(t *Token) bool) {
	w := &tokenWalker{v: funcVisitor(fn)}
	w.walk(n)
}

// FirstToken returns the first token of n, or nil if it has none.
func FirstToken(n Node) *Token {
	var first *Token
	EachToken(n, func(t *Token) bool {
		first = t
		return false
	})
	return first
}

// LastToken returns the last token of n, or nil if it has none.
func LastToken(n Node) *Token {
	var last *Token
	EachToken(n, func(t *Token) bool {
		last = t
		return true
	})
	return last
}

type funcVisitor func(t *Token) bool

func (funcVisitor) enter(Node)            {}
func (f funcVisitor) token(t *Token) bool { return f(t) }
func (funcVisitor) leave(Node)            {}

func (w *tokenWalker) tok(t *Token) {
	if t == nil || w.stopped {
		return
	}
	if !w.v.token(t) {
		w.stopped = true
	}
}

func (w *tokenWalker) toks(ts []*Token) {
	for _, t := range ts {
		w.tok(t)
	}
}

func walkList[T Node](w *tokenWalker, list []T) {
	for _, n := range list {
		w.walk(n)
	}
}

// statements interleaves small statements with their semicolons.
func (w *tokenWalker) statements(body []SmallStmt, semis []*Token) {
	for i, s := range body {
		w.walk(s)
		if i < len(semis) {
			w.tok(semis[i])
		}
	}
}

func (w *tokenWalker) walk(n Node) {
	if IsNil(n) || w.stopped {
		return
	}
	w.v.enter(n)
	var parens *Parens
	if e, ok := n.(Expr); ok {
		parens = e.Group()
		w.toks(parens.Lpar)
	}

	switch x := n.(type) {
	case *Module:
		walkList(w, x.Body)
		w.tok(x.End)

	case *Name:
		w.tok(x.Tok)
	case *Number:
		w.tok(x.Tok)
	case *String:
		w.tok(x.Tok)
	case *FString:
		w.tok(x.Tok)
	case *Ellipsis:
		w.tok(x.Tok)
	case *Concat:
		w.walk(x.Left)
		w.walk(x.Right)

	case *Attribute:
		w.walk(x.Value)
		w.tok(x.Dot)
		w.walk(x.Attr)
	case *Subscript:
		w.walk(x.Value)
		w.tok(x.Lbracket)
		walkList(w, x.Elements)
		w.tok(x.Rbracket)
	case *SubscriptElement:
		w.walk(x.Value)
		w.tok(x.Comma)
	case *Slice:
		w.walk(x.Lower)
		w.tok(x.First)
		w.walk(x.Upper)
		w.tok(x.Second)
		w.walk(x.Step)
	case *Call:
		w.walk(x.Func)
		w.tok(x.Lpar)
		walkList(w, x.Args)
		w.tok(x.Rpar)
	case *Arg:
		w.tok(x.Star)
		w.walk(x.Keyword)
		w.tok(x.Equal)
		w.walk(x.Value)
		w.tok(x.Comma)

	case *BinaryOp:
		w.walk(x.Left)
		w.tok(x.Op)
		w.walk(x.Right)
	case *BoolOp:
		w.walk(x.Left)
		w.tok(x.Op)
		w.walk(x.Right)
	case *UnaryOp:
		w.tok(x.Op)
		w.walk(x.Operand)
	case *Compare:
		w.walk(x.Left)
		walkList(w, x.Comparisons)
	case *CompTarget:
		w.toks(x.Op)
		w.walk(x.Comparator)
	case *IfExp:
		w.walk(x.Body)
		w.tok(x.If)
		w.walk(x.Test)
		w.tok(x.Else)
		w.walk(x.Orelse)
	case *Lambda:
		w.tok(x.Kw)
		w.walk(x.Params)
		w.tok(x.Colon)
		w.walk(x.Body)
	case *Await:
		w.tok(x.Kw)
		w.walk(x.Value)
	case *Yield:
		w.tok(x.Kw)
		w.tok(x.From)
		w.walk(x.Value)
	case *NamedExpr:
		w.walk(x.Target)
		w.tok(x.Walrus)
		w.walk(x.Value)
	case *Starred:
		w.tok(x.Star)
		w.walk(x.Value)
	case *MatchAs:
		w.walk(x.Pattern)
		w.tok(x.As)
		w.walk(x.Name)

	case *Tuple:
		walkList(w, x.Elements)
	case *List:
		w.tok(x.Lbracket)
		walkList(w, x.Elements)
		w.tok(x.Rbracket)
	case *Set:
		w.tok(x.Lbrace)
		walkList(w, x.Elements)
		w.tok(x.Rbrace)
	case *Element:
		w.walk(x.Value)
		w.tok(x.Comma)
	case *Dict:
		w.tok(x.Lbrace)
		walkList(w, x.Elements)
		w.tok(x.Rbrace)
	case *DictElement:
		w.tok(x.Star)
		w.walk(x.Key)
		w.tok(x.Colon)
		w.walk(x.Value)
		w.tok(x.Comma)
	case *ListComp:
		w.tok(x.Lbracket)
		w.walk(x.Elt)
		w.walk(x.For)
		w.tok(x.Rbracket)
	case *SetComp:
		w.tok(x.Lbrace)
		w.walk(x.Elt)
		w.walk(x.For)
		w.tok(x.Rbrace)
	case *DictComp:
		w.tok(x.Lbrace)
		w.walk(x.Key)
		w.tok(x.Colon)
		w.walk(x.Value)
		w.walk(x.For)
		w.tok(x.Rbrace)
	case *GeneratorExp:
		w.walk(x.Elt)
		w.walk(x.For)
	case *CompFor:
		w.tok(x.Async)
		w.tok(x.For)
		w.walk(x.Target)
		w.tok(x.In)
		w.walk(x.Iter)
		walkList(w, x.Ifs)
		w.walk(x.Inner)
	case *CompIf:
		w.tok(x.If)
		w.walk(x.Test)

	case *Params:
		walkList(w, x.Params)
	case *Param:
		w.tok(x.Star)
		w.walk(x.Name)
		w.tok(x.Colon)
		w.walk(x.Annotation)
		w.tok(x.Equal)
		w.walk(x.Default)
		w.tok(x.Comma)
	case *TypeParams:
		w.tok(x.Lbracket)
		walkList(w, x.Params)
		w.tok(x.Rbracket)
	case *TypeParam:
		w.tok(x.Star)
		w.walk(x.Name)
		w.tok(x.Colon)
		w.walk(x.Bound)
		w.tok(x.Equal)
		w.walk(x.Default)
		w.tok(x.Comma)

	case *SimpleStatementLine:
		w.statements(x.Body, x.Semis)
		w.tok(x.Newline)
	case *ExprStmt:
		w.walk(x.Value)
	case *Assign:
		walkList(w, x.Targets)
		w.walk(x.Value)
	case *AssignTarget:
		w.walk(x.Target)
		w.tok(x.Equal)
	case *AugAssign:
		w.walk(x.Target)
		w.tok(x.Op)
		w.walk(x.Value)
	case *AnnAssign:
		w.walk(x.Target)
		w.tok(x.Colon)
		w.walk(x.Annotation)
		w.tok(x.Equal)
		w.walk(x.Value)
	case *Return:
		w.tok(x.Kw)
		w.walk(x.Value)
	case *Pass:
		w.tok(x.Kw)
	case *Break:
		w.tok(x.Kw)
	case *Continue:
		w.tok(x.Kw)
	case *Del:
		w.tok(x.Kw)
		w.walk(x.Target)
	case *Global:
		w.tok(x.Kw)
		walkList(w, x.Names)
	case *NameItem:
		w.walk(x.Name)
		w.tok(x.Comma)
	case *Import:
		w.tok(x.Kw)
		walkList(w, x.Names)
	case *ImportAlias:
		w.walk(x.Name)
		w.tok(x.As)
		w.walk(x.AsName)
		w.tok(x.Comma)
	case *ImportFrom:
		w.tok(x.From)
		w.toks(x.Dots)
		w.walk(x.Module)
		w.tok(x.Import)
		w.tok(x.Lpar)
		walkList(w, x.Names)
		w.tok(x.Star)
		w.tok(x.Rpar)
	case *Raise:
		w.tok(x.Kw)
		w.walk(x.Exc)
		w.tok(x.From)
		w.walk(x.Cause)
	case *Assert:
		w.tok(x.Kw)
		w.walk(x.Test)
		w.tok(x.Comma)
		w.walk(x.Msg)
	case *TypeAlias:
		w.tok(x.Kw)
		w.walk(x.Name)
		w.walk(x.TypeParams)
		w.tok(x.Equal)
		w.walk(x.Value)

	case *IndentedBlock:
		w.tok(x.Colon)
		w.tok(x.Newline)
		walkList(w, x.Body)
	case *SimpleSuite:
		w.tok(x.Colon)
		w.statements(x.Body, x.Semis)
		w.tok(x.Newline)
	case *If:
		w.tok(x.Kw)
		w.walk(x.Test)
		w.walk(x.Body)
		w.walk(x.Orelse)
	case *Else:
		w.tok(x.Kw)
		w.walk(x.Body)
	case *While:
		w.tok(x.Kw)
		w.walk(x.Test)
		w.walk(x.Body)
		w.walk(x.Orelse)
	case *For:
		w.tok(x.Async)
		w.tok(x.Kw)
		w.walk(x.Target)
		w.tok(x.In)
		w.walk(x.Iter)
		w.walk(x.Body)
		w.walk(x.Orelse)
	case *Try:
		w.tok(x.Kw)
		w.walk(x.Body)
		walkList(w, x.Handlers)
		w.walk(x.Orelse)
		w.walk(x.Finally)
	case *ExceptHandler:
		w.tok(x.Kw)
		w.tok(x.Star)
		w.walk(x.Type)
		w.tok(x.As)
		w.walk(x.Name)
		w.walk(x.Body)
	case *Finally:
		w.tok(x.Kw)
		w.walk(x.Body)
	case *With:
		w.tok(x.Async)
		w.tok(x.Kw)
		w.tok(x.Lpar)
		walkList(w, x.Items)
		w.tok(x.Rpar)
		w.walk(x.Body)
	case *WithItem:
		w.walk(x.Item)
		w.tok(x.As)
		w.walk(x.Target)
		w.tok(x.Comma)
	case *FunctionDef:
		walkList(w, x.Decorators)
		w.tok(x.Async)
		w.tok(x.Kw)
		w.walk(x.Name)
		w.walk(x.TypeParams)
		w.tok(x.Lpar)
		w.walk(x.Params)
		w.tok(x.Rpar)
		w.tok(x.Arrow)
		w.walk(x.Returns)
		w.walk(x.Body)
	case *ClassDef:
		walkList(w, x.Decorators)
		w.tok(x.Kw)
		w.walk(x.Name)
		w.walk(x.TypeParams)
		w.tok(x.Lpar)
		walkList(w, x.Args)
		w.tok(x.Rpar)
		w.walk(x.Body)
	case *Decorator:
		w.tok(x.At)
		w.walk(x.Value)
		w.tok(x.Newline)
	case *Match:
		w.tok(x.Kw)
		w.walk(x.Subject)
		w.tok(x.Colon)
		w.tok(x.Newline)
		walkList(w, x.Cases)
	case *MatchCase:
		w.tok(x.Kw)
		w.walk(x.Pattern)
		w.tok(x.If)
		w.walk(x.Guard)
		w.walk(x.Body)
	}

	if parens != nil {
		w.toks(parens.Rpar)
	}
	w.v.leave(n)
}
