package parser

import (
	"errors"
	"fmt"
)

// ErrRecursionLimit is returned when the source nests deeper than the
// parser is willing to follow.
var ErrRecursionLimit = errors.New("maximum nesting depth exceeded")

const maxNesting = 200

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

var augAssignOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "@=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
	"**=": true, "//=": true,
}

type parser struct {
	toks      []*Token
	pos       int
	depth     int
	inPattern bool
}

type recursionLimit struct{}

// Parse parses Python source into a Module. The source may start with a
// UTF-8 byte order mark or declare another encoding with a coding cookie.
func Parse(src []byte) (*Module, error) {
	text, enc, bom, err := decodeSource(src)
	if err != nil {
		return nil, err
	}
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	mod, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	mod.Encoding = enc
	mod.BOM = bom
	return mod, nil
}

// ParseString parses UTF-8 source text.
func ParseString(src string) (*Module, error) {
	return Parse([]byte(src))
}

func (p *parser) parseModule() (mod *Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *SyntaxError:
				err = e
			case recursionLimit:
				err = ErrRecursionLimit
			default:
				panic(r)
			}
		}
	}()

	mod = &Module{}
	for p.peek().Kind != TokenEndMarker {
		switch p.peek().Kind {
		case TokenIndent:
			p.fail("unexpected indent")
		case TokenDedent:
			p.next()
			continue
		}
		mod.Body = append(mod.Body, p.parseStatement())
	}
	mod.End = p.next()
	return mod, nil
}

// ---------------------------------------------------------------------------
// Token cursor.

func (p *parser) peek() *Token { return p.toks[p.pos] }

func (p *parser) peekN(n int) *Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() *Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEndMarker {
		p.pos++
	}
	return t
}

func (p *parser) at(value string) bool { return p.peek().Is(value) }

func (p *parser) atKind(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) expect(value string) *Token {
	if !p.at(value) {
		p.fail("expected %q", value)
	}
	return p.next()
}

func (p *parser) expectKind(kind TokenKind) *Token {
	if !p.atKind(kind) {
		p.fail("expected %s", kind)
	}
	return p.next()
}

func (p *parser) fail(format string, args ...any) {
	t := p.peek()
	msg := fmt.Sprintf(format, args...)
	if t.Kind == TokenEndMarker {
		msg += " at end of file"
	} else if t.Value != "" {
		msg += fmt.Sprintf(", found %q", t.Value)
	}
	panic(&SyntaxError{Line: t.Line, Col: t.Col, Msg: msg})
}

func (p *parser) enter() {
	p.depth++
	if p.depth > maxNesting {
		panic(recursionLimit{})
	}
}

func (p *parser) leave() { p.depth-- }

// attempt runs fn and rewinds the cursor if it fails with a syntax error.
func (p *parser) attempt(fn func()) (ok bool) {
	pos, depth, pattern := p.pos, p.depth, p.inPattern
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(*SyntaxError); !isSyntax {
				panic(r)
			}
			p.pos, p.depth, p.inPattern = pos, depth, pattern
			ok = false
		}
	}()
	fn()
	return true
}

func isName(t *Token) bool {
	return t.Kind == TokenName && !keywords[t.Value]
}

func (p *parser) parseName() *Name {
	if !isName(p.peek()) {
		p.fail("expected a name")
	}
	return &Name{Tok: p.next()}
}

// ---------------------------------------------------------------------------
// Statements.

func (p *parser) parseStatement() Stmt {
	p.enter()
	defer p.leave()

	t := p.peek()
	if t.Kind == TokenName {
		switch t.Value {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor(nil)
		case "try":
			return p.parseTry()
		case "with":
			return p.parseWith(nil)
		case "def":
			return p.parseFunctionDef(nil, nil)
		case "class":
			return p.parseClassDef(nil)
		case "async":
			async := p.next()
			switch {
			case p.at("def"):
				return p.parseFunctionDef(nil, async)
			case p.at("for"):
				return p.parseFor(async)
			case p.at("with"):
				return p.parseWith(async)
			}
			p.fail("invalid syntax")
		case "match":
			if m := p.tryMatch(); m != nil {
				return m
			}
		}
	}
	if t.Is("@") {
		return p.parseDecorated()
	}
	return p.parseSimpleStatementLine()
}

func (p *parser) parseSimpleStatementLine() *SimpleStatementLine {
	body, semis, nl := p.parseSmallStatements()
	return &SimpleStatementLine{Body: body, Semis: semis, Newline: nl}
}

func (p *parser) parseSmallStatements() ([]SmallStmt, []*Token, *Token) {
	var (
		body  []SmallStmt
		semis []*Token
	)
	for {
		body = append(body, p.parseSmallStatement())
		if p.at(";") {
			semis = append(semis, p.next())
			if p.atKind(TokenNewline) {
				break
			}
			continue
		}
		semis = append(semis, nil)
		break
	}
	if !p.atKind(TokenNewline) {
		p.fail("invalid syntax")
	}
	return body, semis, p.next()
}

func (p *parser) atStatementEnd() bool {
	return p.atKind(TokenNewline) || p.at(";") || p.atKind(TokenEndMarker)
}

func (p *parser) parseSmallStatement() SmallStmt {
	t := p.peek()
	if t.Kind == TokenName {
		switch t.Value {
		case "pass":
			return &Pass{Kw: p.next()}
		case "break":
			return &Break{Kw: p.next()}
		case "continue":
			return &Continue{Kw: p.next()}
		case "return":
			r := &Return{Kw: p.next()}
			if !p.atStatementEnd() {
				r.Value = p.parseStarExpressions()
			}
			return r
		case "raise":
			r := &Raise{Kw: p.next()}
			if !p.atStatementEnd() {
				r.Exc = p.parseTest()
				if p.at("from") {
					r.From = p.next()
					r.Cause = p.parseTest()
				}
			}
			return r
		case "global", "nonlocal":
			g := &Global{Kw: p.next()}
			for {
				item := &NameItem{Name: p.parseName()}
				g.Names = append(g.Names, item)
				if !p.at(",") {
					break
				}
				item.Comma = p.next()
			}
			return g
		case "del":
			return &Del{Kw: p.next(), Target: p.parseStarExpressions()}
		case "assert":
			a := &Assert{Kw: p.next(), Test: p.parseTest()}
			if p.at(",") {
				a.Comma = p.next()
				a.Msg = p.parseTest()
			}
			return a
		case "import":
			return p.parseImport()
		case "from":
			return p.parseImportFrom()
		case "type":
			if isName(p.peekN(1)) && (p.peekN(2).Is("=") || p.peekN(2).Is("[")) {
				return p.parseTypeAlias()
			}
		}
	}
	return p.parseExpressionStatement()
}

func (p *parser) parseExpressionStatement() SmallStmt {
	first := p.parseStarExpressionsOrYield()

	switch {
	case p.at("="):
		a := &Assign{}
		cur := first
		for p.at("=") {
			a.Targets = append(a.Targets, &AssignTarget{Target: cur, Equal: p.next()})
			cur = p.parseStarExpressionsOrYield()
		}
		a.Value = cur
		return a

	case p.atKind(TokenOp) && augAssignOps[p.peek().Value]:
		return &AugAssign{Target: first, Op: p.next(), Value: p.parseStarExpressionsOrYield()}

	case p.at(":"):
		a := &AnnAssign{Target: first, Colon: p.next(), Annotation: p.parseTest()}
		if p.at("=") {
			a.Equal = p.next()
			a.Value = p.parseStarExpressionsOrYield()
		}
		return a
	}
	return &ExprStmt{Value: first}
}

func (p *parser) parseDottedName() Expr {
	var n Expr = p.parseName()
	for p.at(".") {
		n = &Attribute{Value: n, Dot: p.next(), Attr: p.parseName()}
	}
	return n
}

func (p *parser) parseImport() *Import {
	imp := &Import{Kw: p.next()}
	for {
		a := &ImportAlias{Name: p.parseDottedName()}
		if p.at("as") {
			a.As = p.next()
			a.AsName = p.parseName()
		}
		imp.Names = append(imp.Names, a)
		if !p.at(",") {
			break
		}
		a.Comma = p.next()
	}
	return imp
}

func (p *parser) parseImportFrom() *ImportFrom {
	f := &ImportFrom{From: p.next()}
	for p.at(".") || p.at("...") {
		f.Dots = append(f.Dots, p.next())
	}
	if !p.at("import") {
		f.Module = p.parseDottedName()
	}
	f.Import = p.expect("import")

	switch {
	case p.at("*"):
		f.Star = p.next()
		return f
	case p.at("("):
		f.Lpar = p.next()
		f.Names = p.parseImportAliases(")")
		f.Rpar = p.expect(")")
	default:
		f.Names = p.parseImportAliases("")
	}
	return f
}

func (p *parser) parseImportAliases(closer string) []*ImportAlias {
	var names []*ImportAlias
	for {
		a := &ImportAlias{Name: p.parseName()}
		if p.at("as") {
			a.As = p.next()
			a.AsName = p.parseName()
		}
		names = append(names, a)
		if !p.at(",") {
			break
		}
		a.Comma = p.next()
		if closer != "" && p.at(closer) {
			break
		}
	}
	return names
}

func (p *parser) parseTypeAlias() *TypeAlias {
	t := &TypeAlias{Kw: p.next(), Name: p.parseName()}
	if p.at("[") {
		t.TypeParams = p.parseTypeParams()
	}
	t.Equal = p.expect("=")
	t.Value = p.parseTest()
	return t
}

func (p *parser) parseTypeParams() *TypeParams {
	tp := &TypeParams{Lbracket: p.expect("[")}
	for !p.at("]") {
		param := &TypeParam{}
		if p.at("*") || p.at("**") {
			param.Star = p.next()
		}
		param.Name = p.parseName()
		if p.at(":") {
			param.Colon = p.next()
			param.Bound = p.parseTest()
		}
		if p.at("=") {
			param.Equal = p.next()
			param.Default = p.parseTest()
		}
		tp.Params = append(tp.Params, param)
		if !p.at(",") {
			break
		}
		param.Comma = p.next()
	}
	tp.Rbracket = p.expect("]")
	return tp
}

// ---------------------------------------------------------------------------
// Compound statements.

func (p *parser) parseSuite() Suite {
	colon := p.expect(":")
	if !p.atKind(TokenNewline) {
		body, semis, nl := p.parseSmallStatements()
		return &SimpleSuite{Colon: colon, Body: body, Semis: semis, Newline: nl}
	}

	blk := &IndentedBlock{Colon: colon, Newline: p.next()}
	if !p.atKind(TokenIndent) {
		p.fail("expected an indented block")
	}
	p.next()
	for !p.atKind(TokenDedent) && !p.atKind(TokenEndMarker) {
		blk.Body = append(blk.Body, p.parseStatement())
	}
	if p.atKind(TokenDedent) {
		p.next()
	}
	return blk
}

// parseIf parses an "if" or "elif" clause and everything chained after it.
func (p *parser) parseIf() *If {
	n := &If{Kw: p.next(), Test: p.parseNamedExpr()}
	n.Body = p.parseSuite()
	switch {
	case p.at("elif"):
		n.Orelse = p.parseIf()
	case p.at("else"):
		n.Orelse = p.parseElse()
	}
	return n
}

func (p *parser) parseElse() *Else {
	return &Else{Kw: p.next(), Body: p.parseSuite()}
}

func (p *parser) parseWhile() *While {
	w := &While{Kw: p.next(), Test: p.parseNamedExpr()}
	w.Body = p.parseSuite()
	if p.at("else") {
		w.Orelse = p.parseElse()
	}
	return w
}

func (p *parser) parseFor(async *Token) *For {
	f := &For{Async: async, Kw: p.expect("for")}
	f.Target = p.parseTargetList("in")
	f.In = p.expect("in")
	f.Iter = p.parseStarExpressions()
	f.Body = p.parseSuite()
	if p.at("else") {
		f.Orelse = p.parseElse()
	}
	return f
}

func (p *parser) parseTry() *Try {
	t := &Try{Kw: p.next()}
	t.Body = p.parseSuite()
	for p.at("except") {
		h := &ExceptHandler{Kw: p.next()}
		if p.at("*") {
			h.Star = p.next()
		}
		if !p.at(":") {
			h.Type = p.parseTest()
			if p.at("as") {
				h.As = p.next()
				h.Name = p.parseName()
			}
		}
		h.Body = p.parseSuite()
		t.Handlers = append(t.Handlers, h)
	}
	if p.at("else") {
		t.Orelse = p.parseElse()
	}
	if p.at("finally") {
		t.Finally = &Finally{Kw: p.next(), Body: p.parseSuite()}
	}
	if t.Handlers == nil && t.Finally == nil {
		p.fail("expected 'except' or 'finally' block")
	}
	return t
}

func (p *parser) parseWith(async *Token) *With {
	w := &With{Async: async, Kw: p.expect("with")}
	if p.at("(") {
		// "with (a, b):" groups items; "with (a, b) as c:" is a tuple.
		var lpar, rpar *Token
		var items []*WithItem
		ok := p.attempt(func() {
			lpar = p.next()
			items = p.parseWithItems(")")
			rpar = p.expect(")")
			if !p.at(":") {
				p.fail("expected ':'")
			}
		})
		if ok {
			w.Lpar, w.Items, w.Rpar = lpar, items, rpar
			w.Body = p.parseSuite()
			return w
		}
	}
	w.Items = p.parseWithItems("")
	w.Body = p.parseSuite()
	return w
}

func (p *parser) parseWithItems(closer string) []*WithItem {
	var items []*WithItem
	for {
		it := &WithItem{Item: p.parseTest()}
		if p.at("as") {
			it.As = p.next()
			it.Target = p.parseTargetItem()
		}
		items = append(items, it)
		if !p.at(",") {
			break
		}
		it.Comma = p.next()
		if closer != "" && p.at(closer) {
			break
		}
	}
	return items
}

func (p *parser) parseDecorated() Stmt {
	var decorators []*Decorator
	for p.at("@") {
		d := &Decorator{At: p.next(), Value: p.parseNamedExpr()}
		d.Newline = p.expectKind(TokenNewline)
		decorators = append(decorators, d)
	}
	switch {
	case p.at("def"):
		return p.parseFunctionDef(decorators, nil)
	case p.at("class"):
		return p.parseClassDef(decorators)
	case p.at("async") && p.peekN(1).Is("def"):
		async := p.next()
		return p.parseFunctionDef(decorators, async)
	}
	p.fail("expected function or class definition after decorator")
	return nil
}

func (p *parser) parseFunctionDef(decorators []*Decorator, async *Token) *FunctionDef {
	f := &FunctionDef{Decorators: decorators, Async: async, Kw: p.expect("def")}
	f.Name = p.parseName()
	if p.at("[") {
		f.TypeParams = p.parseTypeParams()
	}
	f.Lpar = p.expect("(")
	f.Params = p.parseParams(true, ")")
	f.Rpar = p.expect(")")
	if p.at("->") {
		f.Arrow = p.next()
		f.Returns = p.parseTest()
	}
	f.Body = p.parseSuite()
	return f
}

func (p *parser) parseClassDef(decorators []*Decorator) *ClassDef {
	c := &ClassDef{Decorators: decorators, Kw: p.expect("class")}
	c.Name = p.parseName()
	if p.at("[") {
		c.TypeParams = p.parseTypeParams()
	}
	if p.at("(") {
		c.Lpar = p.next()
		c.Args = p.parseArgs(")")
		c.Rpar = p.expect(")")
	}
	c.Body = p.parseSuite()
	return c
}

// tryMatch parses a match statement, or returns nil when "match" is an
// ordinary identifier on this line.
func (p *parser) tryMatch() *Match {
	var m *Match
	ok := p.attempt(func() {
		m = &Match{Kw: p.next()}
		m.Subject = p.parseStarExpressions()
		m.Colon = p.expect(":")
		m.Newline = p.expectKind(TokenNewline)
		p.expectKind(TokenIndent)
		for p.at("case") {
			m.Cases = append(m.Cases, p.parseMatchCase())
		}
		if len(m.Cases) == 0 {
			p.fail("expected 'case'")
		}
		if p.atKind(TokenDedent) {
			p.next()
		}
	})
	if !ok {
		return nil
	}
	return m
}

func (p *parser) parseMatchCase() *MatchCase {
	c := &MatchCase{Kw: p.next()}
	saved := p.inPattern
	p.inPattern = true
	c.Pattern = p.parseStarExpressions()
	p.inPattern = saved
	if p.at("if") {
		c.If = p.next()
		c.Guard = p.parseNamedExpr()
	}
	c.Body = p.parseSuite()
	return c
}
