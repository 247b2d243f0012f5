package parser

// Binary operator precedence levels, loosest first.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

var comparisonOps = map[string]bool{
	"<": true, ">": true, "==": true, ">=": true, "<=": true, "!=": true, "in": true,
}

// wrap records a pair of grouping parentheses around e.
func wrap(e Expr, lpar, rpar *Token) {
	g := e.Group()
	g.Lpar = append([]*Token{lpar}, g.Lpar...)
	g.Rpar = append(g.Rpar, rpar)
}

// startsExpression reports whether the next token can begin an expression.
func (p *parser) startsExpression() bool {
	t := p.peek()
	switch t.Kind {
	case TokenNumber, TokenString, TokenFString:
		return true
	case TokenName:
		switch t.Value {
		case "None", "True", "False", "lambda", "not", "await":
			return true
		}
		return !keywords[t.Value]
	case TokenOp:
		switch t.Value {
		case "(", "[", "{", "-", "+", "~", "*", "...":
			return true
		}
	}
	return false
}

func (p *parser) atCompFor() bool {
	return p.at("for") || (p.at("async") && p.peekN(1).Is("for"))
}

func (p *parser) parseStarExpressionsOrYield() Expr {
	if p.at("yield") {
		return p.parseYield()
	}
	return p.parseStarExpressions()
}

// parseStarExpressions parses a comma separated list that becomes an
// unparenthesized Tuple when a comma is present.
func (p *parser) parseStarExpressions() Expr {
	first := p.parseStarOrNamed()
	if !p.at(",") {
		return first
	}
	elems := []*Element{{Value: first}}
	for p.at(",") {
		elems[len(elems)-1].Comma = p.next()
		if !p.startsExpression() {
			break
		}
		elems = append(elems, &Element{Value: p.parseStarOrNamed()})
	}
	return &Tuple{Elements: elems}
}

func (p *parser) parseStarOrNamed() Expr {
	if p.at("*") {
		return &Starred{Star: p.next(), Value: p.parseBinary(0)}
	}
	return p.parseNamedExpr()
}

func (p *parser) parseNamedExpr() Expr {
	e := p.parseTest()
	if p.at(":=") {
		if _, ok := e.(*Name); ok {
			return &NamedExpr{Target: e, Walrus: p.next(), Value: p.parseTest()}
		}
		p.fail("cannot use assignment expressions here")
	}
	return e
}

func (p *parser) parseTest() Expr {
	p.enter()
	defer p.leave()

	if p.at("lambda") {
		return p.parseLambda()
	}
	body := p.parseOrTest()
	if p.at("if") && !p.inPattern {
		ifTok := p.next()
		test := p.parseOrTest()
		elseTok := p.expect("else")
		body = &IfExp{Body: body, If: ifTok, Test: test, Else: elseTok, Orelse: p.parseTest()}
	}
	if p.inPattern && p.at("as") {
		body = &MatchAs{Pattern: body, As: p.next(), Name: p.parseName()}
	}
	return body
}

func (p *parser) parseLambda() Expr {
	l := &Lambda{Kw: p.next()}
	l.Params = p.parseParams(false, ":")
	l.Colon = p.expect(":")
	l.Body = p.parseTest()
	return l
}

func (p *parser) parseOrTest() Expr {
	left := p.parseAndTest()
	for p.at("or") {
		op := p.next()
		left = &BoolOp{Left: left, Op: op, Right: p.parseAndTest()}
	}
	return left
}

func (p *parser) parseAndTest() Expr {
	left := p.parseNotTest()
	for p.at("and") {
		op := p.next()
		left = &BoolOp{Left: left, Op: op, Right: p.parseNotTest()}
	}
	return left
}

func (p *parser) parseNotTest() Expr {
	if p.at("not") {
		p.enter()
		defer p.leave()
		op := p.next()
		return &UnaryOp{Op: op, Operand: p.parseNotTest()}
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() Expr {
	left := p.parseBinary(0)
	var comps []*CompTarget
	for {
		var ops []*Token
		t := p.peek()
		switch {
		case t.Kind == TokenOp && comparisonOps[t.Value], t.Is("in"):
			ops = []*Token{p.next()}
		case t.Is("not") && p.peekN(1).Is("in"):
			ops = []*Token{p.next(), p.next()}
		case t.Is("is"):
			ops = []*Token{p.next()}
			if p.at("not") {
				ops = append(ops, p.next())
			}
		}
		if ops == nil {
			break
		}
		comps = append(comps, &CompTarget{Op: ops, Comparator: p.parseBinary(0)})
	}
	if comps == nil {
		return left
	}
	return &Compare{Left: left, Comparisons: comps}
}

func (p *parser) parseBinary(level int) Expr {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	left := p.parseBinary(level + 1)
	for p.atKind(TokenOp) && contains(binaryLevels[level], p.peek().Value) {
		op := p.next()
		left = &BinaryOp{Left: left, Op: op, Right: p.parseBinary(level + 1)}
	}
	return left
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (p *parser) parseFactor() Expr {
	if p.at("+") || p.at("-") || p.at("~") {
		p.enter()
		defer p.leave()
		op := p.next()
		return &UnaryOp{Op: op, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *parser) parsePower() Expr {
	base := p.parseAwaitPrimary()
	if p.at("**") {
		op := p.next()
		return &BinaryOp{Left: base, Op: op, Right: p.parseFactor()}
	}
	return base
}

func (p *parser) parseAwaitPrimary() Expr {
	if p.at("await") {
		kw := p.next()
		return &Await{Kw: kw, Value: p.parsePrimary()}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() Expr {
	e := p.parseAtom()
	for {
		switch {
		case p.at("("):
			c := &Call{Func: e, Lpar: p.next()}
			c.Args = p.parseArgs(")")
			c.Rpar = p.expect(")")
			e = c
		case p.at("["):
			e = p.parseSubscript(e)
		case p.at("."):
			dot := p.next()
			e = &Attribute{Value: e, Dot: dot, Attr: p.parseName()}
		default:
			return e
		}
	}
}

func (p *parser) parseAtom() Expr {
	t := p.peek()
	switch t.Kind {
	case TokenName:
		switch t.Value {
		case "None", "True", "False":
			return &Name{Tok: p.next()}
		}
		if keywords[t.Value] {
			p.fail("invalid syntax")
		}
		return &Name{Tok: p.next()}
	case TokenNumber:
		return &Number{Tok: p.next()}
	case TokenString, TokenFString:
		return p.parseStrings()
	case TokenOp:
		switch t.Value {
		case "(":
			return p.parseParenthesized()
		case "[":
			return p.parseListAtom()
		case "{":
			return p.parseBraceAtom()
		case "...":
			return &Ellipsis{Tok: p.next()}
		}
	}
	p.fail("invalid syntax")
	return nil
}

// parseStrings folds adjacent string literals into a right-nested Concat.
func (p *parser) parseStrings() Expr {
	var parts []Expr
	for p.atKind(TokenString) || p.atKind(TokenFString) {
		tok := p.next()
		if tok.Kind == TokenFString {
			parts = append(parts, &FString{Tok: tok})
		} else {
			parts = append(parts, &String{Tok: tok})
		}
	}
	res := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		res = &Concat{Left: parts[i], Right: res}
	}
	return res
}

func (p *parser) parseParenthesized() Expr {
	p.enter()
	defer p.leave()

	lpar := p.next()
	if p.at(")") {
		return &Tuple{Parens: Parens{Lpar: []*Token{lpar}, Rpar: []*Token{p.next()}}}
	}
	if p.at("yield") {
		y := p.parseYield()
		wrap(y, lpar, p.expect(")"))
		return y
	}

	first := p.parseStarOrNamed()
	if p.atCompFor() {
		g := &GeneratorExp{Elt: first, For: p.parseCompFor()}
		g.Lpar = []*Token{lpar}
		g.Rpar = []*Token{p.expect(")")}
		return g
	}
	if p.at(",") {
		tup := &Tuple{Elements: p.parseElements(first, ")")}
		tup.Lpar = []*Token{lpar}
		tup.Rpar = []*Token{p.expect(")")}
		return tup
	}
	wrap(first, lpar, p.expect(")"))
	return first
}

// parseElements continues a comma separated element list whose first
// value has already been parsed.
func (p *parser) parseElements(first Expr, closer string) []*Element {
	elems := []*Element{{Value: first}}
	for p.at(",") {
		elems[len(elems)-1].Comma = p.next()
		if p.at(closer) {
			break
		}
		elems = append(elems, &Element{Value: p.parseStarOrNamed()})
	}
	return elems
}

func (p *parser) parseListAtom() Expr {
	p.enter()
	defer p.leave()

	lb := p.next()
	if p.at("]") {
		return &List{Lbracket: lb, Rbracket: p.next()}
	}
	first := p.parseStarOrNamed()
	if p.atCompFor() {
		lc := &ListComp{Lbracket: lb, Elt: first, For: p.parseCompFor()}
		lc.Rbracket = p.expect("]")
		return lc
	}
	l := &List{Lbracket: lb, Elements: p.parseElements(first, "]")}
	l.Rbracket = p.expect("]")
	return l
}

func (p *parser) parseBraceAtom() Expr {
	p.enter()
	defer p.leave()

	lb := p.next()
	if p.at("}") {
		return &Dict{Lbrace: lb, Rbrace: p.next()}
	}
	if p.at("**") {
		d := &Dict{Lbrace: lb, Elements: p.parseDictElements(p.parseDictElement())}
		d.Rbrace = p.expect("}")
		return d
	}

	first := p.parseStarOrNamed()
	if p.at(":") {
		colon := p.next()
		value := p.parseTest()
		if p.atCompFor() {
			dc := &DictComp{Lbrace: lb, Key: first, Colon: colon, Value: value, For: p.parseCompFor()}
			dc.Rbrace = p.expect("}")
			return dc
		}
		d := &Dict{Lbrace: lb, Elements: p.parseDictElements(&DictElement{Key: first, Colon: colon, Value: value})}
		d.Rbrace = p.expect("}")
		return d
	}
	if p.atCompFor() {
		sc := &SetComp{Lbrace: lb, Elt: first, For: p.parseCompFor()}
		sc.Rbrace = p.expect("}")
		return sc
	}
	s := &Set{Lbrace: lb, Elements: p.parseElements(first, "}")}
	s.Rbrace = p.expect("}")
	return s
}

func (p *parser) parseDictElements(first *DictElement) []*DictElement {
	elems := []*DictElement{first}
	for p.at(",") {
		elems[len(elems)-1].Comma = p.next()
		if p.at("}") {
			break
		}
		elems = append(elems, p.parseDictElement())
	}
	return elems
}

func (p *parser) parseDictElement() *DictElement {
	if p.at("**") {
		star := p.next()
		return &DictElement{Star: star, Value: p.parseBinary(0)}
	}
	e := &DictElement{Key: p.parseTest()}
	e.Colon = p.expect(":")
	e.Value = p.parseTest()
	return e
}

func (p *parser) parseCompFor() *CompFor {
	c := &CompFor{}
	if p.at("async") {
		c.Async = p.next()
	}
	c.For = p.expect("for")
	c.Target = p.parseTargetList("in")
	c.In = p.expect("in")
	c.Iter = p.parseOrTest()
	for p.at("if") {
		ifTok := p.next()
		c.Ifs = append(c.Ifs, &CompIf{If: ifTok, Test: p.parseOrTest()})
	}
	if p.atCompFor() {
		c.Inner = p.parseCompFor()
	}
	return c
}

// parseTargetList parses assignment targets up to stop, as in the target
// of a for loop.
func (p *parser) parseTargetList(stop string) Expr {
	first := p.parseTargetItem()
	if !p.at(",") {
		return first
	}
	elems := []*Element{{Value: first}}
	for p.at(",") {
		elems[len(elems)-1].Comma = p.next()
		if p.at(stop) {
			break
		}
		elems = append(elems, &Element{Value: p.parseTargetItem()})
	}
	return &Tuple{Elements: elems}
}

func (p *parser) parseTargetItem() Expr {
	if p.at("*") {
		star := p.next()
		return &Starred{Star: star, Value: p.parseBinary(0)}
	}
	return p.parseBinary(0)
}

func (p *parser) parseYield() Expr {
	y := &Yield{Kw: p.next()}
	if p.at("from") {
		y.From = p.next()
		y.Value = p.parseTest()
	} else if p.startsExpression() {
		y.Value = p.parseStarExpressions()
	}
	return y
}

func (p *parser) parseArgs(closer string) []*Arg {
	var args []*Arg
	for !p.at(closer) {
		a := p.parseArg()
		args = append(args, a)
		if !p.at(",") {
			break
		}
		a.Comma = p.next()
	}
	return args
}

func (p *parser) parseArg() *Arg {
	if p.at("*") || p.at("**") {
		star := p.next()
		return &Arg{Star: star, Value: p.parseTest()}
	}
	if isName(p.peek()) && p.peekN(1).Is("=") {
		kw := &Name{Tok: p.next()}
		eq := p.next()
		return &Arg{Keyword: kw, Equal: eq, Value: p.parseTest()}
	}
	v := p.parseNamedExpr()
	if p.atCompFor() {
		v = &GeneratorExp{Elt: v, For: p.parseCompFor()}
	}
	return &Arg{Value: v}
}

func (p *parser) parseSubscript(value Expr) Expr {
	s := &Subscript{Value: value, Lbracket: p.next()}
	for !p.at("]") {
		el := &SubscriptElement{Value: p.parseSubscriptValue()}
		s.Elements = append(s.Elements, el)
		if !p.at(",") {
			break
		}
		el.Comma = p.next()
	}
	s.Rbracket = p.expect("]")
	return s
}

func (p *parser) parseSubscriptValue() Node {
	var lower Expr
	if !p.at(":") {
		lower = p.parseStarOrNamed()
		if !p.at(":") {
			return lower
		}
	}
	sl := &Slice{Lower: lower, First: p.next()}
	if !p.at(":") && !p.at("]") && !p.at(",") {
		sl.Upper = p.parseTest()
	}
	if p.at(":") {
		sl.Second = p.next()
		if !p.at("]") && !p.at(",") {
			sl.Step = p.parseTest()
		}
	}
	return sl
}

// parseParams parses a parameter list up to closer. Annotations are only
// allowed in function definitions.
func (p *parser) parseParams(annotated bool, closer string) *Params {
	ps := &Params{}
	for !p.at(closer) {
		prm := &Param{}
		switch {
		case p.at("/"):
			prm.Star = p.next()
		case p.at("*") || p.at("**"):
			prm.Star = p.next()
			if isName(p.peek()) {
				prm.Name = p.parseName()
			}
		default:
			prm.Name = p.parseName()
		}
		if prm.Name != nil && annotated && p.at(":") {
			prm.Colon = p.next()
			if prm.Star.Is("*") && p.at("*") {
				star := p.next()
				prm.Annotation = &Starred{Star: star, Value: p.parseBinary(0)}
			} else {
				prm.Annotation = p.parseTest()
			}
		}
		if prm.Name != nil && p.at("=") {
			prm.Equal = p.next()
			prm.Default = p.parseTest()
		}
		ps.Params = append(ps.Params, prm)
		if !p.at(",") {
			break
		}
		prm.Comma = p.next()
	}
	return ps
}
