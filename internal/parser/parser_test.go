package parser

import (
	"errors"
	"strings"
	"testing"
)

// source concatenates every token of n, which reproduces the input for a
// tree that has not been rewritten.
func source(n Node) string {
	var b strings.Builder
	EachToken(n, func(t *Token) bool {
		b.WriteString(t.Prefix)
		b.WriteString(t.Value)
		return true
	})
	return b.String()
}

func mustParse(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return mod
}

func firstSmall(t *testing.T, mod *Module) SmallStmt {
	t.Helper()
	line, ok := mod.Body[0].(*SimpleStatementLine)
	if !ok {
		t.Fatalf("expected SimpleStatementLine, got %T", mod.Body[0])
	}
	return line.Body[0]
}

func firstExpr(t *testing.T, mod *Module) Expr {
	t.Helper()
	stmt, ok := firstSmall(t, mod).(*ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", firstSmall(t, mod))
	}
	return stmt.Value
}

func TestParseEmpty(t *testing.T) {
	mod := mustParse(t, "")
	if len(mod.Body) != 0 {
		t.Errorf("expected 0 statements for empty input, got %d", len(mod.Body))
	}
	if mod.End == nil || mod.End.Kind != TokenEndMarker {
		t.Errorf("expected an end marker, got %v", mod.End)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blank lines only", "\n\n\n"},
		{"comment only", "# just a comment"},
		{"no trailing newline", "x = 1"},
		{"crlf", "x = 1\r\nif x:\r\n    y = 2\r\n"},
		{"assignment chain", "a = b = (c)\n"},
		{"aug assign", "x  +=  1 # inc\n"},
		{"annotated", "x: int = 3\ny: list[str]\n"},
		{"semicolons", "a; b;c;\n"},
		{"if elif else", "if a:\n    pass\nelif b:  # why\n    x = 1\n\nelse:\n    y\n"},
		{"simple suite", "if a: b; c\nelse: d\n"},
		{"while else", "while x:\n    break\nelse:\n    continue\n"},
		{"for async", "async def f():\n    async for x in y:\n        await z\n    async with a as b, c:\n        pass\n"},
		{"try", "try:\n    a\nexcept (A, B) as e:\n    b\nexcept* C:\n    c\nelse:\n    d\nfinally:\n    e\n"},
		{"with parens", "with (\n    open(a) as f,\n    open(b) as g,\n):\n    pass\n"},
		{"with tuple target", "with (a, b) as c:\n    pass\n"},
		{"decorated class", "@dataclass(frozen=True)\nclass A(B, metaclass=M):\n    x: int = 0\n"},
		{"function", "def f(a, /, b: int = 1, *args: *Ts, c, d=2, **kw) -> None:\n    return\n"},
		{"generics", "def f[T: int, *Ts, **P](x: T) -> T: ...\nclass C[T = int]: pass\ntype A[T] = list[T]\n"},
		{"lambda", "f = lambda x, *y, z=1, **k: (x, y)\ng = lambda: 0\n"},
		{"comprehensions", "a = [x for x in y if x if not x]\nb = {k: v async for k, v in z}\nc = {x for x in y for y in z}\nd = (x for x in y)\n"},
		{"call generator", "sum(x for x in y)\n"},
		{"subscripts", "a[1:2, ::3, x:]\nb[()]\nc[*d]\n"},
		{"strings", "a = 'x' \"y\" r'z' b'\\x00' '''tri\nple''' u\"q\"\n"},
		{"fstrings", "f'{x!r:>{width}}' f\"{'nested'}\" rf'{a}\\d'\nf'{f\"{1}\"}'\nf'''{\n    x\n}'''\n"},
		{"numbers", "x = 0xFF + 0o7 + 0b1 + 1_000 + 1.5e-3 + 2j + .5 + 1.\ny = 1if x else 2\n"},
		{"operators", "x = -a ** -b // c @ d | e ^ f & g << h >> i\ny = not a and b or c\nz = a < b <= c is not d not in e\n"},
		{"walrus", "if (n := len(a)) > 10:\n    pass\n"},
		{"yield", "def g():\n    x = yield\n    yield from y\n    yield a, b\n"},
		{"imports", "import a.b as c, d\nfrom . import (e, f as g,)\nfrom ..h import *\nfrom ...i.j import k\n"},
		{"global", "def f():\n    global a, b\n    nonlocal c\n"},
		{"raise assert del", "raise X from e\nraise\nassert x, 'msg'\ndel a, b[0]\n"},
		{"continuation", "x = 1 + \\\n    2\n"},
		{"brackets across lines", "x = [\n    1,  # one\n\n    2,\n]\n"},
		{"star expressions", "a, *b = c\nfor x, in y: pass\nreturn_value = *a, *b\n"},
		{"dict", "d = {**a, 'b': 1, **c,}\ne = {}\n"},
		{"match", "match command.split():\n    case [action]:\n        pass\n    case [\"go\", direction] | [\"move\", direction] if direction:\n        pass\n    case Point(x=0, y=0) as origin:\n        pass\n    case {\"k\": v, **rest}:\n        pass\n    case _:\n        pass\n"},
		{"soft keywords as names", "match = 1\nmatch.x = 2\nmatch(x)\ntype = 3\ncase = 4\n"},
		{"tabs", "if x:\n\ty = 1\n\tif y:\n\t\tz = 2\n"},
		{"trailing comment after dedent", "if x:\n    y = 1\n    # trailing\n# outer\nz = 2\n"},
		{"unicode names", "naïve = '日本'\n"},
		{"ellipsis", "x = ...\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustParse(t, tt.input)
			if got := source(mod); got != tt.input {
				t.Errorf("round trip mismatch:\nwant %q\ngot  %q", tt.input, got)
			}
		})
	}
}

func TestConcatNestsRight(t *testing.T) {
	mod := mustParse(t, "'a' 'b' 'c'\n")
	c, ok := firstExpr(t, mod).(*Concat)
	if !ok {
		t.Fatalf("expected Concat, got %T", firstExpr(t, mod))
	}
	if _, ok := c.Left.(*String); !ok {
		t.Errorf("left: expected String, got %T", c.Left)
	}
	inner, ok := c.Right.(*Concat)
	if !ok {
		t.Fatalf("right: expected Concat, got %T", c.Right)
	}
	if inner.Left.(*String).Tok.Value != "'b'" || inner.Right.(*String).Tok.Value != "'c'" {
		t.Errorf("unexpected inner concat %q %q", source(inner.Left), source(inner.Right))
	}
}

func TestParensOrder(t *testing.T) {
	mod := mustParse(t, "( ( x ) )\n")
	n, ok := firstExpr(t, mod).(*Name)
	if !ok {
		t.Fatalf("expected Name, got %T", firstExpr(t, mod))
	}
	if len(n.Lpar) != 2 || len(n.Rpar) != 2 {
		t.Fatalf("expected 2 paren pairs, got %d/%d", len(n.Lpar), len(n.Rpar))
	}
	if n.Lpar[0].Col != 0 || n.Lpar[1].Col != 2 {
		t.Errorf("lpar not outermost first: cols %d, %d", n.Lpar[0].Col, n.Lpar[1].Col)
	}
	if n.Rpar[0].Col != 6 || n.Rpar[1].Col != 8 {
		t.Errorf("rpar not innermost first: cols %d, %d", n.Rpar[0].Col, n.Rpar[1].Col)
	}
}

func TestElifChain(t *testing.T) {
	mod := mustParse(t, "if a:\n    x\nelif b:\n    y\nelse:\n    z\n")
	n := mod.Body[0].(*If)
	elif, ok := n.Orelse.(*If)
	if !ok {
		t.Fatalf("expected elif If, got %T", n.Orelse)
	}
	if elif.Kw.Value != "elif" {
		t.Errorf("keyword: want elif, got %q", elif.Kw.Value)
	}
	if _, ok := elif.Orelse.(*Else); !ok {
		t.Errorf("expected Else, got %T", elif.Orelse)
	}
}

func TestWithParens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		parens bool
		items  int
	}{
		{"grouped items", "with (a, b):\n    pass\n", true, 2},
		{"single grouped", "with (x):\n    pass\n", true, 1},
		{"tuple as target", "with (a, b) as c:\n    pass\n", false, 1},
		{"parenthesized call", "with (open(x)) as f:\n    pass\n", false, 1},
		{"bare", "with a, b as c:\n    pass\n", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mustParse(t, tt.input).Body[0].(*With)
			if got := w.Lpar != nil; got != tt.parens {
				t.Errorf("parens: want %v, got %v", tt.parens, got)
			}
			if len(w.Items) != tt.items {
				t.Errorf("items: want %d, got %d", tt.items, len(w.Items))
			}
		})
	}
}

func TestMatchSoftKeyword(t *testing.T) {
	mod := mustParse(t, "match x:\n    case 1 | 2 as n if n:\n        pass\nmatch(y)\n")
	m, ok := mod.Body[0].(*Match)
	if !ok {
		t.Fatalf("expected Match, got %T", mod.Body[0])
	}
	c := m.Cases[0]
	if _, ok := c.Pattern.(*MatchAs); !ok {
		t.Errorf("pattern: expected MatchAs, got %T", c.Pattern)
	}
	if c.Guard == nil {
		t.Error("expected a guard")
	}
	if _, ok := mod.Body[1].(*SimpleStatementLine); !ok {
		t.Errorf("match(y): expected a call statement, got %T", mod.Body[1])
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed paren", "x = (1,\n"},
		{"unmatched paren", "x = 1)\n"},
		{"bad dedent", "if x:\n        y\n    z\n"},
		{"missing block", "if x:\npass\n"},
		{"unterminated string", "x = 'abc\n"},
		{"keyword as name", "class = 1\n"},
		{"stray indent", "    x = 1\n"},
		{"bad continuation", "x = 1 \\ 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
		})
	}
}

func TestRecursionLimit(t *testing.T) {
	src := strings.Repeat("(", 500) + "x" + strings.Repeat(")", 500) + "\n"
	_, err := ParseString(src)
	if !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("expected ErrRecursionLimit, got %v", err)
	}
}

func TestPositions(t *testing.T) {
	mod := mustParse(t, "x = 1\n\nif y:\n    z = (\n        2\n    )\n")
	pos := ComputePositions(mod)

	n := mod.Body[1].(*If)
	if got := pos.Line(n); got != 3 {
		t.Errorf("if line: want 3, got %d", got)
	}
	body := n.Body.(*IndentedBlock).Body[0].(*SimpleStatementLine)
	assign := body.Body[0].(*Assign)
	p := pos[assign.Value]
	if p.Line != 4 || p.EndLine != 6 {
		t.Errorf("value span: want 4-6, got %d-%d", p.Line, p.EndLine)
	}
}

func TestComments(t *testing.T) {
	mod := mustParse(t, "# head\nx = 1  # trailing\nif x:\n    # inner\n    y\n# tail")
	got := Comments(mod)
	want := []Comment{
		{Line: 1, Text: "# head"},
		{Line: 2, Text: "# trailing"},
		{Line: 4, Text: "# inner"},
		{Line: 6, Text: "# tail"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d comments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("comment %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFieldsSkipParens(t *testing.T) {
	a := firstExpr(t, mustParse(t, "(a + b)\n"))
	b := firstExpr(t, mustParse(t, "a+b\n"))
	fa, fb := Fields(a), Fields(b)
	if len(fa) != len(fb) {
		t.Fatalf("field count differs: %d vs %d", len(fa), len(fb))
	}
	if fa[1].Value != "+" {
		t.Errorf("operator: want +, got %q", fa[1].Value)
	}
}

func TestTransformReplaces(t *testing.T) {
	mod := mustParse(t, "x = a + b\n")
	Transform(mod, func(n, _ Node) Node {
		if name, ok := n.(*Name); ok && name.Tok.Value == "a" {
			return &Name{Tok: &Token{Kind: TokenName, Value: "c", Prefix: name.Tok.Prefix}}
		}
		return n
	})
	if got := source(mod); got != "x = c + b\n" {
		t.Errorf("want %q, got %q", "x = c + b\n", got)
	}
}
