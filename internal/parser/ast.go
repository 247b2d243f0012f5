// Package parser provides a lossless Python parser that produces a concrete
// syntax tree. Every byte of the source, including comments, blank lines,
// and redundant parentheses, is kept on the tree's tokens so that printing
// an unmodified tree reproduces the input exactly.
package parser

import "reflect"

// Node is a node of the concrete syntax tree. The set of node types is
// closed; only this package implements it.
type Node interface {
	node()
}

// Expr is an expression node. Expressions may be wrapped in any number of
// grouping parentheses.
type Expr interface {
	Node
	Group() *Parens
	exprNode()
}

// Stmt is a statement that occupies one or more full lines.
type Stmt interface {
	Node
	stmtNode()
}

// SmallStmt is a statement that can share a line with others via ";".
type SmallStmt interface {
	Node
	smallStmtNode()
}

// Suite is the body of a compound statement.
type Suite interface {
	Node
	suiteNode()
}

// Parens holds the grouping parentheses around an expression. Lpar is
// ordered outermost first and Rpar innermost first, so that printing Lpar,
// the expression, then Rpar reproduces the source.
type Parens struct {
	Lpar []*Token
	Rpar []*Token
}

// Group returns the parentheses themselves.
func (p *Parens) Group() *Parens { return p }

// Module is the root of a parsed file.
type Module struct {
	Body     []Stmt
	End      *Token // ENDMARKER; its prefix holds trailing trivia.
	Encoding string // Source encoding from a coding cookie, "utf-8" otherwise.
	BOM      bool   // Whether the source started with a UTF-8 byte order mark.
}

// ---------------------------------------------------------------------------
// Atoms.

// Name is an identifier.
type Name struct {
	Parens
	Tok *Token
}

// Number is an integer, float or imaginary literal.
type Number struct {
	Parens
	Tok *Token
}

// String is a plain string or bytes literal.
type String struct {
	Parens
	Tok *Token
}

// FString is a formatted string literal. Its replacement fields are not
// parsed.
type FString struct {
	Parens
	Tok *Token
}

// Concat is an implicit concatenation of adjacent string literals. A run
// of N literals nests to the right: "a" "b" "c" is Concat{a, Concat{b, c}}.
type Concat struct {
	Parens
	Left  Expr
	Right Expr
}

// Ellipsis is the "..." literal.
type Ellipsis struct {
	Parens
	Tok *Token
}

// ---------------------------------------------------------------------------
// Primaries.

// Attribute is "value.attr".
type Attribute struct {
	Parens
	Value Expr
	Dot   *Token
	Attr  *Name
}

// Subscript is "value[slice]".
type Subscript struct {
	Parens
	Value    Expr
	Lbracket *Token
	Elements []*SubscriptElement
	Rbracket *Token
}

// SubscriptElement holds an index expression or a *Slice.
type SubscriptElement struct {
	Value Node
	Comma *Token
}

// Slice is "lower:upper:step" inside a subscript. Any part may be nil.
type Slice struct {
	Lower  Expr
	First  *Token
	Upper  Expr
	Second *Token
	Step   Expr
}

// Call is a function call with its argument list.
type Call struct {
	Parens
	Func Expr
	Lpar *Token
	Args []*Arg
	Rpar *Token
}

// Arg is one call argument: positional, "*x", "**x", or "name=value".
type Arg struct {
	Star    *Token
	Keyword *Name
	Equal   *Token
	Value   Expr
	Comma   *Token
}

// ---------------------------------------------------------------------------
// Operators.

// BinaryOp is an arithmetic or bitwise operation.
type BinaryOp struct {
	Parens
	Left  Expr
	Op    *Token
	Right Expr
}

// BoolOp is "and" or "or".
type BoolOp struct {
	Parens
	Left  Expr
	Op    *Token
	Right Expr
}

// UnaryOp is "-x", "+x", "~x" or "not x".
type UnaryOp struct {
	Parens
	Op      *Token
	Operand Expr
}

// Compare is a chain of comparisons such as "a < b <= c".
type Compare struct {
	Parens
	Left        Expr
	Comparisons []*CompTarget
}

// CompTarget is one operator and right-hand operand of a comparison. Op
// holds two tokens for "not in" and "is not".
type CompTarget struct {
	Op         []*Token
	Comparator Expr
}

// IfExp is "body if test else orelse".
type IfExp struct {
	Parens
	Body   Expr
	If     *Token
	Test   Expr
	Else   *Token
	Orelse Expr
}

// Lambda is an anonymous function.
type Lambda struct {
	Parens
	Kw     *Token
	Params *Params
	Colon  *Token
	Body   Expr
}

// Await is "await value".
type Await struct {
	Parens
	Kw    *Token
	Value Expr
}

// Yield is "yield" or "yield from" with an optional value.
type Yield struct {
	Parens
	Kw    *Token
	From  *Token
	Value Expr
}

// NamedExpr is "target := value".
type NamedExpr struct {
	Parens
	Target Expr
	Walrus *Token
	Value  Expr
}

// Starred is "*value" in an assignment target or display.
type Starred struct {
	Parens
	Star  *Token
	Value Expr
}

// MatchAs is a capture pattern "pattern as name" in a case clause.
type MatchAs struct {
	Parens
	Pattern Expr
	As      *Token
	Name    *Name
}

// ---------------------------------------------------------------------------
// Collections and comprehensions.

// Tuple may have no parentheses, as in "a, b = b, a".
type Tuple struct {
	Parens
	Elements []*Element
}

// List is a list display.
type List struct {
	Parens
	Lbracket *Token
	Elements []*Element
	Rbracket *Token
}

// Set is a set display.
type Set struct {
	Parens
	Lbrace   *Token
	Elements []*Element
	Rbrace   *Token
}

// Element is one entry of a list, set or tuple with its trailing comma.
type Element struct {
	Value Expr
	Comma *Token
}

// Dict is a dict display.
type Dict struct {
	Parens
	Lbrace   *Token
	Elements []*DictElement
	Rbrace   *Token
}

// DictElement is "key: value", or "**value" when Star is set.
type DictElement struct {
	Star  *Token
	Key   Expr
	Colon *Token
	Value Expr
	Comma *Token
}

// ListComp is a list comprehension.
type ListComp struct {
	Parens
	Lbracket *Token
	Elt      Expr
	For      *CompFor
	Rbracket *Token
}

// SetComp is a set comprehension.
type SetComp struct {
	Parens
	Lbrace *Token
	Elt    Expr
	For    *CompFor
	Rbrace *Token
}

// DictComp is a dict comprehension.
type DictComp struct {
	Parens
	Lbrace *Token
	Key    Expr
	Colon  *Token
	Value  Expr
	For    *CompFor
	Rbrace *Token
}

// GeneratorExp owns its parentheses unless it is the sole argument of a
// call, where it borrows the call's.
type GeneratorExp struct {
	Parens
	Elt Expr
	For *CompFor
}

// CompFor is one "for ... in ..." clause of a comprehension. Further
// clauses chain through Inner.
type CompFor struct {
	Async  *Token
	For    *Token
	Target Expr
	In     *Token
	Iter   Expr
	Ifs    []*CompIf
	Inner  *CompFor
}

// CompIf is an "if" filter of a comprehension clause.
type CompIf struct {
	If   *Token
	Test Expr
}

// ---------------------------------------------------------------------------
// Parameters.

// Params is the parameter list of a def or lambda.
type Params struct {
	Params []*Param
}

// Param is one parameter. Star is "*", "**", or "/"; a bare "*" or "/" has
// no Name.
type Param struct {
	Star       *Token
	Name       *Name
	Colon      *Token
	Annotation Expr
	Equal      *Token
	Default    Expr
	Comma      *Token
}

// TypeParams is a bracketed type parameter list.
type TypeParams struct {
	Lbracket *Token
	Params   []*TypeParam
	Rbracket *Token
}

// TypeParam is one entry of a type parameter list.
type TypeParam struct {
	Star    *Token
	Name    *Name
	Colon   *Token
	Bound   Expr
	Equal   *Token
	Default Expr
	Comma   *Token
}

// ---------------------------------------------------------------------------
// Simple statements.

// SimpleStatementLine is one or more small statements separated by ";"
// and terminated by a newline. Semis has one entry per Body element; the
// entry is nil when no semicolon follows.
type SimpleStatementLine struct {
	Body    []SmallStmt
	Semis   []*Token
	Newline *Token
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Value Expr
}

// Assign is "t1 = t2 = value".
type Assign struct {
	Targets []*AssignTarget
	Value   Expr
}

// AssignTarget is one "target =" of an assignment.
type AssignTarget struct {
	Target Expr
	Equal  *Token
}

// AugAssign is "target op= value".
type AugAssign struct {
	Target Expr
	Op     *Token
	Value  Expr
}

// AnnAssign is an annotated assignment.
type AnnAssign struct {
	Target     Expr
	Colon      *Token
	Annotation Expr
	Equal      *Token
	Value      Expr
}

// Return is a return statement. Value is nil for a bare return.
type Return struct {
	Kw    *Token
	Value Expr
}

// Pass is the pass statement.
type Pass struct{ Kw *Token }

// Break is the break statement.
type Break struct{ Kw *Token }

// Continue is the continue statement.
type Continue struct{ Kw *Token }

// Del is a del statement.
type Del struct {
	Kw     *Token
	Target Expr
}

// Global is a "global" or "nonlocal" statement, told apart by Kw.
type Global struct {
	Kw    *Token
	Names []*NameItem
}

// NameItem is one name of a global or nonlocal statement.
type NameItem struct {
	Name  *Name
	Comma *Token
}

// Import is "import a.b as c, ...".
type Import struct {
	Kw    *Token
	Names []*ImportAlias
}

// ImportAlias is "name" or "name as alias". Name is a *Name or a dotted
// *Attribute chain.
type ImportAlias struct {
	Name   Expr
	As     *Token
	AsName *Name
	Comma  *Token
}

// ImportFrom is "from module import ...".
type ImportFrom struct {
	From   *Token
	Dots   []*Token
	Module Expr
	Import *Token
	Lpar   *Token
	Names  []*ImportAlias
	Star   *Token
	Rpar   *Token
}

// Raise is a raise statement with optional exception and cause.
type Raise struct {
	Kw    *Token
	Exc   Expr
	From  *Token
	Cause Expr
}

// Assert is an assert statement.
type Assert struct {
	Kw    *Token
	Test  Expr
	Comma *Token
	Msg   Expr
}

// TypeAlias is a "type X = ..." statement.
type TypeAlias struct {
	Kw         *Token
	Name       *Name
	TypeParams *TypeParams
	Equal      *Token
	Value      Expr
}

// ---------------------------------------------------------------------------
// Compound statements.

// IndentedBlock is a suite that starts on its own line.
type IndentedBlock struct {
	Colon   *Token
	Newline *Token
	Body    []Stmt
}

// SimpleSuite is a suite on the same line as its header, as in "if x: y".
type SimpleSuite struct {
	Colon   *Token
	Body    []SmallStmt
	Semis   []*Token
	Newline *Token
}

// If is an "if" or "elif" clause. Orelse is nil, an *If for "elif", or an
// *Else.
type If struct {
	Kw     *Token
	Test   Expr
	Body   Suite
	Orelse Node
}

// Else is the else clause of an if, loop or try.
type Else struct {
	Kw   *Token
	Body Suite
}

// While is a while loop.
type While struct {
	Kw     *Token
	Test   Expr
	Body   Suite
	Orelse *Else
}

// For is a for loop, possibly async.
type For struct {
	Async  *Token
	Kw     *Token
	Target Expr
	In     *Token
	Iter   Expr
	Body   Suite
	Orelse *Else
}

// Try is a try statement with its handlers.
type Try struct {
	Kw       *Token
	Body     Suite
	Handlers []*ExceptHandler
	Orelse   *Else
	Finally  *Finally
}

// ExceptHandler is an except or except* clause.
type ExceptHandler struct {
	Kw   *Token
	Star *Token
	Type Expr
	As   *Token
	Name *Name
	Body Suite
}

// Finally is the finally clause of a try.
type Finally struct {
	Kw   *Token
	Body Suite
}

// With keeps the optional parentheses around its items separately from the
// items themselves.
type With struct {
	Async *Token
	Kw    *Token
	Lpar  *Token
	Items []*WithItem
	Rpar  *Token
	Body  Suite
}

// WithItem is one "expr as target" of a with statement.
type WithItem struct {
	Item   Expr
	As     *Token
	Target Expr
	Comma  *Token
}

// FunctionDef is a def statement, possibly async.
type FunctionDef struct {
	Decorators []*Decorator
	Async      *Token
	Kw         *Token
	Name       *Name
	TypeParams *TypeParams
	Lpar       *Token
	Params     *Params
	Rpar       *Token
	Arrow      *Token
	Returns    Expr
	Body       Suite
}

// ClassDef is a class statement.
type ClassDef struct {
	Decorators []*Decorator
	Kw         *Token
	Name       *Name
	TypeParams *TypeParams
	Lpar       *Token
	Args       []*Arg
	Rpar       *Token
	Body       Suite
}

// Decorator is one "@expr" line.
type Decorator struct {
	At      *Token
	Value   Expr
	Newline *Token
}

// Match is a match statement.
type Match struct {
	Kw      *Token
	Subject Expr
	Colon   *Token
	Newline *Token
	Cases   []*MatchCase
}

// MatchCase is one case block of a match statement.
type MatchCase struct {
	Kw      *Token
	Pattern Expr
	If      *Token
	Guard   Expr
	Body    Suite
}

// ---------------------------------------------------------------------------
// Interface membership.

func (*Module) node()              {}
func (*Name) node()                {}
func (*Number) node()              {}
func (*String) node()              {}
func (*FString) node()             {}
func (*Concat) node()              {}
func (*Ellipsis) node()            {}
func (*Attribute) node()           {}
func (*Subscript) node()           {}
func (*SubscriptElement) node()    {}
func (*Slice) node()               {}
func (*Call) node()                {}
func (*Arg) node()                 {}
func (*BinaryOp) node()            {}
func (*BoolOp) node()              {}
func (*UnaryOp) node()             {}
func (*Compare) node()             {}
func (*CompTarget) node()          {}
func (*IfExp) node()               {}
func (*Lambda) node()              {}
func (*Await) node()               {}
func (*Yield) node()               {}
func (*NamedExpr) node()           {}
func (*Starred) node()             {}
func (*MatchAs) node()             {}
func (*Tuple) node()               {}
func (*List) node()                {}
func (*Set) node()                 {}
func (*Element) node()             {}
func (*Dict) node()                {}
func (*DictElement) node()         {}
func (*ListComp) node()            {}
func (*SetComp) node()             {}
func (*DictComp) node()            {}
func (*GeneratorExp) node()        {}
func (*CompFor) node()             {}
func (*CompIf) node()              {}
func (*Params) node()              {}
func (*Param) node()               {}
func (*TypeParams) node()          {}
func (*TypeParam) node()           {}
func (*SimpleStatementLine) node() {}
func (*ExprStmt) node()            {}
func (*Assign) node()              {}
func (*AssignTarget) node()        {}
func (*AugAssign) node()           {}
func (*AnnAssign) node()           {}
func (*Return) node()              {}
func (*Pass) node()                {}
func (*Break) node()               {}
func (*Continue) node()            {}
func (*Del) node()                 {}
func (*Global) node()              {}
func (*NameItem) node()            {}
func (*Import) node()              {}
func (*ImportAlias) node()         {}
func (*ImportFrom) node()          {}
func (*Raise) node()               {}
func (*Assert) node()              {}
func (*TypeAlias) node()           {}
func (*IndentedBlock) node()       {}
func (*SimpleSuite) node()         {}
func (*If) node()                  {}
func (*Else) node()                {}
func (*While) node()               {}
func (*For) node()                 {}
func (*Try) node()                 {}
func (*ExceptHandler) node()       {}
func (*Finally) node()             {}
func (*With) node()                {}
func (*WithItem) node()            {}
func (*FunctionDef) node()         {}
func (*ClassDef) node()            {}
func (*Decorator) node()           {}
func (*Match) node()               {}
func (*MatchCase) node()           {}

func (*Name) exprNode()         {}
func (*Number) exprNode()       {}
func (*String) exprNode()       {}
func (*FString) exprNode()      {}
func (*Concat) exprNode()       {}
func (*Ellipsis) exprNode()     {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*Call) exprNode()         {}
func (*BinaryOp) exprNode()     {}
func (*BoolOp) exprNode()       {}
func (*UnaryOp) exprNode()      {}
func (*Compare) exprNode()      {}
func (*IfExp) exprNode()        {}
func (*Lambda) exprNode()       {}
func (*Await) exprNode()        {}
func (*Yield) exprNode()        {}
func (*NamedExpr) exprNode()    {}
func (*Starred) exprNode()      {}
func (*MatchAs) exprNode()      {}
func (*Tuple) exprNode()        {}
func (*List) exprNode()         {}
func (*Set) exprNode()          {}
func (*Dict) exprNode()         {}
func (*ListComp) exprNode()     {}
func (*SetComp) exprNode()      {}
func (*DictComp) exprNode()     {}
func (*GeneratorExp) exprNode() {}

func (*SimpleStatementLine) stmtNode() {}
func (*If) stmtNode()                  {}
func (*While) stmtNode()               {}
func (*For) stmtNode()                 {}
func (*Try) stmtNode()                 {}
func (*With) stmtNode()                {}
func (*FunctionDef) stmtNode()         {}
func (*ClassDef) stmtNode()            {}
func (*Match) stmtNode()               {}

func (*ExprStmt) smallStmtNode()   {}
func (*Assign) smallStmtNode()     {}
func (*AugAssign) smallStmtNode()  {}
func (*AnnAssign) smallStmtNode()  {}
func (*Return) smallStmtNode()     {}
func (*Pass) smallStmtNode()       {}
func (*Break) smallStmtNode()      {}
func (*Continue) smallStmtNode()   {}
func (*Del) smallStmtNode()        {}
func (*Global) smallStmtNode()     {}
func (*Import) smallStmtNode()     {}
func (*ImportFrom) smallStmtNode() {}
func (*Raise) smallStmtNode()      {}
func (*Assert) smallStmtNode()     {}
func (*TypeAlias) smallStmtNode()  {}

func (*IndentedBlock) suiteNode() {}
func (*SimpleSuite) suiteNode()   {}

// KindOf returns the type name of a node, e.g. "Call".
func KindOf(n Node) string {
	if IsNil(n) {
		return ""
	}
	return reflect.TypeOf(n).Elem().Name()
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Copy returns a shallow copy of n. Slices and tokens are shared with the
// original, so callers replacing them must allocate new ones.
func Copy[T Node](n T) T {
	if IsNil(n) {
		return n
	}
	v := reflect.ValueOf(n)
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(T)
}
