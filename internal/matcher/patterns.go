package matcher

// Patterns shared by the lint checks and the fixer.
var (
	// MultilineConcat is an implicit string concatenation that crosses a
	// line break and has no parentheses of its own.
	MultilineConcat = Shape("Concat",
		Field("whitespace_between", Contains("\n")),
		Unparenthesized(),
	)

	// SameLineWhitespace is trivia without a line break.
	SameLineWhitespace = NotContains("\n")

	// ConcatElement is a collection element holding a MultilineConcat.
	ConcatElement = Shape("Element", Field("value", MultilineConcat))

	// ConcatInElementList is an element list with a MultilineConcat
	// element alongside at least one other element.
	ConcatInElementList = OneOf(
		Seq(AtLeastN(1), ConcatElement, ZeroOrMore()),
		Seq(ZeroOrMore(), ConcatElement, AtLeastN(1)),
	)

	// InnermostParensParent matches parents whose child must keep its
	// innermost parentheses: a starred argument or a unary operation.
	InnermostParensParent = OneOf(
		Shape("Arg", Field("star", Contains("*"))),
		Shape("UnaryOp"),
	)

	// IsNoneCheck is "<name> is None".
	IsNoneCheck = Shape("Compare",
		Field("left", Shape("Name")),
		Field("comparisons", Seq(
			Shape("CompTarget",
				Field("operator", Value("is")),
				Field("comparator", Shape("Name", Field("value", Value("None")))),
			),
		)),
	)
)

// ReturnsName matches a suite whose only statement is "return <name>".
// Indented blocks and inline suites are both accepted.
func ReturnsName(name string) Pattern {
	ret := Seq(Shape("Return", Field("value", Shape("Name", Field("value", Value(name))))))
	return OneOf(
		Shape("IndentedBlock", Field("body", Seq(Shape("SimpleStatementLine", Field("body", ret))))),
		Shape("SimpleSuite", Field("body", ret)),
	)
}
