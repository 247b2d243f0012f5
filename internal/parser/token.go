package parser

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenName is an identifier or keyword.
	TokenName TokenKind = iota
	// TokenNumber is an integer, float, or imaginary literal.
	TokenNumber
	// TokenString is a plain (non-formatted) string or bytes literal.
	TokenString
	// TokenFString is a formatted string literal, kept as one opaque token.
	TokenFString
	// TokenOp is an operator or delimiter.
	TokenOp
	// TokenNewline ends a logical line. Its value is "\n", "\r\n", or "" at EOF.
	TokenNewline
	// TokenIndent opens an indented block. It carries no text.
	TokenIndent
	// TokenDedent closes an indented block. It carries no text.
	TokenDedent
	// TokenEndMarker terminates the stream. Its prefix holds trailing trivia.
	TokenEndMarker
)

var tokenKindNames = map[TokenKind]string{
	TokenName:      "NAME",
	TokenNumber:    "NUMBER",
	TokenString:    "STRING",
	TokenFString:   "FSTRING",
	TokenOp:        "OP",
	TokenNewline:   "NEWLINE",
	TokenIndent:    "INDENT",
	TokenDedent:    "DEDENT",
	TokenEndMarker: "ENDMARKER",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexical token together with the trivia that precedes
// it. Concatenating Prefix+Value over every token of a file reproduces the
// file exactly.
type Token struct {
	Kind   TokenKind
	Value  string
	Prefix string // Whitespace, comments, blank lines, and line continuations.
	Line   int    // 1-indexed line of Value. Zero for synthesized tokens.
	Col    int    // 0-indexed byte column of Value.

	// SpaceBefore and SpaceAfter ask the writer to insert a single space
	// when this token would otherwise fuse with its neighbour, e.g. after
	// "return(x)" loses its parentheses.
	SpaceBefore bool
	SpaceAfter  bool
}

// NewToken returns a synthesized token with no source position.
func NewToken(kind TokenKind, value, prefix string) *Token {
	return &Token{Kind: kind, Value: value, Prefix: prefix}
}

// Is reports whether t is an operator or name token with the given value.
func (t *Token) Is(value string) bool {
	return t != nil && (t.Kind == TokenOp || t.Kind == TokenName) && t.Value == value
}

// Clone returns a copy of the token.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// EndLine returns the line on which the token's value ends.
func (t *Token) EndLine() int {
	n := t.Line
	for i := 0; i < len(t.Value); i++ {
		if t.Value[i] == '\n' {
			n++
		}
	}
	return n
}
