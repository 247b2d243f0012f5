package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports source text that could not be tokenized or parsed.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Operators ordered longest first so that scanning is greedy.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", ":=", "**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">", "=", "@", "!",
}

type tokenizer struct {
	src         string
	pos         int
	prefixStart int
	line        int
	lineStart   int
	depth       int
	indents     []int
	atLineStart bool
	tokens      []*Token
}

// Tokenize splits decoded source text into tokens. Every byte of src ends
// up in exactly one token's Prefix or Value.
func Tokenize(src string) ([]*Token, error) {
	t := &tokenizer{
		src:         src,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

func (t *tokenizer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: t.line, Col: t.pos - t.lineStart, Msg: fmt.Sprintf(format, args...)}
}

func (t *tokenizer) run() error {
	for {
		if t.atLineStart {
			t.atLineStart = false
			if err := t.indentation(); err != nil {
				return err
			}
		}
		if t.pos >= len(t.src) {
			return t.finish()
		}

		c := t.src[t.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			t.advanceTo(t.pos + 1)

		case c == '\\':
			n := newlineLen(t.src, t.pos+1)
			if n == 0 {
				return t.errorf("unexpected character after line continuation character")
			}
			t.advanceTo(t.pos + 1 + n)

		case c == '#':
			end := strings.IndexAny(t.src[t.pos:], "\r\n")
			if end < 0 {
				end = len(t.src) - t.pos
			}
			t.advanceTo(t.pos + end)

		case c == '\n' || c == '\r':
			n := newlineLen(t.src, t.pos)
			if t.depth > 0 || t.lineIsEmpty() {
				t.advanceTo(t.pos + n)
				if t.depth == 0 {
					t.atLineStart = true
				}
				continue
			}
			t.emit(TokenNewline, t.pos+n)
			t.atLineStart = true

		default:
			if err := t.scanToken(); err != nil {
				return err
			}
		}
	}
}

// lineIsEmpty reports whether no token has been emitted on the current
// logical line, i.e. a newline here ends a blank or comment-only line.
func (t *tokenizer) lineIsEmpty() bool {
	if len(t.tokens) == 0 {
		return true
	}
	switch t.tokens[len(t.tokens)-1].Kind {
	case TokenNewline, TokenIndent, TokenDedent:
		return true
	}
	return false
}

// indentation measures the leading whitespace of a new line and emits
// INDENT or DEDENT tokens. The whitespace itself is left in place so that
// it becomes part of the next token's prefix.
func (t *tokenizer) indentation() error {
	if t.depth > 0 {
		return nil
	}
	width := 0
	i := t.pos
loop:
	for i < len(t.src) {
		switch t.src[i] {
		case ' ':
			width++
		case '\t':
			width = (width/8 + 1) * 8
		case '\f':
			width = 0
		default:
			break loop
		}
		i++
	}
	if i >= len(t.src) {
		return nil
	}
	switch t.src[i] {
	case '\n', '\r', '#':
		return nil
	case '\\':
		// A continuation at the start of a line keeps the current level.
		return nil
	}

	top := t.indents[len(t.indents)-1]
	switch {
	case width > top:
		t.indents = append(t.indents, width)
		t.marker(TokenIndent)
	case width < top:
		for width < t.indents[len(t.indents)-1] {
			t.indents = t.indents[:len(t.indents)-1]
			t.marker(TokenDedent)
		}
		if width != t.indents[len(t.indents)-1] {
			return t.errorf("unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (t *tokenizer) finish() error {
	if t.depth > 0 {
		return t.errorf("unexpected EOF in multi-line statement")
	}
	if !t.lineIsEmpty() {
		// Source without a trailing newline still ends its last line.
		t.emit(TokenNewline, t.pos)
	}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.marker(TokenDedent)
	}
	t.emit(TokenEndMarker, t.pos)
	return nil
}

func (t *tokenizer) scanToken() error {
	c := t.src[t.pos]

	if c == '"' || c == '\'' {
		end, err := t.scanString(t.pos, false, false)
		if err != nil {
			return err
		}
		t.emit(TokenString, end)
		return nil
	}

	if isDigit(c) || (c == '.' && t.pos+1 < len(t.src) && isDigit(t.src[t.pos+1])) {
		t.emit(TokenNumber, scanNumber(t.src, t.pos))
		return nil
	}

	r, size := utf8.DecodeRuneInString(t.src[t.pos:])
	if isIdentStart(r) {
		end := t.pos + size
		for end < len(t.src) {
			r, size := utf8.DecodeRuneInString(t.src[end:])
			if !isIdentContinue(r) {
				break
			}
			end += size
		}
		word := t.src[t.pos:end]
		if end < len(t.src) && (t.src[end] == '"' || t.src[end] == '\'') {
			if fmtd, raw, ok := stringPrefix(word); ok {
				strEnd, err := t.scanString(end, fmtd, raw)
				if err != nil {
					return err
				}
				kind := TokenString
				if fmtd {
					kind = TokenFString
				}
				t.emit(kind, strEnd)
				return nil
			}
		}
		t.emit(TokenName, end)
		return nil
	}

	for _, op := range operators {
		if strings.HasPrefix(t.src[t.pos:], op) {
			switch op {
			case "(", "[", "{":
				t.depth++
			case ")", "]", "}":
				if t.depth == 0 {
					return t.errorf("unmatched %q", op)
				}
				t.depth--
			}
			t.emit(TokenOp, t.pos+len(op))
			return nil
		}
	}

	return t.errorf("invalid character %q", r)
}

// scanString scans a string literal whose opening quote is at start and
// returns the offset just past its closing quote.
func (t *tokenizer) scanString(start int, formatted, raw bool) (int, error) {
	src := t.src
	q := src[start]
	quote := src[start : start+1]
	if strings.HasPrefix(src[start:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	triple := len(quote) == 3
	i := start + len(quote)

	for {
		if i >= len(src) {
			return 0, t.errorf("unterminated string literal")
		}
		c := src[i]
		switch {
		case c == '\\':
			if formatted && !raw && i+1 < len(src) && (src[i+1] == '{' || src[i+1] == '}') {
				i++
				continue
			}
			i += 1 + max(1, newlineLen(src, i+1))
		case formatted && c == '{':
			if i+1 < len(src) && src[i+1] == '{' {
				i += 2
				continue
			}
			end, err := t.scanReplacement(i + 1)
			if err != nil {
				return 0, err
			}
			i = end
		case triple:
			if strings.HasPrefix(src[i:], quote) {
				return i + 3, nil
			}
			i++
		case c == q:
			return i + 1, nil
		case c == '\n' || c == '\r':
			return 0, t.errorf("unterminated string literal")
		default:
			i++
		}
	}
}

// scanReplacement skips an f-string replacement field starting just after
// its opening brace, including nested strings and a format spec.
func (t *tokenizer) scanReplacement(i int) (int, error) {
	src := t.src
	depth := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			end, err := t.scanString(i, false, false)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '}':
			if depth == 0 {
				return i + 1, nil
			}
			depth--
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if isIdentStart(r) {
				end := i + size
				for end < len(src) && isIdentContinue(rune(src[end])) {
					end++
				}
				if end < len(src) && (src[end] == '"' || src[end] == '\'') {
					if fmtd, raw, ok := stringPrefix(src[i:end]); ok {
						strEnd, err := t.scanString(end, fmtd, raw)
						if err != nil {
							return 0, err
						}
						i = strEnd
						continue
					}
				}
				i = end
				continue
			}
		}
		i++
	}
	return 0, t.errorf("unterminated f-string replacement field")
}

// stringPrefix validates a string prefix such as "rb" or "F".
func stringPrefix(word string) (formatted, raw, ok bool) {
	if len(word) > 2 {
		return false, false, false
	}
	var b, u bool
	for _, r := range strings.ToLower(word) {
		switch r {
		case 'r':
			if raw {
				return false, false, false
			}
			raw = true
		case 'b':
			if b {
				return false, false, false
			}
			b = true
		case 'u':
			u = true
		case 'f':
			if formatted {
				return false, false, false
			}
			formatted = true
		default:
			return false, false, false
		}
	}
	if u && len(word) > 1 {
		return false, false, false
	}
	if b && formatted {
		return false, false, false
	}
	return formatted, raw, true
}

func scanNumber(src string, i int) int {
	if src[i] == '0' && i+1 < len(src) && strings.IndexByte("xXoObB", src[i+1]) >= 0 {
		i += 2
		for i < len(src) && (isHexDigit(src[i]) || src[i] == '_') {
			i++
		}
		return i
	}
	digits := func() {
		for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
			i++
		}
	}
	digits()
	if i < len(src) && src[i] == '.' {
		i++
		digits()
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			i = j
			digits()
		}
	}
	if i < len(src) && (src[i] == 'j' || src[i] == 'J') {
		i++
	}
	return i
}

// emit appends a token whose value spans [t.pos, end). All trivia since the
// previous token becomes its prefix.
func (t *tokenizer) emit(kind TokenKind, end int) {
	start := t.pos
	tok := &Token{
		Kind:   kind,
		Value:  t.src[start:end],
		Prefix: t.src[t.prefixStart:start],
		Line:   t.line,
		Col:    start - t.lineStart,
	}
	t.advanceTo(end)
	t.prefixStart = end
	t.tokens = append(t.tokens, tok)
}

// marker appends a zero-width INDENT or DEDENT token.
func (t *tokenizer) marker(kind TokenKind) {
	t.tokens = append(t.tokens, &Token{Kind: kind, Line: t.line, Col: t.pos - t.lineStart})
}

func (t *tokenizer) advanceTo(end int) {
	for i := t.pos; i < end; i++ {
		if t.src[i] == '\n' {
			t.line++
			t.lineStart = i + 1
		}
	}
	t.pos = end
}

func newlineLen(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	switch s[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(s) && s[i+1] == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')) ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') ||
		(r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)))
}
