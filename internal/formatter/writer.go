// Package formatter provides the rewrite engine, writer, and rule interface.
package formatter

import (
	"strings"

	"github.com/donaldgifford/slyp/internal/parser"
)

// Write serializes a syntax tree back into Python source.
//
// Every token is emitted as its prefix followed by its value, so an
// unmodified tree reproduces its input byte for byte. A rule that removes
// the token separating two words, such as the parentheses in "return(x)",
// marks the neighbouring tokens with SpaceBefore or SpaceAfter; the writer
// then inserts a single space if the two would otherwise fuse.
func Write(n parser.Node) string {
	var b strings.Builder
	var prev *parser.Token

	parser.EachToken(n, func(t *parser.Token) bool {
		if prev != nil && t.Prefix == "" && (prev.SpaceAfter || t.SpaceBefore) && wouldFuse(&b, t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Prefix)
		b.WriteString(t.Value)
		if t.Value != "" {
			prev = t
		}
		return true
	})

	return b.String()
}

// wouldFuse reports whether t written directly after the current output
// would run into the previous word.
func wouldFuse(b *strings.Builder, t *parser.Token) bool {
	out := b.String()
	if out == "" || t.Value == "" {
		return false
	}
	last := out[len(out)-1]
	first := t.Value[0]
	return isWordByte(last) && (isWordByte(first) || first == '"' || first == '\'')
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c >= 0x80
}
