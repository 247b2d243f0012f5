package parser

import "strings"

// Walk traverses the tree under n in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(n Node, fn func(n Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Comment is a "#" comment found in the trivia of a token.
type Comment struct {
	Line int
	Text string // Including the leading "#".
}

// Comments returns every comment under n in source order. It relies on
// token positions and is meant for freshly parsed trees.
func Comments(n Node) []Comment {
	var out []Comment
	EachToken(n, func(t *Token) bool {
		out = append(out, PrefixComments(t)...)
		return true
	})
	return out
}

// PrefixComments returns the comments in the prefix of t.
func PrefixComments(t *Token) []Comment {
	if !strings.Contains(t.Prefix, "#") {
		return nil
	}
	var out []Comment
	line := t.Line - strings.Count(t.Prefix, "\n")
	for _, l := range strings.SplitAfter(t.Prefix, "\n") {
		if i := strings.IndexByte(l, '#'); i >= 0 {
			out = append(out, Comment{Line: line, Text: strings.TrimRight(l[i:], "\r\n")})
		}
		line++
	}
	return out
}
