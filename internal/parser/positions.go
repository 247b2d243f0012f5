package parser

import "strings"

// Position is the source span of a node. Lines are 1-indexed, columns are
// 0-indexed byte offsets, and the end is exclusive.
type Position struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// Positions maps nodes of a freshly parsed tree to their source spans.
// Positions are computed once; nodes created by rewrites have none.
type Positions map[Node]Position

// ComputePositions records the span of every node under root.
func ComputePositions(root Node) Positions {
	r := &positionRecorder{pos: make(Positions)}
	w := &tokenWalker{v: r}
	w.walk(root)
	return r.pos
}

// Line returns the start line of n, or 0 when n has no recorded position.
func (p Positions) Line(n Node) int {
	return p[n].Line
}

type positionRecorder struct {
	pos     Positions
	pending []Node
	last    *Token
}

func (r *positionRecorder) enter(n Node) {
	r.pending = append(r.pending, n)
}

func (r *positionRecorder) token(t *Token) bool {
	for _, n := range r.pending {
		r.pos[n] = Position{Line: t.Line, Col: t.Col}
	}
	r.pending = r.pending[:0]
	r.last = t
	return true
}

func (r *positionRecorder) leave(n Node) {
	if k := len(r.pending); k > 0 && r.pending[k-1] == n {
		// The node produced no tokens; give it an empty span at the end of
		// the previous token.
		r.pending = r.pending[:k-1]
		if r.last != nil {
			line, col := tokenEnd(r.last)
			r.pos[n] = Position{Line: line, Col: col, EndLine: line, EndCol: col}
		}
		return
	}
	p := r.pos[n]
	p.EndLine, p.EndCol = tokenEnd(r.last)
	r.pos[n] = p
}

func tokenEnd(t *Token) (line, col int) {
	line = t.EndLine()
	if i := strings.LastIndexByte(t.Value, '\n'); i >= 0 {
		return line, len(t.Value) - i - 1
	}
	return line, t.Col + len(t.Value)
}
