// Package compare decides structural equivalence of syntax subtrees and
// grades equivalent subtrees as trivial or substantive.
package compare

import (
	"errors"

	"github.com/donaldgifford/slyp/internal/parser"
)

// ErrRecursionLimit is returned when two subtrees nest deeper than the
// comparator will follow.
var ErrRecursionLimit = errors.New("recursion limit reached during comparison")

// maxDepth bounds the recursion of a single comparison.
const maxDepth = 1000

// Result is the outcome of comparing two subtrees. Trivial is only
// meaningful when Match is true.
type Result struct {
	Match   bool
	Trivial bool
}

// Nodes compares two subtrees. Positions, grouping parentheses, comments,
// and whitespace are ignored; node types and token text must agree.
func Nodes(left, right parser.Node) (Result, error) {
	c := &comparer{}
	ok, err := c.nodes(left, right)
	if err != nil || !ok {
		return Result{}, err
	}
	return Result{Match: true, Trivial: IsTrivial(left)}, nil
}

// Lists compares two statement or expression lists pairwise.
func Lists(left, right []parser.Node) (Result, error) {
	c := &comparer{}
	ok, err := c.lists(left, right)
	if err != nil || !ok {
		return Result{}, err
	}
	return Result{Match: true, Trivial: IsTrivialList(left)}, nil
}

// Pair identifies two equivalent candidates by index. Distance is J-I, so
// a distance of 1 means the candidates are adjacent.
type Pair struct {
	I, J     int
	Distance int
	Trivial  bool
}

// Product compares every pair of candidates in index order and returns the
// first equivalent pair: the lowest I, then the lowest J.
func Product(candidates [][]parser.Node) (Pair, bool, error) {
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			res, err := Lists(candidates[i], candidates[j])
			if err != nil {
				return Pair{}, false, err
			}
			if res.Match {
				return Pair{I: i, J: j, Distance: j - i, Trivial: res.Trivial}, true, nil
			}
		}
	}
	return Pair{}, false, nil
}

// Statements flattens a suite into its statements. Simple statement lines
// contribute their small statements, so "if x: y" and an indented "y"
// compare equal.
func Statements(s parser.Node) []parser.Node {
	var out []parser.Node
	switch x := s.(type) {
	case *parser.IndentedBlock:
		for _, stmt := range x.Body {
			out = append(out, flatten(stmt)...)
		}
	case *parser.SimpleSuite:
		for _, small := range x.Body {
			out = append(out, small)
		}
	case *parser.Else:
		return Statements(x.Body)
	case *parser.Finally:
		return Statements(x.Body)
	}
	return out
}

func flatten(stmt parser.Stmt) []parser.Node {
	line, ok := stmt.(*parser.SimpleStatementLine)
	if !ok {
		return []parser.Node{stmt}
	}
	out := make([]parser.Node, 0, len(line.Body))
	for _, small := range line.Body {
		out = append(out, small)
	}
	return out
}

type comparer struct {
	depth int
}

func (c *comparer) nodes(left, right parser.Node) (bool, error) {
	lnil, rnil := parser.IsNil(left), parser.IsNil(right)
	if lnil || rnil {
		return lnil == rnil, nil
	}

	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxDepth {
		return false, ErrRecursionLimit
	}

	if isSuite(left) && isSuite(right) {
		return c.lists(Statements(left), Statements(right))
	}
	if parser.KindOf(left) != parser.KindOf(right) {
		return false, nil
	}

	lf, rf := parser.Fields(left), parser.Fields(right)
	if len(lf) != len(rf) {
		return false, nil
	}
	for i := range lf {
		a, b := lf[i], rf[i]
		if a.Name != b.Name || a.Kind != b.Kind {
			return false, nil
		}
		if a.Trivia {
			continue
		}
		var ok bool
		var err error
		switch a.Kind {
		case parser.FieldValue:
			ok = a.Value == b.Value
		case parser.FieldList:
			ok, err = c.lists(a.List, b.List)
		default:
			ok, err = c.nodes(a.Node, b.Node)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (c *comparer) lists(left, right []parser.Node) (bool, error) {
	if len(left) != len(right) {
		return false, nil
	}
	for i := range left {
		ok, err := c.nodes(left[i], right[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func isSuite(n parser.Node) bool {
	switch n.(type) {
	case *parser.IndentedBlock, *parser.SimpleSuite, *parser.Else, *parser.Finally:
		return true
	}
	return false
}
