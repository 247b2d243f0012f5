package lint

import (
	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/compare"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/parser"
)

// MatchingBranches reports if/elif/else chains, conditional expressions,
// and try statements with two equivalent branches (W200-W203).
//
// A construct that is reported is not searched for nested matches. An if
// chain without a match is searched through its tests, every branch body,
// and the terminal else; its elif clauses are not treated as chains of
// their own.
type MatchingBranches struct{}

// Name returns the identifier for this rule.
func (r *MatchingBranches) Name() string {
	return "matching_branches"
}

// Check walks mod and stops at the first comparison error.
func (r *MatchingBranches) Check(mod *parser.Module, ctx *linter.Context) error {
	v := &branchVisitor{ctx: ctx}
	v.walk(mod)
	return v.err
}

type branchVisitor struct {
	ctx *linter.Context
	err error
}

func (v *branchVisitor) walk(n parser.Node) {
	parser.Walk(n, v.visit)
}

func (v *branchVisitor) visit(n parser.Node) bool {
	if v.err != nil {
		return false
	}
	switch x := n.(type) {
	case *parser.If:
		v.visitIf(x)
		return false

	case *parser.IfExp:
		return !v.check(x, [][]parser.Node{{x.Body}, {x.Orelse}})

	case *parser.Try:
		branches := [][]parser.Node{compare.Statements(x.Body)}
		for _, h := range x.Handlers {
			branches = append(branches, compare.Statements(h.Body))
		}
		if x.Orelse != nil {
			branches = append(branches, compare.Statements(x.Orelse))
		}
		if x.Finally != nil {
			branches = append(branches, compare.Statements(x.Finally))
		}
		return !v.check(x, branches)
	}
	return true
}

func (v *branchVisitor) visitIf(head *parser.If) {
	var (
		clauses  []*parser.If
		branches [][]parser.Node
		terminal *parser.Else
	)
	var cur parser.Node = head
loop:
	for {
		switch x := cur.(type) {
		case *parser.If:
			clauses = append(clauses, x)
			branches = append(branches, compare.Statements(x.Body))
			cur = x.Orelse
		case *parser.Else:
			terminal = x
			branches = append(branches, compare.Statements(x.Body))
			break loop
		default:
			branches = append(branches, nil)
			break loop
		}
	}

	if v.check(head, branches) {
		return
	}
	for _, c := range clauses {
		v.walk(c.Test)
		v.walk(c.Body)
	}
	if terminal != nil {
		v.walk(terminal.Body)
	}
}

// check compares branches and reports the first match at n. It returns
// whether a match was reported.
func (v *branchVisitor) check(n parser.Node, branches [][]parser.Node) bool {
	pair, found, err := compare.Product(branches)
	if err != nil {
		v.err = err
		return true
	}
	if !found {
		return false
	}

	code := codes.MatchingBranches
	switch {
	case pair.Distance == 1 && pair.Trivial:
		code = codes.MatchingTrivial
	case pair.Distance > 1 && pair.Trivial:
		code = codes.MatchingNonAdjacentTrivial
	case pair.Distance > 1:
		code = codes.MatchingNonAdjacent
	}
	v.ctx.Report(v.ctx.Line(n), code)
	return true
}
