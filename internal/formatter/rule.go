package formatter

import "github.com/donaldgifford/slyp/internal/parser"

// FixRule rewrites tree nodes. Rules are applied in registered order to
// every node, after the node's children have been rewritten.
type FixRule interface {
	// Name returns a short identifier for the rule (e.g., "merge_strings").
	Name() string

	// Fix receives a node and returns its replacement, or n itself when the
	// rule does not apply. Rules must not mutate the fields of n; return a
	// shallow copy (parser.Copy) where changes are needed. Token text is
	// changed only through the Context so that suppressed edits can be
	// undone.
	Fix(n parser.Node, ctx *Context) parser.Node
}
