package rules

import (
	"github.com/donaldgifford/slyp/internal/rules/fix"
	"github.com/donaldgifford/slyp/internal/rules/lint"
)

func init() {
	// Lint rules report in any order; diagnostics are sorted afterwards.
	RegisterLintRule(&lint.StringConcat{})
	RegisterLintRule(&lint.ConcatPlacement{})
	RegisterLintRule(&lint.NoneReturn{})
	RegisterLintRule(&lint.AnnotationWrap{})
	RegisterLintRule(&lint.MatchingBranches{})

	// Fix rules run in this order on every node. Parentheses go first so
	// the string rules see bare concatenations; keyword spacing has to be
	// settled before wrapper parentheses are dropped.
	RegisterFixRule(&fix.RedundantParens{})
	RegisterFixRule(&fix.MergeStrings{})
	RegisterFixRule(&fix.MissingSpace{})
	RegisterFixRule(&fix.WrapperParens{})
	RegisterFixRule(&fix.RefoldConcat{})
	RegisterFixRule(&fix.NoneReturn{})
	RegisterFixRule(&fix.InitAnnotation{})
	RegisterFixRule(&fix.BuiltinCalls{})
}
