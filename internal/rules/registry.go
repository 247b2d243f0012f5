// Package rules manages registration of lint and fix rules.
package rules

import (
	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/linter"
)

var (
	lintRules []linter.Rule
	fixRules  []formatter.FixRule
)

// RegisterLintRule adds a lint rule to the registry.
func RegisterLintRule(r linter.Rule) {
	lintRules = append(lintRules, r)
}

// LintRules returns all registered lint rules in registration order.
func LintRules() []linter.Rule {
	return lintRules
}

// RegisterFixRule adds a fix rule to the registry.
// Rules are applied to each node in the order they are registered.
func RegisterFixRule(r formatter.FixRule) {
	fixRules = append(fixRules, r)
}

// FixRules returns all registered fix rules in execution order.
func FixRules() []formatter.FixRule {
	return fixRules
}
