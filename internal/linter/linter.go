// Package linter runs diagnostic checks over a parsed module and filters
// their results.
package linter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/compare"
	"github.com/donaldgifford/slyp/internal/parser"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Line int
	File string
	Code string
}

// String formats the diagnostic as "file:line: message (code)".
func (d Diagnostic) String() string {
	msg := d.Code
	if c, ok := codes.Lookup(d.Code); ok {
		msg = c.String()
	}
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, msg)
}

// Rule is a check over a whole module.
type Rule interface {
	// Name returns a short identifier for the rule.
	Name() string

	// Check reports diagnostics through ctx. An error aborts this rule
	// only; compare.ErrRecursionLimit is reported as its own diagnostic.
	Check(mod *parser.Module, ctx *Context) error
}

// Context accumulates the diagnostics of one file. A fresh Context is
// used for every file, so nothing leaks between runs.
type Context struct {
	File string

	pos   parser.Positions
	diags map[Diagnostic]struct{}
}

// NewContext returns an empty Context for file.
func NewContext(file string) *Context {
	return &Context{File: file, diags: make(map[Diagnostic]struct{})}
}

// Report records code at line. Reporting the same line and code twice
// keeps one diagnostic.
func (c *Context) Report(line int, code string) {
	c.diags[Diagnostic{Line: line, File: c.File, Code: code}] = struct{}{}
}

// Line returns the start line of a node of the module being checked.
func (c *Context) Line(n parser.Node) int {
	if p, ok := c.pos[n]; ok {
		return p.Line
	}
	if t := parser.FirstToken(n); t != nil {
		return t.Line
	}
	return 0
}

// Reset discards all recorded diagnostics.
func (c *Context) Reset() {
	clear(c.diags)
}

// Diagnostics returns the recorded diagnostics sorted by line, then code.
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(c.diags))
	for d := range c.diags {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Diagnostic) int {
		if n := cmp.Compare(a.Line, b.Line); n != 0 {
			return n
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return out
}

// Analyze parses src and runs every rule over it, returning the raw,
// unfiltered diagnostics. Unparsable input yields a single X001 (or X002
// when the parser gave up on nesting depth) on line 1 and no further
// checks. A rule
// that exceeds the comparison depth limit adds X002 and the remaining
// rules still run; any other rule failure is returned as an error.
func Analyze(file string, src []byte, rules []Rule) ([]Diagnostic, error) {
	ctx := NewContext(file)

	mod, err := parser.Parse(src)
	if err != nil {
		if errors.Is(err, parser.ErrRecursionLimit) {
			ctx.Report(1, codes.RecursionLimit)
		} else {
			ctx.Report(1, codes.Unparsable)
		}
		return ctx.Diagnostics(), nil
	}

	ctx.pos = parser.ComputePositions(mod)
	for _, rule := range rules {
		if err := rule.Check(mod, ctx); err != nil {
			if !IsRecursionLimit(err) {
				return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
			}
			ctx.Report(1, codes.RecursionLimit)
		}
	}
	return ctx.Diagnostics(), nil
}

// Check analyzes src and filters the result through sel and any inline
// suppression comments in src.
func Check(file string, src []byte, sel Selection, rules []Rule) ([]Diagnostic, error) {
	diags, err := Analyze(file, src, rules)
	if err != nil {
		return nil, err
	}
	return Filter(diags, src, sel), nil
}

// IsRecursionLimit reports whether err came from a comparison or parse
// that exceeded its depth limit.
func IsRecursionLimit(err error) bool {
	return errors.Is(err, compare.ErrRecursionLimit) || errors.Is(err, parser.ErrRecursionLimit)
}
