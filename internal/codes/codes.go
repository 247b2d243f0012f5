// Package codes holds the table of diagnostic codes and renders it as
// user-facing documentation.
package codes

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Code describes one diagnostic.
type Code struct {
	Code    string
	Message string
	Example string
	// Hidden codes are internal and never documented.
	Hidden bool
	// DefaultDisabled codes are only reported when explicitly enabled.
	DefaultDisabled bool
}

// Category returns the leading letter of the code.
func (c Code) Category() string {
	return c.Code[:1]
}

func (c Code) String() string {
	return fmt.Sprintf("%s (%s)", c.Message, c.Code)
}

// Diagnostic codes.
const (
	Unparsable                 = "X001"
	RecursionLimit             = "X002"
	StringConcat               = "E100"
	StringConcatPlus           = "E101"
	ConcatInDictValue          = "W102"
	ConcatInCollection         = "W103"
	ConcatInKeywordArg         = "W104"
	NoneCheckedReturned        = "E110"
	UnionAnnotationWrap        = "W120"
	MatchingBranches           = "W200"
	MatchingTrivial            = "W201"
	MatchingNonAdjacent        = "W202"
	MatchingNonAdjacentTrivial = "W203"
)

// All lists every code in documentation order.
var All = []Code{
	{Code: Unparsable, Message: "unparsable file", Example: "foo(", Hidden: true},
	{
		Code:    RecursionLimit,
		Message: "reached recursion limit during CST checks",
		Example: "# see chardet",
		Hidden:  true,
	},

	// string concatenation
	{Code: StringConcat, Message: "unnecessary string concat", Example: `x = "foo " "bar"`},
	{Code: StringConcatPlus, Message: "unnecessary string concat with plus", Example: `x = "foo " + "bar"`},
	{
		Code:    ConcatInDictValue,
		Message: "unparenthesized multiline string concat in dict value",
		Example: example(`
			x = {
			    "foo": "bar "
			    "baz",
			}
		`),
	},
	{
		Code:    ConcatInCollection,
		Message: "unparenthesized multiline string concat in collection type",
		Example: example(`
			x = [
			    "foo "
			    "bar",
			    "baz",
			]
		`),
	},
	{
		Code:    ConcatInKeywordArg,
		Message: "unparenthesized multiline string concat in keyword arg",
		Example: example(`
			foo(
			    bar="alpha "
			    "beta"
			)
		`),
	},

	// returns
	{
		Code:    NoneCheckedReturned,
		Message: "returning a variable checked as None, rather than returning None",
		Example: example(`
			if x is None:
			    return x
		`),
	},

	// annotations
	{
		Code:    UnionAnnotationWrap,
		Message: "unparenthesized multiline union annotation",
		Example: example(`
			def foo(
			    x: int
			    | str,
			) -> None: ...
		`),
		DefaultDisabled: true,
	},

	// branch matching
	{
		Code:    MatchingBranches,
		Message: "two AST branches have identical contents",
		Example: example(`
			if x is True:
			    return y + 1
			else:
			    # some comment
			    return y + 1
		`),
	},
	{
		Code:    MatchingTrivial,
		Message: "two AST branches have identical trivial contents",
		Example: example(`
			if x is True:
			    return
			else:
			    return
		`),
		DefaultDisabled: true,
	},
	{
		Code:    MatchingNonAdjacent,
		Message: "two non-adjacent AST branches have identical contents",
		Example: example(`
			if x is True:
			    return foo(bar())
			elif y is True:
			    return 0
			elif z is True:
			    return 1
			else:
			    return foo(bar())
		`),
		DefaultDisabled: true,
	},
	{
		Code:    MatchingNonAdjacentTrivial,
		Message: "two non-adjacent AST branches have identical trivial contents",
		Example: example(`
			if x is True:
			    return None
			elif y is True:
			    return 0
			elif z is True:
			    return 1
			else:
			    return None
		`),
		DefaultDisabled: true,
	},
}

var byCode = func() map[string]Code {
	m := make(map[string]Code, len(All))
	for _, c := range All {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the definition of code.
func Lookup(code string) (Code, bool) {
	c, ok := byCode[code]
	return c, ok
}

// Known returns every code name, sorted.
func Known() []string {
	out := make([]string, 0, len(All))
	for _, c := range All {
		out = append(out, c.Code)
	}
	slices.Sort(out)
	return out
}

// DefaultDisabled returns the codes that are off unless enabled.
func DefaultDisabled() []string {
	var out []string
	for _, c := range All {
		if c.DefaultDisabled {
			out = append(out, c.Code)
		}
	}
	return out
}

// WriteList renders the visible codes for --list.
func WriteList(w io.Writer) error {
	var b strings.Builder
	first := true
	for _, c := range All {
		if c.Hidden {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false

		desc := c.Message
		if c.DefaultDisabled {
			desc += " (disabled by default)"
		}
		fmt.Fprintf(&b, "%s: %s\n", c.Code, desc)
		b.WriteString(indent(c.Example, "    "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// example strips the common leading tabs and surrounding blank lines from
// a raw string literal.
func example(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	depth := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		d := len(l) - len(strings.TrimLeft(l, "\t"))
		if depth < 0 || d < depth {
			depth = d
		}
	}
	for i, l := range lines {
		if len(l) >= depth && depth > 0 {
			lines[i] = l[depth:]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}

// indent prefixes every non-blank line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
