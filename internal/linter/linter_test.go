package linter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/compare"
	"github.com/donaldgifford/slyp/internal/parser"
)

// nameRule reports E100 on every line that has a Name "bad".
type nameRule struct{}

func (nameRule) Name() string { return "names" }

func (nameRule) Check(mod *parser.Module, ctx *Context) error {
	parser.Walk(mod, func(n parser.Node) bool {
		if name, ok := n.(*parser.Name); ok && name.Tok.Value == "bad" {
			ctx.Report(ctx.Line(n), codes.StringConcat)
		}
		return true
	})
	return nil
}

type errRule struct{ err error }

func (errRule) Name() string { return "failing" }

func (r errRule) Check(*parser.Module, *Context) error { return r.err }

func TestAnalyzeReportsSortedAndDeduplicated(t *testing.T) {
	src := "x = 1\nbad\ny = bad + bad\n"
	diags, err := Analyze("a.py", []byte(src), []Rule{nameRule{}})
	require.NoError(t, err)
	assert.Equal(t, []Diagnostic{
		{Line: 2, File: "a.py", Code: codes.StringConcat},
		{Line: 3, File: "a.py", Code: codes.StringConcat},
	}, diags)
}

func TestAnalyzeUnparsable(t *testing.T) {
	diags, err := Analyze("a.py", []byte("x = 1\nfoo(\n"), []Rule{nameRule{}})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, []Diagnostic{{Line: 1, File: "a.py", Code: codes.Unparsable}}, diags)
}

func TestAnalyzeParserRecursionLimit(t *testing.T) {
	src := strings.Repeat("(", 5000) + "1" + strings.Repeat(")", 5000) + "\n"
	diags, err := Analyze("deep.py", []byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, []Diagnostic{{Line: 1, File: "deep.py", Code: codes.RecursionLimit}}, diags)
}

func TestAnalyzeRuleErrors(t *testing.T) {
	t.Run("recursion limit becomes X002", func(t *testing.T) {
		rules := []Rule{errRule{err: fmt.Errorf("branch: %w", compare.ErrRecursionLimit)}, nameRule{}}
		diags, err := Analyze("a.py", []byte("bad\n"), rules)
		require.NoError(t, err)
		assert.Equal(t, []Diagnostic{
			{Line: 1, File: "a.py", Code: codes.StringConcat},
			{Line: 1, File: "a.py", Code: codes.RecursionLimit},
		}, diags)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Analyze("a.py", []byte("x\n"), []Rule{errRule{err: boom}})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failing")
	})
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Line: 3, File: "pkg/a.py", Code: codes.StringConcat}
	assert.Equal(t, "pkg/a.py:3: unnecessary string concat (E100)", d.String())

	d.Code = "Z999"
	assert.Equal(t, "pkg/a.py:3: Z999", d.String())
}

func TestContextReset(t *testing.T) {
	ctx := NewContext("a.py")
	ctx.Report(1, codes.StringConcat)
	ctx.Report(1, codes.StringConcat)
	assert.Len(t, ctx.Diagnostics(), 1)
	ctx.Reset()
	assert.Empty(t, ctx.Diagnostics())
}

func TestSelectionAllows(t *testing.T) {
	tests := []struct {
		name    string
		disable []string
		enable  []string
		code    string
		want    bool
	}{
		{name: "default enabled", code: "E100", want: true},
		{name: "default disabled", code: "W201", want: false},
		{name: "disabled by code", disable: []string{"E100"}, code: "E100", want: false},
		{name: "disabled by category", disable: []string{"W"}, code: "W102", want: false},
		{name: "enable overrides default", enable: []string{"W201"}, code: "W201", want: true},
		{name: "enable category", enable: []string{"W"}, code: "W203", want: true},
		{name: "enable wins over disable", disable: []string{"E"}, enable: []string{"E110"}, code: "E110", want: true},
		{name: "disable category keeps sibling", disable: []string{"E"}, enable: []string{"E110"}, code: "E100", want: false},
		{name: "enable all", enable: []string{"all"}, code: "W120", want: true},
		{name: "trimmed entries", disable: []string{" E101 "}, code: "E101", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := ResolveSelection(tt.disable, tt.enable)
			assert.Equal(t, tt.want, sel.Allows(tt.code))
		})
	}
}

func TestFilterInlineDisable(t *testing.T) {
	src := strings.Join([]string{
		`x = "a" "b"  # slyp: disable=E100`,
		`x = "a" "b"  # slyp: disable=E101, E100`,
		`x = "a" "b"  # slyp: disable=E`,
		`x = "a" "b"  # slyp: disable=all`,
		`x = "a" "b"  # slyp: disable=W`,
		`x = "a" "b"  #slyp:disable=E100`,
		`x = "a" "b"`,
		"",
	}, "\n")

	var diags []Diagnostic
	for line := 1; line <= 7; line++ {
		diags = append(diags, Diagnostic{Line: line, File: "a.py", Code: codes.StringConcat})
	}

	got := Filter(diags, []byte(src), ResolveSelection(nil, nil))
	var lines []int
	for _, d := range got {
		lines = append(lines, d.Line)
	}
	assert.Equal(t, []int{5, 7}, lines)
}

func TestCheckUnparsableIgnoresInlineDisable(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"error line", "x = ) + 1  # slyp: disable=all\ny = 2\n"},
		{"first line", "# slyp: disable=X\nfoo(\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, err := Check("a.py", []byte(tt.src), ResolveSelection(nil, nil), []Rule{nameRule{}})
			require.NoError(t, err)
			assert.Equal(t, []Diagnostic{{Line: 1, File: "a.py", Code: codes.Unparsable}}, diags)
		})
	}
}

func TestFilterSelection(t *testing.T) {
	diags := []Diagnostic{
		{Line: 1, File: "a.py", Code: codes.StringConcat},
		{Line: 2, File: "a.py", Code: codes.MatchingTrivial},
		{Line: 3, File: "a.py", Code: codes.MatchingBranches},
	}
	got := Filter(diags, []byte("a\nb\nc\n"), ResolveSelection([]string{"E"}, nil))
	assert.Equal(t, []Diagnostic{{Line: 3, File: "a.py", Code: codes.MatchingBranches}}, got)
}

func TestCheck(t *testing.T) {
	src := "bad  # slyp: disable=E100\nbad\n"
	diags, err := Check("a.py", []byte(src), ResolveSelection(nil, nil), []Rule{nameRule{}})
	require.NoError(t, err)
	assert.Equal(t, []Diagnostic{{Line: 2, File: "a.py", Code: codes.StringConcat}}, diags)
}
