package diff

import (
	"fmt"
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		updated string
		want    []string // substrings of the diff; nil means no diff
	}{
		{name: "identical", old: "x = 1\n", updated: "x = 1\n"},
		{name: "both empty"},
		{
			name:    "created",
			updated: "import os\n",
			want:    []string{"@@ -0,0 +1 @@\n", "+import os\n"},
		},
		{
			name: "emptied",
			old:  "import os\n",
			want: []string{"-import os\n"},
		},
		{
			name:    "headers",
			old:     "x = ((1, 2))\n",
			updated: "x = (1, 2)\n",
			want:    []string{"--- a/mod.py\n", "+++ b/mod.py\n", "-x = ((1, 2))\n", "+x = (1, 2)\n"},
		},
		{
			name:    "appended line",
			old:     "def f():\n    pass\n",
			updated: "def f():\n    pass\n\n\nf()\n",
			want:    []string{"+f()\n"},
		},
		{
			name:    "hunk header",
			old:     "a = 1\nb = (2)\nc = 3\n",
			updated: "a = 1\nb = 2\nc = 3\n",
			want:    []string{"@@ -1,3 +1,3 @@\n", " a = 1\n", " c = 3\n"},
		},
		{
			name:    "missing final newline",
			old:     "a\nb",
			updated: "a\nc",
			want:    []string{"-b\n+c\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unified("mod.py", tt.old, tt.updated)
			if tt.want == nil {
				if got != "" {
					t.Errorf("expected no diff, got:\n%s", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("diff missing %q, got:\n%s", w, got)
				}
			}
		})
	}
}

func TestUnifiedContext(t *testing.T) {
	var old, updated strings.Builder
	for i := range 40 {
		fmt.Fprintf(&old, "v%d = %d\n", i, i)
		if i == 10 || i == 30 {
			fmt.Fprintf(&updated, "v%d = (%d)\n", i, i)
			continue
		}
		fmt.Fprintf(&updated, "v%d = %d\n", i, i)
	}

	got := Unified("vars.py", old.String(), updated.String())

	if n := strings.Count(got, "@@ -"); n != 2 {
		t.Errorf("expected 2 hunks, got %d:\n%s", n, got)
	}
	for _, w := range []string{" v7 = 7\n", " v13 = 13\n", "+v30 = (30)\n"} {
		if !strings.Contains(got, w) {
			t.Errorf("diff missing %q", w)
		}
	}
	if strings.Contains(got, " v6 = 6\n") || strings.Contains(got, " v20 = 20\n") {
		t.Errorf("diff shows lines outside the context window:\n%s", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"x\n", []string{"x\n"}},
		{"x", []string{"x\n"}},
		{"x\ny\n", []string{"x\n", "y\n"}},
		{"x\n\n", []string{"x\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			got := splitLines(tt.input)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) || len(got) != len(tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
