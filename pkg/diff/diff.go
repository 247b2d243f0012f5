// Package diff provides unified diff generation.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// Unified generates a unified diff between oldText and newText, labelled
// a/filename and b/filename. Returns an empty string if the inputs are
// identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  contextLines,
	})
	if err != nil {
		// difflib only fails on write errors, which a strings.Builder
		// never returns.
		return ""
	}
	return text
}

// splitLines splits text into newline-terminated lines. A final line
// without a newline gets one, so every diff line ends cleanly. An empty
// string produces zero lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty trailing element when s ends with \n.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}
