package linter

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	"github.com/donaldgifford/slyp/internal/codes"
)

// Selection decides which codes are reported. Entries are either full
// codes ("W201") or single-letter categories ("W").
type Selection struct {
	Disabled map[string]bool
	Enabled  map[string]bool
}

// ResolveSelection builds a Selection from user lists. The default-disabled
// codes are added to disable unless enable contains "all".
func ResolveSelection(disable, enable []string) Selection {
	sel := Selection{
		Disabled: make(map[string]bool),
		Enabled:  make(map[string]bool),
	}
	for _, c := range enable {
		sel.Enabled[strings.TrimSpace(c)] = true
	}
	for _, c := range disable {
		sel.Disabled[strings.TrimSpace(c)] = true
	}
	if !sel.Enabled["all"] {
		for _, c := range codes.DefaultDisabled() {
			sel.Disabled[c] = true
		}
	}
	return sel
}

// Allows reports whether code should be reported. Enabling wins over
// disabling.
func (s Selection) Allows(code string) bool {
	cat := code[:1]
	if s.Enabled[code] || s.Enabled[cat] || s.Enabled["all"] {
		return true
	}
	return !s.Disabled[code] && !s.Disabled[cat]
}

var inlineDisableRe = regexp.MustCompile(`#\s*slyp:\s*disable=(.*)`)

// Filter drops diagnostics that sel disallows or that carry an inline
// "# slyp: disable=..." comment on their line. X001 and X002 describe the
// whole file and ignore inline comments.
func Filter(diags []Diagnostic, src []byte, sel Selection) []Diagnostic {
	var lines [][]byte
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !sel.Allows(d.Code) {
			continue
		}
		if lines == nil {
			lines = bytes.Split(src, []byte("\n"))
		}
		if wholeFile(d.Code) {
			out = append(out, d)
			continue
		}
		if d.Line >= 1 && d.Line <= len(lines) && inlineDisabled(lines[d.Line-1], d.Code) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func wholeFile(code string) bool {
	return code == codes.Unparsable || code == codes.RecursionLimit
}

func inlineDisabled(line []byte, code string) bool {
	if !bytes.Contains(line, []byte("slyp")) {
		return false
	}
	m := inlineDisableRe.FindSubmatch(line)
	if m == nil {
		return false
	}
	list := strings.TrimSpace(string(m[1]))
	if list == "all" {
		return true
	}
	items := strings.Split(list, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return slices.Contains(items, code) || slices.Contains(items, code[:1])
}
