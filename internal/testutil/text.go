package testutil

import "strings"

// Dedent strips the leading newline of a raw-string fixture and the tab
// indentation common to its lines, so fixtures can be indented with the
// test code around them. Lines holding only whitespace become empty.
func Dedent(s string) string {
	s = strings.TrimPrefix(s, "\n")
	lines := strings.Split(s, "\n")
	margin := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, "\t"))
		if margin < 0 || n < margin {
			margin = n
		}
	}
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			lines[i] = ""
		case margin > 0:
			lines[i] = l[margin:]
		}
	}
	return strings.Join(lines, "\n")
}
