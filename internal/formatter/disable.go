package formatter

import (
	"math"
	"regexp"
	"strings"

	"github.com/donaldgifford/slyp/internal/parser"
)

// LineRange is a half-open interval of lines [Start, End). End is
// math.MaxInt when the range runs to the end of the file.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return r.Start <= line && line < r.End
}

var (
	fmtMarkerRe  = regexp.MustCompile(`^#\s*fmt:\s*(off|on|skip)\s*$`)
	slypMarkerRe = regexp.MustCompile(`^#\s*slyp:\s*(disable|enable)(?:=(.*))?$`)
)

// DisabledRanges collects the line ranges in which rewrites are
// suppressed. "# fmt: off" and a bare "# slyp: disable" (or one listing
// "format") open a range; "# fmt: on" and "# slyp: enable" close it.
// "# fmt: skip" disables only its own line.
func DisabledRanges(mod *parser.Module) []LineRange {
	var ranges []LineRange
	open := 0

	for _, c := range parser.Comments(mod) {
		if !strings.Contains(c.Text, "fmt") && !strings.Contains(c.Text, "slyp") {
			continue
		}
		switch markerOf(c.Text) {
		case "off":
			if open == 0 {
				open = c.Line
			}
		case "on":
			if open != 0 {
				ranges = append(ranges, LineRange{Start: open, End: c.Line})
				open = 0
			}
		case "skip":
			ranges = append(ranges, LineRange{Start: c.Line, End: c.Line + 1})
		}
	}

	if open != 0 {
		ranges = append(ranges, LineRange{Start: open, End: math.MaxInt})
	}
	return ranges
}

// markerOf normalizes a comment to "off", "on", "skip", or "".
func markerOf(text string) string {
	text = strings.TrimSpace(text)
	if m := fmtMarkerRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	m := slypMarkerRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[2] != "" && !listHas(m[2], "format") {
		// A code list only suppresses diagnostics.
		return ""
	}
	if m[1] == "disable" {
		return "off"
	}
	return "on"
}

func listHas(list, want string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == want {
			return true
		}
	}
	return false
}
