package runner

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/linter"
)

// painter colors diagnostics. Each color is switched on or off
// explicitly so the global terminal detection of the color package does
// not apply.
type painter struct {
	loc  *color.Color
	warn *color.Color
	err  *color.Color
}

func newPainter(enabled bool) *painter {
	p := &painter{
		loc:  color.New(color.Bold),
		warn: color.New(color.FgYellow),
		err:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.loc, p.warn, p.err} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// diagnostic renders d as "file:line: message (code)".
func (p *painter) diagnostic(d linter.Diagnostic) string {
	msg := d.Code
	if c, ok := codes.Lookup(d.Code); ok {
		msg = c.Message
	}
	code := p.err
	if strings.HasPrefix(d.Code, "W") {
		code = p.warn
	}
	return fmt.Sprintf("%s %s (%s)",
		p.loc.Sprintf("%s:%d:", d.File, d.Line), msg, code.Sprint(d.Code))
}

// newLogger returns the debug logger, which only writes at -vvv.
func newLogger(w io.Writer, verbosity int) *slog.Logger {
	if verbosity < 3 {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// printResult writes the messages of r visible at verbosity, one per
// line.
func printResult(w io.Writer, r Result, verbosity int) {
	for _, text := range r.Texts(verbosity) {
		writeOut(w, text+"\n")
	}
}
