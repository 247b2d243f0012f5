package runner

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/donaldgifford/slyp/internal/formatter"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/parser"
	"github.com/donaldgifford/slyp/internal/rules"
	"github.com/donaldgifford/slyp/internal/source"
	"github.com/donaldgifford/slyp/pkg/diff"
)

// process runs the selected steps over one file. A panic anywhere below
// is reported against the file instead of ending the run.
func (p *pipeline) process(f source.File) (r Result) {
	name := f.Name()
	defer func() {
		if v := recover(); v != nil {
			r = Result{Messages: []Message{
				{Text: fmt.Sprintf("slyp error on '%s': %v", name, v), Verbosity: 0},
				{Text: string(debug.Stack()), Verbosity: 2},
			}}
		}
	}()

	r = ok()
	r.add(1, "slyp: processing "+name)

	if p.cache != nil {
		if sha, err := f.SHA(); err == nil && p.cache.Contains(name, sha) {
			p.log.Debug("cache hit", "file", name)
			return Result{Success: true, Messages: []Message{{Text: "cache hit: " + name, Verbosity: 2}}}
		}
	}

	if p.opts.Only != OnlyLint {
		r = r.Join(p.fix(f))
	}
	if p.opts.Only != OnlyFix {
		r = r.Join(p.lint(f))
	}

	if p.cache != nil {
		p.record(f, r.Success)
	}
	return r
}

// fix rewrites f. A file that does not parse counts as unchanged; the
// lint step reports it.
func (p *pipeline) fix(f source.File) Result {
	name := f.Name()
	_, stdin := f.(*source.Stdio)

	src, err := f.ReadBytes()
	if err != nil {
		return Result{Messages: []Message{{Text: "slyp: " + err.Error(), Verbosity: 0}}}
	}

	out, changed, err := formatter.Rewrite(src, &p.fixer, rules.FixRules())
	if err != nil {
		r := ok()
		var syn *parser.SyntaxError
		switch {
		case errors.As(err, &syn), errors.Is(err, parser.ErrRecursionLimit):
			r.add(1, fmt.Sprintf("slyp: could not parse %s: %v", name, err))
		default:
			r.add(1, fmt.Sprintf("slyp: could not fix %s: %v", name, err))
		}
		if stdin && !p.opts.Diff {
			if werr := f.WriteBytes(src); werr != nil {
				return Result{Messages: []Message{{Text: "slyp: " + werr.Error(), Verbosity: 0}}}
			}
		}
		return r
	}

	if !changed {
		r := ok()
		r.add(1, "slyp: no changes to "+name)
		if stdin && !p.opts.Diff {
			if err := f.WriteBytes(src); err != nil {
				return Result{Messages: []Message{{Text: "slyp: " + err.Error(), Verbosity: 0}}}
			}
		}
		return r
	}

	var r Result
	if p.opts.Diff {
		r.add(0, strings.TrimSuffix(diff.Unified(name, string(src), string(out)), "\n"))
		return r
	}
	r.add(0, "slyp: fixing "+name)
	if err := f.WriteBytes(out); err != nil {
		r.add(0, "slyp: "+err.Error())
	}
	return r
}

// lint reports the diagnostics for the current content of f.
func (p *pipeline) lint(f source.File) Result {
	src, err := f.ReadBytes()
	if err != nil {
		return Result{Messages: []Message{{Text: "slyp: " + err.Error(), Verbosity: 0}}}
	}

	diags, err := linter.Check(f.Name(), src, p.sel, rules.LintRules())
	if err != nil {
		return Result{Messages: []Message{{Text: fmt.Sprintf("slyp error on '%s': %v", f.Name(), err), Verbosity: 0}}}
	}

	r := ok()
	for _, d := range diags {
		r.Success = false
		r.add(0, p.paint.diagnostic(d))
	}
	return r
}

// record adds a passing file to the cache and drops a failing one.
func (p *pipeline) record(f source.File, success bool) {
	name := f.Name()
	if !success {
		if err := p.cache.Remove(name); err != nil {
			p.log.Debug("cache remove failed", "file", name, "err", err)
		}
		return
	}
	sha, err := f.SHA()
	if err != nil {
		return
	}
	if err := p.cache.Add(name, sha); err != nil {
		p.log.Debug("cache add failed", "file", name, "err", err)
	}
}
