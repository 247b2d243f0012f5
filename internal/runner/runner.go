// Package runner orchestrates the read -> fix -> lint -> output pipeline
// over the discovered files.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/slyp/internal/cache"
	"github.com/donaldgifford/slyp/internal/config"
	"github.com/donaldgifford/slyp/internal/discover"
	"github.com/donaldgifford/slyp/internal/linter"
	"github.com/donaldgifford/slyp/internal/source"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitError   = 2
)

// Steps accepted by Options.Only.
const (
	OnlyFix  = "fix"
	OnlyLint = "lint"
)

// Options configures the runner behavior. Zero values fall back to the
// loaded configuration.
type Options struct {
	// Files are file or directory arguments. A single "-" reads stdin.
	Files []string

	// Only restricts the run to OnlyFix or OnlyLint.
	Only string

	// Verbosity is the -v count.
	Verbosity int

	UseGitLs   bool
	Disable    []string
	Enable     []string
	NoCache    bool
	Diff       bool
	ConfigPath string
	Jobs       int
	Color      bool

	// Dir is the project directory: files are discovered and the cache
	// is kept below it. Empty means the working directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the pipeline and returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	switch opts.Only {
	case "", OnlyFix, OnlyLint:
	default:
		writeErr(opts.Stderr, "slyp: --only must be %q or %q, got %q\n", OnlyFix, OnlyLint, opts.Only)
		return ExitError
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		writeErr(opts.Stderr, "slyp: %v\n", err)
		return ExitError
	}

	p := newPipeline(opts, cfg)

	if len(opts.Files) == 1 && opts.Files[0] == source.StdinName {
		return runStdin(p)
	}
	if slices.Contains(opts.Files, source.StdinName) {
		writeErr(opts.Stderr, "slyp: %q must be the only argument\n", source.StdinName)
		return ExitError
	}

	files, err := discover.Files(ctx, opts.Files, discover.Options{
		Dir:      opts.Dir,
		Exclude:  cfg.Files.Exclude,
		UseGitLs: opts.UseGitLs || cfg.Files.UseGitLs,
	})
	if err != nil {
		writeErr(opts.Stderr, "slyp: %v\n", err)
		return ExitError
	}
	if len(files) == 0 {
		writeErr(opts.Stderr, "slyp: no files to process\n")
		return ExitError
	}

	if !opts.NoCache && !cfg.Runner.NoCache && opts.Only == "" {
		p.cache = openCache(p, opts, cfg)
	}

	results, err := p.runAll(ctx, files)
	if err != nil {
		writeErr(opts.Stderr, "slyp: %v\n", err)
		return ExitError
	}

	success := true
	for _, r := range results {
		printResult(opts.Stdout, r, opts.Verbosity)
		success = success && r.Success
	}
	if !success {
		return ExitFailure
	}
	printResult(opts.Stdout, Result{Messages: []Message{{Text: "ok", Verbosity: 1}}}, opts.Verbosity)
	return ExitOK
}

// loadConfig loads --config, or the config file discovered in Dir.
func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath != "" || opts.Dir == "" {
		return config.Load(opts.ConfigPath)
	}
	if path := config.Discover(opts.Dir); path != "" {
		return config.Load(path)
	}
	return config.DefaultConfig(), nil
}

func openCache(p *pipeline, opts *Options, cfg *config.Config) *cache.Cache {
	fp, err := cache.Fingerprint(p.sel.Disabled, p.sel.Enabled, cfg.Fixer)
	if err != nil {
		p.log.Debug("cache disabled", "err", err)
		return nil
	}
	dir := cfg.Runner.CacheDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(opts.Dir, dir)
	}
	c, err := cache.Open(dir, fp)
	if err != nil {
		p.log.Debug("cache disabled", "err", err)
		return nil
	}
	p.log.Debug("cache opened", "dir", dir, "fingerprint", fp[:12])
	return c
}

func runStdin(p *pipeline) int {
	opts := p.opts
	if opts.Only == "" {
		writeErr(opts.Stderr, "slyp: reading from stdin requires --only\n")
		return ExitError
	}

	f := source.NewStdio(opts.Stdin, opts.Stdout)
	r := p.process(f)

	// With --only fix the source owns stdout, so messages move to stderr.
	out := opts.Stdout
	if opts.Only == OnlyFix {
		out = opts.Stderr
	}
	printResult(out, r, opts.Verbosity)
	if !r.Success {
		return ExitFailure
	}
	return ExitOK
}

// runAll processes files on a bounded worker pool. Results keep the
// order of files.
func (p *pipeline) runAll(ctx context.Context, files []string) ([]Result, error) {
	jobs := p.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	start := time.Now()
	p.log.Debug("starting workers", "files", len(files), "jobs", jobs)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.process(source.NewDisk(name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.log.Debug("workers done", "elapsed", time.Since(start))
	return results, nil
}

// mergeLists joins configured and command-line code lists. Command-line
// entries may be comma separated.
func mergeLists(fromConfig, fromFlags []string) []string {
	out := slices.Clone(fromConfig)
	for _, f := range fromFlags {
		for _, c := range strings.Split(f, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func newPipeline(opts *Options, cfg *config.Config) *pipeline {
	jobs := opts.Jobs
	if jobs == 0 {
		jobs = cfg.Runner.Jobs
	}
	return &pipeline{
		opts:  opts,
		fixer: cfg.Fixer,
		sel:   linter.ResolveSelection(mergeLists(cfg.Lint.Disable, opts.Disable), mergeLists(cfg.Lint.Enable, opts.Enable)),
		jobs:  jobs,
		paint: newPainter(opts.Color),
		log:   newLogger(opts.Stderr, opts.Verbosity),
	}
}

// pipeline is the per-run state shared by the workers. Nothing in it is
// mutated after construction except through the cache, which locks.
type pipeline struct {
	opts  *Options
	fixer config.FixerConfig
	sel   linter.Selection
	jobs  int
	cache *cache.Cache
	paint *painter
	log   *slog.Logger
}

