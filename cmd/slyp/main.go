// Package main is the entry point for slyp.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// flags holds the root command's flag values.
type flags struct {
	only      string
	verbosity int
	useGitLs  bool
	disable   []string
	enable    []string
	noCache   bool
	list      bool
	diff      bool
	config    string
	jobs      int
	color     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	exit := runner.ExitOK
	root := newRootCmd(&exit)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "slyp: %v\n", err)
		return runner.ExitError
	}
	return exit
}

func newRootCmd(exit *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "slyp [flags] [files...]",
		Short: "Lint and fix Python source while keeping its formatting",
		Long: `slyp checks Python files for string-concatenation hazards, duplicated
branches and other style problems, and rewrites the ones it can fix
without touching any other formatting.

With no files, every *.py file below the working directory is processed.
A single "-" reads stdin and requires --only.`,
		Version:       fmt.Sprintf("%s (%s) %s", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.list {
				return codes.WriteList(cmd.OutOrStdout())
			}
			color, err := useColor(f.color)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "slyp: %v\n", err)
				*exit = runner.ExitError
				return nil
			}
			*exit = runner.Run(cmd.Context(), &runner.Options{
				Files:      args,
				Only:       f.only,
				Verbosity:  f.verbosity,
				UseGitLs:   f.useGitLs,
				Disable:    f.disable,
				Enable:     f.enable,
				NoCache:    f.noCache,
				Diff:       f.diff,
				ConfigPath: f.config,
				Jobs:       f.jobs,
				Color:      color,
				Stdin:      cmd.InOrStdin(),
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	cmd.SetVersionTemplate("slyp {{.Version}}\n")

	fl := cmd.Flags()
	fl.StringVar(&f.only, "only", "", "run only the fix or lint step (fix|lint)")
	fl.CountVarP(&f.verbosity, "verbose", "v", "increase output; repeat for more")
	fl.BoolVar(&f.useGitLs, "use-git-ls", false, "find files with 'git ls-files' instead of walking the directory")
	fl.StringSliceVar(&f.disable, "disable", nil, "codes or categories to disable (comma separated)")
	fl.StringSliceVar(&f.enable, "enable", nil, "codes or categories to enable, or 'all' (comma separated)")
	fl.BoolVar(&f.noCache, "no-cache", false, "do not read or write the passing-file cache")
	fl.BoolVar(&f.list, "list", false, "list error codes and exit")
	fl.BoolVar(&f.diff, "diff", false, "print a unified diff of fixes instead of writing files")
	fl.StringVar(&f.config, "config", "", "path to config file")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "number of files processed in parallel (0 = all CPUs)")
	fl.StringVar(&f.color, "color", "auto", "colorize diagnostics (auto|always|never)")

	cmd.AddCommand(newReferenceCmd(), newWatchCmd())
	return cmd
}

// useColor resolves the --color setting against stdout.
func useColor(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("--color must be auto, always or never, got %q", mode)
	}
}
