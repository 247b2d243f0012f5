package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/slyp/internal/config"
	"github.com/donaldgifford/slyp/internal/runner"
	"github.com/donaldgifford/slyp/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		disable    []string
		enable     []string
		verbosity  int
		color      string
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Fix and lint Python files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			colored, err := useColor(color)
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "slyp: watching %s\n", dir)
			return watch.Run(cmd.Context(), watch.Options{
				Dir:      dir,
				Debounce: debounce,
				Exclude:  cfg.Files.Exclude,
				OnChange: func(paths []string) {
					code := runner.Run(cmd.Context(), &runner.Options{
						Files:      paths,
						Verbosity:  verbosity,
						Disable:    disable,
						Enable:     enable,
						NoCache:    true,
						ConfigPath: configPath,
						Color:      colored,
						Stdout:     out,
						Stderr:     cmd.ErrOrStderr(),
					})
					if code == runner.ExitOK && verbosity == 0 {
						fmt.Fprintf(out, "slyp: %d file(s) ok\n", len(paths))
					}
				},
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&configPath, "config", "", "path to config file")
	fl.StringSliceVar(&disable, "disable", nil, "codes or categories to disable (comma separated)")
	fl.StringSliceVar(&enable, "enable", nil, "codes or categories to enable, or 'all' (comma separated)")
	fl.CountVarP(&verbosity, "verbose", "v", "increase output; repeat for more")
	fl.StringVar(&color, "color", "auto", "colorize diagnostics (auto|always|never)")
	fl.DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}
