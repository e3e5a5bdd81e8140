package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"loghealth/internal/analyzer"
	"loghealth/internal/chart"
	"loghealth/internal/logs"
	"loghealth/internal/metrics"
	"loghealth/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		window    int
		interval  time.Duration
		fromStart bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a log file and report health as it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Watch.Options()
			if cmd.Flags().Changed("window") {
				opts.WindowLines = window
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}
			if cmd.Flags().Changed("from-start") {
				opts.FromStart = fromStart
			}
			if opts.WindowLines <= 0 {
				return fmt.Errorf("--window must be positive, got %d", opts.WindowLines)
			}
			if opts.Interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", opts.Interval)
			}

			logger := logs.FromContext(cmd.Context())
			an, err := a.newAnalyzer(logger)
			if err != nil {
				return err
			}

			var onReport watch.ReportFunc
			if verbose {
				out := cmd.OutOrStdout()
				onReport = func(r analyzer.Report) {
					s := r.Summary
					fmt.Fprintf(out, "%s %s total=%d info=%d warn=%d error=%d alerts=%d\n",
						time.Now().Format(time.TimeOnly),
						chart.HealthStyle(s.Health).Render(string(s.Health)),
						s.Total, s.Info, s.Warn, s.Error, len(r.Alerts),
					)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := watch.NewWatcher(args[0], opts, an, logger.Named("watch"), metrics.NewRegistry(), onReport)
			return w.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&window, "window", "w", 0, "Number of most recent lines analyzed (overrides watch.window_lines)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Time between evaluations (overrides watch.interval)")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "Read the file from the beginning instead of the end")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a status line after every evaluation")
	return cmd
}
