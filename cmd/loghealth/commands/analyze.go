package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"loghealth/internal/analyzer"
	"loghealth/internal/chart"
	"loghealth/internal/logs"
	apperrors "loghealth/pkg/errors"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// ErrHealthThreshold is returned when --fail-on is met.
var ErrHealthThreshold = errors.New("health threshold reached")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	alertStyle  = lipgloss.NewStyle().Foreground(chart.ColorError).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(chart.ColorMuted)
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		output    string
		chartPath string
		failOn    string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a log file or stdin and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return apperrors.NewConfigError("output", output)
			}
			threshold, err := parseThreshold(failOn)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			logger := logs.FromContext(cmd.Context())
			an, err := a.newAnalyzer(logger)
			if err != nil {
				return err
			}
			report := an.Analyze(text)

			if chartPath != "" {
				if err := writeChart(chartPath, report.Chart, a.cfg.Charts.Options()); err != nil {
					return err
				}
				logger.Debugw("chart written", "path", chartPath)
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}

			if threshold != "" && !threshold.Worse(report.Summary.Health) {
				return fmt.Errorf("%w: %s", ErrHealthThreshold, report.Summary.Health)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write the level distribution chart as PNG to this path")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero when health is at least this status (amber or red)")
	return cmd
}

func parseThreshold(s string) (analyzer.HealthStatus, error) {
	switch strings.ToUpper(s) {
	case "":
		return "", nil
	case string(analyzer.StatusAmber):
		return analyzer.StatusAmber, nil
	case string(analyzer.StatusRed):
		return analyzer.StatusRed, nil
	default:
		return "", apperrors.NewConfigError("fail-on", s)
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if errors.Is(err, os.ErrNotExist) {
		return "", apperrors.NewFileError(args[0], err)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeChart(path string, series analyzer.ChartSeries, opts chart.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := chart.RenderPNG(f, series, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printReport(w io.Writer, r analyzer.Report) {
	s := r.Summary
	health := chart.HealthStyle(s.Health).Render(string(s.Health))

	fmt.Fprintln(w, headerStyle.Render("Summary"))
	fmt.Fprintf(w, "Health: %s\n", health)
	fmt.Fprintf(w, "Total:  %d  (INFO %d, WARN %d, ERROR %d)\n", s.Total, s.Info, s.Warn, s.Error)
	if r.Unknown > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d of %d lines had no level", r.Unknown, r.Lines)))
	}
	fmt.Fprintln(w)

	if len(r.Alerts) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Alerts"))
		for _, alert := range r.Alerts {
			fmt.Fprintf(w, "%s\n  Action: %s\n", alertStyle.Render("! "+alert.Title), alert.Action)
		}
		fmt.Fprintln(w)
	}

	if len(r.TopErrors) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Top Errors"))
		for _, e := range r.TopErrors {
			fmt.Fprintf(w, "%4d  %s\n", e.Count, e.Message)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, chart.RenderText(r.Chart, 40))
}
