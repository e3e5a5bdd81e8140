package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"loghealth/internal/analyzer"
	"loghealth/internal/config"
	"loghealth/internal/logs"
)

// app is the state every subcommand shares after PersistentPreRunE.
// The logger travels in the command context.
type app struct {
	configPath string
	cfg        *config.Config
}

// newAnalyzer builds an analyzer with the configured custom rules.
func (a *app) newAnalyzer(logger *logs.Logger) (*analyzer.Analyzer, error) {
	rules, err := a.cfg.CompiledRules()
	if err != nil {
		return nil, err
	}
	return analyzer.New(
		analyzer.WithCustomRules(rules),
		analyzer.WithLogger(logger.Named("analyzer").SugaredLogger),
	), nil
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "loghealth",
		Short: "Classify log lines and report service health",
		Long: `loghealth classifies log lines as INFO, WARN or ERROR, derives a
GREEN/AMBER/RED health verdict, raises keyword and error-rate alerts,
and ranks the most frequent error messages.

It runs as a web form and JSON API (serve), a one-shot analyzer (analyze),
or a follower of a growing log file (watch).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}

			logger, err := logs.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			a.cfg = cfg
			cmd.SetContext(logs.WithContext(cmd.Context(), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logs.FromContext(cmd.Context()).Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration file (default: built-in defaults)")

	root.AddCommand(
		newServeCmd(a),
		newAnalyzeCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}
