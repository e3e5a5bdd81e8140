package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loghealth/internal/logs"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check configuration files",
	}
	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigValidateCmd(a),
	)
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the effective configuration as YAML",
		Long: `Write the configuration currently in effect (built-in defaults, or the
file given with --config) to path, as a starting point for editing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("stat %s: %w", path, err)
				}
			}

			if err := a.cfg.Save(path); err != nil {
				return err
			}
			logs.FromContext(cmd.Context()).Debugw("config written", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and its custom rules",
		Args:  cobra.NoArgs,
		// loading in PersistentPreRunE already validated it
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok, %d custom rule(s)\n", len(a.cfg.Rules))
			return nil
		},
	}
}
