package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/errors"
)

func addConfigCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective project configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after layering defaults, ~/.droid/config.yaml,
<project>/.droid/config.yaml, DROID_* variables and flags. Paths are shown
resolved against the project directory.

Examples:
  droid config show              # YAML
  droid config show -o json      # JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := a.loadConfig(ctx, nil)
			if err != nil {
				return err
			}
			return writeConfig(ctx, cmd.OutOrStdout(), cfg, a.flags.Output)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.loadConfig(commandContext(cmd), nil); err != nil {
				return err
			}
			a.output(cmd).Success("configuration is valid")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeConfigPaths(cmd, a)
		},
	})

	root.AddCommand(cmd)
}

// writeConfig renders cfg as YAML, or as JSON with the same snake_case keys.
func writeConfig(ctx context.Context, w io.Writer, cfg *config.Config, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to render configuration")
	}
	if format != OutputJSON {
		_, err = w.Write(data)
		return err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return errors.Wrap(err, "failed to render configuration")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(generic)
}

func writeConfigPaths(cmd *cobra.Command, a *app) error {
	global, err := config.GlobalConfigPath()
	if err != nil {
		return err
	}
	logPath, err := LogFilePath()
	if err != nil {
		return err
	}
	project := a.flags.Project
	if project == "" {
		project = "."
	}
	rows := [][]string{
		{"global config", global},
		{"project config", config.ProjectConfigPath(project)},
		{"log file", logPath},
	}
	out := a.output(cmd)
	if a.flags.Output == OutputJSON {
		return out.JSON(map[string]string{
			"global_config":  rows[0][1],
			"project_config": rows[1][1],
			"log_file":       rows[2][1],
		})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", r[0]+":", r[1]); err != nil {
			return err
		}
	}
	return nil
}
