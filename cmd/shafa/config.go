// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neoshafa/shafa/internal/config"
)

// newConfigCommand creates the `shafa config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shafa configuration",
		Long: `Manage shafa configuration.

Configuration is stored in:
  - Linux: ~/.config/shafa/config.cue
  - macOS: ~/Library/Application Support/shafa/config.cue
  - Windows: %APPDATA%\shafa\config.cue

Every key can be overridden with a SHAFA_ environment variable, for
example SHAFA_HOOKS_ENABLED=false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			source := SubtitleStyle.Render("(using defaults)")
			if app.cfgPath != "" {
				source = app.cfgPath
			}
			fmt.Fprintf(app.stdout, "// %s: %s\n", CmdStyle.Render("Config file"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := app.configFilePath()
			if err != nil {
				return app.fail("create configuration", err)
			}
			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return app.fail("create configuration", err)
			}
			if !created {
				fmt.Fprintln(app.stdout, WarningStyle.Render("exists: ")+path)
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("created: ")+path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := app.configFilePath()
			if err != nil {
				return app.fail("resolve configuration path", err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

// configFilePath is --config when given, else the platform default.
func (a *App) configFilePath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultConfigPath()
}
