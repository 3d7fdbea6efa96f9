// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "shafa",
		Short: "An incremental build orchestrator for C and C++ projects",
		Long: TitleStyle.Render("shafa") + SubtitleStyle.Render(" - an incremental build orchestrator for C and C++ projects") + `

shafa reads the project manifest (config.toml), locates a compiler
toolchain, and recompiles only the sources that changed since the last
successful build.

` + SubtitleStyle.Render("Examples:") + `
  shafa configure          Prepare the project and locate the toolchain
  shafa build              Compile and link what changed
  shafa full-build         Configure, then build everything
  shafa watch              Rebuild whenever a source changes`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.init(cmd.Context())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&app.projectDir, "project-dir", "C", "", "project root (default is the current directory)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.configPath, "config", "", "config file (default is $HOME/.config/shafa/config.cue)")

	root.AddCommand(
		newConfigureCommand(app),
		newBuildCommand(app),
		newFullBuildCommand(app),
		newWatchCommand(app),
		newCompilersCommand(app),
		newTargetsCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line args with app and returns the process exit
// code.
func Run(ctx context.Context, app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	err := fang.Execute(ctx, root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Err == nil {
				return
			}
			fang.DefaultErrorHandler(w, styles, err)
		}),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs shafa with the process arguments and exits.
func Execute() {
	os.Exit(Run(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}
