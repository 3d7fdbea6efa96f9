// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neoshafa/shafa/internal/app/workflow"
)

func newConfigureCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Prepare the project directories and locate the toolchain",
		Long: `Bind the manifest, create .shafaCache and bin, reset the source cache
and locate the compiler toolchain. The next build recompiles everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.configure(cmd.Context())
		},
	}
}

func newBuildCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile and link the sources changed since the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.build(cmd.Context(), false)
		},
	}
}

func newFullBuildCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "full-build",
		Aliases: []string{"full_build"},
		Short:   "Configure the project, then build it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.build(cmd.Context(), true)
		},
	}
}

func (a *App) configure(ctx context.Context) error {
	wf, err := a.newWorkflow()
	if err != nil {
		return a.fail("configure project", err)
	}
	if err := wf.Configure(ctx); err != nil {
		return a.fail("configure project", err)
	}
	fmt.Fprintln(a.stdout, SuccessStyle.Render("✓")+" configured "+CmdStyle.Render(wf.Session().Env.Root()))
	return nil
}

func (a *App) build(ctx context.Context, full bool) error {
	wf, err := a.newWorkflow()
	if err != nil {
		return a.fail("build project", err)
	}
	run := wf.Build
	if full {
		run = wf.FullBuild
	}
	res, err := run(ctx)
	a.printBuild(wf, res)
	if err != nil {
		return a.fail("build project", err)
	}
	return nil
}

func (a *App) printBuild(wf *workflow.Workflow, res *workflow.BuildResult) {
	if res == nil || res.Report == nil {
		return
	}
	r := res.Report
	switch {
	case r.UpToDate:
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("nothing to compile, "+wf.Session().Manifest.Name+" is up to date"))
	case r.Artifact != "":
		artifact := r.Artifact
		if rel, err := filepath.Rel(wf.Session().Env.Root(), artifact); err == nil {
			artifact = rel
		}
		fmt.Fprintf(a.stdout, "%s compiled %d file(s), linked %s\n",
			SuccessStyle.Render("✓"), len(r.Compiled), CmdStyle.Render(filepath.ToSlash(artifact)))
	}
}
