// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neoshafa/shafa/internal/watch"
)

func newWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever a tracked source changes",
		Long: `Build the project once, then watch the project tree and rebuild after
tracked sources change. Changes are batched by watch.debounce from the
user configuration and paths matching watch.ignore are skipped. Press
Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.watch(cmd.Context())
		},
	}
}

func (a *App) watch(ctx context.Context) error {
	// The first build may fail; watching continues so the user can fix it.
	if err := a.build(ctx, false); err != nil {
		a.logger.Warn("initial build failed, watching for changes")
	}

	wf, err := a.newWorkflow()
	if err != nil {
		return a.fail("watch project", err)
	}
	w, err := watch.New(wf.Session().Env, watch.Options{
		Ignore:   a.cfg.Watch.Ignore,
		Debounce: a.cfg.Watch.DebounceDuration(),
		Logger:   a.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(a.stdout, SubtitleStyle.Render("changed: "+strings.Join(changed, ", ")))
			return a.build(ctx, false)
		},
	})
	if err != nil {
		return a.fail("watch project", err)
	}
	a.logger.Info("watching", "root", wf.Session().Env.Root())
	if err := w.Run(ctx); err != nil {
		return a.fail("watch project", err)
	}
	return nil
}
