// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/neoshafa/shafa/internal/project"
)

func newCompilersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compilers",
		Short: "List the compiler families shafa recognizes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			printSupport(app.stdout, "Compilers", project.Compilers())
			return nil
		},
	}
}

func newTargetsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the target platforms shafa recognizes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			printSupport(app.stdout, "Targets", project.Targets())
			return nil
		},
	}
}

type supported interface {
	fmt.Stringer
	Implemented() bool
}

func printSupport[T supported](w io.Writer, title string, values []T) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	for _, v := range values {
		status := SubtitleStyle.Render("not implemented")
		if v.Implemented() {
			status = SuccessStyle.Render("implemented")
		}
		fmt.Fprintf(w, "  %s %s\n", nameColumnStyle.Render(v.String()), status)
	}
}
