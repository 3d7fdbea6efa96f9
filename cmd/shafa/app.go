// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/app/workflow"
	"github.com/neoshafa/shafa/internal/config"
	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/runtime"
	"github.com/neoshafa/shafa/internal/toolchain"
)

type (
	// App holds the state shared by all commands of one invocation.
	App struct {
		deps   Dependencies
		stdout io.Writer
		stderr io.Writer

		projectDir string
		configPath string
		verbose    bool

		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
	}

	// Dependencies are the injection points of an App. Nil fields get the
	// production implementations.
	Dependencies struct {
		Stdout  io.Writer
		Stderr  io.Writer
		Runner  runtime.CommandRunner
		Scripts runtime.ScriptEngine
		Fetcher toolchain.Fetcher
		// GOOS overrides the host OS for toolchain defaults.
		GOOS string
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{
		deps:   deps,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: logging.Discard(),
	}
}

// init loads the user configuration and creates the logger. A broken
// configuration is reported and replaced by the defaults.
func (a *App) init(ctx context.Context) {
	cfg, path, err := config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg, path = config.DefaultConfig(), ""
	}
	a.cfg, a.cfgPath = cfg, path
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	a.logger = logging.New(a.stderr, a.verbose)
}

// root returns the absolute project root.
func (a *App) root() (string, error) {
	dir := a.projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

func (a *App) newWorkflow() (*workflow.Workflow, error) {
	root, err := a.root()
	if err != nil {
		return nil, issue.Wrap(issue.CodeInvalidEnvironment, err, "cannot resolve the project directory")
	}
	return workflow.New(root, workflow.Options{
		Config:  a.cfg,
		Logger:  a.logger,
		Runner:  a.deps.Runner,
		Scripts: a.deps.Scripts,
		Fetcher: a.deps.Fetcher,
		GOOS:    a.deps.GOOS,
	})
}

// fail reports err on stderr and returns the exit error for RunE.
func (a *App) fail(operation string, err error) error {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		ec := issue.NewErrorContext().WithOperation(operation).Wrap(err)
		if !a.verbose && issue.CodeOf(err) == 0 {
			ec.WithSuggestion("Re-run with --verbose for details")
		}
		err = ec.BuildError()
	}
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	if a.verbose {
		for _, code := range codesOf(err) {
			if i := issue.Lookup(code); i != nil {
				if rendered, rerr := i.Render(string(a.cfg.UI.ColorScheme)); rerr == nil {
					fmt.Fprint(a.stderr, rendered)
				}
			}
		}
	}
	return &ExitError{Code: 1}
}

// formatErrorForDisplay formats an error for user display. In verbose mode
// an ActionableError shows its full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// codesOf returns the distinct codes in err's tree, depth first.
func codesOf(err error) []issue.Code {
	var codes []issue.Code
	seen := make(map[issue.Code]bool)
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if ie, ok := err.(*issue.Error); ok && !seen[ie.Code] {
			seen[ie.Code] = true
			codes = append(codes, ie.Code)
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return codes
}
