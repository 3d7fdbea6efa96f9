// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
)

type (
	// Command describes one program invocation.
	Command struct {
		// Path is the executable to run. It must exist on disk.
		Path string
		Args []string
		// Dir is the working directory; empty inherits the current one.
		Dir string
	}

	// CommandRunner runs external programs.
	CommandRunner interface {
		Run(ctx context.Context, cmd Command) *Result
	}

	// ExecRunner is the os/exec backed CommandRunner.
	ExecRunner struct {
		logger *log.Logger
	}
)

// NewExecRunner creates an ExecRunner. A nil logger discards output.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{logger: logging.OrDiscard(logger)}
}

// Run starts cmd, waits for it, and returns its exit code and combined
// output. A missing executable or a spawn failure is reported through
// Result.Error with CodeRunCommandFailed; a non-zero exit is not an error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) *Result {
	if cmd.Path == "" {
		return NewErrorResult(1, issue.New(issue.CodeRunCommandFailed, "no executable given"))
	}
	if _, err := os.Stat(cmd.Path); err != nil {
		return NewErrorResult(1, issue.Wrap(issue.CodeRunCommandFailed, err, "executable not found at %s", cmd.Path))
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	r.logger.Debug("running", "path", cmd.Path, "args", strings.Join(cmd.Args, " "))
	err := c.Run()
	output := strings.TrimRight(out.String(), "\r\n")
	if err == nil {
		return NewExitCodeResult(0, output)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return NewExitCodeResult(ExitCode(exitErr.ExitCode()), output)
	}
	res := NewErrorResult(1, issue.Wrap(issue.CodeRunCommandFailed, err, "cannot run %s", cmd.Path))
	res.Output = output
	return res
}
