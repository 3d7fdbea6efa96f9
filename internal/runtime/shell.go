// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
)

// Hook names exported to scripts through SHAFA_HOOK.
const (
	HookPrebuild  Hook = "prebuild"
	HookPostbuild Hook = "postbuild"
)

// Environment variables set for every hook script.
const (
	EnvProjectRoot    = "SHAFA_PROJECT_ROOT"
	EnvProjectName    = "SHAFA_PROJECT_NAME"
	EnvProjectVersion = "SHAFA_PROJECT_VERSION"
	EnvBinDir         = "SHAFA_BIN_DIR"
	EnvHook           = "SHAFA_HOOK"
)

type (
	// Hook identifies the pipeline stage a script runs in.
	Hook string

	// Script is one hook script invocation.
	Script struct {
		// Path is the script file; relative paths resolve against Dir.
		Path string
		Hook Hook
		// Dir is the working directory, normally the project root.
		Dir string
		// Env is added on top of the host environment.
		Env map[string]string
		// EnvFile is an optional dotenv file layered between the host
		// environment and Env.
		EnvFile string
	}

	// ScriptEngine runs hook scripts.
	ScriptEngine interface {
		RunFile(ctx context.Context, s Script) *Result
	}

	// ShellEngine interprets POSIX shell scripts in-process with mvdan/sh.
	ShellEngine struct {
		logger *log.Logger
	}
)

// NewShellEngine creates a ShellEngine. A nil logger discards output.
func NewShellEngine(logger *log.Logger) *ShellEngine {
	return &ShellEngine{logger: logging.OrDiscard(logger)}
}

// RunFile reads, parses and runs the script at s.Path. Result.Error carries:
//   - CodeScriptUnreadable for an empty path or a read error
//   - CodeScriptNotFound for a missing file
//   - CodeScriptExecution for parse errors, interpreter errors and non-zero exits
func (e *ShellEngine) RunFile(ctx context.Context, s Script) *Result {
	if s.Path == "" {
		return NewErrorResult(1, issue.New(issue.CodeScriptUnreadable, "%s hook has no script path", s.Hook))
	}
	path := s.Path
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewErrorResult(1, issue.Wrap(issue.CodeScriptNotFound, err, "%s hook script %s not found", s.Hook, path))
		}
		return NewErrorResult(1, issue.Wrap(issue.CodeScriptUnreadable, err, "cannot read %s hook script %s", s.Hook, path))
	}

	prog, err := syntax.NewParser().Parse(bytes.NewReader(src), path)
	if err != nil {
		return NewErrorResult(1, issue.Wrap(issue.CodeScriptExecution, err, "cannot parse %s hook script", s.Hook))
	}

	vars := maps.Clone(s.Env)
	if vars == nil {
		vars = make(map[string]string)
	}
	if s.Hook != "" {
		vars[EnvHook] = string(s.Hook)
	}
	if s.EnvFile != "" {
		if err := LoadEnvFile(vars, s.EnvFile); err != nil {
			return NewErrorResult(1, err)
		}
	}

	var out bytes.Buffer
	runner, err := interp.New(
		interp.Dir(s.Dir),
		interp.Env(expand.ListEnviron(scriptEnv(vars)...)),
		interp.StdIO(nil, &out, &out),
	)
	if err != nil {
		return NewErrorResult(1, issue.Wrap(issue.CodeScriptExecution, err, "cannot create interpreter"))
	}

	e.logger.Debug("running hook", "hook", string(s.Hook), "path", path)
	err = runner.Run(ctx, prog)
	output := strings.TrimRight(out.String(), "\r\n")
	if err == nil {
		return NewExitCodeResult(0, output)
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		res := NewExitCodeResult(ExitCode(status), output)
		res.Error = issue.New(issue.CodeScriptExecution, "%s hook exited with code %d", s.Hook, int(status))
		return res
	}
	res := NewErrorResult(1, issue.Wrap(issue.CodeScriptExecution, err, "%s hook failed", s.Hook))
	res.Output = output
	return res
}

// scriptEnv lists the host environment followed by vars, so vars win.
func scriptEnv(vars map[string]string) []string {
	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		env = append(env, k+"="+vars[k])
	}
	return env
}
