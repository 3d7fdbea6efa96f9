// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/runtime"
)

type (
	// Options configures a Pipeline.
	Options struct {
		Runner  runtime.CommandRunner
		Scripts runtime.ScriptEngine
		Logger  *log.Logger
		// DisableHooks skips the prebuild and postbuild stages.
		DisableHooks bool
		// GOOS resolves an Unknown compiler; empty uses the host.
		GOOS string
	}

	// Pipeline runs hooks, compiler and linker for one session.
	Pipeline struct {
		session *project.Session
		opts    Options
		logger  *log.Logger
	}
)

// New creates a Pipeline for session. Nil collaborators get the default
// implementations.
func New(session *project.Session, opts Options) *Pipeline {
	logger := logging.OrDiscard(opts.Logger)
	if opts.Runner == nil {
		opts.Runner = runtime.NewExecRunner(logger)
	}
	if opts.Scripts == nil {
		opts.Scripts = runtime.NewShellEngine(logger)
	}
	if opts.GOOS == "" {
		opts.GOOS = goruntime.GOOS
	}
	return &Pipeline{session: session, opts: opts, logger: logger}
}

// Run builds files, the absolute paths of the translation units to compile.
// It returns the error of the stage that failed, if any; the report is
// always non-nil.
func (p *Pipeline) Run(ctx context.Context, files []string) (*Report, error) {
	r := &Report{}
	r.record(StageStart, StatusSucceeded, "", nil)

	p.hook(ctx, r, StagePrebuild, runtime.HookPrebuild, p.session.Manifest.Prebuild)

	if len(files) == 0 {
		r.record(StageCompile, StatusSkipped, "nothing to compile", nil)
		r.UpToDate = true
		p.logger.Info("nothing to compile")
		return p.finish(r, StageDone, nil)
	}

	if err := p.compile(ctx, files); err != nil {
		r.record(StageCompile, StatusFailed, "", err)
		return p.finish(r, StageFailed, err)
	}
	r.Compiled = files
	r.record(StageCompile, StatusSucceeded, "", nil)

	artifact, err := p.link(ctx)
	if err != nil {
		r.record(StageLink, StatusFailed, "", err)
		return p.finish(r, StageFailed, err)
	}
	r.Artifact = artifact
	r.record(StageLink, StatusSucceeded, artifact, nil)

	p.hook(ctx, r, StagePostbuild, runtime.HookPostbuild, p.session.Manifest.Postbuild)
	return p.finish(r, StageDone, nil)
}

func (p *Pipeline) finish(r *Report, final Stage, err error) (*Report, error) {
	r.Final = final
	p.logger.Debug("pipeline finished", "session", p.session.ID, "stage", final.String())
	return r, err
}

// hook runs one hook script. Failures are recorded and logged only.
func (p *Pipeline) hook(ctx context.Context, r *Report, stage Stage, hook runtime.Hook, path string) {
	if path == "" || p.opts.DisableHooks {
		r.record(stage, StatusSkipped, "no hook", nil)
		return
	}

	env := p.session.Env
	m := p.session.Manifest
	res := p.opts.Scripts.RunFile(ctx, runtime.Script{
		Path: path,
		Hook: hook,
		Dir:  env.Root(),
		Env: map[string]string{
			runtime.EnvProjectRoot:    env.Root(),
			runtime.EnvProjectName:    m.Name,
			runtime.EnvProjectVersion: m.Version,
			runtime.EnvBinDir:         env.BinDir(),
		},
		EnvFile: filepath.Join(env.Root(), runtime.DotenvFileName),
	})
	if res.Output != "" {
		p.logger.Info(res.Output, "hook", string(hook))
	}
	if !res.Success() {
		err := res.Error
		if err == nil {
			err = issue.New(issue.CodeScriptExecution, "%s hook exited with code %d", hook, int(res.ExitCode))
		}
		p.logger.Error("hook failed, continuing", "hook", string(hook), "code", int(issue.CodeOf(err)), "err", err)
		r.record(stage, StatusFailed, path, err)
		return
	}
	r.record(stage, StatusSucceeded, path, nil)
}

func (p *Pipeline) compile(ctx context.Context, files []string) error {
	m := p.session.Manifest
	compiler := m.EffectiveCompiler(p.opts.GOOS)
	if compiler != project.CompilerMSVC {
		return issue.New(issue.CodeNotImplemented, "compiling with %s is not implemented", compiler)
	}
	if m.Toolchain.CXXCompiler == "" {
		return issue.New(issue.CodeToolchainUnresolved, "no compiler path; the toolchain was not located")
	}
	objDir := p.session.Env.ObjectDir()
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return issue.Wrap(issue.CodeOutputDirectory, err, "cannot create %s", objDir)
	}

	args := msvcCompileArgs(objDir, m.CppStandard, m.CStandard, m.FlagsFor(compiler).Compiler, files)
	p.logger.Info("compiling", "files", len(files))
	res := p.opts.Runner.Run(ctx, runtime.Command{Path: m.Toolchain.CXXCompiler, Args: args, Dir: p.session.Env.Root()})
	p.logOutput(res.Output)
	if res.Error != nil {
		return res.Error
	}
	if !res.ExitCode.IsSuccess() {
		return issue.New(issue.CodeCompilerRunFailed, "compiler run failed with exit code %d", int(res.ExitCode))
	}
	return nil
}

func (p *Pipeline) link(ctx context.Context) (string, error) {
	m := p.session.Manifest
	env := p.session.Env
	compiler := m.EffectiveCompiler(p.opts.GOOS)

	if compiler != project.CompilerMSVC {
		return "", issue.New(issue.CodeNotImplemented, "linking with %s is not implemented", compiler)
	}
	if m.Type != project.ProjectExecutable {
		return "", issue.New(issue.CodeNotImplemented, "linking a %s is not implemented", m.Type)
	}
	if m.Toolchain.Linker == "" {
		return "", issue.New(issue.CodeToolchainUnresolved, "no linker path; the toolchain was not located")
	}

	objects, err := findObjects(env.ObjectDir(), ".obj")
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", issue.New(issue.CodeNoObjectFiles, "no .obj files in %s", env.ObjectDir())
	}

	output := filepath.Join(env.BinDir(), m.Name+".exe")
	args := msvcLinkArgs(objects, m.FlagsFor(compiler).Linker, output)
	p.logger.Info("linking", "output", output, "objects", len(objects))
	res := p.opts.Runner.Run(ctx, runtime.Command{Path: m.Toolchain.Linker, Args: args, Dir: env.Root()})
	p.logOutput(res.Output)
	if res.Error != nil {
		return "", res.Error
	}
	if !res.ExitCode.IsSuccess() {
		return "", issue.New(issue.CodeLinkerRunFailed, "linker run failed with exit code %d", int(res.ExitCode))
	}
	return output, nil
}

func (p *Pipeline) logOutput(out string) {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			p.logger.Info(line)
		}
	}
}

// findObjects lists the files in dir with extension ext, in lexical order.
func findObjects(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, issue.Wrap(issue.CodeDirectoryIteration, err, "cannot list %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
