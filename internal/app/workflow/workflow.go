// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/build"
	"github.com/neoshafa/shafa/internal/config"
	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/manifest"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/runtime"
	"github.com/neoshafa/shafa/internal/sourcecache"
	"github.com/neoshafa/shafa/internal/toolchain"
)

// Step names used in StepError.
const (
	StepBind        = "bind manifest"
	StepDirectories = "create directories"
	StepScan        = "scan sources"
	StepResetCache  = "reset source cache"
	StepLocate      = "locate toolchain"
	StepLoadCache   = "load source cache"
	StepPipeline    = "run pipeline"
	StepCommit      = "commit source cache"
)

type (
	// Options configures a Workflow. Nil collaborators get the default
	// implementations.
	Options struct {
		Config  *config.Config
		Logger  *log.Logger
		Runner  runtime.CommandRunner
		Scripts runtime.ScriptEngine
		Fetcher toolchain.Fetcher
		// GOOS selects the host defaults; empty uses the running OS.
		GOOS string
	}

	// Workflow owns the session of one shafa invocation.
	Workflow struct {
		session *project.Session
		cache   *sourcecache.Cache
		binder  *manifest.Binder
		cfg     *config.Config
		opts    Options
		logger  *log.Logger

		bound   bool
		bindErr error
	}

	// StepError records a failed step.
	StepError struct {
		Step string
		Err  error
	}

	// BuildResult is the outcome of Build.
	BuildResult struct {
		// Diff lists the tracked files that changed since the last commit.
		Diff []sourcecache.Entry
		// Removed lists committed files that no longer exist.
		Removed []sourcecache.Entry
		// Compiled lists the translation units handed to the compiler,
		// relative to the project root.
		Compiled []string
		// Report is nil when the build stopped before the pipeline.
		Report *build.Report
	}
)

// New creates a Workflow for the project rooted at root.
func New(root string, opts Options) (*Workflow, error) {
	env, err := project.NewEnvironment(root)
	if err != nil {
		return nil, issue.Wrap(issue.CodeInvalidEnvironment, err, "invalid project root %q", root)
	}

	logger := logging.OrDiscard(opts.Logger)
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.GOOS == "" {
		opts.GOOS = goruntime.GOOS
	}
	if opts.Runner == nil {
		opts.Runner = runtime.NewExecRunner(logger)
	}
	if opts.Scripts == nil {
		opts.Scripts = runtime.NewShellEngine(logger)
	}

	session := project.NewSession(env)
	return &Workflow{
		session: session,
		cache:   sourcecache.New(env, logger),
		binder:  manifest.NewBinder(logger),
		cfg:     opts.Config,
		opts:    opts,
		logger:  logger.With("session", session.ID),
	}, nil
}

// Session returns the session the workflow operates on.
func (w *Workflow) Session() *project.Session { return w.session }

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error { return e.Err }

// Configure binds the manifest, creates the project directories, resets the
// source cache and locates the toolchain.
func (w *Workflow) Configure(ctx context.Context) error {
	var errs []error
	fail := func(step string, err error) {
		w.logger.Error(step, "err", err, "code", issue.CodeOf(err))
		errs = append(errs, &StepError{Step: step, Err: err})
	}

	if err := w.bind(); err != nil {
		fail(StepBind, err)
	}
	if err := w.ensureDirectories(); err != nil {
		fail(StepDirectories, err)
	}
	if entries, err := w.cache.Scan(ctx); err != nil {
		fail(StepScan, err)
	} else {
		w.logger.Info("scanned sources", "tracked", len(entries))
	}
	if err := w.cache.Reset(); err != nil {
		fail(StepResetCache, err)
	}
	if err := w.locate(ctx); err != nil {
		fail(StepLocate, err)
	}

	return errors.Join(errs...)
}

// Build compiles and links the translation units affected by changes since
// the last successful build and commits the new cache on success.
func (w *Workflow) Build(ctx context.Context) (*BuildResult, error) {
	var errs []error
	fail := func(step string, err error) {
		w.logger.Error(step, "err", err, "code", issue.CodeOf(err))
		errs = append(errs, &StepError{Step: step, Err: err})
	}

	// Without a manifest there is no artifact name and no compiler family.
	if err := w.bind(); err != nil {
		fail(StepBind, err)
		return nil, errors.Join(errs...)
	}

	current, err := w.cache.Scan(ctx)
	if err != nil {
		fail(StepScan, err)
		return nil, errors.Join(errs...)
	}

	if !w.session.Manifest.HasToolchain() {
		if err := w.locate(ctx); err != nil {
			fail(StepLocate, err)
		}
	}

	persisted, err := w.cache.Load()
	if err != nil {
		fail(StepLoadCache, err)
		return nil, errors.Join(errs...)
	}

	res := &BuildResult{
		Diff:    sourcecache.Diff(current, persisted),
		Removed: sourcecache.Removed(current, persisted),
	}
	for _, e := range res.Removed {
		w.logger.Info("source removed", "path", e.Path)
	}

	res.Compiled = compileSet(current, res.Diff)
	files := make([]string, len(res.Compiled))
	for i, rel := range res.Compiled {
		files[i] = filepath.Join(w.session.Env.Root(), filepath.FromSlash(rel))
	}

	pipeline := build.New(w.session, build.Options{
		Runner:       w.opts.Runner,
		Scripts:      w.opts.Scripts,
		Logger:       w.logger,
		DisableHooks: !w.cfg.Hooks.Enabled,
		GOOS:         w.opts.GOOS,
	})
	res.Report, err = pipeline.Run(ctx, files)
	if err != nil {
		fail(StepPipeline, err)
		return res, errors.Join(errs...)
	}

	if len(res.Diff) > 0 || len(res.Removed) > 0 {
		if err := w.cache.Commit(current); err != nil {
			fail(StepCommit, err)
		}
	}
	return res, errors.Join(errs...)
}

// FullBuild runs Configure followed by Build. A configure failure is
// reported but does not prevent the build.
func (w *Workflow) FullBuild(ctx context.Context) (*BuildResult, error) {
	cfgErr := w.Configure(ctx)
	res, err := w.Build(ctx)
	return res, errors.Join(cfgErr, err)
}

// bind loads the manifest once per session and applies the user's default
// compiler to an Unknown manifest compiler.
func (w *Workflow) bind() error {
	if w.bound {
		return w.bindErr
	}
	w.bound = true
	m := w.session.Manifest
	report, err := w.binder.BindFile(w.session.Env.ManifestPath(), m)
	if err != nil {
		w.bindErr = err
		return err
	}
	w.logger.Debug("manifest bound", "bound", len(report.Bound), "ignored", len(report.Ignored))

	if m.Compiler == project.CompilerUnknown && w.cfg.Toolchain.DefaultCompiler != "" {
		c, perr := project.ParseCompiler(w.cfg.Toolchain.DefaultCompiler)
		if perr != nil {
			w.logger.Warn("ignoring toolchain.default_compiler", "err", perr)
		} else {
			m.Compiler = c
		}
	}
	return nil
}

// ensureDirectories creates the cache, cache bin, bin and object
// directories and hides the cache directory where the platform supports it.
func (w *Workflow) ensureDirectories() error {
	env := w.session.Env
	for _, dir := range env.Directories() {
		if _, err := os.Stat(dir); err == nil {
			w.logger.Debug("directory exists", "path", dir)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return issue.Wrap(issue.CodeCannotWriteFile, err, "cannot create %s", dir)
		}
		if dir == env.CacheDir() {
			if err := hideDir(dir); err != nil {
				return issue.Wrap(issue.CodeCannotWriteFile, err, "cannot hide %s", dir)
			}
		}
	}
	return nil
}

func (w *Workflow) locate(ctx context.Context) error {
	m := w.session.Manifest
	url := ""
	tc := w.cfg.Toolchain
	if tc.DiscoveryURL != "" || tc.DiscoveryVersion != "" {
		template := tc.DiscoveryURL
		if template == "" {
			template = toolchain.DefaultDiscoveryURLTemplate
		}
		version := tc.DiscoveryVersion
		if version == "" {
			version = toolchain.DefaultDiscoveryVersion
		}
		var err error
		if url, err = toolchain.DiscoveryURL(template, version); err != nil {
			return err
		}
	}

	locator := toolchain.For(m.EffectiveCompiler(w.opts.GOOS), toolchain.Deps{
		Runner:       w.opts.Runner,
		Fetcher:      w.opts.Fetcher,
		Logger:       w.logger,
		DiscoveryURL: url,
	})
	if err := locator.Locate(ctx, w.session); err != nil {
		return err
	}
	w.logger.Debug("locator finished", "compiler", locator.Compiler())
	return nil
}

// compileSet returns the translation units to compile. A changed header,
// inline source or manifest may affect any unit, so it selects all of them.
func compileSet(current, diff []sourcecache.Entry) []string {
	if sourcecache.OnlyTranslationUnits(diff) {
		return sourcecache.Paths(diff)
	}
	return sourcecache.Paths(sourcecache.TranslationUnits(current))
}
