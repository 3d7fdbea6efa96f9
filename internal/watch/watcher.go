// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/sourcecache"
)

const defaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// editorNoise is ignored in addition to user patterns.
var editorNoise = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

type (
	// ChangeFunc receives the sorted, project-relative paths that changed
	// during one debounce window.
	ChangeFunc func(ctx context.Context, changed []string) error

	// Options configures a Watcher.
	Options struct {
		// Ignore holds extra doublestar patterns relative to the project root.
		Ignore []string
		// Debounce is the quiet period before OnChange fires. Values <= 0
		// use 500ms.
		Debounce time.Duration
		OnChange ChangeFunc
		Logger   *log.Logger
	}

	// Watcher watches one project tree.
	Watcher struct {
		root     string
		skipDirs map[string]bool
		ignores  []string
		debounce time.Duration
		onChange ChangeFunc
		logger   *log.Logger
		fsw      *fsnotify.Watcher
		started  atomic.Bool
	}
)

// New creates a Watcher for env and registers its directories.
func New(env *project.Environment, opts Options) (*Watcher, error) {
	for _, pat := range opts.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		root: env.Root(),
		skipDirs: map[string]bool{
			env.CacheDir():  true,
			env.BinDir():    true,
			env.ObjectDir(): true,
		},
		ignores:  slices.Concat(editorNoise, opts.Ignore),
		debounce: debounce,
		onChange: opts.OnChange,
		logger:   logging.OrDiscard(opts.Logger),
		fsw:      fsw,
	}

	if err := w.register(w.root); err != nil {
		fsw.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return w, nil
}

// Run dispatches debounced callbacks until ctx is canceled. A callback that
// is still running when the next window closes delays that window instead of
// overlapping it.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("build still running, deferring change batch")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.onChange == nil {
			return
		}
		if err := w.onChange(ctx, changed); err != nil {
			w.logger.Error("rebuild failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				w.registerNew(evt.Name)
			}
			rel, relevant := w.relevant(evt.Name)
			if !relevant {
				continue
			}
			w.logger.Debug("change", "path", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isBrokenWatchError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// relevant reports whether an event on path should schedule a rebuild and
// returns the slash-separated project-relative path.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !sourcecache.IsTracked(rel) || w.ignored(rel) {
		return "", false
	}
	for dir := range w.skipDirs {
		if inDir(dir, path) {
			return "", false
		}
	}
	return rel, true
}

func (w *Watcher) ignored(rel string) bool {
	for _, pat := range w.ignores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// skipDir reports whether the directory at path is never watched.
func (w *Watcher) skipDir(path string) bool {
	if w.skipDirs[path] {
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	return rel != "." && (w.ignored(rel) || w.ignored(rel+"/"))
}

// register adds dir and every non-skipped directory below it.
func (w *Watcher) register(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("not watching", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: register %s: %w", dir, err)
	}
	return nil
}

// registerNew extends the watch to a directory created after startup.
func (w *Watcher) registerNew(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.register(path); err != nil {
		w.logger.Warn("not watching new directory", "path", path, "err", err)
	}
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
