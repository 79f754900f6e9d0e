// Package watch reruns a task when the project's inputs change.
package watch

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
)

// RunFunc is the work repeated on every change batch.
type RunFunc func(ctx context.Context) error

// Watcher watches directory trees and single files. Runs never overlap:
// changes seen while a run is in progress trigger one more run after it.
// A watched file only counts as changed when its content differs from what
// it held after the last run, so a run that rewrites and restores it does
// not retrigger itself.
type Watcher struct {
	dirs     []string
	files    map[string]bool
	sums     map[string][sha256.Size]byte
	ignore   []string
	debounce time.Duration
	run      RunFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change before a rerun.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnore drops events under any of paths.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p != "" {
				w.ignore = append(w.ignore, filepath.Clean(p))
			}
		}
	}
}

// New creates a Watcher over paths. Directories are watched recursively;
// files are watched through their parent directory. Paths that do not
// exist are skipped.
func New(paths []string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		files:    map[string]bool{},
		sums:     map[string][sha256.Size]byte{},
		debounce: constants.WatchDebounce,
		run:      run,
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		p = filepath.Clean(p)
		if info.IsDir() {
			w.dirs = append(w.dirs, p)
		} else {
			w.files[p] = true
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs one run immediately, then one per debounced batch of
// changes until ctx is done. Failed runs are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if len(w.dirs) == 0 && len(w.files) == 0 {
		return errors.NewMissingPath("watched sources", "")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs {
		w.addTree(ctx, fw, dir)
	}
	for file := range w.files {
		if err := fw.Add(filepath.Dir(file)); err != nil {
			logger.Warn().Err(err).Str("path", file).Msg("cannot watch file")
		}
	}
	logger.Info().Int("trees", len(w.dirs)).Int("files", len(w.files)).Msg("watching for changes")

	w.runOnce(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, serr := os.Stat(ev.Name); serr == nil && info.IsDir() {
					w.addTree(ctx, fw, ev.Name)
				}
			}
			logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(werr).Msg("watcher error")
		case <-fire:
			fire = nil
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	err := w.run(ctx)
	w.snapshot()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn().Err(err).Msg("run failed, waiting for changes")
		return
	}
	logger.Info().Msg("run finished, waiting for changes")
}

func (w *Watcher) addTree(ctx context.Context, fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if w.ignored(p) || (p != root && hidden(p)) {
			return filepath.SkipDir
		}
		if aerr := fw.Add(p); aerr != nil {
			zerolog.Ctx(ctx).Warn().Err(aerr).Str("dir", p).Msg("watch add failed")
		}
		return nil
	})
}

// relevant reports whether a change at p should trigger a run.
func (w *Watcher) relevant(p string) bool {
	p = filepath.Clean(p)
	if w.ignored(p) || hidden(p) || editorTemp(p) {
		return false
	}
	if w.files[p] {
		return w.contentChanged(p)
	}
	for _, dir := range w.dirs {
		if within(p, dir) {
			return true
		}
	}
	return false
}

func (w *Watcher) snapshot() {
	for file := range w.files {
		if data, err := os.ReadFile(file); err == nil {
			w.sums[file] = sha256.Sum256(data)
		} else {
			delete(w.sums, file)
		}
	}
}

func (w *Watcher) contentChanged(file string) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		_, had := w.sums[file]
		return had
	}
	prev, ok := w.sums[file]
	return !ok || prev != sha256.Sum256(data)
}

func (w *Watcher) ignored(p string) bool {
	for _, ig := range w.ignore {
		if within(p, ig) {
			return true
		}
	}
	return false
}

func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(filepath.Separator))
}

func hidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}

func editorTemp(p string) bool {
	base := filepath.Base(p)
	return strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasPrefix(base, "#")
}
