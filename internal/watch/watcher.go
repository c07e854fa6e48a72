// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback after source files change.
//
// Directory roots are watched recursively and loose files through their
// parent directory. Events inside the debounce window are coalesced so the
// callback fires once with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets an editor's write-then-rename settle into one event
// batch.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are matched against the path relative to each directory root
// and are always applied.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.svn/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.DS_Store",
}

// ErrNothingToWatch is returned by New when the Config names no paths.
var ErrNothingToWatch = errors.New("watch: no directories or files to watch")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are directories watched recursively.
		Roots []string

		// Files are individual files. Their parent directories are watched
		// and only events for the files themselves are reported.
		Files []string

		// Match selects which files under Roots trigger the callback, by
		// base name. A nil Match accepts every non-ignored file.
		Match func(name string) bool

		// Ignore are doublestar patterns, relative to the enclosing root, for
		// paths that never trigger the callback. They are merged with the
		// built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values use defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted absolute paths that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stderr receives watcher diagnostics; nil means os.Stderr.
		Stderr io.Writer
	}

	// Watcher monitors source paths and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		files    map[string]bool
		ignores  []string
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool
	}
)

// New validates cfg, creates the fsnotify watcher, and registers every
// non-ignored directory below the roots plus the parents of loose files.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 && len(cfg.Files) == 0 {
		return nil, ErrNothingToWatch
	}
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", r, err)
		}
		roots = append(roots, abs)
	}
	files := make(map[string]bool, len(cfg.Files))
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		files[abs] = true
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		files:    files,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		stderr:   stderr,
		debounce: debounce,
	}

	if err := w.register(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is canceled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and an
// error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation since it is scheduled by AfterFunc.
	// Overlapping runs are skipped and retried after another debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.relevant(evt.Name) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// register adds every watched directory to fsnotify.
func (w *Watcher) register() error {
	for _, root := range w.roots {
		walkErr := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				if p == root {
					return fmt.Errorf("watch: open root %q: %w", root, err)
				}
				fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", p, err)
				return nil //nolint:nilerr // inaccessible subtrees are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if p != root && w.ignoredUnder(root, p) {
				return filepath.SkipDir
			}
			if addErr := w.fsw.Add(p); addErr != nil {
				return fmt.Errorf("watch: add directory %q: %w", p, addErr)
			}
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	for _, parent := range w.fileParents() {
		if err := w.fsw.Add(parent); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", parent, err)
		}
	}
	return nil
}

func (w *Watcher) fileParents() []string {
	seen := make(map[string]bool, len(w.files))
	for f := range w.files {
		seen[filepath.Dir(f)] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// maybeAddDir extends recursive watches to directories created after start.
func (w *Watcher) maybeAddDir(p string) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return
	}
	root, ok := w.rootOf(p)
	if !ok || w.ignoredUnder(root, p) {
		return
	}
	if addErr := w.fsw.Add(p); addErr != nil {
		fmt.Fprintf(w.stderr, "watch: add new directory %q: %v\n", p, addErr)
	}
}

// relevant reports whether an event on p should schedule the callback.
func (w *Watcher) relevant(p string) bool {
	if w.files[p] {
		return true
	}
	root, ok := w.rootOf(p)
	if !ok || w.ignoredUnder(root, p) {
		return false
	}
	return w.cfg.Match == nil || w.cfg.Match(filepath.Base(p))
}

// rootOf returns the directory root containing p.
func (w *Watcher) rootOf(p string) (string, bool) {
	for _, root := range w.roots {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

func (w *Watcher) ignoredUnder(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return matchAny(w.ignores, filepath.ToSlash(rel))
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
		// Directory patterns like "**/.git/**" must also catch the
		// directory itself.
		if matched, err := doublestar.Match(pat, rel+"/"); err == nil && matched {
			return true
		}
	}
	return false
}

// isFatal reports errors after which fsnotify stops delivering events.
func isFatal(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}
	return nil
}
