// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Workspace is one allocated staging root. Every check gets its own.
type Workspace struct {
	layout   Layout
	released bool
	kept     bool
}

// Create allocates a fresh, uniquely named staging root under parent. An empty
// parent uses the operating system's temporary directory.
func Create(parent string) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, Prefix)
	if err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		_ = os.RemoveAll(dir) // best-effort cleanup of the directory we just made
		return nil, fmt.Errorf("resolve staging root: %w", err)
	}
	slog.Debug("created staging root", "path", abs)
	return &Workspace{layout: Layout{Root: abs}}, nil
}

// Layout returns the workspace's fixed paths.
func (w *Workspace) Layout() Layout { return w.layout }

// Prepare creates the source and build subtrees.
func (w *Workspace) Prepare() error {
	for _, dir := range []string{w.layout.SourceDir(), w.layout.BuildDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("prepare staging root: %w", err)
		}
	}
	return nil
}

// Release ends the workspace's lifecycle. With preserve set the staging root
// stays on disk; otherwise it is removed. Removal is best-effort: failures
// are logged and never returned. Release reports whether the tree was kept
// and is a no-op after the first call.
func (w *Workspace) Release(preserve bool) bool {
	if w.released {
		return w.kept
	}
	w.released = true
	w.kept = preserve

	if preserve {
		slog.Debug("preserving staging root", "path", w.layout.Root)
		return true
	}
	if err := os.RemoveAll(w.layout.Root); err != nil {
		slog.Warn("failed to remove staging root", "path", w.layout.Root, "error", err)
	}
	return false
}
