// SPDX-License-Identifier: MPL-2.0

// Package mirror writes a resolved Mapping into the staging source subtree.
// Each copy is prefixed with a documentation marker so the generator treats
// every file as documented at file level and reports only
// declaration-level problems.
package mirror

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/rw1nkler/doxycheck/internal/resolve"
)

// Marker is prepended to every mirrored file. No newline follows it, so line
// numbers in diagnostics match the original file.
const Marker = "/** @file */"

// ErrMirrorIO is the sentinel matched by every MirrorIOError.
var ErrMirrorIO = errors.New("mirror I/O failure")

// MirrorIOError reports a failed read of an original file or a failed write
// into the staging tree.
type MirrorIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *MirrorIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MirrorIOError) Unwrap() []error { return []error{ErrMirrorIO, e.Err} }

// Materialize creates every Root's destination directory, then writes each
// mirrored file with Marker prepended. Originals are only read.
func Materialize(m *resolve.Mapping) error {
	roots := m.Roots()
	for _, r := range roots {
		if err := os.MkdirAll(r.DestPath, 0o755); err != nil {
			return &MirrorIOError{Op: "create directory", Path: r.DestPath, Err: err}
		}
	}

	count := 0
	for _, r := range roots {
		for _, f := range r.Files {
			if err := copyWithMarker(f); err != nil {
				return err
			}
			count++
		}
	}
	slog.Debug("mirrored sources", "roots", len(roots), "files", count, "dir", m.SourceDir())
	return nil
}

func copyWithMarker(f resolve.FileEntry) error {
	content, err := os.ReadFile(f.SourcePath)
	if err != nil {
		return &MirrorIOError{Op: "read", Path: f.SourcePath, Err: err}
	}
	out := make([]byte, 0, len(Marker)+len(content))
	out = append(out, Marker...)
	out = append(out, content...)
	if err := os.WriteFile(f.DestPath, out, 0o644); err != nil {
		return &MirrorIOError{Op: "write", Path: f.DestPath, Err: err}
	}
	return nil
}
