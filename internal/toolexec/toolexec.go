// SPDX-License-Identifier: MPL-2.0

// Package toolexec runs the external collaborator binaries (the generator and
// the secondary renderer) synchronously and classifies how they failed.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// stderrTail bounds how much collaborator stderr is kept on an ExitError.
const stderrTail = 4096

var (
	// ErrNotFound is returned when a collaborator binary cannot be located.
	ErrNotFound = errors.New("executable not found")

	// ErrExit is the sentinel matched by every ExitError.
	ErrExit = errors.New("process exited with non-zero status")
)

type (
	// Command describes one collaborator invocation.
	Command struct {
		// Binary is a name resolved through PATH or an explicit path.
		Binary string
		Args   []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Stdout receives the process's standard output. Nil discards it.
		Stdout io.Writer
		// Stderr, when set, receives standard error in addition to the
		// captured tail kept for ExitError.
		Stderr io.Writer
	}

	// NotFoundError reports a missing collaborator binary.
	NotFoundError struct {
		Binary string
		Err    error
	}

	// ExitError reports a collaborator that ran and exited non-zero.
	ExitError struct {
		Binary string
		Code   int
		// Stderr is the tail of what the process wrote to standard error.
		Stderr string
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: executable not found in PATH", e.Binary)
}

func (e *NotFoundError) Unwrap() []error { return []error{ErrNotFound, e.Err} }

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		msg += ": " + lastLine(tail)
	}
	return msg
}

func (e *ExitError) Unwrap() error { return ErrExit }

// Run executes the command and waits for it. Context cancellation kills the
// process.
func (c Command) Run(ctx context.Context) error {
	path, err := exec.LookPath(c.Binary)
	if err != nil {
		return &NotFoundError{Binary: c.Binary, Err: err}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	slog.Debug("running collaborator", "command", c.String(), "dir", c.Dir)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Binary: c.Binary, Code: exitErr.ExitCode(), Stderr: tail(stderr.String())}
		}
		return fmt.Errorf("run %s: %w", c.Binary, err)
	}
	return nil
}

// String renders the command as a bash-quoted command line suitable for
// copying into a shell.
func (c Command) String() string {
	words := append([]string{c.Binary}, c.Args...)
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			// Only strings with NUL bytes are unquotable; show them raw.
			q = w
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

func tail(s string) string {
	if len(s) <= stderrTail {
		return s
	}
	return s[len(s)-stderrTail:]
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
