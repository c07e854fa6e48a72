// SPDX-License-Identifier: MPL-2.0

package doxygen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rw1nkler/doxycheck/internal/issue"
	"github.com/rw1nkler/doxycheck/internal/toolexec"
)

// DefaultBinary is the generator executable looked up on PATH.
const DefaultBinary = "doxygen"

// ErrGeneratorFailed is the sentinel matched by every GeneratorError.
var ErrGeneratorFailed = errors.New("documentation generator failed")

type (
	// Runner invokes the generator binary.
	Runner struct {
		// Binary overrides DefaultBinary.
		Binary string
		// Stdout receives the generator's progress output. Nil discards it.
		Stdout io.Writer
	}

	// GeneratorError reports a generator that could not run or exited
	// non-zero.
	GeneratorError struct {
		Binary string
		Err    error
	}
)

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("doxygen (%s): %v", e.Binary, e.Err)
}

func (e *GeneratorError) Unwrap() []error { return []error{ErrGeneratorFailed, e.Err} }

// Generate runs the generator against doxyfile and blocks until it exits.
// It runs in the doxyfile's directory so relative paths in overrides resolve
// inside the staging root.
func (r Runner) Generate(ctx context.Context, doxyfile string) error {
	cmd := r.command(doxyfile)
	cmd.Stdout = r.Stdout
	if err := cmd.Run(ctx); err != nil {
		if errors.Is(err, toolexec.ErrNotFound) {
			err = issue.NewErrorContext().
				WithOperation("run doxygen").
				WithResource(cmd.Binary).
				WithSuggestion("Install doxygen from your package manager or https://www.doxygen.nl").
				WithSuggestion("Point doxygen.binary (or DOXYCHECK_DOXYGEN_BINARY) at the executable").
				Wrap(err).
				BuildError()
		}
		return &GeneratorError{Binary: cmd.Binary, Err: err}
	}
	return nil
}

// CommandLine is the shell-quoted invocation Generate would run.
func (r Runner) CommandLine(doxyfile string) string {
	return r.command(doxyfile).String()
}

func (r Runner) command(doxyfile string) toolexec.Command {
	bin := strings.TrimSpace(r.Binary)
	if bin == "" {
		bin = DefaultBinary
	}
	return toolexec.Command{
		Binary: bin,
		Args:   []string{doxyfile},
		Dir:    filepath.Dir(doxyfile),
	}
}
