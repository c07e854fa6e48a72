// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
)

// ExitCode is the process status doxycheck ends with.
type ExitCode int

const (
	ExitOK ExitCode = iota
	// ExitFailure covers every fatal error.
	ExitFailure
	// ExitDiagnostics means the check ran but --strict found diagnostics.
	ExitDiagnostics
)

// ExitError carries a specific exit status out of a RunE handler.
type ExitError struct {
	Code ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCodeOf maps the error returned by command execution to a status.
func exitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
