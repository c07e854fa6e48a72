// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rw1nkler/doxycheck/internal/config"
	"github.com/rw1nkler/doxycheck/internal/doxygen"
	"github.com/rw1nkler/doxycheck/internal/issue"
	"github.com/rw1nkler/doxycheck/internal/mirror"
	"github.com/rw1nkler/doxycheck/internal/resolve"
	"github.com/rw1nkler/doxycheck/internal/sphinx"
	"github.com/rw1nkler/doxycheck/internal/toolexec"
)

// ServiceError is an error that carries an issue catalog entry for the CLI
// layer to render below the error message.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyCheckError attaches the matching issue catalog entry to a failed
// check. Errors without a catalog entry are returned unchanged.
func classifyCheckError(err error) error {
	if err == nil {
		return nil
	}
	var id issue.Id
	switch {
	case errors.Is(err, resolve.ErrInvalidInput):
		id = issue.InvalidInputId
	case errors.Is(err, resolve.ErrResolutionConflict):
		id = issue.ResolutionConflictId
	case errors.Is(err, mirror.ErrMirrorIO):
		id = issue.MirrorFailedId
	case errors.Is(err, doxygen.ErrProtectedOption), errors.Is(err, doxygen.ErrInvalidOptionName):
		id = issue.InvalidDoxygenOptionId
	case errors.Is(err, doxygen.ErrGeneratorFailed) && errors.Is(err, toolexec.ErrNotFound):
		id = issue.GeneratorNotFoundId
	case errors.Is(err, doxygen.ErrGeneratorFailed):
		id = issue.GeneratorFailedId
	case errors.Is(err, sphinx.ErrRendererFailed) && errors.Is(err, toolexec.ErrNotFound):
		id = issue.RendererNotFoundId
	case errors.Is(err, sphinx.ErrRendererFailed):
		id = issue.RendererFailedId
	default:
		return err
	}
	return newServiceError(err, id)
}

// renderError writes err for the user: the message (with suggestions for
// actionable errors), then the issue catalog entry when one is attached.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+ae.Format(verbose))
	} else {
		fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID == 0 {
		return
	}
	catalogEntry := issue.Get(svcErr.IssueID)
	if catalogEntry == nil {
		return
	}
	rendered, renderErr := catalogEntry.Render(glamourStyle(scheme))
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle maps the configured color scheme to a glamour style name.
// "auto" picks dark, light or plain output from the terminal.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
