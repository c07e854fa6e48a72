// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "stage inputs"},
			expected: "failed to stage inputs",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "./doxycheck.cue"},
			expected: "failed to load configuration: ./doxycheck.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "run doxygen", Cause: errors.New("exit status 1")},
			expected: "failed to run doxygen: exit status 1",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "mirror sources",
				Resource:  "lib/a.cpp",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to mirror sources: lib/a.cpp: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := &ActionableError{Operation: "test", Cause: fmt.Errorf("wrapped: %w", cause)}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the root cause through the chain")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() without a cause should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("no such file")
	err := &ActionableError{
		Operation:   "load configuration",
		Resource:    "/etc/doxycheck.cue",
		Suggestions: []string{"Check the path", "Run 'doxycheck config init'"},
		Cause:       fmt.Errorf("open: %w", inner),
	}

	plain := err.Format(false)
	if !strings.HasPrefix(plain, err.Error()) {
		t.Errorf("Format(false) should start with Error(), got %q", plain)
	}
	for _, s := range err.Suggestions {
		if !strings.Contains(plain, "  • "+s) {
			t.Errorf("Format(false) missing suggestion %q", s)
		}
	}
	if strings.Contains(plain, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Fatal("Format(true) should include the error chain")
	}
	if !strings.Contains(verbose, "1. open: no such file") || !strings.Contains(verbose, "2. no such file") {
		t.Errorf("Format(true) chain incomplete:\n%s", verbose)
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()

	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("HasSuggestions() = true without suggestions")
	}
	if !(&ActionableError{Operation: "x", Suggestions: []string{"y"}}).HasSuggestions() {
		t.Error("HasSuggestions() = false with a suggestion")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	got := NewErrorContext().
		WithOperation("run sphinx-build").
		WithResource("/tmp/doxycheck_1/sphinx").
		WithSuggestion("Install breathe").
		WithSuggestion("Re-run with -vv").
		Wrap(cause).
		Build()

	if got == nil {
		t.Fatal("Build() returned nil")
	}
	if got.Operation != "run sphinx-build" || got.Resource != "/tmp/doxycheck_1/sphinx" {
		t.Errorf("Build() = %+v", got)
	}
	if len(got.Suggestions) != 2 {
		t.Errorf("len(Suggestions) = %d, want 2", len(got.Suggestions))
	}
	if !errors.Is(got, cause) {
		t.Error("Build() lost the cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithResource("x")
	if ctx.Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("op").WithSuggestion("first")
	first := ctx.Build()
	ctx.WithSuggestion("second")
	second := ctx.Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("first build mutated by later suggestion: %v", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("second build suggestions = %v", second.Suggestions)
	}

	var ae *ActionableError
	if !errors.As(ctx.BuildError(), &ae) {
		t.Error("BuildError() should produce an *ActionableError")
	}
}
