// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/rw1nkler/doxycheck/internal/browser"
	"github.com/rw1nkler/doxycheck/internal/check"
	"github.com/rw1nkler/doxycheck/internal/config"
	"github.com/rw1nkler/doxycheck/internal/doxygen"
	"github.com/rw1nkler/doxycheck/internal/issue"
	"github.com/rw1nkler/doxycheck/internal/report"
	"github.com/rw1nkler/doxycheck/internal/sphinx"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds
	// per-invocation values (configuration, Orchestrator) through it.
	App struct {
		Config ConfigProvider
		// Opener overrides the browser built from configuration.
		Opener browser.Opener
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Opener browser.Opener
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		Opener: deps.Opener,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads the effective configuration, honoring --config.
func (a *App) loadConfig(ctx context.Context, configPath string) (*config.Config, string, error) {
	cfg, source, err := a.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return nil, "", newServiceError(err, issue.ConfigLoadFailedId)
	}
	return cfg, source, nil
}

// orchestrator builds the collaborators for one invocation from cfg.
// Generator progress goes to stderr only when progress is set.
func (a *App) orchestrator(cfg *config.Config, noBrowser, progress bool, onReport func([]report.Warning) error) *check.Orchestrator {
	runner := doxygen.Runner{Binary: cfg.Doxygen.Binary.String()}
	if progress {
		runner.Stdout = a.stderr
	}

	var opener browser.Opener
	switch {
	case noBrowser:
		opener = browser.Printer{W: a.stderr}
	case a.Opener != nil:
		opener = a.Opener
	default:
		opener = browser.System{Command: cfg.Browser.Command}
	}

	return &check.Orchestrator{
		TempDir:   cfg.Staging.TempDir,
		Generator: runner,
		Renderer: sphinx.Renderer{
			Name:   cfg.Doxygen.ProjectName,
			Theme:  cfg.Sphinx.Theme,
			Binary: cfg.Sphinx.Binary.String(),
		},
		Opener:   opener,
		OnReport: onReport,
	}
}
