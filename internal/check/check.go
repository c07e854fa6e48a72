// SPDX-License-Identifier: MPL-2.0

// Package check sequences one documentation check: it owns the staging root
// for the duration of the run and drives resolution, mirroring, generation,
// reporting and the optional HTML steps in order.
package check

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rw1nkler/doxycheck/internal/doxygen"
	"github.com/rw1nkler/doxycheck/internal/mirror"
	"github.com/rw1nkler/doxycheck/internal/report"
	"github.com/rw1nkler/doxycheck/internal/resolve"
	"github.com/rw1nkler/doxycheck/internal/staging"
)

var errNoRenderer = errors.New("sphinx output requested but no renderer is configured")

type (
	// Generator runs the documentation generator for a written Doxyfile.
	Generator interface {
		Generate(ctx context.Context, doxyfile string) error
		CommandLine(doxyfile string) string
	}

	// Renderer builds the secondary HTML site from a generated staging root.
	Renderer interface {
		Render(ctx context.Context, l staging.Layout, logical []string) (index, warnings string, err error)
		CommandLine(l staging.Layout) string
	}

	// Opener shows a generated page.
	Opener interface {
		Open(ctx context.Context, path string) error
	}

	// Orchestrator holds the collaborators shared by every check. It keeps no
	// per-check state, so one value may run many checks in sequence.
	Orchestrator struct {
		// TempDir is the parent of staging roots; empty means the OS default.
		TempDir   string
		Generator Generator
		// Renderer is required only for checks requesting SphinxHTML.
		Renderer Renderer
		// Opener is required only for checks requesting HTML output.
		Opener Opener
		// OnReport, when set, receives the parsed diagnostics as soon as the
		// generator finishes, before any HTML step runs.
		OnReport func([]report.Warning) error
	}

	// Options select what one check does.
	Options struct {
		Inputs   []string
		Excludes []string
		// DoxygenHTML opens the generator's HTML output.
		DoxygenHTML bool
		// SphinxHTML builds and opens the secondary renderer's site.
		SphinxHTML bool
		// Keep preserves the staging root regardless of HTML requests.
		Keep bool
		// DryRun resolves inputs and writes the Doxyfile but runs nothing.
		DryRun bool
		// Quiet suppresses the generator's progress output.
		Quiet bool
		// ProjectName overrides the derived project name.
		ProjectName string
		// DoxygenOptions are extra Doxyfile options.
		DoxygenOptions map[string]string
	}

	// Result describes a finished check.
	Result struct {
		StagingRoot string
		Preserved   bool
		Mapping     *resolve.Mapping
		Warnings    []report.Warning
		// RendererWarnings is the secondary renderer's warning log, verbatim.
		RendererWarnings string
		// Pages are the HTML entry pages handed to the Opener.
		Pages []string
		// Commands are the collaborator command lines a dry run would execute.
		Commands []string
		// Doxyfile is the generator configuration used by the check.
		Doxyfile doxygen.Doxyfile
		// States is the lifecycle the check went through.
		States []State
	}
)

// Final returns the terminal state of the check.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return 0
	}
	return r.States[len(r.States)-1]
}

func (r *Result) enter(s State) {
	slog.Debug("check state", "state", s.String(), "root", r.StagingRoot)
	r.States = append(r.States, s)
}

// Run performs one check in a freshly allocated staging root. The returned
// Result is non-nil whenever the staging root was created, even on error.
// The staging root is preserved when Keep is set or HTML output was
// produced; otherwise it is removed before Run returns.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	ws, err := staging.Create(o.TempDir)
	if err != nil {
		return nil, err
	}
	res := &Result{StagingRoot: ws.Layout().Root}
	res.enter(StateCreated)

	err = o.run(ctx, ws, opts, res)

	// Nothing worth keeping exists before the tree was staged.
	staged := len(res.States) > 1
	preserve := staged && !opts.DryRun && (opts.Keep || (err == nil && (opts.DoxygenHTML || opts.SphinxHTML)))
	res.Preserved = ws.Release(preserve)
	if res.Preserved {
		res.enter(StatePreserved)
	} else {
		res.enter(StateCleaned)
	}
	return res, err
}

func (o *Orchestrator) run(ctx context.Context, ws *staging.Workspace, opts Options, res *Result) error {
	l := ws.Layout()
	resolver, err := resolve.New(l.SourceDir(), resolve.WithExcludes(opts.Excludes...))
	if err != nil {
		return err
	}
	m, err := resolver.Resolve(opts.Inputs)
	if err != nil {
		return err
	}
	res.Mapping = m
	if err := ws.Prepare(); err != nil {
		return err
	}

	doxyfile, err := doxygen.NewDoxyfile(doxygen.Params{
		InputDir:    l.SourceDir(),
		OutputDir:   l.BuildDir(),
		WarnLog:     l.WarnLog(),
		ProjectName: projectName(opts),
		Patterns:    resolve.FilePatterns(),
		Quiet:       opts.Quiet,
		Overrides:   opts.DoxygenOptions,
	})
	if err != nil {
		return err
	}
	if err := doxyfile.Write(l.Doxyfile()); err != nil {
		return err
	}
	res.Doxyfile = doxyfile
	res.enter(StateStaged)

	if opts.DryRun {
		res.Commands = append(res.Commands, o.Generator.CommandLine(l.Doxyfile()))
		if opts.SphinxHTML && o.Renderer != nil {
			res.Commands = append(res.Commands, o.Renderer.CommandLine(l))
		}
		return nil
	}

	if err := mirror.Materialize(m); err != nil {
		return err
	}
	if err := o.Generator.Generate(ctx, l.Doxyfile()); err != nil {
		return err
	}
	res.enter(StateMirrored)

	warnings, err := report.NewParser(l.SourceDir()).ParseFile(l.WarnLog())
	if err != nil {
		return err
	}
	res.Warnings = warnings
	if o.OnReport != nil {
		if err := o.OnReport(warnings); err != nil {
			return err
		}
	}
	res.enter(StateReported)

	return o.html(ctx, l, m, opts, res)
}

// html runs the optional viewing steps after the report.
func (o *Orchestrator) html(ctx context.Context, l staging.Layout, m *resolve.Mapping, opts Options, res *Result) error {
	files := m.Files()
	if opts.DoxygenHTML {
		res.Pages = append(res.Pages, doxygenPage(l, m, files))
	}
	if opts.SphinxHTML {
		if o.Renderer == nil {
			return errNoRenderer
		}
		logical := make([]string, len(files))
		for i, f := range files {
			logical[i] = m.LogicalName(f)
		}
		index, warnings, err := o.Renderer.Render(ctx, l, logical)
		if err != nil {
			return err
		}
		res.RendererWarnings = warnings
		res.Pages = append(res.Pages, index)
	}

	if o.Opener == nil {
		return nil
	}
	for _, page := range res.Pages {
		if err := o.Opener.Open(ctx, page); err != nil {
			// The pages exist and the staging root is kept, so this is not fatal.
			slog.Warn("could not open page", "path", page, "error", err)
		}
	}
	return nil
}

// doxygenPage is the single file's page when exactly one file was mirrored,
// else the index.
func doxygenPage(l staging.Layout, m *resolve.Mapping, files []resolve.FileEntry) string {
	index := filepath.Join(l.HTMLDir(), doxygen.IndexPage)
	if len(files) != 1 {
		return index
	}
	page := filepath.Join(l.HTMLDir(), doxygen.FilePage(m.LogicalName(files[0])))
	if _, err := os.Stat(page); err != nil {
		return index
	}
	return page
}

// projectName derives PROJECT_NAME: the configured name, else the basename
// of a sole input, else the default.
func projectName(opts Options) string {
	if opts.ProjectName != "" {
		return opts.ProjectName
	}
	if len(opts.Inputs) == 1 {
		if abs, err := filepath.Abs(opts.Inputs[0]); err == nil {
			if base := filepath.Base(abs); base != string(filepath.Separator) && base != "." {
				return base
			}
		}
	}
	return doxygen.DefaultProjectName
}
