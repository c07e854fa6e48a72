// SPDX-License-Identifier: MPL-2.0

// Package sphinx drives the secondary renderer: sphinx-build with the breathe
// extension, fed by the generator's XML output and one stub page per
// mirrored file.
package sphinx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rw1nkler/doxycheck/internal/doxygen"
	"github.com/rw1nkler/doxycheck/internal/issue"
	"github.com/rw1nkler/doxycheck/internal/staging"
	"github.com/rw1nkler/doxycheck/internal/toolexec"
)

const (
	// DefaultBinary is the renderer executable looked up on PATH.
	DefaultBinary = "sphinx-build"
	// DefaultTheme is the HTML theme used when none is configured.
	DefaultTheme = "sphinx_rtd_theme"
	// IndexPage is the renderer's HTML entry page.
	IndexPage = "index.html"

	breatheProject = "default"
	filesDir       = "files"
)

// ErrRendererFailed is the sentinel matched by every RendererError.
var ErrRendererFailed = errors.New("documentation renderer failed")

type (
	// Project is the renderer configuration for one staging root.
	Project struct {
		Layout staging.Layout
		// Name is the project title.
		Name string
		// Theme overrides DefaultTheme.
		Theme string
		// Binary overrides DefaultBinary.
		Binary string
	}

	// RendererError reports a renderer that could not run or exited non-zero.
	RendererError struct {
		Op  string
		Err error
	}
)

func (e *RendererError) Error() string {
	return fmt.Sprintf("sphinx %s: %v", e.Op, e.Err)
}

func (e *RendererError) Unwrap() []error { return []error{ErrRendererFailed, e.Err} }

// WriteSources writes conf.py, index.rst and one stub page per mirrored file,
// named by its path relative to the staging source subtree.
func (p Project) WriteSources(logical []string) error {
	dir := p.Layout.SphinxSourceDir()
	if err := os.MkdirAll(filepath.Join(dir, filesDir), 0o755); err != nil {
		return &RendererError{Op: "write sources", Err: err}
	}

	if err := writeFile(filepath.Join(dir, "conf.py"), p.confPy()); err != nil {
		return err
	}

	var toc strings.Builder
	for _, name := range logical {
		page := PageName(name)
		toc.WriteString("   " + filesDir + "/" + page + "\n")
		if err := writeFile(filepath.Join(dir, filesDir, page+".rst"), filePage(name)); err != nil {
			return err
		}
	}
	index := heading(p.name(), "=") +
		"\n.. toctree::\n   :maxdepth: 1\n   :caption: Files\n\n" + toc.String()
	if err := writeFile(filepath.Join(dir, "index.rst"), index); err != nil {
		return err
	}

	slog.Debug("wrote renderer sources", "dir", dir, "pages", len(logical))
	return nil
}

// Build runs the renderer and blocks until it exits. Status output goes to
// the layout's sphinx.log; warnings go to its warn.log.
func (p Project) Build(ctx context.Context) error {
	if err := os.MkdirAll(p.Layout.SphinxBuildDir(), 0o755); err != nil {
		return &RendererError{Op: "build", Err: err}
	}
	logFile, err := os.Create(p.Layout.SphinxLog())
	if err != nil {
		return &RendererError{Op: "build", Err: err}
	}
	defer func() { _ = logFile.Close() }()

	cmd := p.command()
	cmd.Stdout = logFile
	if err := cmd.Run(ctx); err != nil {
		if errors.Is(err, toolexec.ErrNotFound) {
			err = issue.NewErrorContext().
				WithOperation("run sphinx-build").
				WithResource(cmd.Binary).
				WithSuggestion("Install Sphinx and breathe: pip install sphinx breathe sphinx-rtd-theme").
				WithSuggestion("Point sphinx.binary (or DOXYCHECK_SPHINX_BINARY) at the executable").
				Wrap(err).
				BuildError()
		}
		return &RendererError{Op: "build", Err: err}
	}
	return nil
}

// CommandLine is the shell-quoted invocation Build would run.
func (p Project) CommandLine() string { return p.command().String() }

// Warnings returns the renderer's warning log with surrounding whitespace
// trimmed. A missing log reads as empty.
func (p Project) Warnings() (string, error) {
	data, err := os.ReadFile(p.Layout.SphinxWarnLog())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", &RendererError{Op: "read warnings", Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// IndexPath is the rendered site's entry page.
func (p Project) IndexPath() string {
	return filepath.Join(p.Layout.SphinxBuildDir(), IndexPage)
}

// PageName is the stub page basename (without extension) for a mirrored file.
func PageName(logical string) string {
	return strings.TrimSuffix(doxygen.FilePage(logical), ".html")
}

func (p Project) command() toolexec.Command {
	bin := strings.TrimSpace(p.Binary)
	if bin == "" {
		bin = DefaultBinary
	}
	l := p.Layout
	return toolexec.Command{
		Binary: bin,
		Args: []string{
			"-b", "html",
			"-d", l.SphinxDoctreeDir(),
			"-w", l.SphinxWarnLog(),
			l.SphinxSourceDir(),
			l.SphinxBuildDir(),
		},
		Dir: l.Root,
	}
}

func (p Project) name() string {
	if p.Name == "" {
		return doxygen.DefaultProjectName
	}
	return p.Name
}

func (p Project) confPy() string {
	theme := p.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	var b strings.Builder
	fmt.Fprintf(&b, "project = %s\n", pyString(p.name()))
	b.WriteString("extensions = [\"breathe\"]\n")
	fmt.Fprintf(&b, "html_theme = %s\n", pyString(theme))
	fmt.Fprintf(&b, "breathe_projects = {%s: %s}\n", pyString(breatheProject), pyString(p.Layout.XMLDir()))
	fmt.Fprintf(&b, "breathe_default_project = %s\n", pyString(breatheProject))
	return b.String()
}

func filePage(logical string) string {
	return heading(logical, "=") + "\n.. doxygenfile:: " + logical + "\n   :project: " + breatheProject + "\n"
}

func heading(title, underline string) string {
	return title + "\n" + strings.Repeat(underline, len(title)) + "\n"
}

// pyString renders s as a Python string literal. Go's escapes are a subset
// of Python's for printable and common control characters.
func pyString(s string) string { return strconv.Quote(s) }

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &RendererError{Op: "write sources", Err: err}
	}
	return nil
}

// Renderer builds a Project for each staging root it is handed.
type Renderer struct {
	Name   string
	Theme  string
	Binary string
}

func (r Renderer) project(l staging.Layout) Project {
	return Project{Layout: l, Name: r.Name, Theme: r.Theme, Binary: r.Binary}
}

// Render writes the sources for logical, builds the site and returns its
// entry page together with the renderer's warnings.
func (r Renderer) Render(ctx context.Context, l staging.Layout, logical []string) (index, warnings string, err error) {
	p := r.project(l)
	if err := p.WriteSources(logical); err != nil {
		return "", "", err
	}
	if err := p.Build(ctx); err != nil {
		return "", "", err
	}
	warnings, err = p.Warnings()
	if err != nil {
		return "", "", err
	}
	return p.IndexPath(), warnings, nil
}

// CommandLine is the shell-quoted invocation Render would run for l.
func (r Renderer) CommandLine(l staging.Layout) string { return r.project(l).CommandLine() }
