// SPDX-License-Identifier: MPL-2.0

// Package staging owns the disposable staging root a check runs in: its fixed
// layout and its lifecycle (create, prepare, then preserve or clean).
package staging

import "path/filepath"

// Prefix starts the name of every staging root directory.
const Prefix = "doxycheck_"

// Fixed names inside a staging root. Other tooling may rely on this layout.
const (
	SourceDirName  = "src"
	BuildDirName   = "build"
	WarnLogName    = "warn.log"
	DoxyfileName   = "doxyfile"
	SphinxDirName  = "sphinx"
	HTMLDirName    = "html"
	XMLDirName     = "xml"
	DoctreeDirName = "doctrees"
	SphinxLogName  = "sphinx.log"
)

// Layout resolves the fixed paths inside a staging root.
type Layout struct {
	// Root is the absolute staging root directory.
	Root string
}

// SourceDir is the subtree mirroring the resolved Roots.
func (l Layout) SourceDir() string { return filepath.Join(l.Root, SourceDirName) }

// BuildDir holds generator and renderer output.
func (l Layout) BuildDir() string { return filepath.Join(l.Root, BuildDirName) }

// WarnLog is the generator's machine-parsable diagnostic log.
func (l Layout) WarnLog() string { return filepath.Join(l.Root, WarnLogName) }

// Doxyfile is the generator configuration file.
func (l Layout) Doxyfile() string { return filepath.Join(l.Root, DoxyfileName) }

// HTMLDir is the generator's HTML output.
func (l Layout) HTMLDir() string { return filepath.Join(l.BuildDir(), HTMLDirName) }

// XMLDir is the generator's XML output consumed by the renderer.
func (l Layout) XMLDir() string { return filepath.Join(l.BuildDir(), XMLDirName) }

// SphinxSourceDir holds the renderer's conf.py and index pages.
func (l Layout) SphinxSourceDir() string { return filepath.Join(l.Root, SphinxDirName) }

// SphinxBuildDir is the renderer's HTML output.
func (l Layout) SphinxBuildDir() string { return filepath.Join(l.BuildDir(), SphinxDirName) }

// SphinxDoctreeDir is the renderer's pickled doctree cache.
func (l Layout) SphinxDoctreeDir() string { return filepath.Join(l.SphinxBuildDir(), DoctreeDirName) }

// SphinxLog captures the renderer's status output.
func (l Layout) SphinxLog() string { return filepath.Join(l.SphinxBuildDir(), SphinxLogName) }

// SphinxWarnLog captures the renderer's warnings.
func (l Layout) SphinxWarnLog() string { return filepath.Join(l.SphinxBuildDir(), WarnLogName) }
