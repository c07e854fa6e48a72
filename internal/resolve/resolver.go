// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// fallbackRootName names a directory Root whose basename is unusable
// (the filesystem root, for instance).
const fallbackRootName = "root"

type (
	// Resolver builds Mappings whose destinations live under a fixed staging
	// source subtree.
	Resolver struct {
		sourceDir string
		excludes  []string
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// input is one classified command-line path.
	input struct {
		// arg is the path as the caller gave it.
		arg string
		// abs is the absolute, cleaned form of arg. Its basename names the
		// staged copy.
		abs string
		// real is abs with symlinks evaluated; it identifies the input.
		real string
	}
)

// WithExcludes skips files and directories whose path relative to a
// directory Root matches any of the doublestar patterns.
func WithExcludes(patterns ...string) Option {
	return func(r *Resolver) {
		r.excludes = append(r.excludes, patterns...)
	}
}

// New creates a Resolver that maps inputs under sourceDir, the staging
// source subtree. Exclude patterns are validated eagerly.
func New(sourceDir string, opts ...Option) (*Resolver, error) {
	if !filepath.IsAbs(sourceDir) {
		return nil, fmt.Errorf("staging source directory must be absolute: %q", sourceDir)
	}
	r := &Resolver{sourceDir: filepath.Clean(sourceDir)}
	for _, opt := range opts {
		opt(r)
	}
	for _, pat := range r.excludes {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return r, nil
}

// Resolve classifies inputs and builds the Mapping. It reads the filesystem
// but never writes to it.
func (r *Resolver) Resolve(inputs []string) (*Mapping, error) {
	files, dirs, err := classify(inputs)
	if err != nil {
		return nil, err
	}

	explicit, err := r.explicitPass(files, dirs)
	if err != nil {
		return nil, err
	}

	loose := make(map[string]bool, len(files))
	for _, f := range files {
		loose[f.real] = true
	}

	out := newMappingBuilder(r.sourceDir)
	for _, root := range explicit {
		out.merge(root)
		if root.IsPseudo() {
			continue
		}
		discovered, walkErr := r.recursivePass(root, loose)
		if walkErr != nil {
			return nil, walkErr
		}
		for _, child := range discovered {
			out.merge(child)
		}
	}

	m := out.build()
	slog.Debug("resolved inputs", "roots", m.Len(), "files", len(m.Files()))
	return m, nil
}

// classify stats every input and splits them into recognized files and
// directories, preserving input order. An input repeated verbatim or through
// a symlink is kept once.
func classify(inputs []string) (files, dirs []input, err error) {
	seen := make(map[string]bool, len(inputs))
	for _, arg := range inputs {
		info, statErr := os.Stat(arg)
		if statErr != nil {
			reason := "cannot be accessed"
			if os.IsNotExist(statErr) {
				reason = "does not exist"
			}
			return nil, nil, &InvalidInputError{Path: arg, Reason: reason, Err: statErr}
		}

		abs, absErr := filepath.Abs(arg)
		if absErr != nil {
			return nil, nil, &InvalidInputError{Path: arg, Reason: "cannot resolve absolute path", Err: absErr}
		}
		real, evalErr := filepath.EvalSymlinks(abs)
		if evalErr != nil {
			return nil, nil, &InvalidInputError{Path: arg, Reason: "cannot resolve symlinks", Err: evalErr}
		}

		in := input{arg: arg, abs: abs, real: real}
		switch {
		case info.IsDir():
			if seen[real] {
				slog.Debug("skipping duplicate input", "path", arg)
				continue
			}
			dirs = append(dirs, in)
		case info.Mode().IsRegular():
			if !IsRecognized(filepath.Base(abs)) {
				return nil, nil, &InvalidInputError{Path: arg, Reason: fmt.Sprintf("extension %q is not a recognized source extension", filepath.Ext(abs))}
			}
			if seen[real] {
				slog.Debug("skipping duplicate input", "path", arg)
				continue
			}
			files = append(files, in)
		default:
			return nil, nil, &InvalidInputError{Path: arg, Reason: "not a regular file or directory"}
		}
		seen[real] = true
	}
	return files, dirs, nil
}

// explicitPass builds the pseudo-root with every loose file attached and one
// Root per directory input. Directory Roots are keyed by basename; a repeated
// basename gets a "~N" suffix in input order.
func (r *Resolver) explicitPass(files, dirs []input) ([]Root, error) {
	pseudo := Root{Name: PseudoRoot, SourcePath: ".", DestPath: r.sourceDir}
	staged := make(map[string]string, len(files))
	for _, f := range files {
		base := filepath.Base(f.abs)
		if prev, ok := staged[base]; ok {
			return nil, &ResolutionConflictError{First: prev, Second: f.arg, Reason: fmt.Sprintf("both would be staged as %q", base)}
		}
		staged[base] = f.arg
		pseudo.Files = append(pseudo.Files, FileEntry{
			SourcePath: f.real,
			DestPath:   filepath.Join(r.sourceDir, base),
		})
	}

	if err := checkNesting(dirs); err != nil {
		return nil, err
	}

	roots := []Root{pseudo}
	used := map[string]bool{PseudoRoot: true}
	for _, d := range dirs {
		name := uniqueName(rootBaseName(d), used)
		if prev, ok := staged[name]; ok {
			return nil, &ResolutionConflictError{First: prev, Second: d.arg, Reason: fmt.Sprintf("file and directory would both be staged as %q", name)}
		}
		used[name] = true
		roots = append(roots, Root{
			Name:       name,
			SourcePath: d.real,
			DestPath:   filepath.Join(r.sourceDir, name),
		})
	}
	return roots, nil
}

// recursivePass walks root.SourcePath and returns the Roots it discovers,
// starting with root itself (without root's own explicit files). Files held
// in loose are skipped because they are attached to the pseudo-root.
func (r *Resolver) recursivePass(root Root, loose map[string]bool) ([]Root, error) {
	b := newMappingBuilder(r.sourceDir)

	walkErr := filepath.WalkDir(root.SourcePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &InvalidInputError{Path: p, Reason: "cannot be read", Err: err}
		}

		rel, relErr := filepath.Rel(root.SourcePath, p)
		if relErr != nil {
			return relErr
		}
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && r.excluded(slashRel) {
				slog.Debug("excluding directory", "path", p)
				return filepath.SkipDir
			}
			return b.addRoot(Root{
				Name:       path.Join(root.Name, slashRel),
				SourcePath: p,
				DestPath:   filepath.Join(root.DestPath, rel),
			})
		}

		if !IsRecognized(d.Name()) || r.excluded(slashRel) {
			return nil
		}
		if !d.Type().IsRegular() {
			info, statErr := os.Stat(p)
			if statErr != nil || !info.Mode().IsRegular() {
				slog.Debug("skipping non-regular file", "path", p)
				return nil
			}
		}
		if len(loose) > 0 && isLoose(p, loose) {
			return nil
		}

		return b.attach(path.Join(root.Name, path.Dir(slashRel)), FileEntry{
			SourcePath: p,
			DestPath:   filepath.Join(root.DestPath, rel),
		})
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return b.roots, nil
}

func (r *Resolver) excluded(slashRel string) bool {
	for _, pat := range r.excludes {
		if matched, err := doublestar.Match(pat, slashRel); err == nil && matched {
			return true
		}
	}
	return false
}

func isLoose(p string, loose map[string]bool) bool {
	real, err := filepath.EvalSymlinks(p)
	if err != nil {
		return loose[p]
	}
	return loose[real]
}

// checkNesting rejects a directory input that lies inside another one, since
// its files would be staged twice.
func checkNesting(dirs []input) error {
	for i := range dirs {
		for j := range dirs {
			if i == j {
				continue
			}
			if within(dirs[i].real, dirs[j].real) {
				return &ResolutionConflictError{First: dirs[j].arg, Second: dirs[i].arg, Reason: "one directory is nested inside the other"}
			}
		}
	}
	return nil
}

// within reports whether p lies strictly below dir.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func rootBaseName(d input) string {
	base := filepath.Base(d.abs)
	if base == "." || base == ".." || base == string(filepath.Separator) || filepath.VolumeName(d.abs) == d.abs {
		return fallbackRootName
	}
	return base
}

func uniqueName(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "~" + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}
