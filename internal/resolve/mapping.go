// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"path/filepath"
	"slices"
)

// PseudoRoot is the reserved Root name holding explicitly given loose files.
const PseudoRoot = "."

type (
	// FileEntry is one source file selected for mirroring.
	FileEntry struct {
		// SourcePath is the absolute path of the original file.
		SourcePath string
		// DestPath is the absolute path of the mirrored copy under the
		// owning Root's DestPath.
		DestPath string
	}

	// Root is a named staging unit.
	Root struct {
		// Name is the unique key. Recursively discovered Roots are named by
		// joining the ancestor Root's name with the slash-separated relative path.
		Name string
		// SourcePath is the resolved original location. It is "." for the
		// pseudo-root.
		SourcePath string
		// DestPath is the absolute directory under the staging source subtree.
		DestPath string
		// Files are the entries attached to this Root, in discovery order.
		Files []FileEntry
	}

	// Mapping is the resolved set of Roots, keyed by name. Iteration order is
	// the order in which Roots were registered, which is deterministic for a
	// given input list and filesystem state.
	Mapping struct {
		sourceDir string
		roots     []Root
		index     map[string]int
	}

	// mappingBuilder accumulates Roots while a pass runs. The finished Mapping
	// is never mutated afterwards.
	mappingBuilder struct {
		sourceDir string
		roots     []Root
		index     map[string]int
	}
)

// IsPseudo reports whether r is the "." pseudo-root.
func (r Root) IsPseudo() bool { return r.Name == PseudoRoot }

// SourceDir returns the staging source subtree every DestPath lives under.
func (m *Mapping) SourceDir() string { return m.sourceDir }

// Len returns the number of Roots.
func (m *Mapping) Len() int { return len(m.roots) }

// Names returns the Root names in registration order.
func (m *Mapping) Names() []string {
	names := make([]string, len(m.roots))
	for i, r := range m.roots {
		names[i] = r.Name
	}
	return names
}

// Roots returns a copy of every Root in registration order.
func (m *Mapping) Roots() []Root {
	out := make([]Root, len(m.roots))
	for i, r := range m.roots {
		r.Files = slices.Clone(r.Files)
		out[i] = r
	}
	return out
}

// Root looks up a Root by name.
func (m *Mapping) Root(name string) (Root, bool) {
	i, ok := m.index[name]
	if !ok {
		return Root{}, false
	}
	r := m.roots[i]
	r.Files = slices.Clone(r.Files)
	return r, true
}

// Files returns every FileEntry across all Roots, in Root order.
func (m *Mapping) Files() []FileEntry {
	var files []FileEntry
	for _, r := range m.roots {
		files = append(files, r.Files...)
	}
	return files
}

// LogicalName returns the slash-separated path of a mirrored file relative to
// the staging source subtree, which is the name the user recognizes in
// reports (e.g. "lib/sub/b.cpp").
func (m *Mapping) LogicalName(f FileEntry) string {
	rel, err := filepath.Rel(m.sourceDir, f.DestPath)
	if err != nil {
		return filepath.Base(f.DestPath)
	}
	return filepath.ToSlash(rel)
}

func newMappingBuilder(sourceDir string) *mappingBuilder {
	return &mappingBuilder{
		sourceDir: sourceDir,
		index:     make(map[string]int),
	}
}

func (b *mappingBuilder) has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// addRoot registers a new Root. Registering a name twice is a programming
// error in the pass that produced it.
func (b *mappingBuilder) addRoot(r Root) error {
	if b.has(r.Name) {
		return fmt.Errorf("root %q registered twice", r.Name)
	}
	b.index[r.Name] = len(b.roots)
	b.roots = append(b.roots, r)
	return nil
}

// attach appends f to the Root named name, which must already exist.
func (b *mappingBuilder) attach(name string, f FileEntry) error {
	i, ok := b.index[name]
	if !ok {
		return fmt.Errorf("attach %s: root %q is not registered", f.SourcePath, name)
	}
	b.roots[i].Files = append(b.roots[i].Files, f)
	return nil
}

// merge folds r into the builder. When a Root with the same name already
// exists its SourcePath and DestPath are kept and only the files are appended.
func (b *mappingBuilder) merge(r Root) {
	i, ok := b.index[r.Name]
	if !ok {
		b.index[r.Name] = len(b.roots)
		r.Files = slices.Clone(r.Files)
		b.roots = append(b.roots, r)
		return
	}
	b.roots[i].Files = append(b.roots[i].Files, r.Files...)
}

func (b *mappingBuilder) build() *Mapping {
	return &Mapping{
		sourceDir: b.sourceDir,
		roots:     b.roots,
		index:     b.index,
	}
}
