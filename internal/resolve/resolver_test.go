// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/rw1nkler/doxycheck/internal/testutil"
)

// newTestResolver returns a Resolver staging into a fresh temporary source
// directory, plus that directory.
func newTestResolver(t *testing.T, opts ...Option) (*Resolver, string) {
	t.Helper()
	srcDir := filepath.Join(t.TempDir(), "stage", "src")
	r, err := New(srcDir, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r, srcDir
}

// realDir returns dir with symlinks evaluated, since resolved SourcePaths
// are real paths (t.TempDir lives under a symlink on macOS).
func realDir(t *testing.T, dir string) string {
	t.Helper()
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks(%s): %v", dir, err)
	}
	return real
}

// fileNames returns the basenames of a Root's files in order.
func fileNames(r Root) []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = filepath.Base(f.SourcePath)
	}
	return names
}

func mustRoot(t *testing.T, m *Mapping, name string) Root {
	t.Helper()
	r, ok := m.Root(name)
	if !ok {
		t.Fatalf("mapping has no root %q (roots: %v)", name, m.Names())
	}
	return r
}

func TestResolve_DirectoryScenario(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"lib/a.c":       "int a;",
		"lib/a.h":       "int a;",
		"lib/notes.txt": "notes",
		"lib/sub/b.cpp": "int b;",
	})

	r, srcDir := newTestResolver(t)
	m, err := r.Resolve([]string{filepath.Join(work, "lib")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := m.Names(), []string{".", "lib", "lib/sub"}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	if dot := mustRoot(t, m, "."); len(dot.Files) != 0 {
		t.Errorf("pseudo-root files = %v, want none", fileNames(dot))
	}

	lib := mustRoot(t, m, "lib")
	if got, want := fileNames(lib), []string{"a.c", "a.h"}; !slices.Equal(got, want) {
		t.Errorf("lib files = %v, want %v", got, want)
	}
	if want := filepath.Join(realDir(t, work), "lib"); lib.SourcePath != want {
		t.Errorf("lib SourcePath = %q, want %q", lib.SourcePath, want)
	}
	if want := filepath.Join(srcDir, "lib"); lib.DestPath != want {
		t.Errorf("lib DestPath = %q, want %q", lib.DestPath, want)
	}

	sub := mustRoot(t, m, "lib/sub")
	if got, want := fileNames(sub), []string{"b.cpp"}; !slices.Equal(got, want) {
		t.Errorf("lib/sub files = %v, want %v", got, want)
	}
	if want := filepath.Join(srcDir, "lib", "sub"); sub.DestPath != want {
		t.Errorf("lib/sub DestPath = %q, want %q", sub.DestPath, want)
	}
}

func TestResolve_LooseFileAndDirectory(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"main.c":        "int main(void) { return 0; }",
		"include/x.h":   "int x;",
		"nested/deep.h": "int deep;",
	})

	r, srcDir := newTestResolver(t)
	m, err := r.Resolve([]string{
		filepath.Join(work, "main.c"),
		filepath.Join(work, "include"),
		filepath.Join(work, "nested", "deep.h"),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := m.Names(), []string{".", "include"}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	dot := mustRoot(t, m, ".")
	if got, want := fileNames(dot), []string{"main.c", "deep.h"}; !slices.Equal(got, want) {
		t.Errorf("pseudo-root files = %v, want %v", got, want)
	}
	// Loose files are staged by basename, independent of their real location.
	if want := filepath.Join(srcDir, "deep.h"); dot.Files[1].DestPath != want {
		t.Errorf("deep.h DestPath = %q, want %q", dot.Files[1].DestPath, want)
	}
	if dot.SourcePath != "." || dot.DestPath != srcDir {
		t.Errorf("pseudo-root = {%q, %q}, want {%q, %q}", dot.SourcePath, dot.DestPath, ".", srcDir)
	}

	include := mustRoot(t, m, "include")
	if got, want := fileNames(include), []string{"x.h"}; !slices.Equal(got, want) {
		t.Errorf("include files = %v, want %v", got, want)
	}
}

func TestResolve_PseudoRootAlwaysPresent(t *testing.T) {
	t.Parallel()

	r, srcDir := newTestResolver(t)
	m, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	dot := mustRoot(t, m, PseudoRoot)
	if !dot.IsPseudo() || dot.DestPath != srcDir {
		t.Errorf("pseudo-root = %+v", dot)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestResolve_LooseFileInsideDirectoryInputIsNotDuplicated(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"lib/a.c": "",
		"lib/b.c": "",
	})

	r, _ := newTestResolver(t)
	m, err := r.Resolve([]string{filepath.Join(work, "lib"), filepath.Join(work, "lib", "a.c")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := fileNames(mustRoot(t, m, ".")), []string{"a.c"}; !slices.Equal(got, want) {
		t.Errorf("pseudo-root files = %v, want %v", got, want)
	}
	if got, want := fileNames(mustRoot(t, m, "lib")), []string{"b.c"}; !slices.Equal(got, want) {
		t.Errorf("lib files = %v, want %v", got, want)
	}
}

func TestResolve_EveryRecognizedFileAppearsOnce(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	tree := map[string]string{
		"proj/a.c":             "",
		"proj/a.txt":           "",
		"proj/README":          "",
		"proj/x/b.hpp":         "",
		"proj/x/y/c.cc":        "",
		"proj/x/y/z/d.h":       "",
		"proj/x/y/z/Makefile":  "",
		"proj/x/y/z/e.C":       "",
		"proj/empty/":          "",
		"proj/x/only.txt.bak":  "",
		"proj/x/y/inline.inl":  "",
		"proj/other/ignored.o": "",
	}
	testutil.WriteTree(t, work, tree)

	r, srcDir := newTestResolver(t)
	m, err := r.Resolve([]string{filepath.Join(work, "proj")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	var want []string
	for rel := range tree {
		if !strings.HasSuffix(rel, "/") && IsRecognized(rel) {
			want = append(want, rel)
		}
	}
	slices.Sort(want)

	var got []string
	for _, r := range m.Roots() {
		for _, f := range r.Files {
			if !IsRecognized(f.SourcePath) {
				t.Errorf("unrecognized file in mapping: %s", f.SourcePath)
			}
			srcRel, _ := filepath.Rel(realDir(t, work), f.SourcePath)
			dstRel, _ := filepath.Rel(srcDir, f.DestPath)
			if srcRel != dstRel {
				t.Errorf("relative path not preserved: source %q, dest %q", srcRel, dstRel)
			}
			got = append(got, filepath.ToSlash(srcRel))
		}
	}
	slices.Sort(got)

	if !slices.Equal(got, want) {
		t.Errorf("mapped files = %v, want %v", got, want)
	}

	if _, ok := m.Root("proj/empty"); !ok {
		t.Errorf("empty subdirectory should still be registered as a root")
	}
}

func TestResolve_RootsMirrorSourceStructure(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"lib/a/b/c/x.c": "",
	})

	r, _ := newTestResolver(t)
	m, err := r.Resolve([]string{filepath.Join(work, "lib")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	lib := mustRoot(t, m, "lib")
	for _, root := range m.Roots() {
		if root.IsPseudo() || root.Name == "lib" {
			continue
		}
		srcRel, _ := filepath.Rel(lib.SourcePath, root.SourcePath)
		dstRel, _ := filepath.Rel(lib.DestPath, root.DestPath)
		if srcRel != dstRel {
			t.Errorf("root %q: source rel %q != dest rel %q", root.Name, srcRel, dstRel)
		}
		if want := "lib/" + filepath.ToSlash(srcRel); root.Name != want {
			t.Errorf("root name = %q, want %q", root.Name, want)
		}
		for _, f := range root.Files {
			if filepath.Dir(f.DestPath) != root.DestPath {
				t.Errorf("file %s attached to %q but staged in %s", f.SourcePath, root.Name, filepath.Dir(f.DestPath))
			}
		}
	}
}

func TestResolve_DuplicateBasenamesAreDisambiguated(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"one/src/a.c":   "",
		"two/src/b.c":   "",
		"three/src/c.c": "",
	})

	r, srcDir := newTestResolver(t)
	m, err := r.Resolve([]string{
		filepath.Join(work, "one", "src"),
		filepath.Join(work, "two", "src"),
		filepath.Join(work, "three", "src"),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := m.Names(), []string{".", "src", "src~2", "src~3"}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	seen := map[string]bool{}
	for _, root := range m.Roots() {
		if seen[root.DestPath] {
			t.Errorf("destination %s used twice", root.DestPath)
		}
		seen[root.DestPath] = true
	}
	if got, want := mustRoot(t, m, "src~2").DestPath, filepath.Join(srcDir, "src~2"); got != want {
		t.Errorf("src~2 DestPath = %q, want %q", got, want)
	}
	if got, want := fileNames(mustRoot(t, m, "src~3")), []string{"c.c"}; !slices.Equal(got, want) {
		t.Errorf("src~3 files = %v, want %v", got, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"main.c":      "",
		"lib/a.c":     "",
		"lib/s/t/u.h": "",
		"lib/s/v.hpp": "",
	})
	inputs := []string{filepath.Join(work, "main.c"), filepath.Join(work, "lib")}

	shape := func() []string {
		r, srcDir := newTestResolver(t)
		m, err := r.Resolve(inputs)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		var out []string
		for _, root := range m.Roots() {
			rel, _ := filepath.Rel(srcDir, root.DestPath)
			out = append(out, root.Name+"="+rel)
			for _, f := range root.Files {
				out = append(out, "  "+m.LogicalName(f)+"<-"+f.SourcePath)
			}
		}
		return out
	}

	first, second := shape(), shape()
	if !slices.Equal(first, second) {
		t.Errorf("repeated resolution differs:\n%v\n%v", first, second)
	}
}

func TestResolve_Excludes(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"lib/a.c":             "",
		"lib/a_test.c":        "",
		"lib/third_party/z.h": "",
		"lib/sub/b.c":         "",
	})

	r, _ := newTestResolver(t, WithExcludes("**/*_test.c", "third_party"))
	m, err := r.Resolve([]string{filepath.Join(work, "lib")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := m.Names(), []string{".", "lib", "lib/sub"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got, want := fileNames(mustRoot(t, m, "lib")), []string{"a.c"}; !slices.Equal(got, want) {
		t.Errorf("lib files = %v, want %v", got, want)
	}
}

func TestNew_InvalidExcludePattern(t *testing.T) {
	t.Parallel()

	if _, err := New(filepath.Join(t.TempDir(), "src"), WithExcludes("[")); err == nil {
		t.Error("New() with invalid pattern should fail")
	}
	if _, err := New("relative/src"); err == nil {
		t.Error("New() with relative source directory should fail")
	}
}

func TestResolve_InvalidInputs(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"notes.txt": "",
		"upper.C":   "",
	})

	tests := []struct {
		name  string
		input string
	}{
		{"non-existent path", filepath.Join(work, "missing.c")},
		{"unrecognized extension", filepath.Join(work, "notes.txt")},
		{"extension match is case-sensitive", filepath.Join(work, "upper.C")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, srcDir := newTestResolver(t)
			_, err := r.Resolve([]string{tt.input})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Resolve() error = %v, want ErrInvalidInput", err)
			}
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) || invalid.Path != tt.input {
				t.Errorf("error should name %q, got %v", tt.input, err)
			}
			if _, statErr := os.Stat(srcDir); !os.IsNotExist(statErr) {
				t.Errorf("resolution must not create the staging tree")
			}
		})
	}
}

func TestResolve_SpecialFileIsInvalid(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("named pipes are not available on Windows")
	}
	t.Parallel()

	fifo := filepath.Join(t.TempDir(), "pipe.c")
	if err := mkfifo(fifo); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	r, _ := newTestResolver(t)
	if _, err := r.Resolve([]string{fifo}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Resolve() error = %v, want ErrInvalidInput", err)
	}
}

func TestResolve_Conflicts(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"a/x.c":        "",
		"b/x.c":        "",
		"lib/sub/y.c":  "",
		"dirs/z.c/w.h": "",
		"z.c":          "",
	})

	tests := []struct {
		name   string
		inputs []string
	}{
		{"loose files share a basename", []string{filepath.Join(work, "a", "x.c"), filepath.Join(work, "b", "x.c")}},
		{"nested directory inputs", []string{filepath.Join(work, "lib"), filepath.Join(work, "lib", "sub")}},
		{"parent given after child", []string{filepath.Join(work, "lib", "sub"), filepath.Join(work, "lib")}},
		{"file and directory share a staged name", []string{filepath.Join(work, "z.c"), filepath.Join(work, "dirs", "z.c")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, _ := newTestResolver(t)
			_, err := r.Resolve(tt.inputs)
			if !errors.Is(err, ErrResolutionConflict) {
				t.Errorf("Resolve(%v) error = %v, want ErrResolutionConflict", tt.inputs, err)
			}
		})
	}
}

func TestResolve_DuplicateInputCollapsed(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"lib/a.c": "",
		"m.c":     "",
	})

	r, _ := newTestResolver(t)
	m, err := r.Resolve([]string{
		filepath.Join(work, "lib"),
		filepath.Join(work, "lib") + string(filepath.Separator),
		filepath.Join(work, "m.c"),
		filepath.Join(work, "m.c"),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got, want := m.Names(), []string{".", "lib"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := len(mustRoot(t, m, ".").Files); got != 1 {
		t.Errorf("pseudo-root has %d files, want 1", got)
	}
}

func TestResolve_RelativeInputs(t *testing.T) {
	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{
		"include/x.h": "",
	})
	t.Cleanup(testutil.MustChdir(t, work))

	r, _ := newTestResolver(t)
	m, err := r.Resolve([]string{"include/"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	include := mustRoot(t, m, "include")
	if !filepath.IsAbs(include.SourcePath) {
		t.Errorf("SourcePath should be absolute, got %q", include.SourcePath)
	}
}

func TestMapping_RootsReturnsCopies(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	testutil.WriteTree(t, work, map[string]string{"lib/a.c": ""})

	r, _ := newTestResolver(t)
	m, err := r.Resolve([]string{filepath.Join(work, "lib")})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	roots := m.Roots()
	roots[1].Files[0].DestPath = "mutated"
	roots[1].Name = "mutated"

	lib := mustRoot(t, m, "lib")
	if lib.Files[0].DestPath == "mutated" {
		t.Error("Roots() must not expose internal file slices")
	}
	if got := m.LogicalName(lib.Files[0]); got != "lib/a.c" {
		t.Errorf("LogicalName() = %q, want %q", got, "lib/a.c")
	}
}
