// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/rw1nkler/doxycheck/internal/doxygen"
	"github.com/rw1nkler/doxycheck/internal/mirror"
	"github.com/rw1nkler/doxycheck/internal/staging"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers doxycheck and stand-ins for its collaborators as
// in-process commands. testscript puts them first on PATH, so the fakes
// shadow any real doxygen or sphinx-build.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"doxycheck":    Main,
		"doxygen":      fakeDoxygen,
		"sphinx-build": fakeSphinxBuild,
	}))
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"stagingroots": cmdStagingRoots,
		},
	})
}

// cmdStagingRoots asserts how many staging roots exist in $TMPDIR.
//
//	stagingroots <count>
func cmdStagingRoots(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: stagingroots <count>")
	}
	want, err := strconv.Atoi(args[0])
	ts.Check(err)

	entries, err := os.ReadDir(ts.Getenv("TMPDIR"))
	ts.Check(err)
	got := 0
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), staging.Prefix) {
			got++
		}
	}
	if (got == want) == neg {
		ts.Fatalf("found %d staging roots, want %d", got, want)
	}
}

// fakeDoxygen reads the Doxyfile it is given and writes one diagnostic per
// "@undocumented NAME" or "@broken" marker in the mirrored sources. Every
// mirrored file must start with the synthetic marker. FAKE_DOXYGEN_FAIL
// makes it exit non-zero.
func fakeDoxygen() int {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: doxygen <doxyfile>")
		return 2
	}
	if msg := os.Getenv("FAKE_DOXYGEN_FAIL"); msg != "" {
		fmt.Fprintln(os.Stderr, "error:", msg)
		return 1
	}
	opts, err := readDoxyfile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if opts["QUIET"] != "YES" {
		fmt.Println("Searching for files in directory", opts["INPUT"])
		for _, key := range slices.Sorted(maps.Keys(opts)) {
			fmt.Printf("option %s = %s\n", key, opts[key])
		}
	}

	htmlDir := filepath.Join(opts["OUTPUT_DIRECTORY"], "html")
	xmlDir := filepath.Join(opts["OUTPUT_DIRECTORY"], "xml")
	for _, dir := range []string{htmlDir, xmlDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	var log strings.Builder
	log.WriteString("Notice: Output directory does not exist, creating it\n")
	walkErr := filepath.WalkDir(opts["INPUT"], func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(string(data), mirror.Marker) {
			return fmt.Errorf("%s: missing file marker", p)
		}
		rel, err := filepath.Rel(opts["STRIP_FROM_PATH"], p)
		if err != nil {
			return err
		}
		page := filepath.Join(htmlDir, doxygen.FilePage(filepath.ToSlash(rel)))
		if err := os.WriteFile(page, []byte("<html></html>"), 0o644); err != nil {
			return err
		}

		sc := bufio.NewScanner(strings.NewReader(string(data)))
		for n := 1; sc.Scan(); n++ {
			line := sc.Text()
			if _, name, ok := strings.Cut(line, "@undocumented "); ok {
				fmt.Fprintf(&log, "%s:%d: warning: Member %s is not documented.\n", p, n, strings.Fields(name)[0])
			}
			if strings.Contains(line, "@broken") {
				fmt.Fprintf(&log, "%s:%d: error: unterminated block, see %s\n", p, n, p)
			}
		}
		return nil
	})
	if walkErr != nil {
		fmt.Fprintln(os.Stderr, walkErr)
		return 1
	}

	if err := os.WriteFile(filepath.Join(htmlDir, doxygen.IndexPage), []byte("<html></html>"), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.WriteFile(filepath.Join(xmlDir, "index.xml"), []byte("<doxygenindex/>"), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.WriteFile(opts["WARN_LOGFILE"], []byte(log.String()), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// readDoxyfile parses "KEY = value" lines, unquoting single-word values.
func readDoxyfile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		opts[key] = value
	}
	for _, key := range []string{"INPUT", "OUTPUT_DIRECTORY", "WARN_LOGFILE", "STRIP_FROM_PATH"} {
		if opts[key] == "" {
			return nil, fmt.Errorf("%s: %s is not set", path, key)
		}
	}
	return opts, nil
}

// fakeSphinxBuild accepts the renderer's argument list, checks conf.py and
// writes an index page. FAKE_SPHINX_WARN is copied into the warning log.
func fakeSphinxBuild() int {
	args := os.Args[1:]
	if len(args) != 8 || args[0] != "-b" || args[2] != "-d" || args[4] != "-w" {
		fmt.Fprintln(os.Stderr, "unexpected arguments:", args)
		return 2
	}
	warnLog, srcDir, outDir := args[5], args[6], args[7]
	conf, err := os.ReadFile(filepath.Join(srcDir, "conf.py"))
	if err != nil || !strings.Contains(string(conf), `"breathe"`) {
		fmt.Fprintln(os.Stderr, "conf.py missing or without breathe")
		return 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.WriteFile(warnLog, []byte(os.Getenv("FAKE_SPHINX_WARN")), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("build succeeded.")
	return 0
}
