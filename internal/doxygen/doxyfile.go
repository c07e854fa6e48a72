// SPDX-License-Identifier: MPL-2.0

package doxygen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
)

// DefaultProjectName is used when no better name can be derived.
const DefaultProjectName = "doxycheck"

var (
	// ErrProtectedOption is returned when an override targets a layout key.
	ErrProtectedOption = errors.New("option is managed by doxycheck")

	// ErrInvalidOptionName is returned for override keys outside the
	// generator's key grammar.
	ErrInvalidOptionName = errors.New("invalid option name")

	keyPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	bareWord   = regexp.MustCompile(`^[A-Za-z0-9_./+:-]+$`)

	// protectedKeys tie the generator to the staging layout.
	protectedKeys = map[string]bool{
		"INPUT":            true,
		"OUTPUT_DIRECTORY": true,
		"WARN_LOGFILE":     true,
	}

	// baseOptions make the generator warn about everything undocumented
	// while extracting only what is documented.
	baseOptions = []Option{
		flag("OPTIMIZE_OUTPUT_FOR_C", true),
		flag("RECURSIVE", true),
		flag("FULL_PATH_NAMES", true),
		flag("GENERATE_HTML", true),
		flag("GENERATE_XML", true),
		flag("GENERATE_LATEX", false),
		flag("WARNINGS", true),
		flag("WARN_IF_UNDOCUMENTED", true),
		flag("WARN_IF_DOC_ERROR", true),
		flag("WARN_NO_PARAMDOC", true),
		flag("EXTRACT_ALL", false),
		flag("EXTRACT_PRIVATE", true),
		flag("EXTRACT_PRIV_VIRTUAL", true),
		flag("EXTRACT_PACKAGE", true),
		flag("EXTRACT_STATIC", true),
		flag("EXTRACT_LOCAL_CLASSES", true),
		flag("EXTRACT_LOCAL_METHODS", true),
		flag("EXTRACT_ANON_NSPACES", true),
	}
)

type (
	// Option is one KEY = value line. Value is the text exactly as written.
	Option struct {
		Key   string
		Value string
	}

	// Params are the inputs of NewDoxyfile.
	Params struct {
		// InputDir is the staging source subtree.
		InputDir string
		// OutputDir is the staging build subtree.
		OutputDir string
		// WarnLog is the diagnostic log path.
		WarnLog string
		// ProjectName is shown in generated pages. Empty uses DefaultProjectName.
		ProjectName string
		// Patterns are the FILE_PATTERNS globs.
		Patterns []string
		// Quiet suppresses the generator's progress output.
		Quiet bool
		// Overrides replace or extend any non-layout option. Values are
		// written verbatim, so they follow the generator's own quoting rules.
		Overrides map[string]string
	}

	// Doxyfile is an ordered, immutable set of generator options.
	Doxyfile struct {
		options []Option
	}

	// OptionError reports a rejected override.
	OptionError struct {
		Key string
		Err error
	}
)

func (e *OptionError) Error() string {
	return fmt.Sprintf("doxygen option %q: %v", e.Key, e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }

// NewDoxyfile builds the configuration for one check. Overrides are applied
// in key order after the fixed options; an override of an existing key
// replaces its value in place.
func NewDoxyfile(p Params) (Doxyfile, error) {
	name := p.ProjectName
	if name == "" {
		name = DefaultProjectName
	}

	opts := []Option{words("PROJECT_NAME", name)}
	opts = append(opts, baseOptions...)
	opts = append(opts,
		words("INPUT", p.InputDir),
		words("STRIP_FROM_PATH", p.InputDir),
		words("FILE_PATTERNS", p.Patterns...),
		words("OUTPUT_DIRECTORY", p.OutputDir),
		words("WARN_LOGFILE", p.WarnLog),
		flag("QUIET", p.Quiet),
	)

	keys := make([]string, 0, len(p.Overrides))
	for k := range p.Overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		switch {
		case !keyPattern.MatchString(k):
			return Doxyfile{}, &OptionError{Key: k, Err: ErrInvalidOptionName}
		case protectedKeys[k]:
			return Doxyfile{}, &OptionError{Key: k, Err: ErrProtectedOption}
		}
		o := Option{Key: k, Value: p.Overrides[k]}
		if i := slices.IndexFunc(opts, func(x Option) bool { return x.Key == k }); i >= 0 {
			opts[i] = o
			continue
		}
		opts = append(opts, o)
	}
	return Doxyfile{options: opts}, nil
}

// Get returns the written value of key.
func (d Doxyfile) Get(key string) (string, bool) {
	for _, o := range d.options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// Options returns a copy of every option in file order.
func (d Doxyfile) Options() []Option { return slices.Clone(d.options) }

// WriteTo writes the configuration in KEY = value form.
func (d Doxyfile) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, o := range d.options {
		sb.WriteString(o.Key)
		sb.WriteString(" = ")
		sb.WriteString(o.Value)
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Write saves the configuration to path.
func (d Doxyfile) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write doxyfile: %w", err)
	}
	if _, err := d.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write doxyfile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write doxyfile: %w", err)
	}
	return nil
}

// words builds an option from a list of words, each quoted when needed.
func words(key string, w ...string) Option {
	quoted := make([]string, len(w))
	for i, word := range w {
		quoted[i] = quoteWord(word)
	}
	return Option{Key: key, Value: strings.Join(quoted, " ")}
}

func flag(key string, on bool) Option {
	if on {
		return words(key, "YES")
	}
	return words(key, "NO")
}

// quoteWord leaves simple words bare and double-quotes everything else.
func quoteWord(w string) string {
	if bareWord.MatchString(w) {
		return w
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(w) + `"`
}
