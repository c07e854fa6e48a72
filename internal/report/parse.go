// SPDX-License-Identifier: MPL-2.0

// Package report parses the generator's diagnostic log and renders the
// diagnostics with staged paths rewritten to the names the user passed in.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// SeverityWarning is the severity the generator uses for ordinary warnings.
const SeverityWarning = "warning"

// linePattern is the grammar of one diagnostic: <file>:<line>: <severity>: <message>.
var linePattern = regexp.MustCompile(`^(.*?):(\d+): ([^:]+): (.*)$`)

type (
	// Warning is one parsed diagnostic.
	Warning struct {
		File     string `json:"file" yaml:"file"`
		Line     int    `json:"line" yaml:"line"`
		Severity string `json:"severity" yaml:"severity"`
		Message  string `json:"message" yaml:"message"`
	}

	// Parser turns log text into Warnings, stripping staged path prefixes.
	Parser struct {
		prefixes []string
	}
)

// NewParser creates a Parser that strips each of sourceDirs from diagnostic
// paths. The symlink-resolved form of every directory is stripped too, since
// the generator may report either.
func NewParser(sourceDirs ...string) *Parser {
	p := &Parser{}
	seen := make(map[string]bool)
	add := func(dir string) {
		if dir == "" {
			return
		}
		prefix := strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)
		if !seen[prefix] {
			seen[prefix] = true
			p.prefixes = append(p.prefixes, prefix)
		}
	}
	for _, dir := range sourceDirs {
		add(filepath.Clean(dir))
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			add(real)
		}
	}
	// Longest first, so a nested prefix never leaves a fragment of its parent.
	slices.SortStableFunc(p.prefixes, func(a, b string) int { return len(b) - len(a) })
	return p
}

// ParseLine parses one log line. ok is false for lines outside the grammar.
func (p *Parser) ParseLine(line string) (w Warning, ok bool) {
	line = strings.TrimRight(line, "\r")
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Warning{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Warning{}, false
	}
	return Warning{
		File:     p.remapFile(m[1]),
		Line:     n,
		Severity: m[3],
		Message:  p.remapText(m[4]),
	}, true
}

// Parse reads every line of r, whatever its length. Malformed lines are
// skipped; only read failures are returned.
func (p *Parser) Parse(r io.Reader) ([]Warning, error) {
	var warnings []Warning
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if w, ok := p.ParseLine(strings.TrimSuffix(line, "\n")); ok {
				warnings = append(warnings, w)
			}
		}
		if errors.Is(err, io.EOF) {
			return warnings, nil
		}
		if err != nil {
			return warnings, fmt.Errorf("read diagnostic log: %w", err)
		}
	}
}

// ParseString is Parse over an in-memory log.
func (p *Parser) ParseString(log string) []Warning {
	warnings, _ := p.Parse(strings.NewReader(log)) // strings.Reader never fails
	return warnings
}

// ParseFile parses the log at path. A missing log means the generator had
// nothing to report.
func (p *Parser) ParseFile(path string) ([]Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open diagnostic log: %w", err)
	}
	defer func() { _ = f.Close() }()
	return p.Parse(f)
}

func (p *Parser) remapFile(file string) string {
	for _, prefix := range p.prefixes {
		if rest, ok := strings.CutPrefix(file, prefix); ok {
			return filepath.ToSlash(rest)
		}
	}
	return file
}

// remapText rewrites staged paths the generator embeds in message text, as in
// "at line 3 of file /tmp/doxycheck_x/src/a.h".
func (p *Parser) remapText(text string) string {
	for _, prefix := range p.prefixes {
		text = strings.ReplaceAll(text, prefix, "")
	}
	return text
}
