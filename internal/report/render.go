// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
)

// Format selects how Render writes Warnings.
type Format string

// Formats lists every supported Format.
func Formats() []Format { return []Format{FormatText, FormatJSON, FormatYAML} }

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Render writes warnings to w. Text output emphasizes the label by severity;
// colors follow w's terminal capabilities, so pipes and files get plain text.
func Render(w io.Writer, warnings []Warning, format Format) error {
	switch format {
	case FormatJSON:
		if warnings == nil {
			warnings = []Warning{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(warnings)
	case FormatYAML:
		if warnings == nil {
			warnings = []Warning{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(warnings); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return renderText(w, warnings)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, warnings []Warning) error {
	r := lipgloss.NewRenderer(w)
	warnStyle := r.NewStyle().Bold(true).Foreground(colorWarning)
	errStyle := r.NewStyle().Bold(true).Foreground(colorError)

	for _, warn := range warnings {
		style := errStyle
		if warn.Severity == SeverityWarning {
			style = warnStyle
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", style.Render(Label(warn)), warn.Message); err != nil {
			return err
		}
	}
	return nil
}

// Label is the text-report prefix of a Warning, e.g. "WARNING [foo.c:12]:".
func Label(w Warning) string {
	return strings.ToUpper(w.Severity) + " [" + w.File + ":" + strconv.Itoa(w.Line) + "]:"
}

// CountBySeverity tallies warnings per severity.
func CountBySeverity(warnings []Warning) map[string]int {
	counts := make(map[string]int)
	for _, w := range warnings {
		counts[w.Severity]++
	}
	return counts
}
