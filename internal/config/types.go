// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDoxygenBinary is the generator looked up on PATH.
	DefaultDoxygenBinary BinaryName = "doxygen"
	// DefaultSphinxBinary is the secondary renderer looked up on PATH.
	DefaultSphinxBinary BinaryName = "sphinx-build"
	// DefaultSphinxTheme is the renderer's HTML theme.
	DefaultSphinxTheme = "sphinx_rtd_theme"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBinaryName is returned when a BinaryName value is empty or whitespace-only.
	ErrInvalidBinaryName = errors.New("invalid binary name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BinaryName is an executable name or path. It must not be blank.
	BinaryName string

	// InvalidBinaryNameError is returned when a BinaryName is blank.
	InvalidBinaryNameError struct {
		Field string
		Value BinaryName
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Doxygen configures the documentation generator.
		Doxygen DoxygenConfig `json:"doxygen" mapstructure:"doxygen"`
		// Sphinx configures the secondary renderer used by --sphinx-html.
		Sphinx SphinxConfig `json:"sphinx" mapstructure:"sphinx"`
		// Browser configures how generated pages are opened.
		Browser BrowserConfig `json:"browser" mapstructure:"browser"`
		// Staging configures staging-root placement and retention.
		Staging StagingConfig `json:"staging" mapstructure:"staging"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// DoxygenConfig configures the generator.
	DoxygenConfig struct {
		Binary      BinaryName        `json:"binary" mapstructure:"binary"`
		ProjectName string            `json:"project_name" mapstructure:"project_name"`
		Options     map[string]string `json:"options" mapstructure:"options"`
	}

	// SphinxConfig configures the secondary renderer.
	SphinxConfig struct {
		Binary BinaryName `json:"binary" mapstructure:"binary"`
		Theme  string     `json:"theme" mapstructure:"theme"`
	}

	// BrowserConfig configures the page opener.
	BrowserConfig struct {
		// Command replaces the platform opener when set.
		Command string `json:"command" mapstructure:"command"`
	}

	// StagingConfig configures staging roots.
	StagingConfig struct {
		// TempDir is the parent of staging roots; empty uses the OS default.
		TempDir string `json:"temp_dir" mapstructure:"temp_dir"`
		// Keep preserves every staging root, as --keep does.
		Keep bool `json:"keep" mapstructure:"keep"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose raises the log level to at least info.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the Config has valid fields, collecting every
// field error into one InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Doxygen.Binary.isValidField("doxygen.binary"); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Sphinx.Binary.isValidField("sphinx.binary"); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the BinaryName.
func (b BinaryName) String() string { return string(b) }

// IsValid returns whether the BinaryName is non-blank.
func (b BinaryName) IsValid() (bool, []error) { return b.isValidField("") }

func (b BinaryName) isValidField(field string) (bool, []error) {
	if strings.TrimSpace(string(b)) == "" {
		return false, []error{&InvalidBinaryNameError{Field: field, Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryNameError.
func (e *InvalidBinaryNameError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid binary name %q: must not be blank", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid binary name %q: must not be blank", e.Value)
}

// Unwrap returns ErrInvalidBinaryName for errors.Is() compatibility.
func (e *InvalidBinaryNameError) Unwrap() error { return ErrInvalidBinaryName }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Doxygen: DoxygenConfig{
			Binary:  DefaultDoxygenBinary,
			Options: map[string]string{},
		},
		Sphinx: SphinxConfig{
			Binary: DefaultSphinxBinary,
			Theme:  DefaultSphinxTheme,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
