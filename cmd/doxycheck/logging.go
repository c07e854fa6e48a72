// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// logLevel maps the -v count to a level: warn by default, info for -v and
// debug from -vv on. ui.verbose raises the default to info.
func logLevel(verbosity int, cfgVerbose bool) log.Level {
	switch {
	case verbosity >= 2:
		return log.DebugLevel
	case verbosity == 1 || cfgVerbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// setupLogging installs a charmbracelet/log handler as the slog default so
// library packages can log through log/slog.
func setupLogging(w io.Writer, level log.Level) {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          AppName,
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
	})
	slog.SetDefault(slog.New(logger))
}
