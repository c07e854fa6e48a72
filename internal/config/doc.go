// SPDX-License-Identifier: MPL-2.0

// Package config handles doxycheck configuration using Viper with CUE as the file format.
//
// Configuration is read from the file named by --config, else from
// ~/.config/doxycheck/config.cue (XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/doxycheck/config.cue on macOS,
// %APPDATA%\doxycheck\config.cue on Windows), else from ./doxycheck.cue.
// Every key can be overridden from the environment as DOXYCHECK_<SECTION>_<KEY>.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before
// they are merged over the defaults.
package config
