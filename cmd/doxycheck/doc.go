// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the doxycheck command-line interface.
//
// The root command runs a documentation check over the paths it is given;
// the config subcommands inspect and create the configuration file. All
// handlers receive an App, the composition root holding configuration
// loading and output streams.
package cmd
