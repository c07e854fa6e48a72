// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rw1nkler/doxycheck/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// AppName is the command name and the log prefix.
const AppName = "doxycheck"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbosity  int
	configPath string
	// scheme is the configured color scheme, recorded once configuration has
	// been loaded so error rendering can honor it.
	scheme config.ColorScheme
}

// newRootCommand builds the command tree. The root command itself runs a
// check over its arguments.
func newRootCommand(app *App, rf *rootFlagValues) *cobra.Command {
	cf := &checkFlagValues{}
	rootCmd := &cobra.Command{
		Use:   AppName + " [flags] <path>...",
		Short: "Check C/C++ documentation with doxygen",
		Long: TitleStyle.Render(AppName) + SubtitleStyle.Render(" - check C/C++ documentation with doxygen") + `

doxycheck mirrors the given files and directories into a temporary tree,
runs doxygen over it, and reports documentation warnings with paths as you
passed them. Your sources are never modified.

` + SubtitleStyle.Render("Examples:") + `
  doxycheck src/                     Check every source under src/
  doxycheck include/api.h lib/       Check a header and a directory
  doxycheck --doxygen-html foo.c     Check and open the generated page
  doxycheck --format json src/       Machine-readable report
  doxycheck --watch src/             Re-check on every change`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), app, rf, cf, args)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().CountVarP(&rf.verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&rf.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/doxycheck/config.cue)")
	bindCheckFlags(rootCmd, cf)

	rootCmd.AddCommand(newCheckCommand(app, rf))
	rootCmd.AddCommand(newConfigCommand(app, rf))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the doxycheck version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(app.stdout, AppName, getVersionString())
			return err
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	return run(context.Background(), NewApp(Dependencies{}))
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Main())
}

func run(ctx context.Context, app *App) int {
	rf := &rootFlagValues{scheme: config.ColorSchemeAuto}
	rootCmd := newRootCommand(app, rf)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, rf.verbosity > 0, rf.scheme)
		}),
	)
	return int(exitCodeOf(err))
}
