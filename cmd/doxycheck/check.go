// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rw1nkler/doxycheck/internal/check"
	"github.com/rw1nkler/doxycheck/internal/config"
	"github.com/rw1nkler/doxycheck/internal/report"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// checkFlagValues holds the flags of a check invocation.
type checkFlagValues struct {
	doxygenHTML bool
	sphinxHTML  bool
	noBrowser   bool
	keep        bool
	dryRun      bool
	strict      bool
	watch       bool
	format      string
	excludes    []string
}

// bindCheckFlags registers the check flags on cmd. The root command and the
// explicit check subcommand share them.
func bindCheckFlags(cmd *cobra.Command, f *checkFlagValues) {
	flags := cmd.Flags()
	flags.BoolVar(&f.doxygenHTML, "doxygen-html", false, "open doxygen's HTML output (keeps the staging root)")
	flags.BoolVar(&f.sphinxHTML, "sphinx-html", false, "build and open a Sphinx site from doxygen's XML (keeps the staging root)")
	flags.BoolVar(&f.noBrowser, "no-browser", false, "print generated page paths instead of opening them")
	flags.BoolVar(&f.keep, "keep", false, "keep the staging root after the check")
	flags.BoolVar(&f.dryRun, "dry-run", false, "resolve inputs and print what would run without running it")
	flags.BoolVar(&f.strict, "strict", false, "exit with status 2 when any diagnostic is reported")
	flags.BoolVar(&f.watch, "watch", false, "re-run the check when sources change")
	flags.StringVar(&f.format, "format", string(report.FormatText), "report format: text, json or yaml")
	flags.StringArrayVar(&f.excludes, "exclude", nil, "skip paths matching a glob, relative to each directory input (repeatable)")
}

func newCheckCommand(app *App, rf *rootFlagValues) *cobra.Command {
	cf := &checkFlagValues{}
	cmd := &cobra.Command{
		Use:   "check [flags] <path>...",
		Short: "Check documentation (the default action)",
		Long: `Check documentation of the given files and directories.

Directories are scanned recursively for C/C++ sources and headers. Files
must carry a recognized extension. This is what 'doxycheck <path>...' runs;
use the explicit form when a path collides with a subcommand name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), app, rf, cf, args)
		},
	}
	bindCheckFlags(cmd, cf)
	return cmd
}

// runCheck loads configuration, sets up logging and runs one check, or the
// watch loop when --watch is set.
func runCheck(ctx context.Context, app *App, rf *rootFlagValues, cf *checkFlagValues, args []string) error {
	format, err := report.ParseFormat(cf.format)
	if err != nil {
		return err
	}
	if cf.watch && cf.dryRun {
		return errors.New("--watch and --dry-run cannot be used together")
	}

	cfg, source, err := app.loadConfig(ctx, rf.configPath)
	if err != nil {
		return err
	}
	rf.scheme = cfg.UI.ColorScheme
	level := logLevel(rf.verbosity, cfg.UI.Verbose)
	setupLogging(app.stderr, level)
	if source != "" {
		slog.Debug("loaded configuration", "path", source)
	}

	orch := app.orchestrator(cfg, cf.noBrowser, level == log.DebugLevel, func(warnings []report.Warning) error {
		return report.Render(app.stdout, warnings, format)
	})
	opts := checkOptions(cfg, cf, args, level)

	if cf.watch {
		return runWatchMode(ctx, app, rf, cf, orch, opts)
	}
	return checkOnce(ctx, app, cf, orch, opts)
}

// checkOptions merges flags over configuration. At debug level doxygen runs
// without QUIET so its progress reaches the log stream.
func checkOptions(cfg *config.Config, cf *checkFlagValues, args []string, level log.Level) check.Options {
	return check.Options{
		Inputs:         args,
		Excludes:       cf.excludes,
		DoxygenHTML:    cf.doxygenHTML,
		SphinxHTML:     cf.sphinxHTML,
		Keep:           cf.keep || cfg.Staging.Keep,
		DryRun:         cf.dryRun,
		Quiet:          level != log.DebugLevel,
		ProjectName:    cfg.Doxygen.ProjectName,
		DoxygenOptions: cfg.Doxygen.Options,
	}
}

// checkOnce runs a single check and turns its outcome into output and an
// exit status. The report itself is written by the Orchestrator's OnReport.
func checkOnce(ctx context.Context, app *App, cf *checkFlagValues, orch *check.Orchestrator, opts check.Options) error {
	res, err := orch.Run(ctx, opts)
	if res != nil && opts.DryRun && res.Mapping != nil {
		printDryRun(app.stdout, res)
	}
	if res != nil && res.Preserved {
		fmt.Fprintf(app.stderr, "%s staging root kept at %s\n", SuccessStyle.Render("✓"), PathStyle.Render(res.StagingRoot))
	}
	if err != nil {
		return classifyCheckError(err)
	}
	if opts.DryRun {
		return nil
	}

	if res.RendererWarnings != "" {
		fmt.Fprintln(app.stdout, res.RendererWarnings)
	}

	counts := report.CountBySeverity(res.Warnings)
	slog.Info("check finished", "files", len(res.Mapping.Files()), "diagnostics", len(res.Warnings), "warnings", counts[report.SeverityWarning])
	if len(res.Warnings) == 0 {
		if cf.format == "" || cf.format == string(report.FormatText) {
			fmt.Fprintf(app.stderr, "%s no documentation warnings\n", SuccessStyle.Render("✓"))
		}
		return nil
	}
	if cf.strict {
		return &ExitError{Code: ExitDiagnostics, Err: fmt.Errorf("%d diagnostic(s) reported", len(res.Warnings))}
	}
	return nil
}

// printDryRun lists the resolved Mapping and the collaborator command lines.
func printDryRun(w io.Writer, res *check.Result) {
	m := res.Mapping
	fmt.Fprintln(w, TitleStyle.Render("Staging plan"))
	for _, root := range m.Roots() {
		source := root.SourcePath
		if root.IsPseudo() {
			source = "(loose files)"
		}
		fmt.Fprintf(w, "root %s <- %s\n", root.Name, source)
		for _, f := range root.Files {
			fmt.Fprintf(w, "  %s <- %s\n", m.LogicalName(f), f.SourcePath)
		}
	}
	fmt.Fprintln(w, TitleStyle.Render("Commands"))
	for _, c := range res.Commands {
		fmt.Fprintf(w, "  %s\n", c)
	}
}
