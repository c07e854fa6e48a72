// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/rw1nkler/doxycheck/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `doxycheck config` command tree.
func newConfigCommand(app *App, rf *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage doxycheck configuration",
		Long: `Manage doxycheck configuration.

Configuration is read from the --config file when given, else from:
  - Linux: ~/.config/doxycheck/config.cue
  - macOS: ~/Library/Application Support/doxycheck/config.cue
  - Windows: %APPDATA%\doxycheck\config.cue
and finally from ./doxycheck.cue. DOXYCHECK_<SECTION>_<KEY> environment
variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rf)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), app, rf)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, rf)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context(), rf.configPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rf *rootFlagValues) error {
	cfg, source, err := app.loadConfig(ctx, rf.configPath)
	if err != nil {
		return err
	}
	rf.scheme = cfg.UI.ColorScheme

	w := app.stdout
	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	section := func(name string, pairs ...string) {
		fmt.Fprintf(w, "\n%s:\n", keyStyle.Render(name))
		for i := 0; i+1 < len(pairs); i += 2 {
			value := pairs[i+1]
			if value == "" {
				value = SubtitleStyle.Render("(default)")
			} else {
				value = valueStyle.Render(value)
			}
			fmt.Fprintf(w, "  %s: %s\n", pairs[i], value)
		}
	}

	section("doxygen",
		"binary", cfg.Doxygen.Binary.String(),
		"project_name", cfg.Doxygen.ProjectName,
	)
	if len(cfg.Doxygen.Options) > 0 {
		fmt.Fprintln(w, "  options:")
		for _, k := range slices.Sorted(maps.Keys(cfg.Doxygen.Options)) {
			fmt.Fprintf(w, "    %s = %s\n", k, valueStyle.Render(cfg.Doxygen.Options[k]))
		}
	}
	section("sphinx",
		"binary", cfg.Sphinx.Binary.String(),
		"theme", cfg.Sphinx.Theme,
	)
	section("browser", "command", cfg.Browser.Command)
	section("staging",
		"temp_dir", cfg.Staging.TempDir,
		"keep", fmt.Sprintf("%v", cfg.Staging.Keep),
	)
	section("ui",
		"color_scheme", cfg.UI.ColorScheme.String(),
		"verbose", fmt.Sprintf("%v", cfg.UI.Verbose),
	)
	return nil
}

func showConfigPath(ctx context.Context, app *App, rf *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	userPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "User config file: %s\n", userPath)
	fmt.Fprintf(app.stdout, "Project config file: %s\n", config.LocalConfigFileName)

	if _, source, loadErr := app.loadConfig(ctx, rf.configPath); loadErr == nil && source != "" {
		fmt.Fprintf(app.stdout, "In use: %s\n", source)
	}
	return nil
}

func initConfig(app *App, rf *rootFlagValues) error {
	path := rf.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	written, err := config.WriteDefault(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
