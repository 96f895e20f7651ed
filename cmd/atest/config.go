// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/atest-go/atest/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `atest config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage atest configuration",
		Long: `Manage atest configuration.

Configuration is stored in:
  - Linux: ~/.config/atest/config.cue
  - macOS: ~/Library/Application Support/atest/config.cue
  - Windows: %APPDATA%\atest\config.cue

Every key may be overridden with an ATEST_* environment variable,
for example ATEST_SEARCH_TIMEOUT=30s.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), flags, cmd.Flags().Changed)
			if err != nil {
				return app.fail(err, nil)
			}
			if s.cfg.Output.Format != config.FormatText {
				return encode(app.stdout, s.cfg.Output.Format, s.cfg)
			}
			showConfig(app, s)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(err, nil)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return app.fail(err, nil)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(force)
			if err != nil {
				return app.fail(fmt.Errorf("failed to create config: %w", err), nil)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(app *App, s *session) {
	w := app.stdout
	kv := func(indent, key, value string) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, CmdStyle.Render(key), SuccessStyle.Render(value))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w, SubtitleStyle.Render("source: "+valueOrNone(s.cfgFile)))
	fmt.Fprintln(w)
	kv("", "repo_root", s.root)
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("module_info"))
	kv("  ", "out_dir", valueOrNone(s.outDir))
	kv("  ", "auto_build", fmt.Sprint(s.cfg.ModuleInfo.AutoBuild))
	kv("  ", "build_command", s.cfg.ModuleInfo.BuildCommand)
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("search"))
	kv("  ", "timeout", s.cfg.Search.Timeout.String())
	kv("  ", "exclude_dirs", strings.Join(s.cfg.Search.ExcludeDirs, ", "))
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("ui"))
	kv("  ", "color_scheme", s.cfg.UI.ColorScheme.String())
	kv("  ", "verbose", fmt.Sprint(s.cfg.UI.Verbose))
	kv("  ", "interactive", fmt.Sprint(s.cfg.UI.Interactive))
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("output"))
	kv("  ", "format", s.cfg.Output.Format.String())
}

func valueOrNone(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
