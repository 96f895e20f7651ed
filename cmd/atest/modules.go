// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/atest-go/atest/internal/config"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

func newModulesCommand(app *App, flags *globalFlags) *cobra.Command {
	var installedOnly bool

	cmd := &cobra.Command{
		Use:   "modules [pattern...]",
		Short: "List modules from module-info.json",
		Long: `List modules from module-info.json.

Patterns are globs matched against module names ('Cts*Jank*'). With no
pattern every module is listed, in index order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := app.openSession(ctx, flags, cmd.Flags().Changed)
			if err != nil {
				return app.fail(err, nil)
			}
			for _, p := range args {
				if !doublestar.ValidatePattern(p) {
					return app.fail(fmt.Errorf("invalid pattern %q", p), s)
				}
			}

			index, err := app.loadIndex(ctx, s)
			if err != nil {
				return app.fail(err, s)
			}

			report := modulesReport{Modules: []moduleReport{}}
			for _, name := range index.Names() {
				if !matchesAny(args, name) {
					continue
				}
				if installedOnly && !index.IsResolvable(name) {
					continue
				}
				rec, _ := index.Get(name)
				report.Modules = append(report.Modules, newModuleReport(name, rec))
			}

			if s.cfg.Output.Format != config.FormatText {
				return encode(app.stdout, s.cfg.Output.Format, report)
			}
			for _, m := range report.Modules {
				line := CmdStyle.Render(m.Name) + " " + strings.Join(m.Path, ",")
				if !m.Resolvable {
					line += " " + SubtitleStyle.Render("(not installed)")
				}
				fmt.Fprintln(app.stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only list modules with installed artifacts")
	return cmd
}

func matchesAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
