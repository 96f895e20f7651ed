// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/atest-go/atest/internal/config"
	"github.com/atest-go/atest/internal/translate"

	"github.com/spf13/cobra"
)

func newTranslateCommand(app *App, flags *globalFlags) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "translate <reference>...",
		Short: "Resolve test references to build targets and run commands",
		Long: `Resolve test references to build targets and run commands.

A reference may be a module name, a class name (simple or fully qualified),
module:class, a package, a file or directory path, or an integration name.
Every reference must resolve; otherwise nothing is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := app.openSession(ctx, flags, cmd.Flags().Changed)
			if err != nil {
				return app.fail(err, nil)
			}
			if cmd.Flags().Changed("interactive") {
				s.cfg.UI.Interactive = interactive
			}

			index, err := app.loadIndex(ctx, s)
			if err != nil {
				return app.fail(err, s)
			}

			opts := []translate.Option{
				translate.WithLogger(s.logger),
				translate.WithVerbose(s.cfg.UI.Verbose),
				translate.WithWorkDir(s.workDir),
				translate.WithSearchTimeout(s.cfg.Search.Timeout),
				translate.WithExcludeDirs(s.cfg.Search.ExcludeDirs...),
			}
			if s.cfg.UI.Interactive {
				opts = append(opts, translate.WithSelector(app.Selector(s.cfg, app.stderr)))
			}

			tr, err := translate.New(s.root, index, opts...)
			if err != nil {
				return app.fail(err, s)
			}

			res, err := tr.Translate(ctx, args)
			if err != nil {
				var noTest *translate.NoTestFoundError
				if errors.As(err, &noTest) {
					writeDiagnostics(app.stderr, noTest.Diagnostics)
				}
				return app.fail(err, s)
			}

			if s.cfg.Output.Format == config.FormatText {
				writeDiagnostics(app.stderr, res.Diagnostics)
				writeTranslationText(app.stdout, res)
				return nil
			}
			return encode(app.stdout, s.cfg.Output.Format, newTranslationReport(res))
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose interactively when a reference matches several tests")
	return cmd
}
