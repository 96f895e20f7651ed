// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/atest-go/atest/internal/config"
	"github.com/atest-go/atest/internal/finder"

	"github.com/charmbracelet/huh"
)

// huhSelector asks the user to pick one candidate with a huh select prompt.
type huhSelector struct {
	theme  *huh.Theme
	output io.Writer
}

func newHuhSelector(cfg *config.Config, stderr io.Writer) finder.Selector {
	theme := huh.ThemeCharm()
	if cfg.UI.ColorScheme == config.ColorSchemeLight {
		theme = huh.ThemeBase16()
	}
	return &huhSelector{theme: theme, output: stderr}
}

// Select implements finder.Selector.
func (s *huhSelector) Select(ctx context.Context, ref string, candidates []string) (int, error) {
	options := make([]huh.Option[int], len(candidates))
	for i, c := range candidates {
		options[i] = huh.NewOption(c, i)
	}

	var choice int
	sel := huh.NewSelect[int]().
		Title(fmt.Sprintf("Multiple tests match %q", ref)).
		Description("Choose the one to run").
		Options(options...).
		Value(&choice)

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(s.theme).
		WithOutput(s.output)
	if err := form.RunWithContext(ctx); err != nil {
		return 0, fmt.Errorf("select test for %q: %w", ref, err)
	}
	return choice, nil
}
