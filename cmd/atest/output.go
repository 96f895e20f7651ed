// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atest-go/atest/internal/config"
	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/internal/translate"
	"github.com/atest-go/atest/pkg/moduleinfo"
	"github.com/atest-go/atest/pkg/testinfo"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type (
	// translationReport is the machine-readable form of a translate.Result.
	translationReport struct {
		Tests        []testReport       `json:"tests" yaml:"tests" toml:"tests"`
		BuildTargets []string           `json:"build_targets" yaml:"build_targets" toml:"build_targets"`
		RunCommands  []string           `json:"run_commands" yaml:"run_commands" toml:"run_commands"`
		Diagnostics  []diagnosticReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
	}

	testReport struct {
		Kind      string   `json:"kind" yaml:"kind" toml:"kind"`
		Name      string   `json:"name" yaml:"name" toml:"name"`
		RelConfig string   `json:"rel_config" yaml:"rel_config" toml:"rel_config"`
		Filters   []string `json:"filters,omitempty" yaml:"filters,omitempty" toml:"filters,omitempty"`
		TestInfo  string   `json:"test_info" yaml:"test_info" toml:"test_info"`
	}

	diagnosticReport struct {
		Severity    string   `json:"severity" yaml:"severity" toml:"severity"`
		Code        string   `json:"code" yaml:"code" toml:"code"`
		Ref         string   `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"`
		Message     string   `json:"message" yaml:"message" toml:"message"`
		Path        string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
		Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty" toml:"suggestions,omitempty"`
	}

	// modulesReport lists module index records.
	modulesReport struct {
		Modules []moduleReport `json:"modules" yaml:"modules" toml:"modules"`
	}

	moduleReport struct {
		Name                string   `json:"name" yaml:"name" toml:"name"`
		Path                []string `json:"path" yaml:"path" toml:"path"`
		Class               []string `json:"class,omitempty" yaml:"class,omitempty" toml:"class,omitempty"`
		Installed           []string `json:"installed,omitempty" yaml:"installed,omitempty" toml:"installed,omitempty"`
		CompatibilitySuites []string `json:"compatibility_suites,omitempty" yaml:"compatibility_suites,omitempty" toml:"compatibility_suites,omitempty"`
		Resolvable          bool     `json:"resolvable" yaml:"resolvable" toml:"resolvable"`
		AutoGenTestConfig   bool     `json:"auto_test_config" yaml:"auto_test_config" toml:"auto_test_config"`
	}
)

func newTranslationReport(res *translate.Result) translationReport {
	r := translationReport{
		Tests:        make([]testReport, 0, len(res.Tests)),
		BuildTargets: append([]string{}, res.BuildTargets...),
		RunCommands:  append([]string{}, res.RunCommands...),
	}
	for _, t := range res.Tests {
		r.Tests = append(r.Tests, newTestReport(t))
	}
	for _, d := range res.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, newDiagnosticReport(d))
	}
	return r
}

func newTestReport(t testinfo.Descriptor) testReport {
	name := t.ModuleName()
	if t.IsIntegration() {
		name = t.IntegrationName()
	}
	return testReport{
		Kind:      string(t.Kind()),
		Name:      name,
		RelConfig: t.RelConfig(),
		Filters:   t.Filters(),
		TestInfo:  t.Render(),
	}
}

func newDiagnosticReport(d finder.Diagnostic) diagnosticReport {
	return diagnosticReport{
		Severity:    string(d.Severity),
		Code:        d.Code,
		Ref:         d.Ref,
		Message:     d.Message,
		Path:        d.Path,
		Suggestions: d.Suggestions,
	}
}

func newModuleReport(name string, r moduleinfo.Record) moduleReport {
	return moduleReport{
		Name:                name,
		Path:                r.Path,
		Class:               r.Class,
		Installed:           r.Installed,
		CompatibilitySuites: r.CompatibilitySuites,
		Resolvable:          r.Resolvable(),
		AutoGenTestConfig:   r.AutoGenTestConfig(),
	}
}

// encode writes v in a structured format. FormatText is handled by callers.
func encode(w io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// writeTranslationText renders res as titled lists.
func writeTranslationText(w io.Writer, res *translate.Result) {
	section := func(title string, items []string) {
		fmt.Fprintln(w, TitleStyle.Render(title))
		for _, item := range items {
			fmt.Fprintln(w, itemStyle.Render(item))
		}
	}

	tests := make([]string, 0, len(res.Tests))
	for _, t := range res.Tests {
		tests = append(tests, t.Render()+" "+SubtitleStyle.Render("("+t.RelConfig()+")"))
	}
	section("Tests", tests)

	targets := make([]string, 0, len(res.BuildTargets))
	for _, t := range res.BuildTargets {
		targets = append(targets, CmdStyle.Render(t))
	}
	section("Build targets", targets)
	section("Run commands", res.RunCommands)
}

// writeDiagnostics prints non-fatal resolution notes.
func writeDiagnostics(w io.Writer, diags []finder.Diagnostic) {
	for _, d := range diags {
		prefix := WarningStyle.Render("warning")
		if d.Severity == finder.SeverityError {
			prefix = ErrorStyle.Render("error")
		}
		msg := d.Message
		if d.Path != "" {
			msg += " (" + d.Path + ")"
		}
		if len(d.Suggestions) > 0 {
			msg += "; did you mean: " + strings.Join(d.Suggestions, ", ")
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, msg)
	}
}
