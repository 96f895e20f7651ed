// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/pkg/moduleinfo"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// FormatText renders results for humans.
	FormatText OutputFormat = "text"
	// FormatJSON renders results as JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders results as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatTOML renders results as TOML.
	FormatTOML OutputFormat = "toml"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidSearchConfig is the sentinel error wrapped by InvalidSearchConfigError.
	ErrInvalidSearchConfig = errors.New("invalid search config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// OutputFormat selects how translation results are printed.
	OutputFormat string

	// Config holds the application configuration.
	Config struct {
		// RepoRoot is the repository root. Empty defers to the environment.
		RepoRoot   string           `json:"repo_root" yaml:"repo_root" toml:"repo_root" mapstructure:"repo_root"`
		ModuleInfo ModuleInfoConfig `json:"module_info" yaml:"module_info" toml:"module_info" mapstructure:"module_info"`
		Search     SearchConfig     `json:"search" yaml:"search" toml:"search" mapstructure:"search"`
		UI         UIConfig         `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
		Output     OutputConfig     `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}

	// ModuleInfoConfig controls where the module index lives and how it is generated.
	ModuleInfoConfig struct {
		OutDir       string `json:"out_dir" yaml:"out_dir" toml:"out_dir" mapstructure:"out_dir"`
		AutoBuild    bool   `json:"auto_build" yaml:"auto_build" toml:"auto_build" mapstructure:"auto_build"`
		BuildCommand string `json:"build_command" yaml:"build_command" toml:"build_command" mapstructure:"build_command"`
	}

	// SearchConfig tunes filesystem searches.
	SearchConfig struct {
		Timeout     time.Duration `json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout"`
		ExcludeDirs []string      `json:"exclude_dirs" yaml:"exclude_dirs" toml:"exclude_dirs" mapstructure:"exclude_dirs"`
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// Interactive enables choosing between multiple matching tests.
		Interactive bool `json:"interactive" yaml:"interactive" toml:"interactive" mapstructure:"interactive"`
	}

	// OutputConfig selects the result format.
	OutputConfig struct {
		Format OutputFormat `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	}

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidSearchConfigError collects search validation failures.
	InvalidSearchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects every validation failure of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ModuleInfo: ModuleInfoConfig{
			AutoBuild:    true,
			BuildCommand: moduleinfo.DefaultBuildCommand,
		},
		Search: SearchConfig{
			ExcludeDirs: slices.Clone(finder.DefaultExcludeDirs),
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// OutputFormats lists the accepted output formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats.
func (f OutputFormat) IsValid() (bool, []error) {
	if slices.Contains(OutputFormats(), f) {
		return true, nil
	}
	return false, []error{&InvalidOutputFormatError{Value: f}}
}

// IsValid checks the search settings.
func (c SearchConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s: must not be negative", c.Timeout))
	}
	for i, d := range c.ExcludeDirs {
		if strings.TrimSpace(d) == "" || strings.ContainsAny(d, `/\`) {
			errs = append(errs, fmt.Errorf("exclude_dirs[%d] %q: must be a single directory name", i, d))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSearchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid checks every field of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Output.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Search.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.ModuleInfo.AutoBuild && strings.TrimSpace(c.ModuleInfo.BuildCommand) == "" {
		errs = append(errs, errors.New("module_info.build_command: required when auto_build is enabled"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

func (e *InvalidSearchConfigError) Error() string {
	return joinFieldErrors("invalid search config", e.FieldErrors)
}

func (e *InvalidSearchConfigError) Unwrap() error { return ErrInvalidSearchConfig }

func (e *InvalidConfigError) Error() string {
	return joinFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap exposes the sentinel and every field error to errors.Is and errors.As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func joinFieldErrors(prefix string, errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %d field error(s): %s", prefix, len(errs), strings.Join(msgs, "; "))
}
