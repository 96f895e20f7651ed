// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atest-go/atest/internal/config"
	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/internal/issue"
	"github.com/atest-go/atest/pkg/moduleinfo"

	"github.com/charmbracelet/log"
)

const (
	// EnvBuildTop is exported by the Android build environment and names the repository root.
	EnvBuildTop = "ANDROID_BUILD_TOP"
	// EnvOut names the product output directory holding module-info.json.
	EnvOut = "OUT"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and reach configuration, the environment and the
	// terminal through it.
	App struct {
		Config   ConfigProvider
		Selector SelectorFactory
		getenv   func(string) string
		getwd    func() (string, error)
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Selector SelectorFactory
		Getenv   func(string) string
		Getwd    func() (string, error)
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// SelectorFactory builds the interactive chooser used with --interactive.
	SelectorFactory func(cfg *config.Config, stderr io.Writer) finder.Selector

	// globalFlags are the persistent flags shared by every subcommand.
	globalFlags struct {
		configPath string
		verbose    bool
		root       string
		outDir     string
		format     string
	}

	// session is the per-invocation view of configuration and environment.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		root    string
		outDir  string
		workDir string
		// cfgFile is the configuration file read, empty when defaults applied.
		cfgFile string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Selector == nil {
		deps.Selector = newHuhSelector
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config:   deps.Config,
		Selector: deps.Selector,
		getenv:   deps.Getenv,
		getwd:    deps.Getwd,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// openSession loads configuration, applies flag overrides and resolves the
// repository root and output directory.
func (a *App) openSession(ctx context.Context, flags *globalFlags, changed func(string) bool) (*session, error) {
	cfg, cfgFile, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	if changed("verbose") {
		cfg.UI.Verbose = flags.verbose
	}
	if changed("format") {
		cfg.Output.Format = config.OutputFormat(flags.format)
		if ok, errs := cfg.Output.Format.IsValid(); !ok {
			return nil, errs[0]
		}
	}

	workDir, err := a.getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	root := firstNonEmpty(flags.root, cfg.RepoRoot, a.getenv(EnvBuildTop), workDir)
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}
	outDir := firstNonEmpty(flags.outDir, cfg.ModuleInfo.OutDir, a.getenv(EnvOut))
	if outDir != "" && !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	return &session{
		cfg:     cfg,
		logger:  newLogger(a.stderr, cfg.UI.Verbose),
		root:    root,
		outDir:  outDir,
		workDir: workDir,
		cfgFile: cfgFile,
	}, nil
}

func (a *App) loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, string, error) {
	opts := config.LoadOptions{ConfigFilePath: flags.configPath}
	if pp, ok := a.Config.(config.PathProvider); ok {
		return pp.LoadWithPath(ctx, opts)
	}
	cfg, err := a.Config.Load(ctx, opts)
	return cfg, "", err
}

// loadIndex loads module-info.json, generating it first when auto_build allows.
func (a *App) loadIndex(ctx context.Context, s *session) (*moduleinfo.Index, error) {
	var builder moduleinfo.Builder
	if s.cfg.ModuleInfo.AutoBuild {
		builder = &moduleinfo.ShellBuilder{
			Command: s.cfg.ModuleInfo.BuildCommand,
			Stdout:  a.stderr,
			Stderr:  a.stderr,
		}
	}

	index, err := moduleinfo.Ensure(ctx, s.root, s.outDir, builder, s.logger)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load module index").
			WithResource(moduleinfo.IndexPath(s.outDir)).
			WithSuggestion("Run 'source build/envsetup.sh && lunch <target>' so that $OUT is set").
			WithSuggestion("Or pass --out-dir pointing at the product output directory").
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("loaded module index", "modules", index.Len(), "root", s.root)
	return index, nil
}

// fail reports err with its catalog help and returns an already-reported ExitError.
// s may be nil when the failure happened before configuration was loaded.
func (a *App) fail(err error, s *session) error {
	scheme, verbose := config.ColorSchemeAuto, false
	if s != nil {
		scheme, verbose = s.cfg.UI.ColorScheme, s.cfg.UI.Verbose
	}
	if id := classifyError(err); id != 0 {
		renderServiceError(a.stderr, newServiceError(err, id), scheme)
	}
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err, Reported: true}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Prefix: "atest", Level: level})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
