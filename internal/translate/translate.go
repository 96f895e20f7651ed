// SPDX-License-Identifier: MPL-2.0

package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/atest-go/atest/internal/aggregate"
	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/internal/reference"
	"github.com/atest-go/atest/pkg/moduleinfo"
	"github.com/atest-go/atest/pkg/testinfo"
)

const tracerName = "github.com/atest-go/atest/internal/translate"

// ErrNoTests is returned when Translate is called without references.
var ErrNoTests = errors.New("no tests given")

type (
	// Translator resolves test references against one repository.
	Translator struct {
		ws       *finder.Workspace
		finders  map[reference.Kind]finder.Finder
		planner  *aggregate.Planner
		logLevel aggregate.LogLevel
		logger   *log.Logger
	}

	// Result is the outcome of a successful translation.
	Result struct {
		// Tests are the flattened descriptors, in first-appearance order.
		Tests []testinfo.Descriptor
		// BuildTargets is the sorted, deduplicated target set.
		BuildTargets []string
		// RunCommands holds the harness invocations, in order.
		RunCommands []string
		// Diagnostics collects non-fatal notes from every resolution.
		Diagnostics []finder.Diagnostic
	}

	// NoTestFoundError is returned when no candidate kind resolves a reference.
	NoTestFoundError struct {
		Ref   string
		Tried []reference.Kind
		// Diagnostics holds the hints gathered while trying Ref.
		Diagnostics []finder.Diagnostic
	}

	// Option configures a Translator.
	Option func(*settings)

	settings struct {
		logger     *log.Logger
		verbose    bool
		finderOpts []finder.Option
		overrides  map[reference.Kind]finder.Finder
	}
)

func (e *NoTestFoundError) Error() string {
	return fmt.Sprintf("no test found for: %s", e.Ref)
}

// WithLogger sets the logger for translation and search progress.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
		s.finderOpts = append(s.finderOpts, finder.WithLogger(l))
	}
}

// WithVerbose selects the verbose harness log level for run commands.
func WithVerbose(verbose bool) Option {
	return func(s *settings) { s.verbose = verbose }
}

// WithWorkDir sets the directory relative path references resolve against.
func WithWorkDir(dir string) Option {
	return func(s *settings) { s.finderOpts = append(s.finderOpts, finder.WithWorkDir(dir)) }
}

// WithSelector enables interactive choice between multiple matches.
func WithSelector(sel finder.Selector) Option {
	return func(s *settings) { s.finderOpts = append(s.finderOpts, finder.WithSelector(sel)) }
}

// WithSearchTimeout bounds each filesystem search.
func WithSearchTimeout(d time.Duration) Option {
	return func(s *settings) { s.finderOpts = append(s.finderOpts, finder.WithSearchTimeout(d)) }
}

// WithExcludeDirs sets the directory names skipped by filesystem searches.
func WithExcludeDirs(names ...string) Option {
	return func(s *settings) { s.finderOpts = append(s.finderOpts, finder.WithExcludeDirs(names...)) }
}

// WithFinder registers f for kind, replacing the default finder.
func WithFinder(kind reference.Kind, f finder.Finder) Option {
	return func(s *settings) {
		if s.overrides == nil {
			s.overrides = make(map[reference.Kind]finder.Finder)
		}
		s.overrides[kind] = f
	}
}

// New returns a Translator for the repository at root.
func New(root string, index *moduleinfo.Index, opts ...Option) (*Translator, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	ws, err := finder.NewWorkspace(root, index, s.finderOpts...)
	if err != nil {
		return nil, err
	}

	finders := DefaultFinders(ws)
	maps.Copy(finders, s.overrides)

	return &Translator{
		ws:       ws,
		finders:  finders,
		planner:  aggregate.NewPlanner(ws.Root(), ws.GTFDirs(), index, s.logger),
		logLevel: aggregate.LogLevelFor(s.verbose),
		logger:   s.logger,
	}, nil
}

// DefaultFinders returns the finder registered for each supported kind.
func DefaultFinders(ws *finder.Workspace) map[reference.Kind]finder.Finder {
	classFinder := finder.NewClassFinder(ws)
	return map[reference.Kind]finder.Finder{
		reference.Module:         finder.NewModuleFinder(ws),
		reference.Class:          classFinder,
		reference.QualifiedClass: classFinder,
		reference.FilePath:       finder.NewPathFinder(ws),
		reference.Integration:    finder.NewIntegrationFinder(ws),
	}
}

// Root returns the resolved repository root.
func (t *Translator) Root() string { return t.ws.Root() }

// SupportedKinds returns the kinds with a registered finder, in declaration order.
func (t *Translator) SupportedKinds() []reference.Kind {
	kinds := slices.Collect(maps.Keys(t.finders))
	slices.Sort(kinds)
	return kinds
}

// Translate resolves refs and aggregates them. The batch is atomic: the
// first failing reference aborts the call and no partial result is returned.
func (t *Translator) Translate(ctx context.Context, refs []string) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "translate.Translator.Translate",
		trace.WithAttributes(attribute.Int("atest.ref_count", len(refs))),
	)
	defer span.End()

	if len(refs) == 0 {
		return nil, fail(span, ErrNoTests)
	}

	start := time.Now()
	t.logger.Info("finding tests", "tests", refs)

	var (
		resolved []testinfo.Descriptor
		diags    []finder.Diagnostic
	)
	for _, ref := range refs {
		desc, refDiags, err := t.Resolve(ctx, ref)
		diags = append(diags, refDiags...)
		if err != nil {
			return nil, fail(span, err)
		}
		resolved = append(resolved, desc)
	}

	tests := aggregate.Flatten(resolved)
	targets, err := t.planner.BuildTargets(tests)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.Int("atest.test_count", len(tests)),
		attribute.Int("atest.build_target_count", len(targets)),
	)
	t.logger.Info("found tests", "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Tests:        tests,
		BuildTargets: targets,
		RunCommands:  aggregate.RunCommands(tests, t.logLevel),
		Diagnostics:  diags,
	}, nil
}

// Resolve tries each candidate kind of ref in classifier order and returns
// the first descriptor found. Kinds without a finder produce a warning
// diagnostic and are skipped.
func (t *Translator) Resolve(ctx context.Context, ref string) (testinfo.Descriptor, []finder.Diagnostic, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "translate.Translator.Resolve",
		trace.WithAttributes(attribute.String("atest.ref", ref)),
	)
	defer span.End()

	kinds := reference.Classify(ref)
	t.logger.Debug("finding test", "ref", ref, "strategies", kinds)

	var diags []finder.Diagnostic
	for _, kind := range kinds {
		f, ok := t.finders[kind]
		if !ok {
			diags = append(diags, t.unsupported(ref, kind))
			continue
		}

		res, err := f.Find(ctx, ref)
		diags = append(diags, res.Diagnostics...)
		if err != nil {
			return testinfo.Descriptor{}, diags, fail(span, fmt.Errorf("resolve %q as %s: %w", ref, kind, err))
		}
		if res.Found() {
			t.logger.Info("found test", "ref", ref, "as", kind)
			t.logger.Debug("resolved", "ref", ref, "test", *res.Test)
			span.SetAttributes(
				attribute.String("atest.kind", kind.String()),
				attribute.String("atest.test_info", res.Test.Render()),
			)
			return *res.Test, diags, nil
		}
		t.logger.Debug("no match", "ref", ref, "as", kind)
	}

	return testinfo.Descriptor{}, diags, fail(span, &NoTestFoundError{Ref: ref, Tried: kinds, Diagnostics: diags})
}

func (t *Translator) unsupported(ref string, kind reference.Kind) finder.Diagnostic {
	names := make([]string, 0, len(t.finders))
	for _, k := range t.SupportedKinds() {
		names = append(names, k.String())
	}
	msg := fmt.Sprintf("%q as %s reference is unsupported; tests can be identified by: %s", ref, kind, strings.Join(names, ", "))
	t.logger.Warn(msg)
	return finder.Diagnostic{
		Severity: finder.SeverityWarning,
		Code:     finder.CodeUnsupportedKind,
		Message:  msg,
		Ref:      ref,
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
