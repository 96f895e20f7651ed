// SPDX-License-Identifier: MPL-2.0

package translate_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/internal/reference"
	"github.com/atest-go/atest/internal/testutil/repotest"
	"github.com/atest-go/atest/internal/translate"
	"github.com/atest-go/atest/pkg/testinfo"
)

type stubFinder struct {
	res finder.Result
	err error
}

func (s stubFinder) Find(context.Context, string) (finder.Result, error) { return s.res, s.err }

func newRepo(t *testing.T) *repotest.Repo {
	t.Helper()
	r := repotest.New(t)
	r.AddHarness("tradefed", "tools/tradefederation/core")
	r.AddHarness("google-tradefed", "vendor/google/tradefed")
	r.AddTestModule("ExampleTests", "path/to/ExampleTests", "ExampleApp.apk")
	r.AddJavaSource("path/to/ExampleTests/src/com/example/FooTest.java", "com.example")
	r.AddJavaSource("path/to/ExampleTests/src/com/example/BarTest.java", "com.example")
	r.WriteFile("tools/tradefederation/core/res/config/native-benchmark.xml", repotest.ConfigXML("NativeBench.apk"))
	r.WriteFile("tools/tradefederation/core/res/config/suite/cts/tests/app.xml", repotest.ConfigXML())
	r.WriteFile("tools/tradefederation/core/res/config/other/cts/tests/app.xml", repotest.ConfigXML())
	r.WriteFile("vendor/google/tradefed/res/config/google/smoke.xml", repotest.ConfigXML())
	r.AddJavaSource("orphans/OrphanTest.java", "com.orphan")
	return r
}

func newTranslator(t *testing.T, r *repotest.Repo, opts ...translate.Option) *translate.Translator {
	t.Helper()
	tr, err := translate.New(r.Root, r.Index(), append([]translate.Option{translate.WithWorkDir(r.Root)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tr
}

func TestTranslate_QualifiedClass(t *testing.T) {
	t.Parallel()

	res, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{"com.example.FooTest"})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := testinfo.ForModule("path/to/ExampleTests/AndroidTest.xml", "ExampleTests", "com.example.FooTest")
	if len(res.Tests) != 1 || !repotest.SameDescriptor(res.Tests[0], want) {
		t.Fatalf("Tests = %v, want [%s]", res.Tests, want)
	}
	if len(res.RunCommands) != 1 || !strings.HasSuffix(res.RunCommands[0], "--log-level WARN --test-info ExampleTests:com.example.FooTest") {
		t.Errorf("RunCommands = %v", res.RunCommands)
	}
	if want := []string{"ExampleApp", "MODULES-IN-path-to-ExampleTests", "tradefed-all"}; !slices.Equal(res.BuildTargets, want) {
		t.Errorf("BuildTargets = %v, want %v", res.BuildTargets, want)
	}
}

func TestTranslate_MergesModuleRequests(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t, newRepo(t), translate.WithVerbose(true))

	t.Run("class filters union", func(t *testing.T) {
		t.Parallel()
		res, err := tr.Translate(context.Background(), []string{"FooTest", "com.example.BarTest"})
		if err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
		if len(res.Tests) != 1 {
			t.Fatalf("Tests = %v, want one merged descriptor", res.Tests)
		}
		if got := res.Tests[0].Render(); got != "ExampleTests:com.example.BarTest,com.example.FooTest" {
			t.Errorf("Render() = %q", got)
		}
		if !strings.Contains(res.RunCommands[0], "--log-level VERBOSE") {
			t.Errorf("RunCommands[0] = %q, want VERBOSE log level", res.RunCommands[0])
		}
	})

	t.Run("whole module subsumes class", func(t *testing.T) {
		t.Parallel()
		res, err := tr.Translate(context.Background(), []string{"FooTest", "ExampleTests"})
		if err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
		if len(res.Tests) != 1 || res.Tests[0].HasFilters() {
			t.Errorf("Tests = %v, want one unfiltered descriptor", res.Tests)
		}
	})
}

func TestTranslate_MixedKinds(t *testing.T) {
	t.Parallel()

	res, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{
		"native-benchmark",
		"path/to/ExampleTests/src/com/example/FooTest.java",
		"google/smoke",
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	var rendered []string
	for _, d := range res.Tests {
		rendered = append(rendered, d.Render())
	}
	if want := []string{"native-benchmark", "ExampleTests:com.example.FooTest", "google/smoke"}; !slices.Equal(rendered, want) {
		t.Errorf("rendered tests = %v, want %v", rendered, want)
	}
	want := []string{"ExampleApp", "MODULES-IN-path-to-ExampleTests", "NativeBench", "google-tradefed-all", "tradefed-all"}
	if !slices.Equal(res.BuildTargets, want) {
		t.Errorf("BuildTargets = %v, want %v", res.BuildTargets, want)
	}
}

func TestTranslate_NoTestFound(t *testing.T) {
	t.Parallel()

	res, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{"ExampleTests", "NoSuchModule"})
	if res != nil {
		t.Errorf("Translate() returned partial result %+v", res)
	}

	var notFound *translate.NoTestFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Translate() error = %v, want *NoTestFoundError", err)
	}
	if notFound.Ref != "NoSuchModule" {
		t.Errorf("Ref = %q, want NoSuchModule", notFound.Ref)
	}
	if !strings.Contains(err.Error(), "NoSuchModule") {
		t.Errorf("Error() = %q does not name the reference", err.Error())
	}
	if want := []reference.Kind{reference.Integration, reference.Module, reference.Class}; !slices.Equal(notFound.Tried, want) {
		t.Errorf("Tried = %v, want %v", notFound.Tried, want)
	}
}

func TestTranslate_IntegrationNearMiss(t *testing.T) {
	t.Parallel()

	_, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{"cts/tests/app"})

	var notFound *translate.NoTestFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Translate() error = %v, want *NoTestFoundError", err)
	}
	if len(notFound.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %+v, want one hint", notFound.Diagnostics)
	}
	hint := notFound.Diagnostics[0]
	if hint.Code != finder.CodeIntegrationNameMismatch || len(hint.Suggestions) != 2 {
		t.Errorf("hint = %+v", hint)
	}
}

func TestTranslate_UnsupportedKinds(t *testing.T) {
	t.Parallel()

	_, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{"ExampleTests:com.example.FooTest"})

	var notFound *translate.NoTestFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Translate() error = %v, want *NoTestFoundError", err)
	}
	if len(notFound.Diagnostics) != 2 {
		t.Fatalf("Diagnostics = %+v, want one per unsupported kind", notFound.Diagnostics)
	}
	for _, d := range notFound.Diagnostics {
		if d.Code != finder.CodeUnsupportedKind || d.Severity != finder.SeverityWarning {
			t.Errorf("diagnostic = %+v, want unsupported-kind warning", d)
		}
	}
}

func TestTranslate_FatalErrorAbortsBatch(t *testing.T) {
	t.Parallel()

	res, err := newTranslator(t, newRepo(t)).Translate(context.Background(), []string{"ExampleTests", "OrphanTest", "native-benchmark"})
	if res != nil {
		t.Errorf("Translate() returned partial result %+v", res)
	}
	var orphan *finder.TestWithNoModuleError
	if !errors.As(err, &orphan) {
		t.Fatalf("Translate() error = %v, want *TestWithNoModuleError", err)
	}
	if !strings.Contains(err.Error(), "OrphanTest") {
		t.Errorf("Error() = %q does not name the reference", err)
	}
}

func TestTranslate_FinderErrorIsNotMasked(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tr := newTranslator(t, newRepo(t), translate.WithFinder(reference.Integration, stubFinder{err: boom}))

	_, err := tr.Translate(context.Background(), []string{"ExampleTests"})
	if !errors.Is(err, boom) {
		t.Errorf("Translate() error = %v, want %v", err, boom)
	}
}

func TestTranslate_FinderOverride(t *testing.T) {
	t.Parallel()

	desc := testinfo.ForModule("path/to/ExampleTests/AndroidTest.xml", "ExampleTests", "com.example.FooTest")
	tr := newTranslator(t, newRepo(t), translate.WithFinder(reference.ModuleClass, stubFinder{res: finder.Result{Test: &desc}}))

	if kinds := tr.SupportedKinds(); !slices.Contains(kinds, reference.ModuleClass) {
		t.Errorf("SupportedKinds() = %v, want ModuleClass registered", kinds)
	}

	res, err := tr.Translate(context.Background(), []string{"ExampleTests:FooTest"})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if len(res.Tests) != 1 || !repotest.SameDescriptor(res.Tests[0], desc) {
		t.Errorf("Tests = %v", res.Tests)
	}
}

func TestTranslate_NoRefs(t *testing.T) {
	t.Parallel()

	_, err := newTranslator(t, newRepo(t)).Translate(context.Background(), nil)
	if !errors.Is(err, translate.ErrNoTests) {
		t.Errorf("Translate(nil) error = %v, want ErrNoTests", err)
	}
}

func TestNew_InvalidRoot(t *testing.T) {
	t.Parallel()

	r := repotest.New(t)
	file := r.WriteFile("not-a-dir", "")
	_, err := translate.New(file, r.Index())
	var rootErr *finder.InvalidRootError
	if !errors.As(err, &rootErr) {
		t.Errorf("New() error = %v, want *InvalidRootError", err)
	}
}

func TestSupportedKinds(t *testing.T) {
	t.Parallel()

	want := []reference.Kind{reference.Module, reference.Class, reference.QualifiedClass, reference.FilePath, reference.Integration}
	if got := newTranslator(t, newRepo(t)).SupportedKinds(); !slices.Equal(got, want) {
		t.Errorf("SupportedKinds() = %v, want %v", got, want)
	}
}
