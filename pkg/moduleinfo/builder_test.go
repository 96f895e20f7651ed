// SPDX-License-Identifier: MPL-2.0

package moduleinfo_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atest-go/atest/pkg/moduleinfo"
)

type countingBuilder struct {
	calls int
	inner moduleinfo.Builder
}

func (b *countingBuilder) Build(ctx context.Context, root, target string) error {
	b.calls++
	return b.inner.Build(ctx, root, target)
}

func TestEnsure_LoadsExistingIndexWithoutBuilding(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outDir := filepath.Join(root, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(moduleinfo.IndexPath(outDir), []byte(`{"Foo": {"path": ["foo"], "installed": ["x"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &countingBuilder{inner: &moduleinfo.ShellBuilder{Command: "exit 1"}}
	idx, err := moduleinfo.Ensure(context.Background(), root, outDir, b, nil)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if b.calls != 0 {
		t.Errorf("builder called %d times, want 0", b.calls)
	}
	if !idx.IsResolvable("Foo") {
		t.Error("IsResolvable(Foo) = false")
	}
}

func TestEnsure_BuildsMissingIndex(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outDir := filepath.Join(root, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	b := &countingBuilder{inner: &moduleinfo.ShellBuilder{
		Command: `echo "building $TARGET"; echo '{"Built": {"path": ["built"], "installed": ["y"]}}' > "$TARGET"`,
		Stdout:  &stdout,
	}}

	idx, err := moduleinfo.Ensure(context.Background(), root, outDir, b, nil)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if b.calls != 1 {
		t.Errorf("builder called %d times, want 1", b.calls)
	}
	if !idx.IsResolvable("Built") {
		t.Error("generated index does not contain Built")
	}
	if got, want := stdout.String(), "building out/module-info.json\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestEnsure_MissingIndexWithoutBuilder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := moduleinfo.Ensure(context.Background(), root, filepath.Join(root, "out"), nil, nil)
	if !errors.Is(err, moduleinfo.ErrIndexMissing) {
		t.Errorf("Ensure() error = %v, want ErrIndexMissing", err)
	}

	_, err = moduleinfo.Ensure(context.Background(), root, "", nil, nil)
	if !errors.Is(err, moduleinfo.ErrIndexMissing) {
		t.Errorf("Ensure(no outDir) error = %v, want ErrIndexMissing", err)
	}
}

func TestShellBuilder_ExitCode(t *testing.T) {
	t.Parallel()

	b := &moduleinfo.ShellBuilder{Command: "exit 3"}
	err := b.Build(context.Background(), t.TempDir(), "out/module-info.json")

	var buildErr *moduleinfo.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Build() error = %v, want *BuildError", err)
	}
	if buildErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", buildErr.ExitCode)
	}
	if buildErr.Target != "out/module-info.json" {
		t.Errorf("Target = %q", buildErr.Target)
	}
}

func TestShellBuilder_ParseError(t *testing.T) {
	t.Parallel()

	b := &moduleinfo.ShellBuilder{Command: "if then fi ("}
	err := b.Build(context.Background(), t.TempDir(), "x")
	if err == nil {
		t.Fatal("Build() error = nil for unparsable command")
	}
	var buildErr *moduleinfo.BuildError
	if errors.As(err, &buildErr) {
		t.Error("parse failure reported as BuildError")
	}
}
