// SPDX-License-Identifier: MPL-2.0

package moduleinfo_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/atest-go/atest/pkg/moduleinfo"
)

const sampleIndex = `{
  "Zeta": {"class": ["APPS"], "path": ["packages/apps/Shared"], "installed": ["out/Zeta.apk"]},
  "Alpha": {"class": ["APPS"], "path": ["packages/apps/Shared"], "installed": ["out/Alpha.apk"]},
  "Hidden": {"path": ["packages/apps/Hidden"], "installed": []},
  "Gen": {"path": ["frameworks/gen"], "installed": ["out/Gen"], "auto_test_config": [true]},
  "tradefed": {"path": ["tools/tradefederation/core"], "installed": ["out/tradefed.jar"]}
}`

func TestParse_PreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	idx, err := moduleinfo.Parse([]byte(sampleIndex))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"Zeta", "Alpha", "Hidden", "Gen", "tradefed"}
	if got := idx.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if idx.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(want))
	}
}

func TestIndex_ModuleNameByPath(t *testing.T) {
	t.Parallel()

	idx, err := moduleinfo.Parse([]byte(sampleIndex))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name   string
		relDir string
		want   string
		wantOK bool
	}{
		{name: "first in document order wins", relDir: "packages/apps/Shared", want: "Zeta", wantOK: true},
		{name: "trailing slash is cleaned", relDir: "packages/apps/Shared/", want: "Zeta", wantOK: true},
		{name: "uninstalled module is skipped", relDir: "packages/apps/Hidden", wantOK: false},
		{name: "unknown path", relDir: "nowhere", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := idx.ModuleNameByPath(tt.relDir)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ModuleNameByPath(%q) = (%q, %v), want (%q, %v)", tt.relDir, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIndex_Lookups(t *testing.T) {
	t.Parallel()

	idx, err := moduleinfo.Parse([]byte(sampleIndex))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !idx.IsResolvable("Alpha") {
		t.Error("IsResolvable(Alpha) = false")
	}
	if idx.IsResolvable("Hidden") {
		t.Error("IsResolvable(Hidden) = true for module without installed artifacts")
	}
	if idx.IsResolvable("Missing") {
		t.Error("IsResolvable(Missing) = true")
	}
	if !idx.IsAutoGenTestConfig("Gen") || idx.IsAutoGenTestConfig("Alpha") {
		t.Error("IsAutoGenTestConfig mismatch")
	}

	p, ok := idx.ModulePath("tradefed")
	if !ok || p != "tools/tradefederation/core" {
		t.Errorf("ModulePath(tradefed) = (%q, %v)", p, ok)
	}
	if _, ok := idx.ModulePath("Missing"); ok {
		t.Error("ModulePath(Missing) reported ok")
	}

	rec, ok := idx.Get("Alpha")
	if !ok {
		t.Fatal("Get(Alpha) not found")
	}
	rec.Path[0] = "mutated"
	if again, _ := idx.Get("Alpha"); again.PrimaryPath() != "packages/apps/Shared" {
		t.Error("mutating a returned Record changed the index")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "array", data: `[]`},
		{name: "record not object", data: `{"Foo": 3}`},
		{name: "truncated", data: `{"Foo": {"path": ["a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := moduleinfo.Parse([]byte(tt.data))
			if !errors.Is(err, moduleinfo.ErrMalformedIndex) {
				t.Errorf("Parse() error = %v, want ErrMalformedIndex", err)
			}
		})
	}
}

func TestNew_DuplicateNameReplacesInPlace(t *testing.T) {
	t.Parallel()

	idx := moduleinfo.New(
		moduleinfo.Record{Name: "A", Path: []string{"a"}, Installed: []string{"x"}},
		moduleinfo.Record{Name: "B", Path: []string{"b"}, Installed: []string{"y"}},
		moduleinfo.Record{Name: "A", Path: []string{"a2"}, Installed: []string{"z"}},
	)

	if got := idx.Names(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Names() = %v", got)
	}
	if p, _ := idx.ModulePath("A"); p != "a2" {
		t.Errorf("ModulePath(A) = %q, want a2", p)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, moduleinfo.FileName)
	if err := os.WriteFile(file, []byte(sampleIndex), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := moduleinfo.Load(file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}

	if _, err := moduleinfo.Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
}
