// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "config.cue")
	MustWriteFile(t, path, "ui: verbose: true\n")

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "ui: verbose: true\n" {
		t.Errorf("content = %q, want %q", got, "ui: verbose: true\n")
	}
}

func TestMustChdir_Restores(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	restore := MustChdir(t, dir)

	now, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if now != dir {
		t.Errorf("Getwd() = %q, want %q", now, dir)
	}

	restore()
	after, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if after != before {
		t.Errorf("after restore Getwd() = %q, want %q", after, before)
	}
}
