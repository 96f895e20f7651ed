// SPDX-License-Identifier: MPL-2.0

package repotest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/atest-go/atest/pkg/moduleinfo"
	"github.com/atest-go/atest/pkg/testinfo"
)

// ModuleConfig is the module test config filename written by AddTestModule.
const ModuleConfig = "AndroidTest.xml"

// Repo is a temporary source tree paired with an in-memory module index.
type Repo struct {
	Root    string
	t       testing.TB
	records []moduleinfo.Record
}

// New creates an empty repo in a fresh temporary directory.
func New(t testing.TB) *Repo {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return &Repo{Root: root, t: t}
}

// Path joins rel onto the repo root.
func (r *Repo) Path(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

// Mkdir creates rel and its parents and returns the absolute path.
func (r *Repo) Mkdir(rel string) string {
	r.t.Helper()
	abs := r.Path(rel)
	if err := os.MkdirAll(abs, 0o755); err != nil {
		r.t.Fatalf("mkdir %s: %v", rel, err)
	}
	return abs
}

// WriteFile writes content to rel, creating parent directories.
func (r *Repo) WriteFile(rel, content string) string {
	r.t.Helper()
	abs := r.Path(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", rel, err)
	}
	return abs
}

// Register adds a record to the index. Records keep registration order.
func (r *Repo) Register(rec moduleinfo.Record) *Repo {
	r.records = append(r.records, rec)
	return r
}

// AddTestModule writes relDir/AndroidTest.xml referencing apks and registers
// name as an installed module at relDir.
func (r *Repo) AddTestModule(name, relDir string, apks ...string) *Repo {
	r.t.Helper()
	r.WriteFile(relDir+"/"+ModuleConfig, ConfigXML(apks...))
	return r.Register(moduleinfo.Record{
		Name:      name,
		Class:     []string{"APPS"},
		Path:      []string{relDir},
		Installed: []string{"out/target/" + name + ".apk"},
	})
}

// AddHarness registers a harness module (for example "tradefed") whose
// integration configs live beneath relDir.
func (r *Repo) AddHarness(name, relDir string) *Repo {
	r.t.Helper()
	r.Mkdir(relDir)
	return r.Register(moduleinfo.Record{
		Name:      name,
		Class:     []string{"JAVA_LIBRARIES"},
		Path:      []string{relDir},
		Installed: []string{"out/host/" + name + ".jar"},
	})
}

// AddJavaSource writes a Java source file declaring pkg (omitted when empty).
func (r *Repo) AddJavaSource(rel, pkg string) string {
	r.t.Helper()
	class := strings.TrimSuffix(filepath.Base(rel), ".java")
	return r.WriteFile(rel, JavaSource(pkg, class))
}

// Index returns the module index for the registered records.
func (r *Repo) Index() *moduleinfo.Index {
	return moduleinfo.New(r.records...)
}

// WriteIndex persists the registered records as outDir/module-info.json,
// keeping registration order, and returns the file path.
func (r *Repo) WriteIndex(outDir string) string {
	r.t.Helper()
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, rec := range r.records {
		name, err := json.Marshal(rec.Name)
		if err != nil {
			r.t.Fatalf("marshal name: %v", err)
		}
		body, err := json.Marshal(rec)
		if err != nil {
			r.t.Fatalf("marshal record %s: %v", rec.Name, err)
		}
		fmt.Fprintf(&buf, "  %s: %s", name, body)
		if i < len(r.records)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		r.t.Fatalf("mkdir %s: %v", outDir, err)
	}
	file := moduleinfo.IndexPath(outDir)
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		r.t.Fatalf("write index: %v", err)
	}
	return file
}

// ConfigXML renders a minimal test config that installs apks.
func ConfigXML(apks ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<configuration description=\"fixture\">\n")
	if len(apks) > 0 {
		b.WriteString("  <target_preparer class=\"com.android.tradefed.targetprep.suite.SuiteApkInstaller\">\n")
		for _, apk := range apks {
			fmt.Fprintf(&b, "    <option name=\"test-file-name\" value=\"%s\" />\n", apk)
		}
		b.WriteString("  </target_preparer>\n")
	}
	b.WriteString("</configuration>\n")
	return b.String()
}

// JavaSource renders a Java class body, declaring pkg when non-empty.
func JavaSource(pkg, class string) string {
	var b strings.Builder
	b.WriteString("/*\n * Copyright (C) 2017 The Android Open Source Project\n */\n")
	if pkg != "" {
		fmt.Fprintf(&b, "package %s;\n", pkg)
	}
	fmt.Fprintf(&b, "\nimport org.junit.Test;\n\npublic class %s {\n    @Test\n    public void testSomething() {}\n}\n", class)
	return b.String()
}

// SameDescriptor reports whether a and b name the same config, owner and filters.
func SameDescriptor(a, b testinfo.Descriptor) bool {
	return a.RelConfig() == b.RelConfig() &&
		a.ModuleName() == b.ModuleName() &&
		a.IntegrationName() == b.IntegrationName() &&
		slices.Equal(a.Filters(), b.Filters())
}
