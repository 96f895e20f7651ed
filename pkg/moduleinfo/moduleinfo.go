// SPDX-License-Identifier: MPL-2.0

package moduleinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
)

// FileName is the name of the persisted index inside the build output directory.
const FileName = "module-info.json"

// ErrMalformedIndex is returned when the index document is not a JSON object of records.
var ErrMalformedIndex = errors.New("malformed module index")

type (
	// Record is one module entry of the index.
	Record struct {
		Name                string   `json:"-"`
		Class               []string `json:"class,omitempty"`
		Path                []string `json:"path"`
		Tags                []string `json:"tags,omitempty"`
		Installed           []string `json:"installed"`
		CompatibilitySuites []string `json:"compatibility_suites,omitempty"`
		AutoTestConfig      []bool   `json:"auto_test_config,omitempty"`
	}

	// Index is an immutable, order-preserving view of module records.
	Index struct {
		records map[string]Record
		order   []string
	}
)

// PrimaryPath returns the authoritative source path of the module, or "".
func (r Record) PrimaryPath() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[0]
}

// Resolvable reports whether the module produces at least one installed artifact.
func (r Record) Resolvable() bool {
	return len(r.Installed) > 0
}

// AutoGenTestConfig reports whether the build system generates the module's test config.
func (r Record) AutoGenTestConfig() bool {
	return len(r.AutoTestConfig) > 0 && r.AutoTestConfig[0]
}

func (r Record) clone() Record {
	return Record{
		Name:                r.Name,
		Class:               slices.Clone(r.Class),
		Path:                slices.Clone(r.Path),
		Tags:                slices.Clone(r.Tags),
		Installed:           slices.Clone(r.Installed),
		CompatibilitySuites: slices.Clone(r.CompatibilitySuites),
		AutoTestConfig:      slices.Clone(r.AutoTestConfig),
	}
}

// New builds an index from records, keeping their order. A later record with
// an already-seen name replaces the earlier one in place.
func New(records ...Record) *Index {
	idx := &Index{records: make(map[string]Record, len(records))}
	for _, r := range records {
		idx.add(r)
	}
	return idx
}

// Parse decodes a module-info.json document.
func Parse(data []byte) (*Index, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedIndex, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrMalformedIndex)
	}

	idx := &Index{records: make(map[string]Record)}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedIndex, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformedIndex, tok)
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: module %q: %w", ErrMalformedIndex, name, err)
		}
		rec.Name = name
		idx.add(rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedIndex, err)
	}

	return idx, nil
}

// Load reads and parses the index file at path.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module index: %w", err)
	}
	idx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

func (idx *Index) add(r Record) {
	if _, exists := idx.records[r.Name]; !exists {
		idx.order = append(idx.order, r.Name)
	}
	idx.records[r.Name] = r.clone()
}

// Len returns the number of modules in the index.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Names returns module names in document order.
func (idx *Index) Names() []string {
	return slices.Clone(idx.order)
}

// Get returns a copy of the named record.
func (idx *Index) Get(name string) (Record, bool) {
	r, ok := idx.records[name]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

// IsResolvable reports whether name is registered with installed artifacts.
func (idx *Index) IsResolvable(name string) bool {
	r, ok := idx.records[name]
	return ok && r.Resolvable()
}

// IsAutoGenTestConfig reports whether name has a build-generated test config.
func (idx *Index) IsAutoGenTestConfig(name string) bool {
	r, ok := idx.records[name]
	return ok && r.AutoGenTestConfig()
}

// ModulePath returns the primary source path of name.
func (idx *Index) ModulePath(name string) (string, bool) {
	r, ok := idx.records[name]
	if !ok || r.PrimaryPath() == "" {
		return "", false
	}
	return r.PrimaryPath(), true
}

// ModuleNameByPath returns the first module, in document order, whose primary
// path equals relDir and which has installed artifacts.
func (idx *Index) ModuleNameByPath(relDir string) (string, bool) {
	want := cleanRel(relDir)
	for _, name := range idx.order {
		r := idx.records[name]
		if r.Resolvable() && r.PrimaryPath() != "" && cleanRel(r.PrimaryPath()) == want {
			return name, true
		}
	}
	return "", false
}

func cleanRel(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
