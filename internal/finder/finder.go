// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/atest-go/atest/pkg/testinfo"
)

type (
	// Finder resolves one test reference.
	Finder interface {
		Find(ctx context.Context, ref string) (Result, error)
	}

	// ModuleFinder resolves module names through the module index.
	ModuleFinder struct{ ws *Workspace }

	// ClassFinder resolves unqualified and fully qualified Java class names.
	ClassFinder struct{ ws *Workspace }

	// IntegrationFinder resolves integration config names beneath the
	// harness integration directories.
	IntegrationFinder struct{ ws *Workspace }

	// PathFinder resolves filesystem paths to module or integration tests.
	PathFinder struct{ ws *Workspace }
)

// NewModuleFinder returns a ModuleFinder over ws.
func NewModuleFinder(ws *Workspace) *ModuleFinder { return &ModuleFinder{ws: ws} }

// NewClassFinder returns a ClassFinder over ws.
func NewClassFinder(ws *Workspace) *ClassFinder { return &ClassFinder{ws: ws} }

// NewIntegrationFinder returns an IntegrationFinder over ws.
func NewIntegrationFinder(ws *Workspace) *IntegrationFinder { return &IntegrationFinder{ws: ws} }

// NewPathFinder returns a PathFinder over ws.
func NewPathFinder(ws *Workspace) *PathFinder { return &PathFinder{ws: ws} }

// Find looks ref up as a module name. Modules without installed artifacts
// do not resolve.
func (f *ModuleFinder) Find(_ context.Context, ref string) (Result, error) {
	if !f.ws.index.IsResolvable(ref) {
		return notFound(), nil
	}
	rec, _ := f.ws.index.Get(ref)
	if rec.PrimaryPath() == "" {
		return notFound(), nil
	}
	relConfig := path.Join(filepath.ToSlash(rec.PrimaryPath()), ModuleConfig)
	return found(testinfo.ForModule(relConfig, ref)), nil
}

// Find searches the repository for the class source file. A dotted ref is
// matched against the whole trailing path; otherwise only the file name.
func (f *ClassFinder) Find(ctx context.Context, ref string) (Result, error) {
	suffix := strings.ReplaceAll(ref, ".", "/") + ".java"
	matches, err := f.ws.search(ctx, f.ws.root, suffixPattern(suffix))
	if err != nil {
		return Result{}, err
	}
	if len(matches) == 0 {
		return notFound(), nil
	}

	file, err := f.ws.pick(ctx, ref, matches)
	if err != nil {
		return Result{}, err
	}

	relDir, moduleName, err := f.ws.owningModule(filepath.Dir(file))
	if err != nil {
		return Result{}, err
	}
	fqcn, err := f.ws.fullyQualifiedClassName(file)
	if err != nil {
		return Result{}, err
	}

	return found(testinfo.ForModule(path.Join(relDir, ModuleConfig), moduleName, fqcn)), nil
}

// Find searches each integration directory in order for "<ref>.xml". The
// first directory with any hit decides the outcome: an exact name match
// resolves; otherwise the derived names are offered as suggestions and the
// reference does not resolve.
func (f *IntegrationFinder) Find(ctx context.Context, ref string) (Result, error) {
	pattern := suffixPattern(ref + ".xml")

	for _, relDir := range f.ws.IntegrationDirs() {
		dir := filepath.Join(f.ws.root, filepath.FromSlash(relDir))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			f.ws.logger.Debug("integration directory missing", "dir", relDir)
			continue
		}

		matches, err := f.ws.search(ctx, dir, pattern)
		if err != nil {
			return Result{}, err
		}
		if len(matches) == 0 {
			continue
		}

		var (
			exact   []string
			derived []string
			diags   []Diagnostic
		)
		for _, m := range matches {
			name, ok := IntegrationName(m)
			if !ok {
				diags = append(diags, outsideConfigDir(ref, f.ws.rel(m)))
				continue
			}
			if name == ref {
				exact = append(exact, m)
			} else {
				derived = append(derived, name)
			}
		}

		if len(exact) > 0 {
			file, err := f.ws.pick(ctx, ref, exact)
			if err != nil {
				return Result{}, err
			}
			res := found(testinfo.ForIntegration(f.ws.rel(file), ref))
			res.Diagnostics = diags
			return res, nil
		}
		if len(derived) > 0 {
			suggestions := rankSuggestions(ref, derived)
			f.ws.logger.Debug("not a valid integration name", "ref", ref, "did_you_mean", suggestions)
			diags = append(diags, Diagnostic{
				Severity:    SeverityWarning,
				Code:        CodeIntegrationNameMismatch,
				Message:     "not a valid integration name",
				Ref:         ref,
				Path:        relDir,
				Suggestions: suggestions,
			})
		}
		return notFound(diags...), nil
	}

	return notFound(), nil
}

// Find resolves ref against the working directory, following symlinks.
// Paths beneath an integration directory must name a config file; other
// paths resolve to their owning module, filtered to the class when ref
// names a Java source.
func (f *PathFinder) Find(_ context.Context, ref string) (Result, error) {
	p := ref
	if !filepath.IsAbs(p) {
		p = filepath.Join(f.ws.workDir, p)
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		f.ws.logger.Debug("path does not resolve", "path", p, "error", err)
		return notFound(), nil
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return notFound(), nil
	}

	dir, fileName := resolved, ""
	if !info.IsDir() {
		dir, fileName = filepath.Dir(resolved), filepath.Base(resolved)
	}

	for _, relDir := range f.ws.IntegrationDirs() {
		intDir := filepath.Join(f.ws.root, filepath.FromSlash(relDir))
		if !isEqualOrSubDir(dir, intDir) {
			continue
		}
		if fileName == "" {
			f.ws.logger.Warn("referencing an entire integration directory is not supported; pass the config file itself", "dir", relDir, "ref", ref)
			return notFound(Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeIntegrationDirUnsupported,
				Message:  "an integration directory cannot be run as a whole; name the config file instead",
				Ref:      ref,
				Path:     f.ws.rel(resolved),
			}), nil
		}
		relConfig := f.ws.rel(resolved)
		name, ok := IntegrationName(relConfig)
		if !ok {
			return notFound(outsideConfigDir(ref, relConfig)), nil
		}
		return found(testinfo.ForIntegration(relConfig, name)), nil
	}

	relDir, moduleName, err := f.ws.owningModule(dir)
	if err != nil {
		return Result{}, err
	}

	var filters []string
	if strings.HasSuffix(fileName, ".java") {
		fqcn, err := f.ws.fullyQualifiedClassName(resolved)
		if err != nil {
			return Result{}, err
		}
		filters = append(filters, fqcn)
	}
	return found(testinfo.ForModule(path.Join(relDir, ModuleConfig), moduleName, filters...)), nil
}

func outsideConfigDir(ref, relPath string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeIntegrationOutsideConfigDir,
		Message:  "integration config is outside a res/config directory",
		Ref:      ref,
		Path:     relPath,
	}
}

// rankSuggestions orders candidates by fuzzy score against ref, appending
// any non-matching candidates alphabetically.
func rankSuggestions(ref string, candidates []string) []string {
	matches := fuzzy.Find(ref, candidates)
	sort.Stable(matches)
	seen := make(map[int]bool, len(matches))
	out := make([]string, 0, len(candidates))
	for _, m := range matches {
		seen[m.Index] = true
		out = append(out, m.Str)
	}

	var rest []string
	for i, c := range candidates {
		if !seen[i] {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)
	return slices.Compact(append(out, rest...))
}
