// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atest-go/atest/pkg/moduleinfo"
)

// ModuleConfig is the test config file that marks a module directory.
const ModuleConfig = "AndroidTest.xml"

var (
	// TFTargets are the harness modules whose directories hold standard integration configs.
	TFTargets = []string{"tradefed", "tradefed-contrib"}
	// GTFTargets are the harness modules whose directories hold Google integration configs.
	GTFTargets = []string{"google-tradefed", "google-tradefed-contrib"}

	// DefaultExcludeDirs are directory names never descended into by searches.
	DefaultExcludeDirs = []string{".git"}

	packageRE         = regexp.MustCompile(`(?i)^\s*package\s+([^;]+?)\s*;`)
	integrationNameRE = regexp.MustCompile(`^.*/res/config/(.+)\.xml$`)
)

type (
	// Selector chooses one of several candidate files for an ambiguous reference.
	Selector interface {
		Select(ctx context.Context, ref string, candidates []string) (int, error)
	}

	// Workspace holds the read-only state shared by all finders.
	Workspace struct {
		root          string
		workDir       string
		index         *moduleinfo.Index
		tfDirs        []string
		gtfDirs       []string
		excludeDirs   []string
		searchTimeout time.Duration
		selector      Selector
		logger        *log.Logger
	}

	// Option configures a Workspace.
	Option func(*Workspace)
)

// WithWorkDir sets the directory relative paths are resolved against.
// Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(ws *Workspace) { ws.workDir = dir }
}

// WithSelector enables interactive disambiguation of multiple matches.
func WithSelector(s Selector) Option {
	return func(ws *Workspace) { ws.selector = s }
}

// WithLogger sets the logger used for search tracing.
func WithLogger(l *log.Logger) Option {
	return func(ws *Workspace) {
		if l != nil {
			ws.logger = l
		}
	}
}

// WithSearchTimeout bounds every filesystem search. Zero disables the bound.
func WithSearchTimeout(d time.Duration) Option {
	return func(ws *Workspace) { ws.searchTimeout = d }
}

// WithExcludeDirs replaces the directory names skipped by searches.
func WithExcludeDirs(names ...string) Option {
	return func(ws *Workspace) { ws.excludeDirs = slices.Clone(names) }
}

// NewWorkspace validates root and prepares the shared finder state.
func NewWorkspace(root string, index *moduleinfo.Index, opts ...Option) (*Workspace, error) {
	if index == nil {
		return nil, errors.New("module index is required")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Root: root}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}

	ws := &Workspace{
		root:        resolved,
		index:       index,
		excludeDirs: slices.Clone(DefaultExcludeDirs),
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(ws)
	}

	if ws.workDir == "" {
		if ws.workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
	}

	ws.tfDirs = harnessDirs(index, TFTargets)
	ws.gtfDirs = harnessDirs(index, GTFTargets)
	return ws, nil
}

func harnessDirs(index *moduleinfo.Index, targets []string) []string {
	var dirs []string
	for _, target := range targets {
		if p, ok := index.ModulePath(target); ok {
			dirs = append(dirs, path.Clean(filepath.ToSlash(p)))
		}
	}
	return dirs
}

// Root returns the absolute, symlink-resolved repository root.
func (ws *Workspace) Root() string { return ws.root }

// Index returns the module index.
func (ws *Workspace) Index() *moduleinfo.Index { return ws.index }

// TFDirs returns the repo-relative standard integration directories.
func (ws *Workspace) TFDirs() []string { return slices.Clone(ws.tfDirs) }

// GTFDirs returns the repo-relative Google integration directories.
func (ws *Workspace) GTFDirs() []string { return slices.Clone(ws.gtfDirs) }

// IntegrationDirs returns all repo-relative integration directories, standard first.
func (ws *Workspace) IntegrationDirs() []string {
	return slices.Concat(ws.tfDirs, ws.gtfDirs)
}

// Logger returns the workspace logger.
func (ws *Workspace) Logger() *log.Logger { return ws.logger }

// rel returns abs relative to the root in slash form.
func (ws *Workspace) rel(abs string) string {
	r, err := filepath.Rel(ws.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(r)
}

func (ws *Workspace) contains(abs string) bool {
	return isEqualOrSubDir(abs, ws.root)
}

// pick narrows candidates to one, asking the Selector when there are several.
func (ws *Workspace) pick(ctx context.Context, ref string, candidates []string) (string, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if ws.selector == nil {
		return "", &TooManyTestsError{Ref: ref, Candidates: slices.Clone(candidates)}
	}
	i, err := ws.selector.Select(ctx, ref, slices.Clone(candidates))
	if err != nil {
		return "", fmt.Errorf("select test for %q: %w", ref, err)
	}
	if i < 0 || i >= len(candidates) {
		return "", fmt.Errorf("select test for %q: %w: %d", ref, ErrInvalidSelection, i)
	}
	return candidates[i], nil
}

// owningModule walks upward from startDir to the nearest module directory.
// A directory qualifies when it holds a module config, or when the index
// registers an auto-generated test config module at exactly that path.
// The root itself is never considered.
func (ws *Workspace) owningModule(startDir string) (relDir, name string, err error) {
	if !ws.contains(startDir) {
		return "", "", &PathOutsideRootError{Path: startDir, Root: ws.root}
	}

	for cur := startDir; cur != ws.root; {
		relDir = ws.rel(cur)
		if isFile(filepath.Join(cur, ModuleConfig)) {
			name, ok := ws.index.ModuleNameByPath(relDir)
			if !ok {
				return "", "", &UnregisteredModuleError{Dir: relDir}
			}
			return relDir, name, nil
		}
		if name, ok := ws.index.ModuleNameByPath(relDir); ok && ws.index.IsAutoGenTestConfig(name) {
			ws.logger.Debug("using auto-generated test config", "module", name, "dir", relDir)
			return relDir, name, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	return "", "", &TestWithNoModuleError{Path: ws.rel(startDir)}
}

// fullyQualifiedClassName combines the first package declaration of a Java
// source with its file stem.
func (ws *Workspace) fullyQualifiedClassName(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", ws.rel(file), err)
	}
	defer f.Close()

	class := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := packageRE.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1] + "." + class, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", ws.rel(file), err)
	}
	return "", &MissingPackageError{File: ws.rel(file)}
}

// IntegrationName derives the harness-visible integration name from a config
// path: the part after the last "res/config/" segment, without ".xml".
func IntegrationName(p string) (string, bool) {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	m := integrationNameRE.FindStringSubmatch(p)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isEqualOrSubDir(sub, parent string) bool {
	r, err := filepath.Rel(parent, sub)
	if err != nil {
		return false
	}
	return r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) && !filepath.IsAbs(r)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
