// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/atest-go/atest/pkg/testinfo"
)

const (
	// TradefedAll is the umbrella build target for standard harness tests.
	TradefedAll = "tradefed-all"
	// GoogleTradefedAll is the umbrella build target for Google harness tests.
	GoogleTradefedAll = "google-tradefed-all"

	modulesInFormat = "MODULES-IN-%s"
)

var apkRE = regexp.MustCompile(`(?i)^[^/]+\.apk$`)

type (
	// AutoGenChecker reports whether a module's test config is generated by the build.
	AutoGenChecker interface {
		IsAutoGenTestConfig(name string) bool
	}

	// Planner computes build targets for descriptors within one repository.
	Planner struct {
		root    string
		gtfDirs []string
		autoGen AutoGenChecker
		logger  *log.Logger
	}

	// ConfigParseError is returned when a test config cannot be read or parsed.
	ConfigParseError struct {
		Path string
		Err  error
	}
)

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parse test config %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// NewPlanner returns a Planner for root. gtfDirs are the repo-relative
// Google harness directories; autoGen may be nil.
func NewPlanner(root string, gtfDirs []string, autoGen AutoGenChecker, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dirs := make([]string, 0, len(gtfDirs))
	for _, d := range gtfDirs {
		dirs = append(dirs, path.Clean(filepath.ToSlash(d)))
	}
	return &Planner{root: root, gtfDirs: dirs, autoGen: autoGen, logger: logger}
}

// BuildTargets returns the sorted union of every descriptor's targets.
func (p *Planner) BuildTargets(tests []testinfo.Descriptor) ([]string, error) {
	set := make(map[string]struct{})
	for _, t := range tests {
		targets, err := p.TargetsFor(t)
		if err != nil {
			return nil, err
		}
		for _, target := range targets {
			set[target] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for target := range set {
		out = append(out, target)
	}
	slices.Sort(out)
	return out, nil
}

// TargetsFor returns the sorted build targets of a single descriptor: the
// apks its config installs, exactly one umbrella target, and for module
// tests a MODULES-IN target for the config directory.
func (p *Planner) TargetsFor(t testinfo.Descriptor) ([]string, error) {
	var targets []string

	if p.autoGen != nil && t.ModuleName() != "" && p.autoGen.IsAutoGenTestConfig(t.ModuleName()) {
		p.logger.Debug("skipping generated test config", "module", t.ModuleName())
	} else {
		file := filepath.Join(p.root, filepath.FromSlash(t.RelConfig()))
		apks, err := targetsFromConfigFile(file)
		if err != nil {
			return nil, &ConfigParseError{Path: t.RelConfig(), Err: err}
		}
		p.logger.Debug("targets found in config file", "config", t.RelConfig(), "targets", apks)
		targets = append(targets, apks...)
	}

	if p.isGoogle(t.RelConfig()) {
		targets = append(targets, GoogleTradefedAll)
	} else {
		targets = append(targets, TradefedAll)
	}

	if t.ModuleName() != "" {
		dir := path.Dir(filepath.ToSlash(t.RelConfig()))
		targets = append(targets, fmt.Sprintf(modulesInFormat, strings.ReplaceAll(dir, "/", "-")))
	}

	slices.Sort(targets)
	return slices.Compact(targets), nil
}

func (p *Planner) isGoogle(relConfig string) bool {
	rel := path.Clean(filepath.ToSlash(relConfig))
	for _, d := range p.gtfDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}

func targetsFromConfigFile(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return TargetsFromConfig(f)
}

// TargetsFromConfig scans a test config document for option values naming a
// bare apk file and returns the apk names without their extension, in
// document order.
func TargetsFromConfig(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		targets []string
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "option" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "value" {
				continue
			}
			value := strings.TrimSpace(attr.Value)
			if apkRE.MatchString(value) {
				targets = append(targets, value[:len(value)-len(".apk")])
			}
		}
	}
	if !sawRoot {
		return nil, errors.New("no root element")
	}
	return targets, nil
}
