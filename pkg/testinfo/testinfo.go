// SPDX-License-Identifier: MPL-2.0

package testinfo

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// KindModule marks a descriptor that resolves to a module test.
	KindModule Kind = "module"
	// KindIntegration marks a descriptor that resolves to an integration config.
	KindIntegration Kind = "integration"
)

type (
	// Kind distinguishes module descriptors from integration descriptors.
	Kind string

	// Descriptor is the resolved description of one test reference.
	//
	// For module tests, ModuleName is set and Filters optionally restricts the
	// run to fully qualified class names. For integration tests,
	// IntegrationName is set and Filters is always empty.
	Descriptor struct {
		relConfig       string
		moduleName      string
		integrationName string
		filters         []string
	}
)

// ForModule returns a module descriptor. Filters are deduplicated and
// stored in sorted order; an empty filter set means "run every test".
func ForModule(relConfig, moduleName string, filters ...string) Descriptor {
	return Descriptor{
		relConfig:  relConfig,
		moduleName: moduleName,
		filters:    normalizeFilters(filters),
	}
}

// ForIntegration returns an integration descriptor.
func ForIntegration(relConfig, integrationName string) Descriptor {
	return Descriptor{
		relConfig:       relConfig,
		integrationName: integrationName,
	}
}

// RelConfig returns the repo-relative path of the test config file.
func (d Descriptor) RelConfig() string { return d.relConfig }

// ModuleName returns the owning module name, or "" for integration descriptors.
func (d Descriptor) ModuleName() string { return d.moduleName }

// IntegrationName returns the integration name, or "" for module descriptors.
func (d Descriptor) IntegrationName() string { return d.integrationName }

// Filters returns a copy of the sorted class filters.
func (d Descriptor) Filters() []string { return slices.Clone(d.filters) }

// HasFilters reports whether the descriptor restricts the run to specific classes.
func (d Descriptor) HasFilters() bool { return len(d.filters) > 0 }

// Kind reports whether d is a module or an integration descriptor.
func (d Descriptor) Kind() Kind {
	if d.integrationName != "" {
		return KindIntegration
	}
	return KindModule
}

// IsIntegration is shorthand for d.Kind() == KindIntegration.
func (d Descriptor) IsIntegration() bool { return d.Kind() == KindIntegration }

// Render produces the tradefed test-info argument for the descriptor.
//
// Module descriptors render as "<module>" or "<module>:<f1>,<f2>" and
// integration descriptors render as their integration name.
func (d Descriptor) Render() string {
	if d.IsIntegration() {
		return d.integrationName
	}
	if len(d.filters) == 0 {
		return d.moduleName
	}
	return d.moduleName + ":" + strings.Join(d.filters, ",")
}

// String implements fmt.Stringer for log output.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s, %s)", d.Kind(), d.Render(), d.relConfig)
}

func normalizeFilters(filters []string) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
