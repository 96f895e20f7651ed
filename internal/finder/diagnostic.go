// SPDX-License-Identifier: MPL-2.0

package finder

import "github.com/atest-go/atest/pkg/testinfo"

const (
	// SeverityWarning indicates a recoverable resolution warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal resolution error diagnostic.
	SeverityError Severity = "error"

	// CodeUnsupportedKind marks a candidate kind with no registered finder.
	CodeUnsupportedKind = "unsupported_reference_kind"
	// CodeIntegrationNameMismatch marks an integration config found under a different name.
	CodeIntegrationNameMismatch = "integration_name_mismatch"
	// CodeIntegrationDirUnsupported marks a path naming a whole integration directory.
	CodeIntegrationDirUnsupported = "integration_dir_unsupported"
	// CodeIntegrationOutsideConfigDir marks an integration file outside any res/config directory.
	CodeIntegrationOutsideConfigDir = "integration_outside_config_dir"
)

type (
	// Severity represents resolution diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal resolution note returned to
	// callers for rendering.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "integration_name_mismatch".
		Code    string
		Message string
		// Ref is the test reference being resolved.
		Ref  string
		Path string
		// Suggestions lists alternative references, best first.
		Suggestions []string
		Cause       error
	}

	// Result bundles a lookup outcome with diagnostics. Test is nil when the
	// reference did not resolve.
	Result struct {
		Test        *testinfo.Descriptor
		Diagnostics []Diagnostic
	}
)

// Found reports whether the lookup produced a descriptor.
func (r Result) Found() bool {
	return r.Test != nil
}

func found(d testinfo.Descriptor) Result {
	return Result{Test: &d}
}

func notFound(diags ...Diagnostic) Result {
	return Result{Diagnostics: diags}
}
