// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the atest command line: translating test references
// into build targets and harness run commands, inspecting the module index,
// and managing configuration.
package cmd
