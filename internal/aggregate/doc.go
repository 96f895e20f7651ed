// SPDX-License-Identifier: MPL-2.0

// Package aggregate merges resolved test descriptors into build targets and
// harness run commands.
package aggregate
