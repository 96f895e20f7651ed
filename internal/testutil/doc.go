// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fail-fast filesystem and process helpers for tests.
//
// Fixture repositories with a module index live in the repotest subpackage.
package testutil
