// SPDX-License-Identifier: MPL-2.0

// Package testinfo defines the resolved form of a single test reference.
//
// A Descriptor identifies either a module test (its config file, owning
// module, and optional class filters) or an integration test (its config
// file and integration name). Descriptors are immutable values: constructors
// copy and normalize their inputs, and accessors return copies.
package testinfo
