// SPDX-License-Identifier: MPL-2.0

// Package finder resolves single test references into test descriptors.
//
// Each Finder handles one family of reference kinds (module names, class
// names, integration names, filesystem paths). A Finder returns a Result
// whose Test is nil when nothing matched; a non-nil error is reserved for
// conditions that must abort the whole translation, such as a test file
// that no module owns or an ambiguous class name.
//
// All finders share a Workspace: the resolved repository root, the module
// index, the harness integration directories, and the filesystem search
// settings.
package finder
