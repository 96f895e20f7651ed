// SPDX-License-Identifier: MPL-2.0

// Package repotest builds throwaway source trees and module indexes for tests.
//
// A Repo is rooted at a symlink-resolved temporary directory so that paths
// produced by resolvers compare equal to the paths the fixture hands out.
package repotest
