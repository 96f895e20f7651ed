// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown troubleshooting
// guides for the failures users hit most often while translating test references.
package issue
