// SPDX-License-Identifier: MPL-2.0

// Package moduleinfo provides a read-only view over the build system's
// module index (module-info.json).
//
// The index maps module names to records holding their source paths,
// installed artifacts, tags, and build classes. Lookups by path honor the
// order in which modules appear in the persisted document.
//
// When the index file is missing, Ensure invokes a Builder to generate it
// before loading. ShellBuilder runs the configured build command through an
// embedded POSIX shell interpreter.
package moduleinfo
