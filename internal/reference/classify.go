// SPDX-License-Identifier: MPL-2.0

package reference

import "strings"

// Classify returns the candidate kinds for ref in the order they should be
// tried. It never fails and never touches the filesystem.
//
// Suite references are recognized by name only; no shape currently yields them.
func Classify(ref string) []Kind {
	switch {
	case strings.HasPrefix(ref, "."):
		return []Kind{FilePath}
	case strings.Contains(ref, "/"):
		if strings.HasPrefix(ref, "/") || strings.Contains(ref, ".") {
			return []Kind{FilePath}
		}
		return []Kind{FilePath, Integration}
	case strings.Contains(ref, ":"):
		if strings.Contains(ref, ".") {
			return []Kind{ModuleClass, ModulePackage}
		}
		return []Kind{ModuleClass}
	case strings.Contains(ref, "."):
		return []Kind{FilePath, QualifiedClass, Package}
	default:
		return []Kind{Integration, Module, Class}
	}
}
