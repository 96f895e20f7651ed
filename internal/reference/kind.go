// SPDX-License-Identifier: MPL-2.0

// Package reference classifies raw test references by their lexical shape.
package reference

import "fmt"

// Kind is the syntactic category a test reference may belong to.
type Kind int

const (
	// Module is a bare module name registered in the module index.
	Module Kind = iota + 1
	// Class is an unqualified Java class name.
	Class
	// QualifiedClass is a fully qualified Java class name.
	QualifiedClass
	// ModuleClass is a "<module>:<class>" pair.
	ModuleClass
	// Package is a Java package name.
	Package
	// ModulePackage is a "<module>:<package>" pair.
	ModulePackage
	// FilePath is a file or directory on disk.
	FilePath
	// Integration is a standalone integration config name.
	Integration
	// Suite is a test suite name. Reserved.
	Suite
)

var kindNames = map[Kind]string{
	Module:         "MODULE",
	Class:          "CLASS",
	QualifiedClass: "QUALIFIED_CLASS",
	ModuleClass:    "MODULE_CLASS",
	Package:        "PACKAGE",
	ModulePackage:  "MODULE_PACKAGE",
	FilePath:       "FILE_PATH",
	Integration:    "INTEGRATION",
	Suite:          "SUITE",
}

// String returns the diagnostic name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

