// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSelection is returned when a Selector picks an index outside the candidate list.
var ErrInvalidSelection = errors.New("selection out of range")

type (
	// InvalidRootError is returned when the repository root is not a directory.
	InvalidRootError struct {
		Root string
		Err  error
	}

	// PathOutsideRootError is returned when a resolved path escapes the repository root.
	PathOutsideRootError struct {
		Path string
		Root string
	}

	// TestWithNoModuleError is returned when no module directory encloses a test file.
	TestWithNoModuleError struct {
		Path string
	}

	// UnregisteredModuleError is returned when a module directory has no
	// installed entry in the module index.
	UnregisteredModuleError struct {
		Dir string
	}

	// MissingPackageError is returned when a Java source has no package declaration.
	MissingPackageError struct {
		File string
	}

	// TooManyTestsError is returned when a search matches several files and
	// no Selector is available to choose one.
	TooManyTestsError struct {
		Ref        string
		Candidates []string
	}

	// SearchTimeoutError is returned when a filesystem search exceeds its time limit.
	SearchTimeoutError struct {
		Dir     string
		Pattern string
		Timeout time.Duration
	}
)

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid repository root %q: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("invalid repository root %q: not a directory", e.Root)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

func (e *PathOutsideRootError) Error() string {
	return fmt.Sprintf("%s is outside the repository root %s", e.Path, e.Root)
}

func (e *TestWithNoModuleError) Error() string {
	return fmt.Sprintf("no module owns %s: reached the repository root without finding a test config", e.Path)
}

func (e *UnregisteredModuleError) Error() string {
	return fmt.Sprintf("directory %s is not a registered module with installed artifacts", e.Dir)
}

func (e *MissingPackageError) Error() string {
	return fmt.Sprintf("no package declaration found in %s", e.File)
}

func (e *TooManyTestsError) Error() string {
	return fmt.Sprintf("%d tests match %q:\n  %s", len(e.Candidates), e.Ref, strings.Join(e.Candidates, "\n  "))
}

func (e *SearchTimeoutError) Error() string {
	return fmt.Sprintf("search for %s under %s timed out after %s", e.Pattern, e.Dir, e.Timeout)
}
