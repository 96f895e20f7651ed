// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrInvalidCUEPath is returned when a CUEPath is empty.
	ErrInvalidCUEPath = errors.New("invalid CUE path")
	// ErrFileTooLarge is returned when a document exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// CUEPath is a JSON-style path into a CUE value, such as "ui.color_scheme".
	CUEPath string

	// ValidationError is a single schema violation.
	ValidationError struct {
		FilePath string
		CUEPath  CUEPath
		Message  string
	}

	// FileTooLargeError is returned by CheckFileSize.
	FileTooLargeError struct {
		FilePath string
		Size     int64
		Max      int64
	}
)

// String returns the path text.
func (p CUEPath) String() string { return string(p) }

// Validate reports whether the path is non-blank.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidCUEPath, string(p))
	}
	return nil
}

func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.Max)
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// CheckFileSize returns a *FileTooLargeError when data is larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filePath string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{FilePath: filePath, Size: size, Max: maxSize}
	}
	return nil
}

// FormatError converts a CUE error into one *ValidationError per underlying
// violation, joined with errors.Join. Non-CUE errors are prefixed with filePath.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := make([]error, 0, len(cueErrs))
	for _, e := range cueErrs {
		p := formatPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: CUEPath(p), Message: msg})
	}
	if len(out) == 1 {
		return out[0]
	}
	return errors.Join(out...)
}

// formatPath renders ["search", "exclude_dirs", "1"] as "search.exclude_dirs[1]".
func formatPath(parts []string) CUEPath {
	var sb strings.Builder
	for i, part := range parts {
		switch {
		case i > 0 && isIndex(part):
			sb.WriteString("[" + part + "]")
		case i > 0:
			sb.WriteString("." + part)
		default:
			sb.WriteString(part)
		}
	}
	return CUEPath(sb.String())
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
