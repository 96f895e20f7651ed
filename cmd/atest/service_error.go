// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/atest-go/atest/internal/aggregate"
	"github.com/atest-go/atest/internal/config"
	"github.com/atest-go/atest/internal/finder"
	"github.com/atest-go/atest/internal/issue"
	"github.com/atest-go/atest/internal/translate"
	"github.com/atest-go/atest/pkg/moduleinfo"

	"github.com/charmbracelet/log"
)

// ServiceError carries rendering information for the CLI layer: the catalog
// entry explaining the failure, shown before the error itself.
// Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a failure to the catalog entry that explains it, or 0.
func classifyError(err error) issue.Id {
	var (
		ae            *issue.ActionableError
		noTest        *translate.NoTestFoundError
		tooMany       *finder.TooManyTestsError
		noModule      *finder.TestWithNoModuleError
		unregistered  *finder.UnregisteredModuleError
		missingPkg    *finder.MissingPackageError
		outside       *finder.PathOutsideRootError
		invalidRoot   *finder.InvalidRootError
		timeout       *finder.SearchTimeoutError
		configParse   *aggregate.ConfigParseError
		buildErr      *moduleinfo.BuildError
		invalidConfig *config.InvalidConfigError
	)

	switch {
	case errors.As(err, &noTest):
		return issue.NoTestFoundId
	case errors.As(err, &tooMany):
		return issue.TooManyTestsId
	case errors.As(err, &noModule):
		return issue.TestWithNoModuleId
	case errors.As(err, &unregistered):
		return issue.UnregisteredModuleId
	case errors.As(err, &missingPkg):
		return issue.MissingPackageId
	case errors.As(err, &outside):
		return issue.PathOutsideRootId
	case errors.As(err, &invalidRoot):
		return issue.InvalidRepoRootId
	case errors.As(err, &timeout):
		return issue.SearchTimeoutId
	case errors.As(err, &configParse):
		return issue.TestConfigParseFailedId
	case errors.As(err, &buildErr):
		return issue.ModuleIndexBuildFailedId
	case errors.Is(err, moduleinfo.ErrIndexMissing):
		return issue.ModuleIndexMissingId
	case errors.Is(err, moduleinfo.ErrMalformedIndex):
		return issue.ModuleIndexMalformedId
	case errors.As(err, &invalidConfig):
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && ae.IssueID != 0:
		return ae.IssueID
	default:
		return 0
	}
}

// renderServiceError prints the catalog help for svcErr, styled for scheme.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, scheme config.ColorScheme) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}
	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(glamourStyle(scheme))
	if err != nil {
		log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
