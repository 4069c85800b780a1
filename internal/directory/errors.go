package directory

import (
	"fmt"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/failure"
)

type DirectoryErrorCause string

const (
	ErrCauseNavigationMissing DirectoryErrorCause = "navigation list missing"
	ErrCauseParseFailure      DirectoryErrorCause = "landing page unparsable"
)

// DirectoryError means no state can be looked up at all, so it ends
// the session.
type DirectoryError struct {
	Message   string
	Retryable bool
	Cause     DirectoryErrorCause
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory error: %s: %s", e.Cause, e.Message)
}

func (e *DirectoryError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapDirectoryErrorToMetadataCause maps directory-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapDirectoryErrorToMetadataCause(err *DirectoryError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNavigationMissing, ErrCauseParseFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
