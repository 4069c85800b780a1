package pipeline

import (
	"fmt"

	"github.com/reillypo/nps-explorer/pkg/failure"
)

type PipelineErrorCause string

const (
	ErrCauseUnknownState  PipelineErrorCause = "unknown state"
	ErrCauseMissingAPIKey PipelineErrorCause = "api key not configured"
)

// PipelineError reports a request the session cannot serve. The session
// itself stays usable.
type PipelineError struct {
	Message   string
	Retryable bool
	Cause     PipelineErrorCause
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cause, e.Message)
}

func (e *PipelineError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
