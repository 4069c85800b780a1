package nearby

import (
	"fmt"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/failure"
)

type NearbyErrorCause string

const (
	ErrCauseDecodeFailure NearbyErrorCause = "response undecodable"
)

type NearbyError struct {
	Message   string
	Retryable bool
	Cause     NearbyErrorCause
}

func (e *NearbyError) Error() string {
	return fmt.Sprintf("nearby error: %s: %s", e.Cause, e.Message)
}

func (e *NearbyError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapNearbyErrorToMetadataCause maps nearby-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapNearbyErrorToMetadataCause(err *NearbyError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDecodeFailure:
		return metadata.CauseDecodeFailure
	default:
		return metadata.CauseUnknown
	}
}
