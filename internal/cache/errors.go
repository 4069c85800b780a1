package cache

import (
	"fmt"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseWriteFailure  CacheErrorCause = "write failed"
	ErrCauseInvalidValue  CacheErrorCause = "value is not valid JSON"
	ErrCauseEncodeFailure CacheErrorCause = "encode failed"
	ErrCauseDecodeFailure CacheErrorCause = "decode failed"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %s", e.Cause, e.Message)
}

// Severity of a failed write is fatal: the session would otherwise keep
// querying a quota-limited API without remembering the answers.
func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapCacheErrorToMetadataCause maps cache-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseWriteFailure, ErrCauseEncodeFailure:
		return metadata.CauseStorageFailure
	case ErrCauseDecodeFailure:
		return metadata.CauseDecodeFailure
	default:
		return metadata.CauseUnknown
	}
}
