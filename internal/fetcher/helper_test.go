package fetcher_test

import (
	"time"

	"github.com/reillypo/nps-explorer/internal/metadata"
)

// recordingSink keeps what the fetcher reports so tests can assert on it.
type recordingSink struct {
	metadata.NoopSink
	fetches []fetchEvent
	errors  []metadata.ErrorCause
	details []string
	lookups []lookupEvent
}

type fetchEvent struct {
	url         string
	status      int
	contentType string
}

type lookupEvent struct {
	fingerprint string
	hit         bool
}

func (s *recordingSink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string) {
	s.fetches = append(s.fetches, fetchEvent{url: fetchUrl, status: httpStatus, contentType: contentType})
}

func (s *recordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.errors = append(s.errors, cause)
	s.details = append(s.details, details)
}

func (s *recordingSink) RecordCacheLookup(keyFingerprint string, hit bool) {
	s.lookups = append(s.lookups, lookupEvent{fingerprint: keyFingerprint, hit: hit})
}
