package metadata

import (
	"time"

	"go.uber.org/zap"
)

/*
Metadata Collected
- Fetch timings and HTTP status codes
- Cache hits and misses
- Sentinel substitutions during extraction
- Cache document flushes

Metadata is write-only.
No component may read metadata to influence control flow.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
	)

	// RecordCacheLookup receives a fingerprint, never the raw key.
	RecordCacheLookup(keyFingerprint string, hit bool)

	RecordFieldFallback(sourceUrl string, field string, sentinel string)

	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// Recorder is the production sink. It writes every event as a structured
// zap entry; it never decides anything.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder binds a Recorder to logger, or to the global zap logger
// when logger is nil.
func NewRecorder(logger *zap.Logger) Recorder {
	if logger == nil {
		logger = zap.L()
	}
	return Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	fields := []zap.Field{
		zap.Time("observed_at", observedAt),
		zap.String("package", packageName),
		zap.String("action", action),
		zap.Stringer("cause", cause),
		zap.String("error", errorString),
	}
	r.logger.Error("operation failed", append(fields, attrFields(attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
	r.logger.Debug("fetch complete",
		zap.String("url", fetchUrl),
		zap.Int("http_status", httpStatus),
		zap.Duration("duration", duration),
		zap.String("content_type", contentType),
	)
}

func (r *Recorder) RecordCacheLookup(keyFingerprint string, hit bool) {
	if hit {
		r.logger.Info("using cache", zap.String("key", keyFingerprint))
		return
	}
	r.logger.Info("fetching", zap.String("key", keyFingerprint))
}

func (r *Recorder) RecordFieldFallback(sourceUrl string, field string, sentinel string) {
	r.logger.Debug("marker absent, sentinel used",
		zap.String("url", sourceUrl),
		zap.String("field", field),
		zap.String("sentinel", sentinel),
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("path", path),
	}
	r.logger.Debug("artifact written", append(fields, attrFields(attrs)...)...)
}

func attrFields(attrs []Attribute) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		fields = append(fields, zap.String(string(attr.Key), attr.Value))
	}
	return fields
}

// NoopSink, struct that implements metadata.Sink but does nothing
// Pipeline (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
}

func (n *NoopSink) RecordCacheLookup(keyFingerprint string, hit bool) {}

func (n *NoopSink) RecordFieldFallback(sourceUrl string, field string, sentinel string) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
