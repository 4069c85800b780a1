package directory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/failure"
)

// loadFixture reads a fixture file from the fixture directory.
func loadFixture(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(".", "fixture", filename))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", filename, err)
	}
	return string(data)
}

// stubPages serves canned bodies keyed by URL.
type stubPages struct {
	bodies   map[string]string
	err      failure.ClassifiedError
	requests []string
}

func (s *stubPages) Page(ctx context.Context, pageURL string) (string, failure.ClassifiedError) {
	s.requests = append(s.requests, pageURL)
	if s.err != nil {
		return "", s.err
	}
	return s.bodies[pageURL], nil
}

type mockMetadataSink struct {
	metadata.NoopSink
	causes []metadata.ErrorCause
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	m.causes = append(m.causes, cause)
}
