package extractor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

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

type stubPages struct {
	bodies map[string]string
	errs   map[string]failure.ClassifiedError
}

func (s *stubPages) Page(ctx context.Context, pageURL string) (string, failure.ClassifiedError) {
	if err, ok := s.errs[pageURL]; ok {
		return "", err
	}
	return s.bodies[pageURL], nil
}

type fallback struct {
	url      string
	field    string
	sentinel string
}

// mockMetadataSink captures sentinel substitutions.
type mockMetadataSink struct {
	metadata.NoopSink
	fallbacks []fallback
}

func (m *mockMetadataSink) RecordFieldFallback(sourceUrl string, field string, sentinel string) {
	m.fallbacks = append(m.fallbacks, fallback{url: sourceUrl, field: field, sentinel: sentinel})
}
