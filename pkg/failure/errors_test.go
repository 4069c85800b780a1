package failure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/stretchr/testify/assert"
)

type stubError struct {
	severity failure.Severity
}

func (e *stubError) Error() string {
	return "stub"
}

func (e *stubError) Severity() failure.Severity {
	return e.severity
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "unclassified", err: errors.New("boom"), want: true},
		{name: "fatal", err: &stubError{severity: failure.SeverityFatal}, want: true},
		{name: "recoverable", err: &stubError{severity: failure.SeverityRecoverable}, want: false},
		{
			name: "wrapped recoverable",
			err:  fmt.Errorf("context: %w", &stubError{severity: failure.SeverityRecoverable}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.IsFatal(tt.err))
		})
	}
}
