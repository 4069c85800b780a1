package failure

import "errors"

type Severity int

// session control flow
const (
	// SeverityFatal ends the whole session: the pipeline cannot go on
	// without the failed piece (cache document, state directory).
	SeverityFatal Severity = iota
	// SeverityRecoverable stops the current operation only.
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}

// IsFatal reports whether err carries a fatal classification.
// Unclassified errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var classified ClassifiedError
	if !errors.As(err, &classified) {
		return true
	}
	return classified.Severity() == SeverityFatal
}
