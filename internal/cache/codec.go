package cache

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// encode marshals v without HTML escaping, so cached markup stays
// byte-for-byte readable in the document.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "encode cache value")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func compactValue(value json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(value) {
		return nil, &CacheError{
			Message:   "refusing to store a value that is not a JSON document",
			Retryable: true,
			Cause:     ErrCauseInvalidValue,
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, &CacheError{
			Message:   eris.Wrap(err, "compact cache value").Error(),
			Retryable: true,
			Cause:     ErrCauseInvalidValue,
		}
	}
	return json.RawMessage(buf.Bytes()), nil
}
