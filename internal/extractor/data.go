package extractor

// Field is the outcome of reading one marker from a page. Present is false
// when the marker was absent; an empty Value with Present set means the
// marker exists but holds no text.
type Field struct {
	Value   string
	Present bool
}

// OrSentinel returns Value, or sentinel when the marker was absent.
func (f Field) OrSentinel(sentinel string) string {
	if !f.Present {
		return sentinel
	}
	return f.Value
}
