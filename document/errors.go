package document

import "errors"

var (
	// ErrMalformedPath is returned when a path or key cannot be tokenized
	ErrMalformedPath = errors.New("malformed path")

	// ErrDecode is returned when an externally supplied document cannot be parsed
	ErrDecode = errors.New("failed to decode document")
)
