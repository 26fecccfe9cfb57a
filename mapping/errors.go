package mapping

import "errors"

// ErrDecode is returned when a mapping document cannot be decoded
var ErrDecode = errors.New("failed to decode mapping")
