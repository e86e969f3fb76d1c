package activity

import "errors"

// ErrInvalidInput indicates a nil or malformed activity entry.
var ErrInvalidInput = errors.New("invalid activity entry")
