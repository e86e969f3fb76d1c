package share

import "errors"

var (
	// ErrShareNotFound indicates no published game exists for the share ID.
	ErrShareNotFound = errors.New("shared game not found")
	// ErrEmptyProject indicates the project has no generated game code to
	// publish.
	ErrEmptyProject = errors.New("project has no game code to publish")
	// ErrInvalidInput indicates invalid publish input.
	ErrInvalidInput = errors.New("invalid share input")
)
