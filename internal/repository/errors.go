// Package repository holds the sentinel errors shared by all persistence
// implementations. Domain services translate these into their own error
// vocabulary at the service boundary.
package repository

import "errors"

var (
	// ErrNotFound: the project, message, or shared game doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a write raced with another writer (duplicate ID, lost
	// update).
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrForeignKeyViolation: a message references a project that is gone.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput: the row violates a schema constraint, e.g. game code
	// on a user message.
	ErrInvalidInput = errors.New("invalid input")
)
