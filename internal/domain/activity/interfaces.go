package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Log(ctx context.Context, userID string, entry *Entry) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Entry, error)
}
