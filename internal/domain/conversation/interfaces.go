package conversation

import "context"

// MessageRepository provides persistence for conversation messages.
type MessageRepository interface {
	// Append durably records a message. Either the message is fully recorded
	// or not at all.
	Append(ctx context.Context, msg *Message) error
	List(ctx context.Context, projectID string) ([]Message, error)
	GetLast(ctx context.Context, projectID string) (*Message, error)
	// LatestGameCode returns the game code of the most recent assistant
	// message that carries one, or repository.ErrNotFound for a conversation
	// with no generated code yet.
	LatestGameCode(ctx context.Context, projectID string) (string, error)
	// Delete removes a single message. Used to roll back the user half of a
	// failed or discarded turn.
	Delete(ctx context.Context, id string) error
}

// SearchRepository provides full-text search over a project's messages.
type SearchRepository interface {
	Search(ctx context.Context, projectID, query string, opts SearchOptions) ([]SearchResult, error)
}

// ProjectStore is the slice of project persistence the conversation service
// needs: ownership checks and the revision counter that seeds message
// sequence numbers.
type ProjectStore interface {
	Exists(ctx context.Context, userID, projectID string) error
	IncrementRevision(ctx context.Context, userID, projectID string) (int64, error)
}
