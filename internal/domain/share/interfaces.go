package share

import "context"

// Repository provides persistence for published games.
type Repository interface {
	Create(ctx context.Context, game *SharedGame) error
	Get(ctx context.Context, shareID string) (*SharedGame, error)
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	Delete(ctx context.Context, userID, shareID string) error
	// IncrementAccessCount atomically bumps the access counter and returns
	// the new value. Concurrent calls must not lose increments.
	IncrementAccessCount(ctx context.Context, shareID string) (int64, error)
}

// CodeSource resolves the current game code of a project, scoped to its
// owner.
type CodeSource interface {
	CurrentCode(ctx context.Context, userID, projectID string) (string, error)
}
