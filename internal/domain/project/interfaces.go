package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, userID string, proj *Project) error
	Get(ctx context.Context, userID, id string) (*Project, error)
	Exists(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]ProjectSummary, error)
	Rename(ctx context.Context, userID, id, name, description string) error
	Delete(ctx context.Context, userID, id string) error
	IncrementRevision(ctx context.Context, userID, projectID string) (int64, error)
}
