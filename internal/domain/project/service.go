package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/repository"
)

// ActivityRepository logs project lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.Entry) error
}

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
}

// Create creates a new project owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	proj := &Project{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Revision:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, userID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, userID, &activity.Entry{
			ProjectID: proj.ID,
			Type:      activity.TypeProjectCreated,
			Summary:   fmt.Sprintf("created project %q", proj.Name),
			Revision:  proj.Revision,
		})
	}

	return proj, nil
}

// Get fetches a project by ID, scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// GetDefault returns the user's most recently updated project, creating one
// if the user has none yet.
func (s *Service) GetDefault(ctx context.Context, userID string) (*Project, error) {
	summaries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(summaries) > 0 {
		return s.Get(ctx, userID, summaries[0].ID)
	}

	return s.Create(ctx, userID, CreateRequest{
		Name:        "My First Game",
		Description: "",
	})
}

// List returns project summaries for a user.
func (s *Service) List(ctx context.Context, userID string) ([]ProjectSummary, error) {
	return s.repo.List(ctx, userID)
}

// Rename updates a project's name and description.
func (s *Service) Rename(ctx context.Context, userID, id, name, description string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.repo.Rename(ctx, userID, id, name, description); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("renaming project: %w", err)
	}

	return s.Get(ctx, userID, id)
}

// Delete removes a project and, by cascade, its messages. Published games
// are detached copies and survive the source project.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}
