package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/repository"
)

// ActivityRepository logs publication events.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.Entry) error
}

// Service handles publishing game snapshots and serving them by share ID.
type Service struct {
	repo       Repository
	code       CodeSource
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new share service.
func NewService(repo Repository, code CodeSource, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, code: code, activities: activities, logger: logger}
}

// PublishRequest defines publication inputs.
type PublishRequest struct {
	ProjectID   string
	Title       string
	Description string
}

// Publish snapshots the project's current game code under a fresh share ID.
// Publishing the same project again creates a new, independent share.
func (s *Service) Publish(ctx context.Context, userID string, req PublishRequest) (*SharedGame, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}

	content, err := s.code.CurrentCode(ctx, userID, req.ProjectID)
	if err != nil {
		if errors.Is(err, conversation.ErrNoCurrentCode) {
			return nil, ErrEmptyProject
		}
		return nil, fmt.Errorf("resolving current code: %w", err)
	}

	game := &SharedGame{
		ShareID:     "g-" + uuid.NewString(),
		UserID:      userID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Content:     content,
		AccessCount: 0,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("creating shared game: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, userID, &activity.Entry{
			ProjectID: req.ProjectID,
			Type:      activity.TypeGamePublished,
			Summary:   fmt.Sprintf("published %q as %s", game.Title, game.ShareID),
		})
	}

	return game, nil
}

// Open fetches a published game by share ID and records the access. It is
// the unauthenticated read path behind share links.
func (s *Service) Open(ctx context.Context, shareID string) (*SharedGame, error) {
	game, err := s.repo.Get(ctx, shareID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("getting shared game: %w", err)
	}

	count, err := s.repo.IncrementAccessCount(ctx, shareID)
	if err != nil {
		// Counting is best effort; the read still succeeds.
		if s.logger != nil {
			s.logger.Warn("recording access failed", "share_id", shareID, "error", err)
		}
		return game, nil
	}
	game.AccessCount = count
	return game, nil
}

// Get fetches a published game without recording an access. Owner-scoped.
func (s *Service) Get(ctx context.Context, userID, shareID string) (*SharedGame, error) {
	game, err := s.repo.Get(ctx, shareID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("getting shared game: %w", err)
	}
	if game.UserID != userID {
		return nil, ErrShareNotFound
	}
	return game, nil
}

// List returns the caller's published games, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	games, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing shared games: %w", err)
	}
	return games, nil
}

// Delete unpublishes a game. The share link stops resolving; nothing else
// is affected.
func (s *Service) Delete(ctx context.Context, userID, shareID string) error {
	if err := s.repo.Delete(ctx, userID, shareID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrShareNotFound
		}
		return fmt.Errorf("deleting shared game: %w", err)
	}
	return nil
}
