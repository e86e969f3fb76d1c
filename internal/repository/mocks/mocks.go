package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, userID string, proj *project.Project) error {
	args := m.Called(ctx, userID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	args := m.Called(ctx, userID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Rename(ctx context.Context, userID, id, name, description string) error {
	args := m.Called(ctx, userID, id, name, description)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *ProjectRepository) Exists(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *ProjectRepository) IncrementRevision(ctx context.Context, userID, projectID string) (int64, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// MessageRepository is a mock for conversation.MessageRepository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Append(ctx context.Context, msg *conversation.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepository) List(ctx context.Context, projectID string) ([]conversation.Message, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]conversation.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) GetLast(ctx context.Context, projectID string) (*conversation.Message, error) {
	args := m.Called(ctx, projectID)
	if msg, ok := args.Get(0).(*conversation.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) LatestGameCode(ctx context.Context, projectID string) (string, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Error(1)
}

func (m *MessageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SearchRepository is a mock for conversation.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, projectID, query string, opts conversation.SearchOptions) ([]conversation.SearchResult, error) {
	args := m.Called(ctx, projectID, query, opts)
	if results, ok := args.Get(0).([]conversation.SearchResult); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// ShareRepository is a mock for share.Repository.
type ShareRepository struct {
	mock.Mock
}

func (m *ShareRepository) Create(ctx context.Context, game *share.SharedGame) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *ShareRepository) Get(ctx context.Context, shareID string) (*share.SharedGame, error) {
	args := m.Called(ctx, shareID)
	if game, ok := args.Get(0).(*share.SharedGame); ok {
		return game, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShareRepository) ListByUser(ctx context.Context, userID string) ([]share.Summary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]share.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShareRepository) Delete(ctx context.Context, userID, shareID string) error {
	args := m.Called(ctx, userID, shareID)
	return args.Error(0)
}

func (m *ShareRepository) IncrementAccessCount(ctx context.Context, shareID string) (int64, error) {
	args := m.Called(ctx, shareID)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, userID string, entry *activity.Entry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, userID, opts)
	if entries, ok := args.Get(0).([]activity.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
