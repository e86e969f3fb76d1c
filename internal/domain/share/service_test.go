package share_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/share"
	"github.com/tinkerbird/playforge/internal/repository"
	"github.com/tinkerbird/playforge/internal/repository/mocks"
)

type stubCodeSource struct {
	code map[string]string
}

func (s *stubCodeSource) CurrentCode(_ context.Context, _, projectID string) (string, error) {
	code, ok := s.code[projectID]
	if !ok {
		return "", conversation.ErrNoCurrentCode
	}
	return code, nil
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*share.SharedGame")).Return(nil)
	code := &stubCodeSource{code: map[string]string{"p1": "<html>pong</html>"}}

	svc := share.NewService(repo, code, nil, slog.Default())
	game, err := svc.Publish(ctx, "user1", share.PublishRequest{
		ProjectID: "p1",
		Title:     "Pong Deluxe",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(game.ShareID, "g-"), "share IDs live in their own namespace")
	require.Equal(t, "<html>pong</html>", game.Content)
	require.Equal(t, int64(0), game.AccessCount)
	repo.AssertExpectations(t)
}

func TestPublishEmptyProject(t *testing.T) {
	svc := share.NewService(new(mocks.ShareRepository), &stubCodeSource{}, nil, slog.Default())

	_, err := svc.Publish(context.Background(), "user1", share.PublishRequest{
		ProjectID: "p1",
		Title:     "Nothing Yet",
	})
	require.ErrorIs(t, err, share.ErrEmptyProject)
}

func TestPublishSnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*share.SharedGame")).Return(nil)
	code := &stubCodeSource{code: map[string]string{"p1": "<html>v1</html>"}}
	svc := share.NewService(repo, code, nil, slog.Default())

	first, err := svc.Publish(ctx, "user1", share.PublishRequest{ProjectID: "p1", Title: "Pong"})
	require.NoError(t, err)

	// The project moves on; the old snapshot must not
	code.code["p1"] = "<html>v2</html>"

	second, err := svc.Publish(ctx, "user1", share.PublishRequest{ProjectID: "p1", Title: "Pong"})
	require.NoError(t, err)

	require.NotEqual(t, first.ShareID, second.ShareID)
	require.Equal(t, "<html>v1</html>", first.Content)
	require.Equal(t, "<html>v2</html>", second.Content)
}

func TestOpenRecordsAccess(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Get", ctx, "g-abc").Return(&share.SharedGame{ShareID: "g-abc", Content: "<html>pong</html>"}, nil)
	repo.On("IncrementAccessCount", ctx, "g-abc").Return(int64(7), nil)

	svc := share.NewService(repo, &stubCodeSource{}, nil, slog.Default())
	game, err := svc.Open(ctx, "g-abc")
	require.NoError(t, err)
	require.Equal(t, int64(7), game.AccessCount)
	repo.AssertExpectations(t)
}

func TestOpenNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Get", ctx, "g-missing").Return(nil, repository.ErrNotFound)

	svc := share.NewService(repo, &stubCodeSource{}, nil, slog.Default())
	_, err := svc.Open(ctx, "g-missing")
	require.ErrorIs(t, err, share.ErrShareNotFound)
}

func TestGetScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Get", ctx, "g-abc").Return(&share.SharedGame{ShareID: "g-abc", UserID: "user1"}, nil)

	svc := share.NewService(repo, &stubCodeSource{}, nil, slog.Default())

	_, err := svc.Get(ctx, "user2", "g-abc")
	require.ErrorIs(t, err, share.ErrShareNotFound, "other users' shares look nonexistent")

	game, err := svc.Get(ctx, "user1", "g-abc")
	require.NoError(t, err)
	require.Equal(t, "g-abc", game.ShareID)
}

func TestDeleteShare(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ShareRepository)
	repo.On("Delete", ctx, "user1", "g-abc").Return(nil)
	repo.On("Delete", ctx, "user1", "g-missing").Return(repository.ErrNotFound)

	svc := share.NewService(repo, &stubCodeSource{}, nil, slog.Default())
	require.NoError(t, svc.Delete(ctx, "user1", "g-abc"))
	require.ErrorIs(t, svc.Delete(ctx, "user1", "g-missing"), share.ErrShareNotFound)
}
