package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinkerbird/playforge/internal/domain/activity"
)

func TestActivityLogAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	entry := &activity.Entry{
		ProjectID: "p1",
		Type:      activity.TypeProjectCreated,
		Summary:   `created project "Pong"`,
	}
	require.NoError(t, repo.Log(ctx, "user1", entry))
	require.NotZero(t, entry.ID)
	require.Equal(t, "user1", entry.UserID)
	require.False(t, entry.CreatedAt.IsZero())

	msgID := "m1"
	require.NoError(t, repo.Log(ctx, "user1", &activity.Entry{
		ProjectID: "p1",
		MessageID: &msgID,
		Type:      activity.TypeTurnCompleted,
		Summary:   "completed turn",
		Revision:  2,
	}))

	entries, err := repo.List(ctx, "user1", activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	require.Equal(t, activity.TypeTurnCompleted, entries[0].Type)
	require.NotNil(t, entries[0].MessageID)
	require.Equal(t, "m1", *entries[0].MessageID)
	require.Equal(t, int64(2), entries[0].Revision)
}

func TestActivityListFilters(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "user1", &activity.Entry{
		ProjectID: "p1", Type: activity.TypeProjectCreated, Summary: "created"}))
	require.NoError(t, repo.Log(ctx, "user1", &activity.Entry{
		ProjectID: "p2", Type: activity.TypeTurnCompleted, Summary: "turn"}))
	require.NoError(t, repo.Log(ctx, "user2", &activity.Entry{
		ProjectID: "p3", Type: activity.TypeProjectCreated, Summary: "other user"}))

	entries, err := repo.List(ctx, "user1", activity.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "p1", entries[0].ProjectID)

	typ := activity.TypeTurnCompleted
	entries, err = repo.List(ctx, "user1", activity.ListOptions{Type: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "p2", entries[0].ProjectID)

	// Scoped to user
	entries, err = repo.List(ctx, "user2", activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityListLimit(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, "user1", &activity.Entry{
			ProjectID: "p1", Type: activity.TypeTurnCompleted, Summary: "turn"}))
	}

	entries, err := repo.List(ctx, "user1", activity.ListOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, entries, 3)
}
