package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"projects",
		"messages",
		"shared_games",
		"activity_log",
		"messages_fts",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestMessagesTable verifies the messages table structure and constraints
func TestMessagesTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	// Create a project first
	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, revision) VALUES (?, ?, ?, ?)`,
		"p1", "user1", "Test Project", 0)
	require.NoError(t, err)

	// Insert a user message
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, seq)
		 VALUES (?, ?, ?, ?, ?)`,
		"m1", "p1", "user", "make me a pong game", 1)
	require.NoError(t, err)

	// Insert an assistant message carrying game code
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, game_code, seq)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"m2", "p1", "assistant", "here is pong", "<html>pong</html>", 2)
	require.NoError(t, err)

	// Foreign key constraint - should fail with invalid project_id
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, seq)
		 VALUES (?, ?, ?, ?, ?)`,
		"m3", "invalid", "user", "hello", 3)
	require.Error(t, err, "should fail with invalid project_id")

	// Role constraint - should fail with invalid role
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, seq)
		 VALUES (?, ?, ?, ?, ?)`,
		"m4", "p1", "system", "hello", 4)
	require.Error(t, err, "should fail with invalid role")

	// game_code is assistant-only - should fail on a user message
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, game_code, seq)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"m5", "p1", "user", "hello", "<html></html>", 5)
	require.Error(t, err, "should fail with game code on a user message")
}

// TestSharedGamesTable verifies published games survive project deletion
func TestSharedGamesTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, revision) VALUES (?, ?, ?, ?)`,
		"p1", "user1", "Test Project", 0)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO shared_games (share_id, user_id, project_id, title, content)
		 VALUES (?, ?, ?, ?, ?)`,
		"g-abc", "user1", "p1", "Pong", "<html>pong</html>")
	require.NoError(t, err)

	// No foreign key ties shares to projects
	_, err = db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, "p1")
	require.NoError(t, err)

	var content string
	err = db.QueryRowContext(ctx,
		`SELECT content FROM shared_games WHERE share_id = ?`, "g-abc").Scan(&content)
	require.NoError(t, err)
	require.Equal(t, "<html>pong</html>", content)
}

// TestFTSIndex verifies the full-text search index is synchronized
func TestFTSIndex(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, revision) VALUES (?, ?, ?, ?)`,
		"p1", "user1", "Test Project", 0)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, seq)
		 VALUES (?, ?, ?, ?, ?)`,
		"m1", "p1", "user", "add a spaceship that shoots lasers", 1)
	require.NoError(t, err)

	// Search the FTS index - verify the trigger populated it
	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages_fts WHERE messages_fts MATCH ?`,
		"spaceship").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "should find 1 message matching 'spaceship'")

	// Delete the message and verify the index drops it
	_, err = db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, "m1")
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages_fts WHERE messages_fts MATCH ?`,
		"spaceship").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "should find 0 messages after delete")
}
