package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tinkerbird/playforge/internal/domain/share"
	"github.com/tinkerbird/playforge/internal/repository"
)

// ShareRepository implements share.Repository for SQLite
type ShareRepository struct {
	db *DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts a new published game snapshot
func (r *ShareRepository) Create(ctx context.Context, game *share.SharedGame) error {
	query := `
		INSERT INTO shared_games (share_id, user_id, project_id, title, description, content, access_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var projectID sql.NullString
	if game.ProjectID != "" {
		projectID = sql.NullString{String: game.ProjectID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		game.ShareID,
		game.UserID,
		projectID,
		game.Title,
		game.Description,
		game.Content,
		game.AccessCount,
		game.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create shared game: %w", err)
	}

	return nil
}

// Get retrieves a published game by its share ID
func (r *ShareRepository) Get(ctx context.Context, shareID string) (*share.SharedGame, error) {
	query := `
		SELECT share_id, user_id, project_id, title, description, content, access_count, created_at
		FROM shared_games
		WHERE share_id = ?
	`

	var game share.SharedGame
	var projectID sql.NullString
	err := r.db.QueryRowContext(ctx, query, shareID).Scan(
		&game.ShareID,
		&game.UserID,
		&projectID,
		&game.Title,
		&game.Description,
		&game.Content,
		&game.AccessCount,
		&game.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared game: %w", err)
	}

	if projectID.Valid {
		game.ProjectID = projectID.String
	}
	return &game, nil
}

// ListByUser returns the user's published games without content bodies,
// newest first
func (r *ShareRepository) ListByUser(ctx context.Context, userID string) ([]share.Summary, error) {
	query := `
		SELECT share_id, title, description, access_count, created_at
		FROM shared_games
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared games: %w", err)
	}
	defer rows.Close()

	var summaries []share.Summary
	for rows.Next() {
		var summary share.Summary
		err := rows.Scan(
			&summary.ShareID,
			&summary.Title,
			&summary.Description,
			&summary.AccessCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shared game summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared game rows: %w", err)
	}

	return summaries, nil
}

// Delete removes a published game, scoped to its owner
func (r *ShareRepository) Delete(ctx context.Context, userID, shareID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_games WHERE share_id = ? AND user_id = ?`,
		shareID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete shared game: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// IncrementAccessCount atomically increments the access counter and returns
// the new value. The increment happens inside the UPDATE itself, so
// concurrent accesses never lose a count.
func (r *ShareRepository) IncrementAccessCount(ctx context.Context, shareID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE shared_games SET access_count = access_count + 1 WHERE share_id = ?`,
		shareID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment access count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	var count int64
	err = tx.QueryRowContext(ctx,
		`SELECT access_count FROM shared_games WHERE share_id = ?`,
		shareID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get access count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}
