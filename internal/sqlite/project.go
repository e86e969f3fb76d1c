package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, userID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, user_id, name, description, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		userID,
		proj.Name,
		proj.Description,
		proj.Revision,
		proj.CreatedAt,
		proj.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, scoped to its owner
func (r *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	query := `
		SELECT id, user_id, name, description, revision, created_at, updated_at
		FROM projects
		WHERE id = ? AND user_id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&proj.ID,
		&proj.UserID,
		&proj.Name,
		&proj.Description,
		&proj.Revision,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// Exists reports whether the project exists and belongs to userID, as
// repository.ErrNotFound or nil.
func (r *ProjectRepository) Exists(ctx context.Context, userID, projectID string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM projects WHERE id = ? AND user_id = ?`,
		projectID, userID).Scan(&one)

	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	return nil
}

// List returns all projects for a user with summary information, most
// recently updated first
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.revision,
			p.created_at,
			p.updated_at,
			COUNT(m.id) as message_count,
			COUNT(m.game_code) > 0 as has_game_code
		FROM projects p
		LEFT JOIN messages m ON m.project_id = p.id
		WHERE p.user_id = ?
		GROUP BY p.id, p.name, p.description, p.revision, p.created_at, p.updated_at
		ORDER BY p.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.Revision,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.MessageCount,
			&summary.HasGameCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Rename updates a project's name and description
func (r *ProjectRepository) Rename(ctx context.Context, userID, id, name, description string) error {
	query := `
		UPDATE projects
		SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, name, description, id, userID)
	if err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
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

// Delete removes a project and its messages. Published games reference a
// detached copy of the code and are left alone.
func (r *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM projects WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}

	// Delete messages first so the FTS triggers fire for each row.
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IncrementRevision atomically increments the project revision and returns
// the new value. updated_at is bumped alongside it, so revision bumps keep
// the project at the top of the recency ordering.
func (r *ProjectRepository) IncrementRevision(ctx context.Context, userID, projectID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE projects
		SET revision = revision + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := tx.ExecContext(ctx, updateQuery, projectID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment revision: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	selectQuery := `
		SELECT revision
		FROM projects
		WHERE id = ? AND user_id = ?
	`

	var newRevision int64
	err = tx.QueryRowContext(ctx, selectQuery, projectID, userID).Scan(&newRevision)
	if err != nil {
		return 0, fmt.Errorf("failed to get new revision: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newRevision, nil
}
