package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tinkerbird/playforge/internal/domain/conversation"
)

// SearchRepository implements conversation.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over a project's messages, best match
// first. Snippets highlight the matching terms.
func (r *SearchRepository) Search(ctx context.Context, projectID, query string, opts conversation.SearchOptions) ([]conversation.SearchResult, error) {
	baseQuery := `
		SELECT
			m.id, m.project_id, m.role, m.content, m.game_code, m.seq, m.created_at,
			snippet(messages_fts, 0, '[', ']', '...', 12) as snippet
		FROM messages_fts
		JOIN messages m ON m.rowid = messages_fts.rowid
		WHERE m.project_id = ? AND messages_fts MATCH ?
		ORDER BY rank
	`

	args := []any{projectID, query}

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		baseQuery += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	var results []conversation.SearchResult
	for rows.Next() {
		var result conversation.SearchResult
		var role string
		var gameCode sql.NullString
		err := rows.Scan(
			&result.Message.ID,
			&result.Message.ProjectID,
			&role,
			&result.Message.Content,
			&gameCode,
			&result.Message.Seq,
			&result.Message.CreatedAt,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Message.Role = conversation.Role(role)
		if gameCode.Valid {
			result.Message.GameCode = gameCode.String
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
