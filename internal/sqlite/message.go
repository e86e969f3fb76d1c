package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/repository"
)

// MessageRepository implements conversation.MessageRepository for SQLite
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts a new message. The insert is a single statement, so the
// message is recorded fully or not at all.
func (r *MessageRepository) Append(ctx context.Context, msg *conversation.Message) error {
	query := `
		INSERT INTO messages (id, project_id, role, content, game_code, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var gameCode sql.NullString
	if msg.GameCode != "" {
		gameCode = sql.NullString{String: msg.GameCode, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.ProjectID,
		string(msg.Role),
		msg.Content,
		gameCode,
		msg.Seq,
		msg.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

// List returns all messages for a project in conversation order: creation
// time first, sequence number breaking ties.
func (r *MessageRepository) List(ctx context.Context, projectID string) ([]conversation.Message, error) {
	query := `
		SELECT id, project_id, role, content, game_code, seq, created_at
		FROM messages
		WHERE project_id = ?
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []conversation.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// GetLast returns the most recent message in the conversation
func (r *MessageRepository) GetLast(ctx context.Context, projectID string) (*conversation.Message, error) {
	query := `
		SELECT id, project_id, role, content, game_code, seq, created_at
		FROM messages
		WHERE project_id = ?
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, projectID)
	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// LatestGameCode returns the game code of the most recent assistant message
// that produced one
func (r *MessageRepository) LatestGameCode(ctx context.Context, projectID string) (string, error) {
	query := `
		SELECT game_code
		FROM messages
		WHERE project_id = ? AND role = 'assistant' AND game_code IS NOT NULL
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`

	var code string
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(&code)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest game code: %w", err)
	}
	return code, nil
}

// Delete removes a single message by ID
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*conversation.Message, error) {
	var msg conversation.Message
	var role string
	var gameCode sql.NullString

	err := row.Scan(
		&msg.ID,
		&msg.ProjectID,
		&role,
		&msg.Content,
		&gameCode,
		&msg.Seq,
		&msg.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}

	msg.Role = conversation.Role(role)
	if gameCode.Valid {
		msg.GameCode = gameCode.String
	}
	return &msg, nil
}
