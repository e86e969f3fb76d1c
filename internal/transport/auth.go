package transport

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/tinkerbird/playforge/internal/sqlite"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// APIKeyResolver resolves bearer tokens against the api_keys table. Tokens
// are stored as SHA-256 hashes; the plaintext never touches the database.
type APIKeyResolver struct {
	db *sqlite.DB
}

// NewAPIKeyResolver creates a resolver backed by the given database.
func NewAPIKeyResolver(db *sqlite.DB) *APIKeyResolver {
	return &APIKeyResolver{db: db}
}

// ResolveUser returns the user ID owning the token, or ErrUnauthorized.
func (r *APIKeyResolver) ResolveUser(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)

	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if err == sql.ErrNoRows || userID == "" {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolving api key: %w", err)
	}

	// Best effort; login still succeeds if the timestamp update fails.
	_, _ = r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash)

	return userID, nil
}

// RegisterKey stores a new API key for a user.
func (r *APIKeyResolver) RegisterKey(ctx context.Context, token, userID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, description) VALUES (?, ?, ?)`,
		HashToken(token), userID, description)
	if err != nil {
		return fmt.Errorf("registering api key: %w", err)
	}
	return nil
}

// HashToken returns the hex SHA-256 digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
