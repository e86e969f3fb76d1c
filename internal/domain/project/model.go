package project

import "time"

// Project is a user-owned workspace holding a conversation and its generated
// game versions. Revision is a monotonic counter bumped on every mutation of
// the project or its messages.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Revision    int64     `json:"revision"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Revision     int64     `json:"revision"`
	MessageCount int       `json:"message_count"`
	HasGameCode  bool      `json:"has_game_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
