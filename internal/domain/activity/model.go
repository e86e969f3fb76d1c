package activity

import "time"

// Type represents the kind of activity event
type Type string

const (
	TypeProjectCreated Type = "project_created"
	TypeTurnCompleted  Type = "turn_completed"
	TypeTurnDiscarded  Type = "turn_discarded"
	TypeGamePublished  Type = "game_published"
)

// Entry represents an event in the activity log
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	MessageID *string   `json:"message_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
	Revision  int64     `json:"revision"`
}
