package share

import "time"

// SharedGame is a published snapshot of a project's game code. It is a
// detached copy: later edits to the source project, or deleting the project
// outright, never change what a share link serves.
type SharedGame struct {
	// ShareID is the public identifier, drawn from its own namespace so it
	// can't collide with or be confused for a project ID.
	ShareID     string    `json:"share_id"`
	UserID      string    `json:"-"`
	ProjectID   string    `json:"project_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	// Content is the complete game program as it stood at publish time.
	Content     string    `json:"content"`
	AccessCount int64     `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is a listing view of a published game, without the content body.
type Summary struct {
	ShareID     string    `json:"share_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AccessCount int64     `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
}
