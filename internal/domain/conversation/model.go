package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a project's conversation. GameCode is set only on
// assistant messages that produced a new game version; it always holds the
// complete program, never a diff.
type Message struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	GameCode  string    `json:"game_code,omitempty"`
	// Seq is drawn from the project revision counter and breaks ordering ties
	// between messages created within the same clock instant.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnResult is the outcome of a completed user/assistant exchange.
type TurnResult struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
	// Revision is the project revision after the turn committed.
	Revision int64 `json:"revision"`
}

// SearchOptions bounds a full-text search over a conversation.
type SearchOptions struct {
	Limit  int
	Offset int
}

// SearchResult is a message matched by full-text search, with a highlighted
// snippet of the matching content.
type SearchResult struct {
	Message Message `json:"message"`
	Snippet string  `json:"snippet"`
}
