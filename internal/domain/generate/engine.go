package generate

import "context"

// Role identifies the author of a conversation turn passed to the engine.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior exchange in the conversation, oldest first.
type Turn struct {
	Role    Role
	Content string
}

// Request carries everything the engine needs to produce the next game
// version: the new prompt, the prior conversation, and the current code.
type Request struct {
	Prompt       string
	Conversation []Turn
	CurrentGame  string // empty for a fresh project
}

// Result is a successful generation. GameCode is a complete, standalone
// program; it replaces the prior version rather than patching it. GameCode
// may be empty when the assistant only answers a question.
type Result struct {
	Content  string
	GameCode string
}

// Engine produces a new game version from a prompt and conversation state.
// Implementations are treated as untrusted, latency-variable upstreams:
// callers bound every Generate with a deadline.
type Engine interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
