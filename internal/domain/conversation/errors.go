package conversation

import "errors"

var (
	// ErrEmptyPrompt indicates the prompt was empty or whitespace.
	ErrEmptyPrompt = errors.New("prompt must not be empty")
	// ErrProjectNotFound indicates the project doesn't exist or isn't owned
	// by the caller.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTurnInProgress indicates another turn is already running on the
	// project. Callers should retry after the running turn settles.
	ErrTurnInProgress = errors.New("a turn is already in progress for this project")
	// ErrPendingTurn indicates the conversation ends with an unanswered user
	// message, typically left behind by an interrupted turn. The pending turn
	// must be resumed or discarded before a new prompt is accepted.
	ErrPendingTurn = errors.New("conversation has an unanswered pending turn")
	// ErrNoPendingTurn indicates resume or discard was called but the
	// conversation doesn't end with an unanswered user message.
	ErrNoPendingTurn = errors.New("no pending turn to resume or discard")
	// ErrNoCurrentCode indicates no assistant message has produced game code
	// yet.
	ErrNoCurrentCode = errors.New("project has no game code yet")
	// ErrInvalidInput indicates invalid conversation operation input.
	ErrInvalidInput = errors.New("invalid conversation input")
)
