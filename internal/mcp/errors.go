package mcp

import (
	"errors"
	"fmt"

	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/generate"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// with no specific mapping; callers surface those as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, conversation.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see available projects"}
	case errors.Is(err, conversation.ErrEmptyPrompt):
		return &APIError{Code: "EMPTY_PROMPT", Message: "prompt must not be empty"}
	case errors.Is(err, conversation.ErrTurnInProgress):
		return &APIError{Code: "TURN_IN_PROGRESS", Message: "another turn is already running for this project", RecoveryHint: "Wait for the running turn to finish, then retry"}
	case errors.Is(err, conversation.ErrPendingTurn):
		return &APIError{Code: "PENDING_TURN", Message: "the conversation has an unanswered prompt", RecoveryHint: "Call resume_turn to retry it or discard_pending_turn to drop it"}
	case errors.Is(err, conversation.ErrNoPendingTurn):
		return &APIError{Code: "NO_PENDING_TURN", Message: "no pending turn to resume or discard"}
	case errors.Is(err, conversation.ErrNoCurrentCode):
		return &APIError{Code: "NO_GAME_CODE", Message: "the project has no game code yet", RecoveryHint: "Send a prompt describing the game first"}
	case errors.Is(err, share.ErrShareNotFound):
		return &APIError{Code: "SHARE_NOT_FOUND", Message: "shared game not found", RecoveryHint: "Call list_shared_games to see your published games"}
	case errors.Is(err, share.ErrEmptyProject):
		return &APIError{Code: "EMPTY_PROJECT", Message: "the project has no game code to publish", RecoveryHint: "Send a prompt describing the game first"}
	case errors.Is(err, generate.ErrInvalidPrompt):
		return &APIError{Code: "INVALID_PROMPT", Message: "the generator rejected the prompt as malformed", RecoveryHint: "Rephrase the prompt"}
	case errors.Is(err, generate.ErrRejected):
		return &APIError{Code: "GENERATION_REJECTED", Message: "the generator refused the request", RecoveryHint: "Rephrase the prompt; retrying unchanged will fail again"}
	case errors.Is(err, generate.ErrTimeout):
		return &APIError{Code: "GENERATION_TIMEOUT", Message: "generation timed out", RecoveryHint: "Retry; the conversation was left unchanged"}
	case errors.Is(err, generate.ErrUnavailable):
		return &APIError{Code: "GENERATION_UNAVAILABLE", Message: "the generator is temporarily unavailable", RecoveryHint: "Retry shortly; the conversation was left unchanged"}
	default:
		return nil
	}
}

// mapToolError converts a domain error into the error returned from a tool
// handler, preferring the structured mapping when one exists.
func mapToolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
