package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/generate"
	"github.com/tinkerbird/playforge/internal/repository"
)

// ActivityRepository logs turn lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.Entry) error
}

// Service runs the conversation loop: strict user/assistant alternation,
// one in-flight turn per project, and durable rollback when generation fails.
type Service struct {
	projects   ProjectStore
	messages   MessageRepository
	search     SearchRepository
	activities ActivityRepository
	engine     generate.Engine
	guard      *turnGuard
	logger     *slog.Logger
}

// NewService creates a new conversation service.
func NewService(projects ProjectStore, messages MessageRepository, search SearchRepository, activities ActivityRepository, engine generate.Engine, logger *slog.Logger) *Service {
	return &Service{
		projects:   projects,
		messages:   messages,
		search:     search,
		activities: activities,
		engine:     engine,
		guard:      newTurnGuard(),
		logger:     logger,
	}
}

// SendPrompt records a user message, generates the assistant reply, and
// records it. On generation failure the user message is rolled back so the
// conversation is left exactly as it was. A second concurrent call for the
// same project fails fast with ErrTurnInProgress.
func (s *Service) SendPrompt(ctx context.Context, userID, projectID, prompt string) (*TurnResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	release, ok := s.guard.tryAcquire(projectID)
	if !ok {
		return nil, ErrTurnInProgress
	}
	defer release()

	history, err := s.messages.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if n := len(history); n > 0 && history[n-1].Role == RoleUser {
		return nil, ErrPendingTurn
	}

	userMsg, err := s.appendMessage(ctx, userID, projectID, RoleUser, prompt, "")
	if err != nil {
		return nil, fmt.Errorf("recording prompt: %w", err)
	}

	result, err := s.generate(ctx, projectID, prompt, history)
	if err != nil {
		s.rollback(ctx, userMsg)
		return nil, err
	}

	assistantMsg, err := s.appendMessage(ctx, userID, projectID, RoleAssistant, result.Content, result.GameCode)
	if err != nil {
		s.rollback(ctx, userMsg)
		return nil, fmt.Errorf("recording reply: %w", err)
	}

	s.logTurnCompleted(ctx, userID, projectID, assistantMsg, result.GameCode != "")

	return &TurnResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Revision:         assistantMsg.Seq,
	}, nil
}

// ResumeTurn re-runs generation for a pending turn: a conversation whose
// last message is an unanswered user prompt, typically left by a crash or a
// hard cancellation. On failure the pending turn stays pending.
func (s *Service) ResumeTurn(ctx context.Context, userID, projectID string) (*TurnResult, error) {
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	release, ok := s.guard.tryAcquire(projectID)
	if !ok {
		return nil, ErrTurnInProgress
	}
	defer release()

	history, err := s.messages.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	n := len(history)
	if n == 0 || history[n-1].Role != RoleUser {
		return nil, ErrNoPendingTurn
	}
	pending := history[n-1]

	result, err := s.generate(ctx, projectID, pending.Content, history[:n-1])
	if err != nil {
		return nil, err
	}

	assistantMsg, err := s.appendMessage(ctx, userID, projectID, RoleAssistant, result.Content, result.GameCode)
	if err != nil {
		return nil, fmt.Errorf("recording reply: %w", err)
	}

	s.logTurnCompleted(ctx, userID, projectID, assistantMsg, result.GameCode != "")

	return &TurnResult{
		UserMessage:      &pending,
		AssistantMessage: assistantMsg,
		Revision:         assistantMsg.Seq,
	}, nil
}

// DiscardPendingTurn deletes an unanswered trailing user message, unblocking
// new prompts.
func (s *Service) DiscardPendingTurn(ctx context.Context, userID, projectID string) error {
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return err
	}

	release, ok := s.guard.tryAcquire(projectID)
	if !ok {
		return ErrTurnInProgress
	}
	defer release()

	last, err := s.messages.GetLast(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoPendingTurn
		}
		return fmt.Errorf("loading conversation: %w", err)
	}
	if last.Role != RoleUser {
		return ErrNoPendingTurn
	}

	if err := s.messages.Delete(ctx, last.ID); err != nil {
		return fmt.Errorf("discarding pending turn: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, userID, &activity.Entry{
			ProjectID: projectID,
			MessageID: &last.ID,
			Type:      activity.TypeTurnDiscarded,
			Summary:   "discarded pending turn",
		})
	}
	return nil
}

// CurrentCode returns the latest generated game code for the project.
func (s *Service) CurrentCode(ctx context.Context, userID, projectID string) (string, error) {
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return "", err
	}

	code, err := s.messages.LatestGameCode(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoCurrentCode
		}
		return "", fmt.Errorf("loading current code: %w", err)
	}
	return code, nil
}

// ListMessages returns the full conversation in order: creation time, with
// the sequence number breaking ties.
func (s *Service) ListMessages(ctx context.Context, userID, projectID string) ([]Message, error) {
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

// SearchMessages runs a full-text search over the project's conversation.
func (s *Service) SearchMessages(ctx context.Context, userID, projectID, query string, opts SearchOptions) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	results, err := s.search.Search(ctx, projectID, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	return results, nil
}

func (s *Service) checkProject(ctx context.Context, userID, projectID string) error {
	if err := s.projects.Exists(ctx, userID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("checking project: %w", err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, projectID, prompt string, history []Message) (*generate.Result, error) {
	req := generate.Request{
		Prompt:       prompt,
		Conversation: make([]generate.Turn, 0, len(history)),
	}
	for _, msg := range history {
		req.Conversation = append(req.Conversation, generate.Turn{
			Role:    generate.Role(msg.Role),
			Content: msg.Content,
		})
		if msg.Role == RoleAssistant && msg.GameCode != "" {
			req.CurrentGame = msg.GameCode
		}
	}

	result, err := s.engine.Generate(ctx, req)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("generation failed", "project_id", projectID, "error", err)
		}
		return nil, fmt.Errorf("generating reply: %w", err)
	}
	return result, nil
}

func (s *Service) appendMessage(ctx context.Context, userID, projectID string, role Role, content, gameCode string) (*Message, error) {
	seq, err := s.projects.IncrementRevision(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("bumping revision: %w", err)
	}

	msg := &Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      role,
		Content:   content,
		GameCode:  gameCode,
		Seq:       seq,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// rollback removes the user half of a failed turn. It runs detached from the
// caller's context so a cancelled request still leaves the conversation
// clean; only a process crash can leave a pending turn behind.
func (s *Service) rollback(ctx context.Context, userMsg *Message) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.messages.Delete(cleanupCtx, userMsg.ID); err != nil {
		if s.logger != nil {
			s.logger.Error("rolling back user message failed; turn left pending",
				"message_id", userMsg.ID, "project_id", userMsg.ProjectID, "error", err)
		}
	}
}

func (s *Service) logTurnCompleted(ctx context.Context, userID, projectID string, msg *Message, newCode bool) {
	if s.activities == nil {
		return
	}
	summary := "completed turn"
	if newCode {
		summary = "completed turn with new game version"
	}
	_ = s.activities.Log(ctx, userID, &activity.Entry{
		ProjectID: projectID,
		MessageID: &msg.ID,
		Type:      activity.TypeTurnCompleted,
		Summary:   summary,
		Revision:  msg.Seq,
	})
}
