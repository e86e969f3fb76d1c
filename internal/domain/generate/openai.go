package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `You are a game builder assistant. The user iteratively describes a small browser game and you produce the complete code for it.

Rules:
- Always return the FULL program, never a diff or a fragment. Each version fully replaces the previous one.
- Reply with a single JSON object: {"message": "<short explanation of what you changed>", "code": "<the complete game code>"}.
- If the user asks a question that needs no code change, reply with {"message": "<your answer>"} and omit "code".`

// OpenAI generates game code through the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
	logger *slog.Logger
}

// NewOpenAI creates an engine backed by the OpenAI API.
func NewOpenAI(apiKey, model string, logger *slog.Logger) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
		logger: logger,
	}
}

// Generate implements Engine.
func (e *OpenAI) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrInvalidPrompt
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Conversation)+3)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range req.Conversation {
		switch turn.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	if req.CurrentGame != "" {
		messages = append(messages, openai.SystemMessage("Current version of the game code:\n\n"+req.CurrentGame))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    e.model,
		Messages: messages,
	})
	if err != nil {
		return nil, e.mapError(ctx, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return parseReply(completion.Choices[0].Message.Content), nil
}

func (e *OpenAI) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest:
			return fmt.Errorf("%w: %s", ErrInvalidPrompt, apiErr.Message)
		case apiErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrRejected, apiErr.Message)
		case apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500:
			return fmt.Errorf("%w: status %d", ErrUnavailable, apiErr.StatusCode)
		default:
			return fmt.Errorf("%w: status %d", ErrRejected, apiErr.StatusCode)
		}
	}

	if e.logger != nil {
		e.logger.Warn("openai transport error", "error", err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type modelReply struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// parseReply decodes the instructed JSON shape, falling back to fenced-code
// extraction when the model strays from it.
func parseReply(raw string) *Result {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var reply modelReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &reply); err == nil && reply.Message != "" {
		return &Result{Content: reply.Message, GameCode: reply.Code}
	}

	if code, rest, ok := extractFence(raw); ok {
		return &Result{Content: strings.TrimSpace(rest), GameCode: code}
	}
	return &Result{Content: strings.TrimSpace(raw)}
}

// extractFence pulls the first fenced code block out of raw, returning the
// block, the surrounding text, and whether a block was found.
func extractFence(raw string) (code, rest string, ok bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", "", false
	}
	afterFence := raw[start+3:]
	if nl := strings.IndexByte(afterFence, '\n'); nl >= 0 {
		// Skip a language tag on the opening fence line.
		afterFence = afterFence[nl+1:]
	}
	end := strings.Index(afterFence, "```")
	if end < 0 {
		return "", "", false
	}
	code = strings.TrimSpace(afterFence[:end])
	rest = raw[:start] + afterFence[end+3:]
	return code, rest, code != ""
}
