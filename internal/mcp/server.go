package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, userID string) ([]project.ProjectSummary, error)
	Get(ctx context.Context, userID, id string) (*project.Project, error)
	GetDefault(ctx context.Context, userID string) (*project.Project, error)
	Rename(ctx context.Context, userID, id, name, description string) (*project.Project, error)
	Delete(ctx context.Context, userID, id string) error
}

// ConversationService defines conversation operations needed by MCP.
type ConversationService interface {
	SendPrompt(ctx context.Context, userID, projectID, prompt string) (*conversation.TurnResult, error)
	ResumeTurn(ctx context.Context, userID, projectID string) (*conversation.TurnResult, error)
	DiscardPendingTurn(ctx context.Context, userID, projectID string) error
	CurrentCode(ctx context.Context, userID, projectID string) (string, error)
	ListMessages(ctx context.Context, userID, projectID string) ([]conversation.Message, error)
	SearchMessages(ctx context.Context, userID, projectID, query string, opts conversation.SearchOptions) ([]conversation.SearchResult, error)
}

// ShareService defines publication operations needed by MCP.
type ShareService interface {
	Publish(ctx context.Context, userID string, req share.PublishRequest) (*share.SharedGame, error)
	Get(ctx context.Context, userID, shareID string) (*share.SharedGame, error)
	List(ctx context.Context, userID string) ([]share.Summary, error)
	Delete(ctx context.Context, userID, shareID string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, userID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects     ProjectService
	Conversation ConversationService
	Shares       ShareService
	Activity     ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	ShareBaseURL  string // prefix for share links returned by publish_game
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "playforge",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.ShareBaseURL)

	return server
}
