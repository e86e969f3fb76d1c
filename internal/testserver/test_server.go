// Package testserver wires a fully functional server against an in-memory
// database for functional and integration tests. The generation engine is
// scripted so tests control every assistant reply.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/generate"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
	"github.com/tinkerbird/playforge/internal/mcp"
	"github.com/tinkerbird/playforge/internal/sqlite"
	"github.com/tinkerbird/playforge/internal/transport"
)

// DefaultUser is the user ID every MCP session runs as. Auth is disabled
// in the test server; token resolution has its own tests in transport.
const DefaultUser = "default"

// ScriptedEngine is a generate.Engine whose replies are queued by the test.
// An empty queue fails the generation, which keeps forgotten setup loud.
type ScriptedEngine struct {
	mu      sync.Mutex
	queue   []func(ctx context.Context, req generate.Request) (*generate.Result, error)
	Calls   int
	LastReq generate.Request
}

func (e *ScriptedEngine) Generate(ctx context.Context, req generate.Request) (*generate.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls++
	e.LastReq = req
	if len(e.queue) == 0 {
		return nil, fmt.Errorf("no scripted reply queued: %w", generate.ErrUnavailable)
	}
	next := e.queue[0]
	e.queue = e.queue[1:]
	return next(ctx, req)
}

// QueueReply queues a successful generation producing content and game code.
func (e *ScriptedEngine) QueueReply(content, code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, func(context.Context, generate.Request) (*generate.Result, error) {
		return &generate.Result{Content: content, GameCode: code}, nil
	})
}

// QueueError queues a failed generation.
func (e *ScriptedEngine) QueueError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, func(context.Context, generate.Request) (*generate.Result, error) {
		return nil, err
	})
}

// TestServer is a running server plus direct handles on its internals. The
// MCP surface is reached through Connect; the HTTP server carries the
// public share pages and health endpoint.
type TestServer struct {
	HTTP   *httptest.Server
	DB     *sqlite.DB
	Engine *ScriptedEngine
	UserID string

	Projects     *project.Service
	Conversation *conversation.Service
	Shares       *share.Service
	Activity     *activity.Service

	mcpServer *sdkmcp.Server
}

// New starts a server on an in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	messageRepo := sqlite.NewMessageRepository(db)
	shareRepo := sqlite.NewShareRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)

	engine := &ScriptedEngine{}

	projectSvc := project.NewService(projectRepo, activityRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	conversationSvc := conversation.NewService(projectRepo, messageRepo, searchRepo, activityRepo, engine, nil)
	shareSvc := share.NewService(shareRepo, conversationSvc, activityRepo, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:     projectSvc,
			Conversation: conversationSvc,
			Shares:       shareSvc,
			Activity:     activitySvc,
		},
		AuthEnabled:   false,
		TransportMode: "http",
		ShareBaseURL:  "http://playforge.test",
	})

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, &sdkmcp.StreamableHTTPOptions{
		SessionTimeout: time.Minute,
	})

	server := httptest.NewServer(transport.NewRouter(mcpHandler, shareSvc, nil))

	ts := &TestServer{
		HTTP:   server,
		DB:     db,
		Engine: engine,
		UserID: DefaultUser,

		Projects:     projectSvc,
		Conversation: conversationSvc,
		Shares:       shareSvc,
		Activity:     activitySvc,

		mcpServer: mcpServer,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Connect opens an MCP client session over an in-memory transport pair.
// The session is closed on test cleanup.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := ts.mcpServer.Connect(context.Background(), serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "playforge-test", Version: "0.0.1"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Close()
	})
	return session
}
