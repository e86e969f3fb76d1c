package functional_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/generate"
	"github.com/tinkerbird/playforge/internal/sqlite"
	"github.com/tinkerbird/playforge/internal/testserver"
	"github.com/google/uuid"
)

// callTool invokes a tool and returns the structured JSON payload.
func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	require.False(t, res.IsError, "tool error: %s", text.Text)
	return json.RawMessage(text.Text)
}

// callToolErr invokes a tool expecting failure and returns the error text.
func callToolErr(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.True(t, res.IsError, "expected %s to fail", name)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type projectPayload struct {
	Project struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Revision    int64  `json:"revision"`
	} `json:"project"`
}

func createProject(t *testing.T, session *sdkmcp.ClientSession, name string) string {
	t.Helper()
	raw := callTool(t, session, "create_project", map[string]any{"name": name})
	return decode[projectPayload](t, raw).Project.ID
}

func TestListToolsExposesFullSurface(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"create_project", "list_projects", "get_project", "rename_project", "delete_project",
		"send_prompt", "resume_turn", "discard_pending_turn",
		"get_current_code", "list_messages", "search_messages",
		"publish_game", "get_shared_game", "list_shared_games", "delete_shared_game",
		"get_recent_activity",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestProjectLifecycle(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)

	id := createProject(t, session, "Pong")

	raw := callTool(t, session, "rename_project", map[string]any{
		"id": id, "name": "Pong Deluxe", "description": "now with powerups",
	})
	renamed := decode[projectPayload](t, raw)
	require.Equal(t, "Pong Deluxe", renamed.Project.Name)

	raw = callTool(t, session, "list_projects", nil)
	var list struct {
		Projects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Projects, 1)
	require.Equal(t, "Pong Deluxe", list.Projects[0].Name)

	callTool(t, session, "delete_project", map[string]any{"id": id})

	errText := callToolErr(t, session, "get_project", map[string]any{"id": id})
	require.Contains(t, errText, "PROJECT_NOT_FOUND")
}

func TestGetProjectWithoutIDReturnsDefault(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)

	raw := callTool(t, session, "get_project", nil)
	proj := decode[projectPayload](t, raw)
	require.Equal(t, "My First Game", proj.Project.Name)

	// A second call reuses the same project instead of minting another.
	raw = callTool(t, session, "get_project", nil)
	again := decode[projectPayload](t, raw)
	require.Equal(t, proj.Project.ID, again.Project.ID)
}

type turnPayload struct {
	Message  string `json:"message"`
	NewCode  bool   `json:"new_code"`
	Revision int64  `json:"revision"`
}

func TestSendPromptProducesGame(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("Here's pong!", "<html>pong v1</html>")
	raw := callTool(t, session, "send_prompt", map[string]any{
		"project_id": id, "prompt": "make pong",
	})
	turn := decode[turnPayload](t, raw)
	require.Equal(t, "Here's pong!", turn.Message)
	require.True(t, turn.NewCode)

	raw = callTool(t, session, "get_current_code", map[string]any{"project_id": id})
	var code struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(raw, &code))
	require.Equal(t, "<html>pong v1</html>", code.Code)

	raw = callTool(t, session, "list_messages", map[string]any{"project_id": id})
	var msgs struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &msgs))
	require.Len(t, msgs.Messages, 2)
	require.Equal(t, "user", msgs.Messages[0].Role)
	require.Equal(t, "assistant", msgs.Messages[1].Role)
}

func TestCodelessTurnKeepsLastVersion(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("built it", "<html>pong v1</html>")
	callTool(t, session, "send_prompt", map[string]any{"project_id": id, "prompt": "make pong"})

	ts.Engine.QueueReply("the paddle is 20px tall", "")
	raw := callTool(t, session, "send_prompt", map[string]any{
		"project_id": id, "prompt": "how tall is the paddle?",
	})
	turn := decode[turnPayload](t, raw)
	require.False(t, turn.NewCode)

	raw = callTool(t, session, "get_current_code", map[string]any{"project_id": id})
	var code struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(raw, &code))
	require.Equal(t, "<html>pong v1</html>", code.Code)
}

func TestFailedGenerationLeavesConversationUnchanged(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueError(generate.ErrRejected)
	errText := callToolErr(t, session, "send_prompt", map[string]any{
		"project_id": id, "prompt": "make something the model refuses",
	})
	require.Contains(t, errText, "GENERATION_REJECTED")

	raw := callTool(t, session, "list_messages", map[string]any{"project_id": id})
	var msgs struct {
		Messages []any `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &msgs))
	require.Empty(t, msgs.Messages, "the failed prompt must not linger in the conversation")
}

func TestPendingTurnResumeAndDiscard(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	// A user message with no assistant answer, as left behind by a crash
	// mid-generation.
	messages := sqlite.NewMessageRepository(ts.DB)
	require.NoError(t, messages.Append(context.Background(), &conversation.Message{
		ID:        uuid.NewString(),
		ProjectID: id,
		Role:      conversation.RoleUser,
		Content:   "make pong",
		Seq:       1,
		CreatedAt: time.Now().UTC(),
	}))

	errText := callToolErr(t, session, "send_prompt", map[string]any{
		"project_id": id, "prompt": "add a second ball",
	})
	require.Contains(t, errText, "PENDING_TURN")

	ts.Engine.QueueReply("picked up where we left off", "<html>pong</html>")
	raw := callTool(t, session, "resume_turn", map[string]any{"project_id": id})
	turn := decode[turnPayload](t, raw)
	require.Equal(t, "picked up where we left off", turn.Message)
	require.Equal(t, "make pong", ts.Engine.LastReq.Prompt)

	// Nothing pending anymore.
	errText = callToolErr(t, session, "discard_pending_turn", map[string]any{"project_id": id})
	require.Contains(t, errText, "NO_PENDING_TURN")
}

func TestDiscardPendingTurn(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	messages := sqlite.NewMessageRepository(ts.DB)
	require.NoError(t, messages.Append(context.Background(), &conversation.Message{
		ID:        uuid.NewString(),
		ProjectID: id,
		Role:      conversation.RoleUser,
		Content:   "make pong",
		Seq:       1,
		CreatedAt: time.Now().UTC(),
	}))

	callTool(t, session, "discard_pending_turn", map[string]any{"project_id": id})

	ts.Engine.QueueReply("fresh start", "<html>asteroids</html>")
	raw := callTool(t, session, "send_prompt", map[string]any{
		"project_id": id, "prompt": "make asteroids instead",
	})
	turn := decode[turnPayload](t, raw)
	require.Equal(t, "fresh start", turn.Message)
}

func TestSearchMessages(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("added a scoreboard in the corner", "<html>pong v1</html>")
	callTool(t, session, "send_prompt", map[string]any{"project_id": id, "prompt": "add a scoreboard"})

	raw := callTool(t, session, "search_messages", map[string]any{
		"project_id": id, "query": "scoreboard",
	})
	var found struct {
		Results []struct {
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &found))
	require.NotEmpty(t, found.Results)
}

type publishPayload struct {
	ShareID  string `json:"share_id"`
	ShareURL string `json:"share_url"`
}

func TestPublishAndServeSharedGame(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("built it", "<html>pong v1</html>")
	callTool(t, session, "send_prompt", map[string]any{"project_id": id, "prompt": "make pong"})

	raw := callTool(t, session, "publish_game", map[string]any{
		"project_id": id, "title": "Pong Deluxe",
	})
	pub := decode[publishPayload](t, raw)
	require.NotEmpty(t, pub.ShareID)
	require.Contains(t, pub.ShareURL, "/g/"+pub.ShareID)

	// The public page serves the snapshot without auth.
	resp, err := http.Get(ts.HTTP.URL + "/g/" + pub.ShareID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "<html>pong v1</html>")

	raw = callTool(t, session, "get_shared_game", map[string]any{"share_id": pub.ShareID})
	var got struct {
		Game struct {
			AccessCount int64 `json:"access_count"`
		} `json:"game"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, int64(1), got.Game.AccessCount)
}

func TestPublishEmptyProjectFails(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	errText := callToolErr(t, session, "publish_game", map[string]any{
		"project_id": id, "title": "Nothing Yet",
	})
	require.Contains(t, errText, "EMPTY_PROJECT")
}

func TestDeleteSharedGameStopsServing(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("built it", "<html>pong</html>")
	callTool(t, session, "send_prompt", map[string]any{"project_id": id, "prompt": "make pong"})

	raw := callTool(t, session, "publish_game", map[string]any{"project_id": id, "title": "Pong"})
	pub := decode[publishPayload](t, raw)

	callTool(t, session, "delete_shared_game", map[string]any{"share_id": pub.ShareID})

	resp, err := http.Get(ts.HTTP.URL + "/g/" + pub.ShareID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecentActivity(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)
	id := createProject(t, session, "Pong")

	ts.Engine.QueueReply("built it", "<html>pong</html>")
	callTool(t, session, "send_prompt", map[string]any{"project_id": id, "prompt": "make pong"})

	raw := callTool(t, session, "get_recent_activity", map[string]any{"project_id": id})
	var act struct {
		Entries []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(raw, &act))
	require.NotEmpty(t, act.Entries)
}
