package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// registerTools registers all tool handlers on the server.
func registerTools(server *sdkmcp.Server, svcs Services, shareBaseURL string) {
	registerProjectTools(server, svcs.Projects)
	registerConversationTools(server, svcs.Conversation)
	registerShareTools(server, svcs.Shares, shareBaseURL)
	registerActivityTools(server, svcs.Activity)
}

func registerProjectTools(server *sdkmcp.Server, projects ProjectService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new game project with its own conversation",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in createProjectInput) (*sdkmcp.CallToolResult, projectResult, error) {
		proj, err := projects.Create(ctx, getUserID(ctx), project.CreateRequest{
			Name:        in.Name,
			Description: in.Description,
		})
		if err != nil {
			return nil, projectResult{}, mapToolError(err)
		}
		return nil, projectResult{Project: proj}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List your game projects, most recently updated first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, listProjectsResult, error) {
		summaries, err := projects.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, listProjectsResult{}, mapToolError(err)
		}
		return nil, listProjectsResult{Projects: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project by ID, or the default project when no ID is given",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getProjectInput) (*sdkmcp.CallToolResult, projectResult, error) {
		userID := getUserID(ctx)
		var proj *project.Project
		var err error
		if strings.TrimSpace(in.ID) == "" {
			proj, err = projects.GetDefault(ctx, userID)
		} else {
			proj, err = projects.Get(ctx, userID, in.ID)
		}
		if err != nil {
			return nil, projectResult{}, mapToolError(err)
		}
		return nil, projectResult{Project: proj}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rename_project",
		Description: "Rename a project and update its description",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in renameProjectInput) (*sdkmcp.CallToolResult, projectResult, error) {
		proj, err := projects.Rename(ctx, getUserID(ctx), in.ID, in.Name, in.Description)
		if err != nil {
			return nil, projectResult{}, mapToolError(err)
		}
		return nil, projectResult{Project: proj}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and its conversation. Published games stay up",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in deleteProjectInput) (*sdkmcp.CallToolResult, deleteProjectResult, error) {
		if err := projects.Delete(ctx, getUserID(ctx), in.ID); err != nil {
			return nil, deleteProjectResult{}, mapToolError(err)
		}
		return nil, deleteProjectResult{Deleted: true}, nil
	})
}

func registerConversationTools(server *sdkmcp.Server, conv ConversationService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_prompt",
		Description: "Describe the game you want, or the change to make, and get the next version",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in sendPromptInput) (*sdkmcp.CallToolResult, turnResult, error) {
		res, err := conv.SendPrompt(ctx, getUserID(ctx), in.ProjectID, in.Prompt)
		if err != nil {
			return nil, turnResult{}, mapToolError(err)
		}
		return nil, newTurnResult(res), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resume_turn",
		Description: "Retry generation for a prompt that was interrupted before it got an answer",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, turnResult, error) {
		res, err := conv.ResumeTurn(ctx, getUserID(ctx), in.ProjectID)
		if err != nil {
			return nil, turnResult{}, mapToolError(err)
		}
		return nil, newTurnResult(res), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "discard_pending_turn",
		Description: "Drop an unanswered prompt so new prompts are accepted again",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, discardResult, error) {
		if err := conv.DiscardPendingTurn(ctx, getUserID(ctx), in.ProjectID); err != nil {
			return nil, discardResult{}, mapToolError(err)
		}
		return nil, discardResult{Discarded: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_current_code",
		Description: "Get the complete current version of the project's game code",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, currentCodeResult, error) {
		code, err := conv.CurrentCode(ctx, getUserID(ctx), in.ProjectID)
		if err != nil {
			return nil, currentCodeResult{}, mapToolError(err)
		}
		return nil, currentCodeResult{Code: code}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_messages",
		Description: "List the project's conversation in order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listMessagesInput) (*sdkmcp.CallToolResult, listMessagesResult, error) {
		msgs, err := conv.ListMessages(ctx, getUserID(ctx), in.ProjectID)
		if err != nil {
			return nil, listMessagesResult{}, mapToolError(err)
		}
		if msgs == nil {
			msgs = []conversation.Message{}
		}
		return nil, listMessagesResult{Messages: msgs}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_messages",
		Description: "Full-text search over the project's conversation",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchMessagesInput) (*sdkmcp.CallToolResult, searchMessagesResult, error) {
		results, err := conv.SearchMessages(ctx, getUserID(ctx), in.ProjectID, in.Query, conversation.SearchOptions{
			Limit:  in.Limit,
			Offset: in.Offset,
		})
		if err != nil {
			return nil, searchMessagesResult{}, mapToolError(err)
		}
		return nil, searchMessagesResult{Results: results}, nil
	})
}

func registerShareTools(server *sdkmcp.Server, shares ShareService, baseURL string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "publish_game",
		Description: "Publish a snapshot of the project's current game under a public share link",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in publishGameInput) (*sdkmcp.CallToolResult, publishGameResult, error) {
		game, err := shares.Publish(ctx, getUserID(ctx), share.PublishRequest{
			ProjectID:   in.ProjectID,
			Title:       in.Title,
			Description: in.Description,
		})
		if err != nil {
			return nil, publishGameResult{}, mapToolError(err)
		}
		out := publishGameResult{ShareID: game.ShareID}
		if baseURL != "" {
			out.ShareURL = strings.TrimSuffix(baseURL, "/") + "/g/" + game.ShareID
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_shared_game",
		Description: "Get one of your published games, including its access count",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in shareIDInput) (*sdkmcp.CallToolResult, sharedGameResult, error) {
		game, err := shares.Get(ctx, getUserID(ctx), in.ShareID)
		if err != nil {
			return nil, sharedGameResult{}, mapToolError(err)
		}
		return nil, sharedGameResult{Game: game}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_shared_games",
		Description: "List your published games, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listSharedGamesInput) (*sdkmcp.CallToolResult, listSharedGamesResult, error) {
		games, err := shares.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, listSharedGamesResult{}, mapToolError(err)
		}
		return nil, listSharedGamesResult{Games: games}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_shared_game",
		Description: "Unpublish a game; its share link stops resolving",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in shareIDInput) (*sdkmcp.CallToolResult, deleteSharedGameResult, error) {
		if err := shares.Delete(ctx, getUserID(ctx), in.ShareID); err != nil {
			return nil, deleteSharedGameResult{}, mapToolError(err)
		}
		return nil, deleteSharedGameResult{Deleted: true}, nil
	})
}

func registerActivityTools(server *sdkmcp.Server, activities ActivityService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent activity across your projects, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getRecentActivityInput) (*sdkmcp.CallToolResult, getRecentActivityResult, error) {
		opts := activity.ListOptions{
			ProjectID: in.ProjectID,
			Limit:     in.Limit,
			Offset:    in.Offset,
		}
		if in.Type != "" {
			typ := activity.Type(in.Type)
			opts.Type = &typ
		}
		entries, err := activities.GetRecentActivity(ctx, getUserID(ctx), opts)
		if err != nil {
			return nil, getRecentActivityResult{}, mapToolError(err)
		}
		return nil, getRecentActivityResult{Entries: entries}, nil
	})
}

func newTurnResult(res *conversation.TurnResult) turnResult {
	return turnResult{
		Message:  res.AssistantMessage.Content,
		NewCode:  res.AssistantMessage.GameCode != "",
		Revision: res.Revision,
	}
}
