package mcp

import (
	"github.com/tinkerbird/playforge/internal/domain/activity"
	"github.com/tinkerbird/playforge/internal/domain/conversation"
	"github.com/tinkerbird/playforge/internal/domain/project"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// Project tools

type createProjectInput struct {
	Name        string `json:"name" jsonschema:"project display name"`
	Description string `json:"description,omitempty" jsonschema:"optional project description"`
}

type projectResult struct {
	Project *project.Project `json:"project"`
}

type listProjectsInput struct{}

type listProjectsResult struct {
	Projects []project.ProjectSummary `json:"projects"`
}

type getProjectInput struct {
	ID string `json:"id,omitempty" jsonschema:"project ID (omit to get the default project)"`
}

type renameProjectInput struct {
	ID          string `json:"id" jsonschema:"project ID"`
	Name        string `json:"name" jsonschema:"new project name"`
	Description string `json:"description,omitempty" jsonschema:"new project description"`
}

type deleteProjectInput struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type deleteProjectResult struct {
	Deleted bool `json:"deleted"`
}

// Conversation tools

type sendPromptInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Prompt    string `json:"prompt" jsonschema:"describe the game to build or the change to make"`
}

type turnResult struct {
	Message  string `json:"message" jsonschema:"the assistant's reply"`
	NewCode  bool   `json:"new_code" jsonschema:"whether this turn produced a new game version"`
	Revision int64  `json:"revision" jsonschema:"project revision after the turn"`
}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type discardResult struct {
	Discarded bool `json:"discarded"`
}

type currentCodeResult struct {
	Code string `json:"code" jsonschema:"the complete current game program"`
}

type listMessagesInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type listMessagesResult struct {
	Messages []conversation.Message `json:"messages"`
}

type searchMessagesInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Query     string `json:"query" jsonschema:"full-text search query"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
	Offset    int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type searchMessagesResult struct {
	Results []conversation.SearchResult `json:"results"`
}

// Publication tools

type publishGameInput struct {
	ProjectID   string `json:"project_id" jsonschema:"project to publish"`
	Title       string `json:"title" jsonschema:"public title for the game"`
	Description string `json:"description,omitempty" jsonschema:"optional public description"`
}

type publishGameResult struct {
	ShareID  string `json:"share_id"`
	ShareURL string `json:"share_url,omitempty" jsonschema:"public link serving the game"`
}

type shareIDInput struct {
	ShareID string `json:"share_id" jsonschema:"share ID"`
}

type sharedGameResult struct {
	Game *share.SharedGame `json:"game"`
}

type listSharedGamesInput struct{}

type listSharedGamesResult struct {
	Games []share.Summary `json:"games"`
}

type deleteSharedGameResult struct {
	Deleted bool `json:"deleted"`
}

// Activity tools

type getRecentActivityInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"filter by project"`
	Type      string `json:"type,omitempty" jsonschema:"filter by activity type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset    int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type getRecentActivityResult struct {
	Entries []activity.Entry `json:"entries"`
}
