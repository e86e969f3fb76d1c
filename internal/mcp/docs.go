package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `playforge builds small browser games through conversation.

Core concepts (keep this mental model small):
- Project: a workspace holding one conversation and the game versions it produced. Its revision counter bumps on every change.
- Message: one turn in the conversation. Assistant messages may carry a complete game program; each version fully replaces the previous one.
- Current code: the game code of the most recent assistant message that produced any. Replies that only answer a question don't change it.
- Shared game: a published snapshot with its own g- share ID. It is a detached copy: later edits or deleting the project never change it.

Rules of engagement (default workflow):
1) Orient: get_project (no ID returns the default project) or list_projects.
2) Build: send_prompt with what the game should do or how it should change. One turn runs at a time per project; a TURN_IN_PROGRESS error means wait and retry.
3) Interrupted turns: a PENDING_TURN error means an earlier prompt never got its answer. Call resume_turn to retry it or discard_pending_turn to drop it.
4) Inspect: get_current_code for the full program, list_messages for the conversation, search_messages to find earlier decisions.
5) Ship: publish_game snapshots the current code under a public share link. Track plays via get_shared_game's access_count.

Failures leave the conversation unchanged: a failed or timed-out generation rolls back its prompt, so retrying is always safe.

Docs (progressive disclosure):
- playforge://docs/index (what to read when)
- playforge://docs/concepts (glossary + invariants)
- playforge://docs/publishing (share links and access counts)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "playforge://docs/index",
		Name:        "docs_index",
		Title:       "playforge docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read when.",
		Content: `# playforge: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`get_project`" + ` to orient (omit the ID for the default project).
2. ` + "`send_prompt`" + ` to build or change the game.
3. ` + "`get_current_code`" + ` to see the full program.
4. ` + "`publish_game`" + ` to get a public share link.

## Docs (read on demand)

- ` + "`playforge://docs/concepts`" + ` — glossary + invariants (turn alternation, rollback, snapshot publishing).
- ` + "`playforge://docs/publishing`" + ` — share links, access counts, and unpublishing.

## Capabilities & intentional limitations

- Generation produces complete programs only; there is no diff or patch tool.
- ` + "`list_messages`" + ` returns full conversations; use ` + "`search_messages`" + ` with a limit to control token usage.
`,
	},
	{
		URI:         "playforge://docs/concepts",
		Name:        "docs_concepts",
		Title:       "playforge concepts",
		Description: "Glossary and invariants: turns, revisions, rollback, current code.",
		Content: `# Concepts

## Turn alternation

A conversation strictly alternates user and assistant messages. ` + "`send_prompt`" + ` records your prompt, generates the reply, and records it as one unit. If generation fails, the prompt is rolled back and the conversation is exactly as it was, so retrying is safe.

Only one turn runs per project at a time. A second ` + "`send_prompt`" + ` while one is running fails fast with ` + "`TURN_IN_PROGRESS`" + ` instead of queueing.

## Pending turns

If the process dies mid-turn, the conversation can be left ending in an unanswered prompt. New prompts are refused with ` + "`PENDING_TURN`" + ` until you either ` + "`resume_turn`" + ` (re-run generation for that prompt) or ` + "`discard_pending_turn`" + ` (drop it).

## Revisions and current code

Every change bumps the project's revision counter; message sequence numbers are drawn from it, so ordering is total even within one clock instant.

The current code is the game code of the newest assistant message that carries any. Assistant replies that only answer a question leave it untouched.
`,
	},
	{
		URI:         "playforge://docs/publishing",
		Name:        "docs_publishing",
		Title:       "playforge publishing",
		Description: "How share links, snapshots, and access counts behave.",
		Content: `# Publishing

` + "`publish_game`" + ` snapshots the project's current code under a fresh ` + "`g-`" + ` share ID. The snapshot is a detached copy:

- Editing the project afterwards does not change what the link serves.
- Deleting the project does not take the link down.
- Publishing again creates a second, independent share.

Anyone opening the link counts one access; concurrent opens never lose counts. Read the count with ` + "`get_shared_game`" + `; take the link down with ` + "`delete_shared_game`" + `.

Publishing a project that has no game code yet fails with ` + "`EMPTY_PROJECT`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
