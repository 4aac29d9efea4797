package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Solve and voice toggling are deliberately absent: both
// are scoped to the invoking text channel, a notion that only exists inside
// the chat client.

var addToolDef = mcp.NewTool("puzzle_add",
	mcp.WithDescription("Create a puzzle: a text channel, a voice room, and a tracking spreadsheet. Creation is idempotent: an existing puzzle with the same title is returned as-is."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Puzzle title; quotes and hashes are stripped"),
	),
	mcp.WithString("round",
		mcp.Description("Round name prefix; must match exactly one round. Defaults to the most recently used round."),
	),
)

var removeToolDef = mcp.NewTool("puzzle_remove",
	mcp.WithDescription("Remove a puzzle's channels and trash its spreadsheet. Missing resources are skipped; an occupied voice room is reported and left in place."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Puzzle title"),
	),
)

var roundToolDef = mcp.NewTool("puzzle_round",
	mcp.WithDescription("Create a round category. New puzzles default to the most recent round."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Round name; must not collide with an existing round"),
	),
)

var recountToolDef = mcp.NewTool("puzzle_recount",
	mcp.WithDescription("Recount solved puzzles and refresh the party size channel."),
)

var voiceCleanupToolDef = mcp.NewTool("puzzle_voice_cleanup",
	mcp.WithDescription("Remove all idle puzzle voice rooms immediately."),
)

var boardToolDef = mcp.NewTool("puzzle_board",
	mcp.WithDescription("List all puzzles grouped by category, with solved status and voice room presence."),
)
