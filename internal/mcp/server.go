// Package mcp exposes the puzzle operations over the Model Context Protocol
// so an agent sharing the operator's machine can drive the hunt. Tools are
// channel-independent: anything that needs "the channel the command was
// typed in" stays a chat-client command.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/huntbot/internal/hunt"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"puzzle_add": {
		def:     addToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"puzzle_remove": {
		def:     removeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemove },
	},
	"puzzle_round": {
		def:     roundToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRound },
	},
	"puzzle_recount": {
		def:     recountToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecount },
	},
	"puzzle_voice_cleanup": {
		def:     voiceCleanupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVoiceCleanup },
	},
	"puzzle_board": {
		def:     boardToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBoard },
	},
}

// AllToolNames returns a list of all tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with the puzzle tools registered.
func NewServer(orc *hunt.Orchestrator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"huntbot",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(orc)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(orc *hunt.Orchestrator, version string) error {
	s := NewServer(orc, version)
	return server.ServeStdio(s)
}
