package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/hunt"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	orc *hunt.Orchestrator
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(orc *hunt.Orchestrator) *Handlers {
	return &Handlers{orc: orc}
}

// Request types for each tool

// AddRequest represents the arguments for puzzle_add.
type AddRequest struct {
	Title string `json:"title"`
	Round string `json:"round,omitempty"`
}

// RemoveRequest represents the arguments for puzzle_remove.
type RemoveRequest struct {
	Title string `json:"title"`
}

// RoundRequest represents the arguments for puzzle_round.
type RoundRequest struct {
	Name string `json:"name"`
}

// Handlers

func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}

	result, err := h.orc.Add(ctx, hunt.AddInput{Title: input.Title, Round: input.Round})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}

	result, err := h.orc.Remove(ctx, hunt.RemoveInput{Title: input.Title})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleRound(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RoundRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}

	result, err := h.orc.Round(ctx, hunt.RoundInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleRecount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.orc.Recount(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleVoiceCleanup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.orc.VoiceCleanup(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.orc.Board(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult converts an error into a structured MCP error payload. External
// errors keep their details out of the payload so upstream API messages do
// not leak to the caller.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if hErr, ok := err.(*errors.HuntError); ok {
		errorObj := map[string]any{
			"code":    hErr.Code,
			"message": hErr.Message,
			"status":  hErr.Status,
		}
		if hErr.Code != errors.ErrExternal && hErr.Details != nil {
			errorObj["details"] = hErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "EXTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
