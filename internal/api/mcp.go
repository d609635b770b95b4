package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/talentscout/scout/internal/storage"
)

// MCPStore abstracts the read-only storage operations the MCP layer needs.
type MCPStore interface {
	GetCandidate(id string) (storage.Candidate, error)
	ListCandidates(limit int) ([]storage.Candidate, error)
	CountCandidates() (int, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store MCPStore
}

// NewMCPServer creates an MCP server exposing read-only recruiter tools
// over the anonymized candidate store.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"scout",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("scout: anonymized candidate screening records collected by the TalentScout intake assistant."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_candidates",
			mcp.WithDescription("List anonymized candidate screening records, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 10)")),
		),
		mcpListCandidates(deps),
	)

	s.AddTool(
		mcp.NewTool("get_candidate",
			mcp.WithDescription("Fetch a single anonymized candidate record by ID."),
			mcp.WithString("id", mcp.Description("Candidate record ID"), mcp.Required()),
		),
		mcpGetCandidate(deps),
	)

	s.AddTool(
		mcp.NewTool("count_candidates",
			mcp.WithDescription("Return the total number of stored candidate records."),
		),
		mcpCountCandidates(deps),
	)

	return s
}

type mcpCandidate struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Record    map[string]string `json:"record"`
}

func toMCPCandidate(c storage.Candidate) mcpCandidate {
	return mcpCandidate{
		ID:        c.ID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		Record:    c.Record,
	}
}

func mcpListCandidates(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		candidates, err := deps.Store.ListCandidates(limit)
		if err != nil {
			return mcpError(fmt.Sprintf("listing candidates: %v", err)), nil
		}

		out := make([]mcpCandidate, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, toMCPCandidate(c))
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling candidates: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetCandidate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		c, err := deps.Store.GetCandidate(id)
		if err != nil {
			return mcpError(fmt.Sprintf("fetching candidate %s: %v", id, err)), nil
		}

		b, err := json.MarshalIndent(toMCPCandidate(c), "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling candidate: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCountCandidates(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := deps.Store.CountCandidates()
		if err != nil {
			return mcpError(fmt.Sprintf("counting candidates: %v", err)), nil
		}
		return mcpText(fmt.Sprintf(`{"count": %d}`, n)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
