package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jonathan/content-pipeline/internal/types"
)

// MCP identity and paths
const (
	MCPServerName    = "Content Pipeline"
	MCPServerVersion = "1.0.0"
	MCPBasePath      = "/mcp"
	ToolGenerate     = "generate_blog_post"
)

func (s *Server) newMCPServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		MCPServerName,
		MCPServerVersion,
		mcpserver.WithToolCapabilities(true),
	)

	srv.AddTool(
		mcp.NewTool(
			ToolGenerate,
			mcp.WithDescription("Turn a product requirements document into a researched, fact-checked and polished blog post"),
			mcp.WithString("prd", mcp.Required(), mcp.Description("The product requirements document")),
			mcp.WithBoolean("html", mcp.Description("Also return the post rendered as HTML")),
		),
		s.handleGenerateTool,
	)

	return srv
}

// mountMCP serves the MCP SSE transport under MCPBasePath
func (s *Server) mountMCP(mux *http.ServeMux) {
	sseServer := mcpserver.NewSSEServer(s.mcp, mcpserver.WithStaticBasePath(MCPBasePath))
	// the SSE stream carries every response of the session
	mux.Handle(MCPBasePath+"/sse", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.extendWriteDeadline(w, 0)
		sseServer.ServeHTTP(w, r)
	}))
	mux.Handle(MCPBasePath+"/message", sseServer)
}

// toolResult is the text payload of a successful tool call
type toolResult struct {
	RunID string `json:"runId"`
	*types.GenerateResponse
}

// handleGenerateTool runs the pipeline for an MCP tool call.
// Failures are returned as tool errors with the same opaque message the HTTP API uses.
func (s *Server) handleGenerateTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prd, err := request.RequireString("prd")
	if err != nil || strings.TrimSpace(prd) == "" {
		return mcp.NewToolResultError("Missing required parameter: prd"), nil
	}
	html := request.GetBool("html", false)

	runID := uuid.New()
	resp, err := s.generate(ctx, runID, prd, html, nil)
	if err != nil {
		s.logger.Error("blog post generation failed", "run_id", runID.String(), "error", err, "transport", "mcp")
		return mcp.NewToolResultError(GenerateFailedMessage), nil
	}

	jsonBytes, err := json.Marshal(toolResult{RunID: runID.String(), GenerateResponse: resp})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
