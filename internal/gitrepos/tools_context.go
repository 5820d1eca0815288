package gitrepos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-symctx-server/internal/textrange"
)

// ContextArgument defines context-at-position parameters.
type ContextArgument struct {
	Content   string `json:"content" jsonschema_description:"Full text of the document being edited"`
	Line      int    `json:"line" jsonschema_description:"Zero-based cursor line"`
	Character int    `json:"character" jsonschema_description:"Zero-based cursor column in bytes"`
	URI       string `json:"uri,omitempty" jsonschema_description:"Document URI, used to infer the language from its extension"`
	Language  string `json:"language,omitempty" jsonschema_description:"Language name (typescript, tsx, javascript, go, python); overrides the URI"`
	Location  string `json:"location,omitempty" jsonschema_description:"Repository path or file URI; defaults to the active repository"`
	MaxDepth  *int   `json:"max_depth,omitempty" jsonschema_description:"Maximum number of related-definition hops from the cursor"`
}

// ContextHandler handles the context_at_position MCP tool.
type ContextHandler struct {
	service *Service
}

// NewContextHandler creates a new context handler.
func NewContextHandler(service *Service) *ContextHandler {
	return &ContextHandler{
		service: service,
	}
}

// Handle resolves the definitions around the cursor and returns them as JSON.
func (h *ContextHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ContextArgument) (*mcp.CallToolResult, any, error) {
	resp, err := h.service.ContextAtPosition(ctx, ContextRequest{
		Location: args.Location,
		URI:      args.URI,
		Language: args.Language,
		Content:  args.Content,
		Position: textrange.Position{Line: args.Line, Character: args.Character},
		MaxDepth: args.MaxDepth,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Context resolution failed: %s", err)), nil, nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to encode response: %s", err)), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ContextHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "context_at_position",
		Description: "Return source snippets of the definitions referenced around a cursor position, following related types and calls across the indexed repository",
	}
}

// RegisterContextTool registers the context tool with an MCP server.
func RegisterContextTool(server *mcp.Server, service *Service) {
	handler := NewContextHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// errorResult wraps msg in an error tool result.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
