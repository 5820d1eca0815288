package gitrepos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgument is empty; the tool takes no parameters.
type StatusArgument struct{}

// StatusHandler handles the index_status MCP tool.
type StatusHandler struct {
	service *Service
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(service *Service) *StatusHandler {
	return &StatusHandler{
		service: service,
	}
}

// Handle returns the state of every known repository as JSON.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgument) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(h.service.Status(), "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to encode status: %s", err)), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *StatusHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "index_status",
		Description: "Show the indexed revision, file and definition counts, and last error of every known repository",
	}
}

// RegisterStatusTool registers the status tool with an MCP server.
func RegisterStatusTool(server *mcp.Server, service *Service) {
	handler := NewStatusHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
