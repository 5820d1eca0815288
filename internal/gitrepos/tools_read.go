package gitrepos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/grammar"
)

// ReadArgument defines read parameters.
type ReadArgument struct {
	Path     string `json:"path" jsonschema_description:"File path relative to repository root"`
	Location string `json:"location,omitempty" jsonschema_description:"Repository path; defaults to the active repository"`
}

// ReadHandler handles the read_file MCP tool.
type ReadHandler struct {
	service *Service
}

// NewReadHandler creates a new read handler.
func NewReadHandler(service *Service) *ReadHandler {
	return &ReadHandler{
		service: service,
	}
}

// Handle reads a file at the indexed revision and returns formatted content.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Path) == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}

	file, err := h.service.ReadFile(args.Location, args.Path)
	switch {
	case errors.Is(err, ErrNotReady):
		return errorResult("Read is not available. No repository has been indexed yet."), nil, nil
	case errors.Is(err, domain.ErrNotFound):
		return errorResult(fmt.Sprintf("File not found: %s", args.Path)), nil, nil
	case errors.Is(err, domain.ErrNotText):
		return errorResult("Cannot display binary file content"), nil, nil
	case err != nil:
		return errorResult(fmt.Sprintf("Failed to read file: %s", err)), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**File**: `%s`\n", file.Path)
	fmt.Fprintf(&sb, "**Repository**: %s\n", file.Location)
	fmt.Fprintf(&sb, "**Commit**: %s\n", shortCommit(file.Commit))
	fmt.Fprintf(&sb, "**Size**: %d bytes\n\n", len(file.Content))
	fmt.Fprintf(&sb, "```%s\n%s\n```", fenceLanguage(file.Path), file.Content)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, nil, nil
}

// fenceLanguage returns the code fence hint for path, or "" when unknown.
func fenceLanguage(path string) string {
	if lang, ok := grammar.ForPath(path); ok {
		return lang.Name()
	}
	return ""
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "read_file",
		Description: "Read a file from the indexed revision of a repository",
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, service *Service) {
	handler := NewReadHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
