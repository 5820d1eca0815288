package gitrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RevisionArgument defines revision-change parameters.
type RevisionArgument struct {
	GitDirectoryURI string `json:"git_directory_uri" jsonschema_description:"Repository path, .git directory, or file URI whose revision changed"`
}

// RevisionHandler handles the revision_did_change MCP tool.
type RevisionHandler struct {
	service *Service
}

// NewRevisionHandler creates a new revision handler.
func NewRevisionHandler(service *Service) *RevisionHandler {
	return &RevisionHandler{
		service: service,
	}
}

// Handle rebuilds the index of the named repository and makes it active.
func (h *RevisionHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RevisionArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.GitDirectoryURI) == "" {
		return errorResult("git_directory_uri cannot be empty"), nil, nil
	}

	state, err := h.service.RevisionDidChange(ctx, args.GitDirectoryURI)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to index revision: %s", err)), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Indexed %s at %s (%s)\n", state.Location, state.Revision, shortCommit(state.Commit))
	fmt.Fprintf(&sb, "**Files**: %d\n", state.FilesIndexed)
	fmt.Fprintf(&sb, "**Definitions**: %d\n", state.Definitions)
	fmt.Fprintf(&sb, "**Size**: %s\n", state.Bytes)
	fmt.Fprintf(&sb, "**Duration**: %s\n", state.Duration)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *RevisionHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "revision_did_change",
		Description: "Notify the server that a repository's checked out revision changed; rebuilds its symbol index and makes it the active repository",
	}
}

// RegisterRevisionTool registers the revision tool with an MCP server.
func RegisterRevisionTool(server *mcp.Server, service *Service) {
	handler := NewRevisionHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
