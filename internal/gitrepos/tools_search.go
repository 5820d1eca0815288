package gitrepos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query    string `json:"query" jsonschema_description:"Symbol name or name prefix; close misspellings also match"`
	Language string `json:"language,omitempty" jsonschema_description:"Filter by language (typescript, tsx, javascript, go, python)"`
	Location string `json:"location,omitempty" jsonschema_description:"Filter by repository path; all indexed repositories are searched by default"`
}

// SearchHandler handles the search_symbols MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	hits, total, err := h.service.SearchSymbols(ctx, args.Query, SearchOptions{
		Location: args.Location,
		Language: args.Language,
	})
	switch {
	case errors.Is(err, ErrNotReady):
		return errorResult("Search is not available. No repository has been indexed yet."), nil, nil
	case errors.Is(err, ErrEmptyQuery):
		return errorResult("Query cannot be empty"), nil, nil
	case err != nil:
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}

	return h.formatResults(hits, total, args.Query), nil, nil
}

// formatResults formats search hits for MCP response.
func (h *SearchHandler) formatResults(hits []SymbolHit, total uint64, queryStr string) *mcp.CallToolResult {
	if total == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("No symbols found for query: %s", queryStr)},
			},
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d symbols for '%s':\n\n", total, queryStr)

	for i, hit := range hits {
		fmt.Fprintf(&sb, "### %d. %s (%s)\n", i+1, hit.Name, hit.Kind)
		fmt.Fprintf(&sb, "**Location**: %s:%s:%d\n", LocationName(hit.Location), hit.FilePath, hit.Line+1)
		fmt.Fprintf(&sb, "**Symbol**: `%s`\n", hit.Symbol)
		fmt.Fprintf(&sb, "**Score**: %.4f\n\n", hit.Score)
	}

	if total > uint64(len(hits)) {
		fmt.Fprintf(&sb, "... and %d more results\n", total-uint64(len(hits)))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_symbols",
		Description: "Search symbol definitions by name across indexed repositories",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
