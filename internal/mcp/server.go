package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-symctx-server/internal/gitrepos"
)

const instructions = "Call revision_did_change when the checked out revision of a repository changes, " +
	"then context_at_position with the document text and cursor to get the definitions the code around the cursor depends on."

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	Service *gitrepos.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	if cfg.Service != nil {
		gitrepos.RegisterContextTool(s, cfg.Service)
		gitrepos.RegisterRevisionTool(s, cfg.Service)
		gitrepos.RegisterSearchTool(s, cfg.Service)
		gitrepos.RegisterReadTool(s, cfg.Service)
		gitrepos.RegisterStatusTool(s, cfg.Service)
	}

	return s
}
