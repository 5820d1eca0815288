package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-symctx-server/internal/config"
	"github.com/sha1n/mcp-symctx-server/internal/gitrepos"
	mcputil "github.com/sha1n/mcp-symctx-server/internal/mcp"
	"github.com/spf13/pflag"
)

// ServerName is the implementation name reported to MCP clients
const ServerName = "symctx-mcp"

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	StartSSEServer    func(*ServerHandle, *config.Settings) error
	CreateServer      func(*config.Settings) (*ServerHandle, error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:   config.LoadSettingsWithFlags,
		ValidSettings:  config.ValidateSettings,
		StartSSEServer: StartSSEServer,
		CreateServer:   CreateMCPServer,
	}
}

// ConfigureLogging installs the default logger. Always use stderr; stdout
// carries the stdio transport.
func ConfigureLogging(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// RunWithDeps executes the server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	// Load settings
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ConfigureLogging(slog.LevelInfo)

	slog.Info("Starting MCP symbol context server", "version", version)
	config.Log(settings)

	handle, err := params.CreateServer(settings)
	if err != nil {
		return err
	}
	if handle.Close != nil {
		defer handle.Close()
	}

	// Start server
	if settings.Transport == "stdio" {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return handle.Server.Run(ctx, transport)
	} else {
		slog.Info("Starting HTTP server", "host", settings.Host, "port", settings.Port)
		return params.StartSSEServer(handle, settings)
	}
}

// CreateMCPServer creates the service, indexes the configured repositories,
// optionally starts watching them, and registers the tools.
func CreateMCPServer(settings *config.Settings) (*ServerHandle, error) {
	svc, err := gitrepos.NewService(&settings.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create context service: %w", err)
	}

	// Index in background context (not tied to request context)
	ctx, cancel := context.WithCancel(context.Background())
	if err := svc.IndexAll(ctx, settings.Context.Repositories); err != nil {
		// Keep serving the repositories that did index
		slog.Error("Initial indexing incomplete", "error", err)
	}

	var watcher *gitrepos.Watcher
	if settings.Context.Watch && len(settings.Context.Repositories) > 0 {
		watcher, err = startWatcher(ctx, svc, settings.Context)
		if err != nil {
			slog.Error("Failed to start repository watcher", "error", err)
		}
	}

	closeAll := func() {
		cancel()
		if watcher != nil {
			if err := watcher.Close(); err != nil {
				slog.Error("Failed to close repository watcher", "error", err)
			}
		}
		if err := svc.Close(); err != nil {
			slog.Error("Failed to close context service", "error", err)
		}
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    ServerName,
		Version: "1.0.0",
		Service: svc,
	})

	return &ServerHandle{Server: server, Service: svc, Close: closeAll}, nil
}

func startWatcher(ctx context.Context, svc *gitrepos.Service, settings config.ContextSettings) (*gitrepos.Watcher, error) {
	watcher, err := gitrepos.NewWatcher(svc, settings.WatchDebounce)
	if err != nil {
		return nil, err
	}
	for _, repo := range settings.Repositories {
		if err := watcher.Add(repo); err != nil {
			slog.Warn("Not watching repository", "location", repo, "error", err)
		}
	}
	go watcher.Run(ctx)
	return watcher, nil
}
