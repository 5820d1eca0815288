package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-symctx-server/internal/auth"
	"github.com/sha1n/mcp-symctx-server/internal/config"
	"github.com/sha1n/mcp-symctx-server/internal/gitrepos"
)

// ServerHandle bundles an MCP server with the service behind its tools.
type ServerHandle struct {
	Server *mcp.Server
	// Service is nil when the server runs without a context service.
	Service *gitrepos.Service
	Close   func()
}

type readiness struct {
	Ready        bool                 `json:"ready"`
	Active       string               `json:"active,omitempty"`
	Repositories []gitrepos.RepoState `json:"repositories"`
	Errors       map[string]string    `json:"errors,omitempty"`
}

// StartSSEServer starts the HTTP server with authentication
func StartSSEServer(h *ServerHandle, settings *config.Settings) error {
	srv, err := NewSSEServer(h, settings)
	if err != nil {
		return err
	}

	slog.Info("Server listening (HTTP)", "addr", srv.Addr, "auth_type", settings.Auth.Type)
	return srv.ListenAndServe()
}

// NewSSEServer creates the HTTP server. It serves the legacy SSE transport on
// /sse, the streamable transport on /mcp, and unauthenticated liveness and
// readiness checks.
func NewSSEServer(h *ServerHandle, settings *config.Settings) (*http.Server, error) {
	// Every session shares one server instance
	getServer := func(r *http.Request) *mcp.Server {
		return h.Server
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ready", readyHandler(h.Service))
	mux.Handle("/sse", mcp.NewSSEHandler(getServer, nil))
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(getServer, nil))

	authMiddleware, err := auth.NewMiddleware(settings.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth middleware: %w", err)
	}

	handler := authMiddleware(mux)
	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)

	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}, nil
}

// readyHandler reports 200 once a repository index is active, 503 before.
func readyHandler(svc *gitrepos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := readiness{Repositories: []gitrepos.RepoState{}}
		if svc != nil {
			body.Active = svc.ActiveLocation()
			body.Ready = body.Active != ""
			body.Repositories = svc.Status()
			body.Errors = svc.Errors()
		}

		status := http.StatusOK
		if !body.Ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Debug("Failed to write readiness response", "error", err)
		}
	}
}
