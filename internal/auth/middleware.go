package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sha1n/mcp-symctx-server/internal/config"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
	realm        = `Basic realm="symctx-mcp"`
)

// excludedPaths are health endpoints that bypass authentication
var excludedPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// isExcludedPath checks if the request path should bypass authentication
func isExcludedPath(path string) bool {
	return excludedPaths[path]
}

// NewMiddleware creates a new authentication middleware based on settings
func NewMiddleware(settings config.AuthSettings) (func(http.Handler) http.Handler, error) {
	var check func(*http.Request) bool
	var challenge string

	switch settings.Type {
	case config.AuthTypeNone, "":
		return func(next http.Handler) http.Handler {
			return next
		}, nil
	case config.AuthTypeBasic:
		if settings.Basic.Username == "" || settings.Basic.Password == "" {
			return nil, fmt.Errorf("basic auth requires non-empty username and password")
		}
		check = basicAuthCheck(settings.Basic)
		challenge = realm
	case config.AuthTypeAPIKey:
		if len(settings.APIKeys) == 0 {
			return nil, fmt.Errorf("apikey auth requires at least one API key")
		}
		check = apiKeyCheck(settings.APIKeys)
	default:
		return nil, fmt.Errorf("unknown auth type: %s", settings.Type)
	}

	return guard(check, challenge), nil
}

// guard rejects requests to non-excluded paths that fail check.
func guard(check func(*http.Request) bool, challenge string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExcludedPath(r.URL.Path) || check(r) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Debug("Rejected unauthenticated request", "path", r.URL.Path, "remote", r.RemoteAddr)
			if challenge != "" {
				w.Header().Set("WWW-Authenticate", challenge)
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}

func basicAuthCheck(settings config.BasicAuthSettings) func(*http.Request) bool {
	return func(r *http.Request) bool {
		user, pass, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(settings.Username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(settings.Password)) == 1
		return ok && userMatch && passMatch
	}
}

func apiKeyCheck(apiKeys []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		key := requestAPIKey(r)
		if key == "" {
			return false
		}
		valid := false
		for _, validKey := range apiKeys {
			// No early exit, every key is compared.
			if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
				valid = true
			}
		}
		return valid
	}
}

// requestAPIKey reads the key from X-API-Key, falling back to a bearer token.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}
