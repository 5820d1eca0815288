package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLog(t *testing.T) {
	// Just verify it doesn't panic
	Log(&Settings{Transport: "sse", Host: "localhost", Port: 8080, Auth: AuthSettings{Type: AuthTypeNone}})
}

func TestLogWithLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     []string
		absent   []string
	}{
		{
			name:     "stdio transport",
			settings: Settings{Transport: "stdio", Host: "localhost", Port: 8080, Auth: AuthSettings{Type: AuthTypeNone}},
			want:     []string{"Config: transport", "value=stdio"},
			absent:   []string{"Config: host", "Config: port"},
		},
		{
			name:     "sse transport",
			settings: Settings{Transport: "sse", Host: "localhost", Port: 8080, Auth: AuthSettings{Type: AuthTypeNone}},
			want:     []string{"Config: host", "value=localhost", "Config: port", "value=8080"},
		},
		{
			name: "basic auth masks password",
			settings: Settings{Transport: "stdio", Auth: AuthSettings{
				Type:  AuthTypeBasic,
				Basic: BasicAuthSettings{Username: "admin", Password: "secret"},
			}},
			want:   []string{"admin", "****"},
			absent: []string{"secret"},
		},
		{
			name: "api keys are counted",
			settings: Settings{Transport: "stdio", Auth: AuthSettings{
				Type:    AuthTypeAPIKey,
				APIKeys: []string{"key1", "key2", "key3"},
			}},
			want:   []string{"count=3"},
			absent: []string{"key1"},
		},
		{
			name: "context without watch",
			settings: Settings{Transport: "stdio", Auth: AuthSettings{Type: AuthTypeNone}, Context: ContextSettings{
				Repositories: []string{"/src/project"},
				Revision:     "main",
				MaxDepth:     3,
			}},
			want:   []string{"context.repositories", "/src/project", "context.revision", "value=main", "context.max_depth", "value=3", "context.default_excludes"},
			absent: []string{"watch_debounce", "exclude_patterns"},
		},
		{
			name: "context with watch and excludes",
			settings: Settings{Transport: "stdio", Auth: AuthSettings{Type: AuthTypeNone}, Context: ContextSettings{
				ExcludePatterns: []string{"*.gen.ts"},
				Watch:           true,
				WatchDebounce:   250 * time.Millisecond,
			}},
			want: []string{"context.exclude_patterns", "*.gen.ts", "context.watch_debounce", "250ms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			LogWithLogger(&tt.settings, slog.New(slog.NewTextHandler(&buf, nil)))

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in log output, got: %s", want, output)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(output, absent) {
					t.Errorf("Expected no %q in log output, got: %s", absent, output)
				}
			}
		})
	}
}

// groupAttrs flattens a group value into key -> rendered value.
func groupAttrs(v slog.Value) map[string]string {
	attrs := make(map[string]string)
	for _, a := range v.Group() {
		attrs[a.Key] = a.Value.Resolve().String()
	}
	return attrs
}

func TestSettingsLogValue(t *testing.T) {
	val := SettingsLogValue(Settings{
		Transport: "sse",
		Host:      "localhost",
		Port:      8080,
		Auth:      AuthSettings{Type: AuthTypeAPIKey, APIKeys: []string{"key1"}},
		Context:   ContextSettings{Revision: "HEAD", MaxDepth: 4},
	})
	if val.Kind() != slog.KindGroup {
		t.Fatalf("Expected group kind, got %v", val.Kind())
	}

	attrs := groupAttrs(val)
	for _, key := range []string{"transport", "host", "port", "auth", "context"} {
		if _, ok := attrs[key]; !ok {
			t.Errorf("Expected %q attribute", key)
		}
	}
	if strings.Contains(attrs["auth"], "key1") {
		t.Errorf("API key should be masked, got %s", attrs["auth"])
	}
}

func TestAuthSettingsLogValue(t *testing.T) {
	val := AuthSettingsLogValue(AuthSettings{
		Type:    AuthTypeAPIKey,
		APIKeys: []string{"key1", "key2"},
		Basic:   BasicAuthSettings{Username: "user", Password: "pass"},
	})

	attrs := groupAttrs(val)
	if attrs["type"] != AuthTypeAPIKey {
		t.Errorf("Expected type %q, got %q", AuthTypeAPIKey, attrs["type"])
	}
	if attrs["api_keys"] != "[**** ****]" {
		t.Errorf("Expected masked keys, got %q", attrs["api_keys"])
	}
}

func TestBasicAuthSettingsLogValue(t *testing.T) {
	attrs := groupAttrs(BasicAuthSettingsLogValue(BasicAuthSettings{Username: "admin", Password: "secret"}))
	if attrs["username"] != "admin" {
		t.Errorf("Expected username 'admin', got %q", attrs["username"])
	}
	if attrs["password"] != "****" {
		t.Errorf("Expected masked password, got %q", attrs["password"])
	}
}

func TestContextSettingsLogValue(t *testing.T) {
	attrs := groupAttrs(ContextSettingsLogValue(ContextSettings{Revision: "HEAD", MaxDepth: 4, Watch: true}))
	if attrs["revision"] != "HEAD" || attrs["max_depth"] != "4" || attrs["watch"] != "true" {
		t.Errorf("Unexpected attributes: %v", attrs)
	}
}
