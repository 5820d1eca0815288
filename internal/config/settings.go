package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable the server reads.
const EnvPrefix = "SYMCTX_MCP"

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ContextSettings configuration for symbol indexing and context resolution
type ContextSettings struct {
	Repositories      []string      `mapstructure:"repositories"`
	Revision          string        `mapstructure:"revision"`
	MaxDepth          int           `mapstructure:"max_depth"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	MaxResults        int           `mapstructure:"max_results"`
	ExcludePatterns   []string      `mapstructure:"exclude_patterns"`
	DefaultExcludes   bool          `mapstructure:"default_excludes"`
	Watch             bool          `mapstructure:"watch"`
	WatchDebounce     time.Duration `mapstructure:"watch_debounce"`
	BlobCacheSize     int           `mapstructure:"blob_cache_size"`
	MaxParallelBuilds int           `mapstructure:"max_parallel_builds"`
}

// Settings application settings
type Settings struct {
	Transport string          `mapstructure:"transport"`
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	Auth      AuthSettings    `mapstructure:"auth"`
	Context   ContextSettings `mapstructure:"context"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Context defaults
	v.SetDefault("context.revision", "HEAD")
	v.SetDefault("context.max_depth", 4)
	v.SetDefault("context.max_file_size", int64(0)) // unlimited
	v.SetDefault("context.default_excludes", false)
	v.SetDefault("context.max_results", 20)
	v.SetDefault("context.watch", false)
	v.SetDefault("context.watch_debounce", 500*time.Millisecond)
	v.SetDefault("context.blob_cache_size", 2048)
	v.SetDefault("context.max_parallel_builds", 2)

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", EnvPrefix+"_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", EnvPrefix+"_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", EnvPrefix+"_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", EnvPrefix+"_AUTH_API_KEYS")

	// Context env var bindings
	_ = v.BindEnv("context.repositories", EnvPrefix+"_CONTEXT_REPOSITORIES")
	_ = v.BindEnv("context.revision", EnvPrefix+"_CONTEXT_REVISION")
	_ = v.BindEnv("context.max_depth", EnvPrefix+"_CONTEXT_MAX_DEPTH")
	_ = v.BindEnv("context.max_file_size", EnvPrefix+"_CONTEXT_MAX_FILE_SIZE")
	_ = v.BindEnv("context.max_results", EnvPrefix+"_CONTEXT_MAX_RESULTS")
	_ = v.BindEnv("context.exclude_patterns", EnvPrefix+"_CONTEXT_EXCLUDE_PATTERNS")
	_ = v.BindEnv("context.default_excludes", EnvPrefix+"_CONTEXT_DEFAULT_EXCLUDES")
	_ = v.BindEnv("context.watch", EnvPrefix+"_CONTEXT_WATCH")
	_ = v.BindEnv("context.watch_debounce", EnvPrefix+"_CONTEXT_WATCH_DEBOUNCE")
	_ = v.BindEnv("context.blob_cache_size", EnvPrefix+"_CONTEXT_BLOB_CACHE_SIZE")
	_ = v.BindEnv("context.max_parallel_builds", EnvPrefix+"_CONTEXT_MAX_PARALLEL_BUILDS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Context CLI flags
		_ = v.BindPFlag("context.repositories", flags.Lookup("repositories"))
		_ = v.BindPFlag("context.revision", flags.Lookup("revision"))
		_ = v.BindPFlag("context.max_depth", flags.Lookup("max-depth"))
		_ = v.BindPFlag("context.max_file_size", flags.Lookup("max-file-size"))
		_ = v.BindPFlag("context.max_results", flags.Lookup("max-results"))
		_ = v.BindPFlag("context.exclude_patterns", flags.Lookup("exclude-patterns"))
		_ = v.BindPFlag("context.default_excludes", flags.Lookup("default-excludes"))
		_ = v.BindPFlag("context.watch", flags.Lookup("watch"))
		_ = v.BindPFlag("context.watch_debounce", flags.Lookup("watch-debounce"))
		_ = v.BindPFlag("context.blob_cache_size", flags.Lookup("blob-cache-size"))
		_ = v.BindPFlag("context.max_parallel_builds", flags.Lookup("max-parallel-builds"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Auth.APIKeys = splitListEnv(settings.Auth.APIKeys, EnvPrefix+"_AUTH_API_KEYS")
	settings.Context.Repositories = splitListEnv(settings.Context.Repositories, EnvPrefix+"_CONTEXT_REPOSITORIES")
	settings.Context.ExcludePatterns = splitListEnv(settings.Context.ExcludePatterns, EnvPrefix+"_CONTEXT_EXCLUDE_PATTERNS")

	// Filter out empty entries
	settings.Context.Repositories = filterEmptyStrings(settings.Context.Repositories)
	settings.Context.ExcludePatterns = filterEmptyStrings(settings.Context.ExcludePatterns)

	// Expand home directory in repository paths
	for i, repo := range settings.Context.Repositories {
		settings.Context.Repositories[i] = expandHomeDir(repo)
	}

	return &settings, nil
}

// splitListEnv handles a list provided via env var as a comma-separated
// string, which viper leaves as a single element. Entries are trimmed.
func splitListEnv(values []string, envKey string) []string {
	if raw := os.Getenv(envKey); raw != "" {
		if len(values) == 0 || (len(values) == 1 && strings.Contains(values[0], ",")) {
			values = strings.Split(raw, ",")
		}
	}
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return values
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// filterEmptyStrings removes empty strings from a slice
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete auth config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	if err := validateContextSettings(&s.Context); err != nil {
		return err
	}

	return nil
}

// validateContextSettings validates the indexing and resolution configuration
func validateContextSettings(c *ContextSettings) error {
	if c.MaxDepth < 0 {
		return errors.New("max-depth cannot be negative")
	}

	if c.MaxFileSize < 0 {
		return errors.New("max-file-size cannot be negative")
	}

	if c.MaxResults <= 0 {
		return errors.New("max-results must be positive")
	}

	if c.BlobCacheSize <= 0 {
		return errors.New("blob-cache-size must be positive")
	}

	if c.MaxParallelBuilds <= 0 {
		return errors.New("max-parallel-builds must be positive")
	}

	if c.Watch && c.WatchDebounce <= 0 {
		return errors.New("watch-debounce must be positive when watch is enabled")
	}

	if strings.TrimSpace(c.Revision) == "" {
		return errors.New("revision cannot be empty")
	}

	return nil
}
