package config

import (
	"context"
	"log/slog"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: transport", "value", s.Transport)
	if s.Transport == "sse" {
		logger.InfoContext(ctx, "Config: host", "value", s.Host)
		logger.InfoContext(ctx, "Config: port", "value", s.Port)
	}

	logger.InfoContext(ctx, "Config: auth.type", "value", s.Auth.Type)
	switch s.Auth.Type {
	case AuthTypeBasic:
		logger.InfoContext(ctx, "Config: auth.basic.username", "value", s.Auth.Basic.Username)
		logger.InfoContext(ctx, "Config: auth.basic.password", "value", "****")
	case AuthTypeAPIKey:
		logger.InfoContext(ctx, "Config: auth.api_keys", "count", len(s.Auth.APIKeys))
	}

	c := s.Context
	logger.InfoContext(ctx, "Config: context.repositories", "value", c.Repositories)
	logger.InfoContext(ctx, "Config: context.revision", "value", c.Revision)
	logger.InfoContext(ctx, "Config: context.max_depth", "value", c.MaxDepth)
	logger.InfoContext(ctx, "Config: context.max_file_size", "value", c.MaxFileSize)
	logger.InfoContext(ctx, "Config: context.max_results", "value", c.MaxResults)
	if len(c.ExcludePatterns) > 0 {
		logger.InfoContext(ctx, "Config: context.exclude_patterns", "value", c.ExcludePatterns)
	}
	logger.InfoContext(ctx, "Config: context.default_excludes", "value", c.DefaultExcludes)
	logger.InfoContext(ctx, "Config: context.watch", "value", c.Watch)
	if c.Watch {
		logger.InfoContext(ctx, "Config: context.watch_debounce", "value", c.WatchDebounce)
	}
	logger.InfoContext(ctx, "Config: context.blob_cache_size", "value", c.BlobCacheSize)
	logger.InfoContext(ctx, "Config: context.max_parallel_builds", "value", c.MaxParallelBuilds)
}

// AuthSettingsLogValue returns a slog.Value for AuthSettings with masked data
func AuthSettingsLogValue(s AuthSettings) slog.Value {
	keys := make([]string, len(s.APIKeys))
	for i := range s.APIKeys {
		keys[i] = "****"
	}
	return slog.GroupValue(
		slog.String("type", s.Type),
		slog.Any("basic", BasicAuthSettingsLogValue(s.Basic)),
		slog.Any("api_keys", keys),
	)
}

// BasicAuthSettingsLogValue returns a slog.Value for BasicAuthSettings with masked data
func BasicAuthSettingsLogValue(s BasicAuthSettings) slog.Value {
	return slog.GroupValue(
		slog.String("username", s.Username),
		slog.String("password", "****"),
	)
}

// SettingsLogValue returns a slog.Value for Settings with masked data
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("transport", s.Transport),
		slog.String("host", s.Host),
		slog.Int("port", s.Port),
		slog.Any("auth", AuthSettingsLogValue(s.Auth)),
		slog.Any("context", ContextSettingsLogValue(s.Context)),
	)
}

// ContextSettingsLogValue returns a slog.Value for ContextSettings
func ContextSettingsLogValue(s ContextSettings) slog.Value {
	return slog.GroupValue(
		slog.Any("repositories", s.Repositories),
		slog.String("revision", s.Revision),
		slog.Int("max_depth", s.MaxDepth),
		slog.Int64("max_file_size", s.MaxFileSize),
		slog.Bool("default_excludes", s.DefaultExcludes),
		slog.Bool("watch", s.Watch),
	)
}
