package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")

	RegisterContextFlags(flags)
	flags.StringSliceP("repositories", "r", nil, "Repository paths to index at startup (comma-separated)")
	flags.BoolP("watch", "w", false, "Re-index repositories when HEAD or a branch ref changes")
	flags.Duration("watch-debounce", 0, "Delay before re-indexing after a ref change")
	flags.Int("max-results", 0, "Maximum number of symbol search results")
	flags.Int("max-parallel-builds", 0, "Maximum number of repositories indexed concurrently")
}

// RegisterContextFlags registers the flags shared by the server and the
// one-shot index and context commands.
func RegisterContextFlags(flags *pflag.FlagSet) {
	flags.String("revision", "", "Revision to index (default HEAD)")
	flags.IntP("max-depth", "d", 0, "Maximum number of related-definition hops")
	flags.Int64("max-file-size", 0, "Skip files larger than this many bytes (0 for no limit)")
	flags.StringSlice("exclude-patterns", nil, "Gitignore-style exclude patterns (comma-separated)")
	flags.Bool("default-excludes", false, "Also exclude dependency, build output, generated and binary paths")
	flags.Int("blob-cache-size", 0, "Number of decoded files kept in memory")
}
