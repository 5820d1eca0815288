package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sha1n/mcp-symctx-server/internal/app"
	"github.com/sha1n/mcp-symctx-server/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "symctx-mcp"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := newRootCommand(version, programName)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

func newRootCommand(version, programName string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     programName,
		Short:   "Symbol context MCP server",
		Long:    "MCP server that resolves the definitions reachable from a cursor position in a git repository",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithFlags(cmd.Flags(), version)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(newIndexCommand(), newContextCommand())

	return rootCmd
}

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <repository>",
		Short: "Index a repository once and print build statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadCommandSettings(cmd.Flags())
			if err != nil {
				return err
			}
			return app.RunIndex(cmd.Context(), settings, args[0], cmd.OutOrStdout())
		},
	}
	app.RegisterContextFlags(cmd.Flags())
	return cmd
}

func newContextCommand() *cobra.Command {
	var query app.ContextQuery

	cmd := &cobra.Command{
		Use:   "context <repository>",
		Short: "Print the definitions reachable from a position in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadCommandSettings(cmd.Flags())
			if err != nil {
				return err
			}
			return app.RunContext(cmd.Context(), settings, args[0], query, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&query.File, "file", "f", "", "File to read the cursor content from, relative to the repository")
	flags.IntVarP(&query.Line, "line", "l", 0, "Zero-based cursor line")
	flags.IntVarP(&query.Character, "character", "c", 0, "Zero-based cursor column in bytes")
	_ = cmd.MarkFlagRequired("file")
	app.RegisterContextFlags(flags)
	return cmd
}

func loadCommandSettings(flags *pflag.FlagSet) (*config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.ConfigureLogging(slog.LevelWarn)
	return settings, nil
}

func runWithFlags(flags *pflag.FlagSet, version string) error {
	return app.RunWithDeps(context.Background(), app.DefaultRunParams(), flags, version)
}
