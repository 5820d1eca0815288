package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sha1n/mcp-symctx-server/internal/config"
	"github.com/sha1n/mcp-symctx-server/internal/gitrepos"
	"github.com/sha1n/mcp-symctx-server/internal/textrange"
)

// ContextQuery is a one-shot context request against a file on disk.
type ContextQuery struct {
	File      string
	Line      int
	Character int
	MaxDepth  *int
}

// RunIndex indexes location once and writes build statistics to out.
func RunIndex(ctx context.Context, settings *config.Settings, location string, out io.Writer) error {
	svc, err := gitrepos.NewService(&settings.Context)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	state, err := svc.RevisionDidChange(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", location, err)
	}

	fmt.Fprintf(out, "Location:    %s\n", state.Location)
	fmt.Fprintf(out, "Revision:    %s (%s)\n", state.Revision, state.Commit)
	fmt.Fprintf(out, "Files:       %d\n", state.FilesIndexed)
	fmt.Fprintf(out, "Definitions: %d\n", state.Definitions)
	fmt.Fprintf(out, "Names:       %d\n", state.Names)
	fmt.Fprintf(out, "Size:        %s\n", state.Bytes)
	fmt.Fprintf(out, "Duration:    %s\n", state.Duration)

	reasons := make([]string, 0, len(state.Skipped))
	for reason := range state.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(out, "Skipped:     %s=%d\n", reason, state.Skipped[reason])
	}
	return nil
}

// RunContext indexes location, resolves the context at a position of a
// file read from disk, and writes the JSON response to out. A relative
// file path is taken relative to location.
func RunContext(ctx context.Context, settings *config.Settings, location string, q ContextQuery, out io.Writer) error {
	svc, err := gitrepos.NewService(&settings.Context)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	state, err := svc.RevisionDidChange(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", location, err)
	}

	path := q.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(state.Location, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", q.File, err)
	}

	resp, err := svc.ContextAtPosition(ctx, gitrepos.ContextRequest{
		URI:      "file://" + filepath.ToSlash(path),
		Content:  string(content),
		Position: textrange.Position{Line: q.Line, Character: q.Character},
		MaxDepth: q.MaxDepth,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
