package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sha1n/mcp-symctx-server/internal/gitstore"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_InvalidTransport(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"--transport", "invalid"})
	if err == nil {
		t.Error("Expected error for invalid transport")
	}
	if !strings.Contains(err.Error(), "transport") {
		t.Errorf("Expected error about transport, got: %v", err)
	}
}

func TestExecute_InvalidMaxDepth(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"--max-depth", "-1"})
	if err == nil {
		t.Fatal("Expected error for negative max depth")
	}
	if !strings.Contains(err.Error(), "max-depth") {
		t.Errorf("Expected error about max-depth, got: %v", err)
	}
}

func TestIndexCommand(t *testing.T) {
	dir := t.TempDir()
	gitstore.InitRepo(t, dir, map[string]string{"a.ts": "type A = number;\n"})

	var out bytes.Buffer
	cmd := newRootCommand("1.0.0", "symctx-mcp")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"index", dir})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if !strings.Contains(out.String(), "Definitions: 1") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestIndexCommand_MissingArgument(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"index"})
	if err == nil {
		t.Error("Expected error when repository argument is missing")
	}
}

func TestContextCommand(t *testing.T) {
	dir := t.TempDir()
	gitstore.InitRepo(t, dir, map[string]string{
		"types.ts": "type A = B;\ntype B = number;\n",
	})
	if err := os.WriteFile(filepath.Join(dir, "main.ts"), []byte("let x: A;\n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCommand("1.0.0", "symctx-mcp")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"context", dir, "-f", "main.ts", "-l", "0", "-c", "7", "-d", "1"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("context failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "A#") {
		t.Errorf("Expected A# in output:\n%s", text)
	}
	if strings.Contains(text, "B#") {
		t.Errorf("Expected depth 1 to exclude B#:\n%s", text)
	}
}

func TestContextCommand_RequiresFile(t *testing.T) {
	err := Execute("1.0.0", "abc123", "symctx-mcp", []string{"context", t.TempDir()})
	if err == nil {
		t.Error("Expected error when --file is missing")
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"symctx-mcp", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"symctx-mcp", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
