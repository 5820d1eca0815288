package gitstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
)

func newTestStore(t *testing.T, files map[string]string) (*Store, Revision) {
	t.Helper()

	store, err := New(NewMemoryRepo(t, files), 16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rev, err := store.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return store, rev
}

func TestStore_EntriesBreadthFirst(t *testing.T) {
	store, rev := newTestStore(t, map[string]string{
		"a/b/deep.ts": "export const deep = 1;\n",
		"a/mid.ts":    "export const mid = 1;\n",
		"top.ts":      "export const top = 1;\n",
	})

	entries, err := store.Entries(context.Background(), rev)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}

	order := make(map[string]int)
	for i, e := range entries {
		order[e.Path] = i
	}
	for _, p := range []string{"a", "a/b", "a/b/deep.ts", "a/mid.ts", "top.ts"} {
		if _, ok := order[p]; !ok {
			t.Fatalf("Entries missing %q: %v", p, entries)
		}
	}
	if order["top.ts"] > order["a/mid.ts"] || order["a/mid.ts"] > order["a/b/deep.ts"] {
		t.Errorf("Entries not breadth-first: %v", entries)
	}
	if entries[order["a"]].Kind != KindTree {
		t.Errorf("Kind(a) = %s, want tree", entries[order["a"]].Kind)
	}
	if entries[order["top.ts"]].Kind != KindBlob {
		t.Errorf("Kind(top.ts) = %s, want blob", entries[order["top.ts"]].Kind)
	}
}

func TestStore_ReadText(t *testing.T) {
	store, rev := newTestStore(t, map[string]string{
		"greet.ts": "export function greet() {}\n",
		"logo.bin": "PNG\x00\x01\x02",
		"copy.ts":  "export function greet() {}\n",
	})

	entries, err := store.Entries(context.Background(), rev)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	ids := make(map[string]domain.ContentID)
	for _, e := range entries {
		ids[e.Path] = e.ID
	}

	if ids["greet.ts"] != ids["copy.ts"] {
		t.Error("Expected identical content to share a content id")
	}

	text, err := store.ReadText(ids["greet.ts"])
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != "export function greet() {}\n" {
		t.Errorf("ReadText = %q", text)
	}

	// Served from cache the second time.
	again, err := store.ReadText(ids["greet.ts"])
	if err != nil || again != text {
		t.Errorf("cached ReadText = %q, %v", again, err)
	}

	if _, err := store.ReadText(ids["logo.bin"]); !errors.Is(err, domain.ErrNotText) {
		t.Errorf("ReadText(binary) error = %v, want ErrNotText", err)
	}

	var missing domain.ContentID
	missing[0] = 0xff
	if _, err := store.ReadText(missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ReadText(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ReadPath(t *testing.T) {
	store, rev := newTestStore(t, map[string]string{"src/app.py": "print('hi')\n"})

	text, err := store.ReadPath(rev, "src/app.py")
	if err != nil {
		t.Fatalf("ReadPath failed: %v", err)
	}
	if text != "print('hi')\n" {
		t.Errorf("ReadPath = %q", text)
	}

	if _, err := store.ReadPath(rev, "src/missing.py"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ReadPath(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ResolveUnknownRevision(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"a.ts": "a\n"})

	if _, err := store.Resolve("no-such-branch"); !errors.Is(err, domain.ErrRevision) {
		t.Errorf("Resolve error = %v, want ErrRevision", err)
	}

	if _, err := store.Entries(context.Background(), Revision{Tree: plumbing.NewHash("1234")}); !errors.Is(err, domain.ErrRevision) {
		t.Errorf("Entries error = %v, want ErrRevision", err)
	}
}

func TestStore_OpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	InitRepo(t, dir, map[string]string{"main.go": "package main\n"})

	store, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	rev, err := store.Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rev.Name != "HEAD" || rev.Commit.IsZero() {
		t.Errorf("Unexpected revision %+v", rev)
	}

	entries, err := store.Entries(context.Background(), rev)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Size != int64(len("package main\n")) {
		t.Errorf("Entries = %+v", entries)
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"text", []byte("hello"), false},
		{"empty", nil, false},
		{"nul early", []byte{'a', 0, 'b'}, true},
		{"nul after sniff window", append([]byte(strings.Repeat("a", 600)), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.content); got != tt.want {
				t.Errorf("IsBinary = %v, want %v", got, tt.want)
			}
		})
	}
}
