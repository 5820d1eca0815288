package gitstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// InitRepo creates a repository in dir and commits files to it.
// The helpers in this file are exported for use in tests of dependent packages.
func InitRepo(t testing.TB, dir string, files map[string]string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}
	CommitFiles(t, repo, files, "initial commit")
	return repo
}

// NewMemoryRepo creates an in-memory repository holding files in one commit.
func NewMemoryRepo(t testing.TB, files map[string]string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	CommitFiles(t, repo, files, "initial commit")
	return repo
}

// CommitFiles writes files into the work tree and commits all changes.
func CommitFiles(t testing.TB, repo *gogit.Repository, files map[string]string, msg string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}

	for name, content := range files {
		if dir := filepath.Dir(name); dir != "." {
			if err := wt.Filesystem.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("MkdirAll %s failed: %v", name, err)
			}
		}
		f, err := wt.Filesystem.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Write %s failed: %v", name, err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close %s failed: %v", name, err)
		}
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return hash
}
