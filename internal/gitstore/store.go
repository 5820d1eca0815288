// Package gitstore reads revisions and blob content from a git repository.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
)

// DefaultCacheSize is the number of decoded blobs kept in memory.
const DefaultCacheSize = 2048

// binarySniffLen is how many leading bytes are checked for NUL.
const binarySniffLen = 512

// Revision is a resolved commit and its root tree.
type Revision struct {
	Name   string
	Commit plumbing.Hash
	Tree   plumbing.Hash
}

// Store serves blob text by content id. Decoded text is cached; blobs are
// immutable so cache entries never go stale.
type Store struct {
	repo  *gogit.Repository
	cache *lru.Cache[domain.ContentID, string]
}

// Open opens the repository containing path. A path inside the work tree
// or the .git directory itself are both accepted.
func Open(path string, cacheSize int) (*Store, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return New(repo, cacheSize)
}

// New wraps an already opened repository.
func New(repo *gogit.Repository, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[domain.ContentID, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob cache: %w", err)
	}
	return &Store{repo: repo, cache: cache}, nil
}

// Resolve resolves a revision expression such as "HEAD" or a branch name.
func (s *Store) Resolve(rev string) (Revision, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return Revision{}, fmt.Errorf("%w: resolve %s: %v", domain.ErrRevision, rev, err)
	}
	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return Revision{}, fmt.Errorf("%w: commit %s: %v", domain.ErrRevision, hash, err)
	}
	return Revision{Name: rev, Commit: commit.Hash, Tree: commit.TreeHash}, nil
}

// ReadText returns the content of a blob as text.
func (s *Store) ReadText(id domain.ContentID) (string, error) {
	if text, ok := s.cache.Get(id); ok {
		return text, nil
	}

	blob, err := s.repo.BlobObject(plumbing.Hash(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return "", fmt.Errorf("blob %s: %w", id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("blob %s: %w", id, err)
	}

	r, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("blob %s: %w", id, err)
	}
	defer func() { _ = r.Close() }()

	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("blob %s: %w", id, err)
	}
	if IsBinary(content) || !utf8.Valid(content) {
		return "", fmt.Errorf("blob %s: %w", id, domain.ErrNotText)
	}

	text := string(content)
	s.cache.Add(id, text)
	return text, nil
}

// ReadPath returns the text of the file at path in rev.
func (s *Store) ReadPath(rev Revision, path string) (string, error) {
	tree, err := s.repo.TreeObject(rev.Tree)
	if err != nil {
		return "", fmt.Errorf("%w: tree %s: %v", domain.ErrRevision, rev.Tree, err)
	}
	entry, err := tree.FindEntry(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if !entry.Mode.IsFile() {
		return "", fmt.Errorf("%s is not a file: %w", path, domain.ErrNotFound)
	}
	return s.ReadText(domain.ContentID(entry.Hash))
}

// IsBinary checks if the content appears to be binary by looking for null bytes
// in the first 512 bytes. This is a heuristic used by git and other tools.
func IsBinary(content []byte) bool {
	checkLen := min(len(content), binarySniffLen)

	for i := range checkLen {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
