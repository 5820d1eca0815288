package gitstore

import (
	"context"
	"fmt"
	"path"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
)

// EntryKind classifies a tree entry.
type EntryKind int

const (
	KindBlob EntryKind = iota
	KindTree
	KindSymlink
	KindSubmodule
)

func (k EntryKind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindSymlink:
		return "symlink"
	case KindSubmodule:
		return "submodule"
	default:
		return "unknown"
	}
}

// TreeEntry is one entry reachable from a revision.
type TreeEntry struct {
	Path string
	ID   domain.ContentID
	Kind EntryKind
	// Size is the blob size in bytes, or -1 when the storage cannot report it cheaply.
	Size int64
}

type objectSizer interface {
	EncodedObjectSize(plumbing.Hash) (int64, error)
}

// Entries lists every entry reachable from rev, breadth-first.
func (s *Store) Entries(ctx context.Context, rev Revision) ([]TreeEntry, error) {
	root, err := s.repo.TreeObject(rev.Tree)
	if err != nil {
		return nil, fmt.Errorf("%w: tree %s: %v", domain.ErrRevision, rev.Tree, err)
	}

	sizer, _ := s.repo.Storer.(objectSizer)
	sizeOf := func(h plumbing.Hash) int64 {
		if sizer == nil {
			return -1
		}
		size, err := sizer.EncodedObjectSize(h)
		if err != nil {
			return -1
		}
		return size
	}

	type pending struct {
		prefix string
		hash   plumbing.Hash
	}

	var entries []TreeEntry
	queue := []pending{{prefix: "", hash: root.Hash}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := queue[0]
		queue = queue[1:]

		tree, err := s.repo.TreeObject(cur.hash)
		if err != nil {
			return nil, fmt.Errorf("%w: tree %s at %q: %v", domain.ErrRevision, cur.hash, cur.prefix, err)
		}

		for _, e := range tree.Entries {
			p := path.Join(cur.prefix, e.Name)
			entry := TreeEntry{Path: p, ID: domain.ContentID(e.Hash), Size: -1}

			switch e.Mode {
			case filemode.Dir:
				entry.Kind = KindTree
				queue = append(queue, pending{prefix: p, hash: e.Hash})
			case filemode.Submodule:
				entry.Kind = KindSubmodule
			case filemode.Symlink:
				entry.Kind = KindSymlink
			default:
				entry.Kind = KindBlob
				entry.Size = sizeOf(e.Hash)
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Tree enumerates the entries of one revision.
type Tree struct {
	store *Store
	rev   Revision
}

// Tree binds the store to rev.
func (s *Store) Tree(rev Revision) *Tree {
	return &Tree{store: s, rev: rev}
}

// Entries lists every entry reachable from the revision, breadth-first.
func (t *Tree) Entries(ctx context.Context) ([]TreeEntry, error) {
	return t.store.Entries(ctx, t.rev)
}
