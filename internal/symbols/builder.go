package symbols

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/gitstore"
	"github.com/sha1n/mcp-symctx-server/internal/grammar"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// ContentStore returns blob text by content id.
type ContentStore interface {
	ReadText(id domain.ContentID) (string, error)
}

// TreeEnumerator lists every entry reachable from a revision, breadth-first.
type TreeEnumerator interface {
	Entries(ctx context.Context) ([]gitstore.TreeEntry, error)
}

// Symbolizer converts one source file into a SCIP document.
type Symbolizer interface {
	Symbolize(ctx context.Context, lang *grammar.Language, path, content string) (*scip.Document, error)
}

// RevisionError is returned when the revision cannot be traversed.
type RevisionError struct {
	Err error
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("%s: %v", domain.ErrRevision, e.Err)
}

func (e *RevisionError) Unwrap() []error {
	return []error{domain.ErrRevision, e.Err}
}

// Build indexes every supported text file reachable from tree. Files that
// cannot be read or symbolized are skipped; a query compile failure or a
// cancelled context aborts the build.
func Build(ctx context.Context, tree TreeEnumerator, store ContentStore, symbolizer Symbolizer, filter *FileFilter) (*Index, error) {
	start := time.Now()

	entries, err := tree.Entries(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &RevisionError{Err: err}
	}

	idx := NewIndex()
	skip := func(e gitstore.TreeEntry, reason SkipReason, err error) {
		idx.stats.Skipped[reason]++
		if err != nil {
			slog.Debug("Skipping file", "path", e.Path, "reason", reason, "error", err)
		}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Kind == gitstore.KindTree {
			continue
		}
		idx.stats.Entries++

		if e.Kind != gitstore.KindBlob {
			skip(e, SkipNotBlob, nil)
			continue
		}
		if filter != nil && filter.ShouldExclude(e.Path) {
			skip(e, SkipExcluded, nil)
			continue
		}
		if filter != nil && filter.TooLarge(e.Size) {
			skip(e, SkipTooLarge, nil)
			continue
		}

		lang, ok := grammar.ForPath(e.Path)
		if !ok {
			skip(e, SkipUnsupported, nil)
			continue
		}
		if _, ok := idx.documents[e.ID]; ok {
			skip(e, SkipDuplicate, nil)
			continue
		}

		text, err := store.ReadText(e.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotText) {
				skip(e, SkipNotText, err)
			} else {
				skip(e, SkipUnreadable, err)
			}
			continue
		}
		if filter != nil && filter.TooLarge(int64(len(text))) {
			skip(e, SkipTooLarge, nil)
			continue
		}

		doc, err := symbolizer.Symbolize(ctx, lang, e.Path, text)
		if err != nil {
			if errors.Is(err, domain.ErrQuery) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			skip(e, SkipSymbolize, err)
			continue
		}

		idx.Insert(e.ID, e.Path, lang, doc)
		idx.stats.Bytes += int64(len(text))
	}

	idx.stats.Duration = time.Since(start)
	return idx, nil
}
