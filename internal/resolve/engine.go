// Package resolve expands the identifier under a cursor into source snippets
// of the definitions it refers to, following related identifiers up to a
// depth limit.
package resolve

import (
	"context"
	"log/slog"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/grammar"
	"github.com/sha1n/mcp-symctx-server/internal/symbols"
	"github.com/sha1n/mcp-symctx-server/internal/textrange"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// DefaultMaxDepth bounds the number of related hops from a seed identifier.
const DefaultMaxDepth = 4

// ContentStore returns blob text by content id.
type ContentStore interface {
	ReadText(id domain.ContentID) (string, error)
}

// Request is a single context-at-position query.
type Request struct {
	Language *grammar.Language
	Content  string
	Position textrange.Position
	MaxDepth int
}

// ContextAtPosition returns the deduplicated snippets for every definition
// reachable from the identifiers in scope at the cursor. Names are matched
// by simple name only, so unrelated definitions that share a name are
// included too.
func ContextAtPosition(ctx context.Context, idx *symbols.Index, store ContentStore, req Request) ([]domain.SymbolContextSnippet, error) {
	seeds, err := req.Language.SeedIdentifiers(ctx, req.Content, req.Position)
	if err != nil {
		return nil, err
	}

	r := &resolver{
		ctx:      ctx,
		idx:      idx,
		store:    store,
		lang:     req.Language,
		maxDepth: req.MaxDepth,
		snippets: make(map[domain.SymbolContextSnippet]struct{}),
		visited:  make(map[visit]struct{}),
	}
	for _, seed := range seeds {
		r.resolve(seed, 0)
	}

	result := make([]domain.SymbolContextSnippet, 0, len(r.snippets))
	for s := range r.snippets {
		result = append(result, s)
	}
	domain.SortSnippets(result)
	return result, nil
}

type visit struct {
	name  string
	depth int
}

type resolver struct {
	ctx      context.Context
	idx      *symbols.Index
	store    ContentStore
	lang     *grammar.Language
	maxDepth int
	snippets map[domain.SymbolContextSnippet]struct{}
	visited  map[visit]struct{}
}

// resolve adds the snippets of every definition named name and recurses
// into their related identifiers at depth+1. Expanding the same name at
// the same depth twice yields nothing new, so repeats are skipped.
func (r *resolver) resolve(name string, depth int) {
	if depth >= r.maxDepth {
		return
	}
	v := visit{name: name, depth: depth}
	if _, ok := r.visited[v]; ok {
		return
	}
	r.visited[v] = struct{}{}

	for _, id := range r.idx.Candidates(r.lang, name) {
		doc, ok := r.idx.Document(id)
		if !ok {
			continue
		}
		path, _ := r.idx.Path(id)
		source, err := r.store.ReadText(id)
		if err != nil {
			slog.Debug("Skipping candidate", "path", path, "error", err)
			continue
		}

		for _, occ := range doc.Document.Occurrences {
			r.resolveOccurrence(name, depth, doc, path, source, occ)
		}
	}
}

func (r *resolver) resolveOccurrence(name string, depth int, doc *symbols.DocumentContext, path, source string, occ *scip.Occurrence) {
	simple, err := symbols.SimpleName(occ.Symbol)
	if err != nil || simple != name {
		return
	}
	if len(occ.EnclosingRange) == 0 {
		return
	}
	enclosing, err := textrange.FromSCIP(occ.EnclosingRange)
	if err != nil || enclosing.IsEmpty() {
		return
	}

	content := doc.Signature(occ.Symbol)
	if content == "" {
		content, err = textrange.Slice(enclosing, source)
		if err != nil {
			slog.Debug("Skipping occurrence", "path", path, "symbol", occ.Symbol, "error", err)
			return
		}
	}
	r.snippets[domain.SymbolContextSnippet{FileName: path, Symbol: occ.Symbol, Content: content}] = struct{}{}

	nameRange, err := textrange.FromSCIP(occ.Range)
	if err != nil {
		return
	}
	related, err := r.lang.RelatedIdentifiers(r.ctx, source, nameRange)
	if err != nil {
		slog.Debug("Related query failed", "path", path, "error", err)
		return
	}
	for _, rel := range related {
		r.resolve(rel, depth+1)
	}
}
