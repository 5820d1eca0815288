// Package symbols builds and queries the in-memory symbol index of a revision.
package symbols

import (
	"bytes"
	"fmt"
	"slices"
	"sort"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/grammar"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// DocumentContext is a document plus a lookup from symbol string to its
// symbol information.
type DocumentContext struct {
	Document *scip.Document
	Language *grammar.Language
	symbols  map[string]int
}

// NewDocumentContext indexes the symbol information of doc.
func NewDocumentContext(doc *scip.Document, lang *grammar.Language) *DocumentContext {
	symbols := make(map[string]int, len(doc.Symbols))
	for i, info := range doc.Symbols {
		if _, ok := symbols[info.Symbol]; !ok {
			symbols[info.Symbol] = i
		}
	}
	return &DocumentContext{Document: doc, Language: lang, symbols: symbols}
}

// SymbolInfo returns the symbol information recorded for symbol.
func (d *DocumentContext) SymbolInfo(symbol string) (*scip.SymbolInformation, bool) {
	i, ok := d.symbols[symbol]
	if !ok {
		return nil, false
	}
	return d.Document.Symbols[i], true
}

// Signature returns the signature text of symbol, or "" when none is recorded.
func (d *DocumentContext) Signature(symbol string) string {
	info, ok := d.SymbolInfo(symbol)
	if !ok || info.SignatureDocumentation == nil {
		return ""
	}
	return info.SignatureDocumentation.Text
}

type nameKey struct {
	language string
	name     string
}

// Index maps simple names to the files that mention them. It is immutable
// once built and safe for concurrent readers.
type Index struct {
	documents map[domain.ContentID]*DocumentContext
	names     map[nameKey]map[domain.ContentID]struct{}
	paths     map[domain.ContentID]string
	stats     Stats
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		documents: make(map[domain.ContentID]*DocumentContext),
		names:     make(map[nameKey]map[domain.ContentID]struct{}),
		paths:     make(map[domain.ContentID]string),
		stats:     newStats(),
	}
}

// Insert records doc for content id at path. Content already indexed under
// another path keeps its first path. Returns false when id was already present.
func (idx *Index) Insert(id domain.ContentID, path string, lang *grammar.Language, doc *scip.Document) bool {
	if _, ok := idx.documents[id]; ok {
		return false
	}

	idx.paths[id] = path
	idx.documents[id] = NewDocumentContext(doc, lang)

	for _, occ := range doc.Occurrences {
		name, err := SimpleName(occ.Symbol)
		if err != nil {
			idx.stats.Skipped[SkipMalformedSym]++
			continue
		}
		key := nameKey{language: lang.Name(), name: name}
		set, ok := idx.names[key]
		if !ok {
			set = make(map[domain.ContentID]struct{})
			idx.names[key] = set
		}
		set[id] = struct{}{}
		idx.stats.Occurrences++
		if occ.SymbolRoles&int32(scip.SymbolRole_Definition) != 0 {
			idx.stats.Definitions++
		}
	}
	idx.stats.FilesIndexed++
	return true
}

// Candidates returns the content ids of files in lang that mention name,
// in ascending id order.
func (idx *Index) Candidates(lang *grammar.Language, name string) []domain.ContentID {
	set := idx.names[nameKey{language: lang.Name(), name: name}]
	ids := make([]domain.ContentID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b domain.ContentID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// Document returns the document indexed for id.
func (idx *Index) Document(id domain.ContentID) (*DocumentContext, bool) {
	doc, ok := idx.documents[id]
	return doc, ok
}

// Path returns the file path recorded for id.
func (idx *Index) Path(id domain.ContentID) (string, bool) {
	p, ok := idx.paths[id]
	return p, ok
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.documents)
}

// Names returns the number of distinct (language, name) keys.
func (idx *Index) Names() int {
	return len(idx.names)
}

// Stats returns the build statistics.
func (idx *Index) Stats() Stats {
	return idx.stats
}

// Each calls fn for every document in path order.
func (idx *Index) Each(fn func(id domain.ContentID, path string, doc *DocumentContext)) {
	ids := make([]domain.ContentID, 0, len(idx.documents))
	for id := range idx.documents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return idx.paths[ids[i]] < idx.paths[ids[j]]
	})
	for _, id := range ids {
		fn(id, idx.paths[id], idx.documents[id])
	}
}

// SimpleName returns the name of the last descriptor of symbol.
func SimpleName(symbol string) (string, error) {
	parsed, err := scip.ParseSymbol(symbol)
	if err != nil {
		return "", fmt.Errorf("invalid symbol %q: %w", symbol, err)
	}
	if len(parsed.Descriptors) == 0 {
		return "", fmt.Errorf("symbol %q has no descriptors", symbol)
	}
	return parsed.Descriptors[len(parsed.Descriptors)-1].Name, nil
}
