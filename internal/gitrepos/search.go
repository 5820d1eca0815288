package gitrepos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/symbols"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

const (
	// MaxBatchSize is the maximum number of documents per batch
	MaxBatchSize = 500

	// nameBoost ranks exact name matches above prefix and fuzzy ones
	nameBoost = 5.0
)

// SymbolHit is one search result.
type SymbolHit struct {
	Location string  `json:"location"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	FilePath string  `json:"file_path"`
	Language string  `json:"language"`
	Kind     string  `json:"kind"`
	Line     int     `json:"line"`
	Score    float64 `json:"score"`
}

// SearchOptions narrows a symbol search.
type SearchOptions struct {
	Location string
	Language string
	Limit    int
}

// CreateIndexMapping creates the Bleve index mapping for symbol documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Name - analyzed so that camel-case parts and case differences match
	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = standard.Name
	nameField.Store = true
	docMapping.AddFieldMappingsAt(domain.SymbolFieldName, nameField)

	for _, field := range []string{
		domain.SymbolFieldLocation,
		domain.SymbolFieldSymbol,
		domain.SymbolFieldFilePath,
		domain.SymbolFieldLanguage,
		domain.SymbolFieldKind,
	} {
		keywordField := bleve.NewTextFieldMapping()
		keywordField.Analyzer = keyword.Name
		keywordField.Store = true
		docMapping.AddFieldMappingsAt(field, keywordField)
	}

	lineField := bleve.NewNumericFieldMapping()
	lineField.Index = false
	lineField.Store = true
	docMapping.AddFieldMappingsAt(domain.SymbolFieldLine, lineField)

	// ID - stored but not indexed (we use the document ID)
	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.SymbolFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// symbolDocuments returns one search document per definition in idx.
func symbolDocuments(location string, idx *symbols.Index) []domain.SymbolDocument {
	var docs []domain.SymbolDocument
	idx.Each(func(id domain.ContentID, path string, dc *symbols.DocumentContext) {
		for _, occ := range dc.Document.Occurrences {
			if occ.SymbolRoles&int32(scip.SymbolRole_Definition) == 0 || len(occ.Range) == 0 {
				continue
			}
			name, err := symbols.SimpleName(occ.Symbol)
			if err != nil {
				continue
			}
			kind := scip.SymbolInformation_UnspecifiedKind
			if info, ok := dc.SymbolInfo(occ.Symbol); ok {
				kind = info.Kind
			}
			line := int(occ.Range[0])
			docs = append(docs, domain.SymbolDocument{
				ID:       fmt.Sprintf("%s/%s/%d", id, occ.Symbol, line),
				Location: location,
				Name:     name,
				Symbol:   occ.Symbol,
				FilePath: path,
				Language: dc.Language.Name(),
				Kind:     kind.String(),
				Line:     line,
			})
		}
	})
	return docs
}

// buildSearchIndex creates an in-memory search index over the definitions
// of idx.
func buildSearchIndex(ctx context.Context, location string, idx *symbols.Index) (index bleve.Index, err error) {
	index, err = bleve.NewMemOnly(CreateIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	defer func() {
		if err != nil {
			_ = index.Close()
			index = nil
		}
	}()

	batch := index.NewBatch()
	for _, doc := range symbolDocuments(location, idx) {
		if err := batch.Index(doc.ID, doc); err != nil {
			slog.Debug("Skipping search document", "id", doc.ID, "error", err)
			continue
		}
		if batch.Size() >= MaxBatchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := index.Batch(batch); err != nil {
				return nil, fmt.Errorf("batch index failed: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	// Flush remaining batch
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return nil, fmt.Errorf("final batch index failed: %w", err)
		}
	}

	return index, nil
}

// buildSearchQuery constructs a Bleve query from search arguments.
func buildSearchQuery(queryStr string, opts SearchOptions) query.Query {
	term := strings.ToLower(strings.TrimSpace(queryStr))

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField(domain.SymbolFieldName)
	matchQuery.SetBoost(nameBoost)

	prefixQuery := bleve.NewPrefixQuery(term)
	prefixQuery.SetField(domain.SymbolFieldName)

	fuzzyQuery := bleve.NewFuzzyQuery(term)
	fuzzyQuery.SetField(domain.SymbolFieldName)
	fuzzyQuery.SetFuzziness(1)

	symbolQuery := bleve.NewTermQuery(queryStr)
	symbolQuery.SetField(domain.SymbolFieldSymbol)
	symbolQuery.SetBoost(nameBoost)

	searchQuery := bleve.NewDisjunctionQuery(matchQuery, prefixQuery, fuzzyQuery, symbolQuery)

	if opts.Location == "" && opts.Language == "" {
		return searchQuery
	}

	must := []query.Query{searchQuery}

	if opts.Location != "" {
		locationQuery := bleve.NewTermQuery(opts.Location)
		locationQuery.SetField(domain.SymbolFieldLocation)
		must = append(must, locationQuery)
	}

	if opts.Language != "" {
		languageQuery := bleve.NewTermQuery(strings.ToLower(opts.Language))
		languageQuery.SetField(domain.SymbolFieldLanguage)
		must = append(must, languageQuery)
	}

	return bleve.NewConjunctionQuery(must...)
}

// searchSymbols runs a symbol query against index.
func searchSymbols(ctx context.Context, index bleve.Index, queryStr string, opts SearchOptions) ([]SymbolHit, uint64, error) {
	req := bleve.NewSearchRequest(buildSearchQuery(queryStr, opts))
	req.Size = opts.Limit
	req.Fields = []string{
		domain.SymbolFieldLocation,
		domain.SymbolFieldName,
		domain.SymbolFieldSymbol,
		domain.SymbolFieldFilePath,
		domain.SymbolFieldLanguage,
		domain.SymbolFieldKind,
		domain.SymbolFieldLine,
	}

	results, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SymbolHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := SymbolHit{Score: hit.Score}
		h.Location, _ = hit.Fields[domain.SymbolFieldLocation].(string)
		h.Name, _ = hit.Fields[domain.SymbolFieldName].(string)
		h.Symbol, _ = hit.Fields[domain.SymbolFieldSymbol].(string)
		h.FilePath, _ = hit.Fields[domain.SymbolFieldFilePath].(string)
		h.Language, _ = hit.Fields[domain.SymbolFieldLanguage].(string)
		h.Kind, _ = hit.Fields[domain.SymbolFieldKind].(string)
		if line, ok := hit.Fields[domain.SymbolFieldLine].(float64); ok {
			h.Line = int(line)
		}
		hits = append(hits, h)
	}
	return hits, results.Total, nil
}
