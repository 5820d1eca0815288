package domain

import (
	"cmp"
	"slices"
)

// SymbolContextSnippet is a piece of source attributed to a symbol.
// It is comparable so that result sets can deduplicate by value.
type SymbolContextSnippet struct {
	// FileName is the path of the file within the revision the snippet came from.
	FileName string `json:"fileName"`

	// Symbol is the full symbol string of the definition.
	Symbol string `json:"symbol"`

	// Content is the signature text or the enclosing source range.
	Content string `json:"content"`
}

// FileContextSnippet is a whole-file snippet. Responses currently never carry any.
type FileContextSnippet struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// ContextAtPositionResponse is the reply to a context-at-position request.
type ContextAtPositionResponse struct {
	Symbols []SymbolContextSnippet `json:"symbols"`
	Files   []FileContextSnippet   `json:"files"`
}

// NewContextAtPositionResponse wraps snippets in a response with a non-nil empty file list.
func NewContextAtPositionResponse(symbols []SymbolContextSnippet) ContextAtPositionResponse {
	if symbols == nil {
		symbols = []SymbolContextSnippet{}
	}
	return ContextAtPositionResponse{
		Symbols: symbols,
		Files:   []FileContextSnippet{},
	}
}

// SortSnippets orders snippets by file name, symbol and content.
func SortSnippets(snippets []SymbolContextSnippet) {
	slices.SortFunc(snippets, func(a, b SymbolContextSnippet) int {
		return cmp.Or(
			cmp.Compare(a.FileName, b.FileName),
			cmp.Compare(a.Symbol, b.Symbol),
			cmp.Compare(a.Content, b.Content),
		)
	})
}
