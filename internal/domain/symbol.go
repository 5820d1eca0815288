package domain

// SymbolDocument represents a symbol definition in the in-memory search index.
type SymbolDocument struct {
	// ID is unique per definition.
	// Format: "<content id>/<symbol>"
	ID string `json:"id"`

	// Location is the repository location the definition was indexed from.
	Location string `json:"location"`

	// Name is the simple name of the symbol (last descriptor).
	Name string `json:"name"`

	// Symbol is the full symbol string.
	Symbol string `json:"symbol"`

	// FilePath is the path of the defining file within the revision.
	FilePath string `json:"file_path"`

	// Language is the language name the file was parsed as.
	Language string `json:"language"`

	// Kind is the symbol kind, e.g. "Function", "Class".
	Kind string `json:"kind"`

	// Line is the zero-based line of the definition name.
	Line int `json:"line"`
}

// Bleve field name constants for consistent field references in queries and mappings.
const (
	SymbolFieldID       = "id"
	SymbolFieldLocation = "location"
	SymbolFieldName     = "name"
	SymbolFieldSymbol   = "symbol"
	SymbolFieldFilePath = "file_path"
	SymbolFieldLanguage = "language"
	SymbolFieldKind     = "kind"
	SymbolFieldLine     = "line"
)
