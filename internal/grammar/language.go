// Package grammar binds tree-sitter grammars to the queries used for
// cursor context, related identifiers and symbol tagging.
package grammar

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Capture names shared by all query sources.
const (
	CaptureIdentifier = "identifier"
	CaptureRange      = "range"
	CaptureName       = "name"
	CaptureRelated    = "related"
	CaptureReference  = "reference"

	definitionCapturePrefix = "definition."
)

// Query kinds, used in errors.
const (
	QueryCursorContext  = "cursor-context"
	QueryRelatedSibling = "related-sibling"
	QueryTags           = "tags"
)

// Language is one supported grammar together with its query sources.
// The set is closed: use the package level values.
type Language struct {
	name       string
	scipName   string
	extensions []string
	grammar    *sitter.Language

	cursorSource  string
	relatedSource string
	tagsSource    string

	once     sync.Once
	compiled compiledQueries
	err      error
}

type compiledQueries struct {
	cursor  *sitter.Query
	related *sitter.Query
	tags    *sitter.Query
}

var (
	TypeScript = &Language{
		name:          "typescript",
		scipName:      "TypeScript",
		extensions:    []string{".ts", ".mts", ".cts"},
		grammar:       typescript.GetLanguage(),
		cursorSource:  typeScriptCursorQuery,
		relatedSource: typeScriptRelatedQuery,
		tagsSource:    typeScriptTagsQuery,
	}
	TSX = &Language{
		name:          "tsx",
		scipName:      "TypeScriptReact",
		extensions:    []string{".tsx"},
		grammar:       tsx.GetLanguage(),
		cursorSource:  typeScriptCursorQuery,
		relatedSource: typeScriptRelatedQuery,
		tagsSource:    typeScriptTagsQuery,
	}
	JavaScript = &Language{
		name:          "javascript",
		scipName:      "JavaScript",
		extensions:    []string{".js", ".mjs", ".cjs", ".jsx"},
		grammar:       javascript.GetLanguage(),
		cursorSource:  javaScriptCursorQuery,
		relatedSource: javaScriptRelatedQuery,
		tagsSource:    javaScriptTagsQuery,
	}
	Go = &Language{
		name:          "go",
		scipName:      "Go",
		extensions:    []string{".go"},
		grammar:       golang.GetLanguage(),
		cursorSource:  goCursorQuery,
		relatedSource: goRelatedQuery,
		tagsSource:    goTagsQuery,
	}
	Python = &Language{
		name:          "python",
		scipName:      "Python",
		extensions:    []string{".py", ".pyi"},
		grammar:       python.GetLanguage(),
		cursorSource:  pythonCursorQuery,
		relatedSource: pythonRelatedQuery,
		tagsSource:    pythonTagsQuery,
	}
)

var languages = []*Language{TypeScript, TSX, JavaScript, Go, Python}

// extToLanguage maps lower case file extensions to languages.
var extToLanguage = func() map[string]*Language {
	m := make(map[string]*Language)
	for _, lang := range languages {
		for _, ext := range lang.extensions {
			m[ext] = lang
		}
	}
	return m
}()

// Name returns the language identifier, e.g. "typescript".
func (l *Language) Name() string {
	return l.name
}

// SCIPName returns the language name recorded on SCIP documents.
func (l *Language) SCIPName() string {
	return l.scipName
}

// Extensions returns the file extensions mapped to the language.
func (l *Language) Extensions() []string {
	return slices.Clone(l.extensions)
}

func (l *Language) String() string {
	return l.name
}

// ForPath returns the language for a file path based on its extension.
func ForPath(path string) (*Language, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ByName returns the language with the given identifier.
func ByName(name string) (*Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, lang := range languages {
		if lang.name == name {
			return lang, true
		}
	}
	return nil, false
}

// All returns every supported language.
func All() []*Language {
	return slices.Clone(languages)
}

// queries compiles the query sources on first use. A compile failure is
// remembered and returned on every later call.
func (l *Language) queries() (*compiledQueries, error) {
	l.once.Do(func() {
		compile := func(kind, source string) *sitter.Query {
			if l.err != nil {
				return nil
			}
			q, err := sitter.NewQuery([]byte(source), l.grammar)
			if err != nil {
				l.err = &QueryError{Language: l.name, Query: kind, Err: err}
				return nil
			}
			return q
		}
		l.compiled.cursor = compile(QueryCursorContext, l.cursorSource)
		l.compiled.related = compile(QueryRelatedSibling, l.relatedSource)
		l.compiled.tags = compile(QueryTags, l.tagsSource)
	})
	if l.err != nil {
		return nil, l.err
	}
	return &l.compiled, nil
}

// Validate compiles all queries of the language.
func (l *Language) Validate() error {
	_, err := l.queries()
	return err
}

// ValidateAll compiles the queries of every language.
func ValidateAll() error {
	for _, lang := range languages {
		if err := lang.Validate(); err != nil {
			return err
		}
	}
	return nil
}
