package grammar

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/textrange"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

func TestValidateAll(t *testing.T) {
	if err := ValidateAll(); err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want *Language
	}{
		{"src/greet.ts", TypeScript},
		{"src/App.TSX", TSX},
		{"lib/index.mjs", JavaScript},
		{"cmd/main.go", Go},
		{"pkg/mod.py", Python},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ForPath(tt.path)
			if !ok {
				t.Fatalf("ForPath(%q) found no language", tt.path)
			}
			if got != tt.want {
				t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}

	for _, path := range []string{"README.md", "Makefile", "data.json"} {
		if _, ok := ForPath(path); ok {
			t.Errorf("ForPath(%q) unexpectedly found a language", path)
		}
	}
}

func TestByName(t *testing.T) {
	lang, ok := ByName(" TypeScript ")
	if !ok || lang != TypeScript {
		t.Errorf("ByName(TypeScript) = %v, %v", lang, ok)
	}
	if _, ok := ByName("cobol"); ok {
		t.Error("Expected unknown language lookup to fail")
	}
	for _, lang := range All() {
		if got, ok := ByName(lang.Name()); !ok || got != lang {
			t.Errorf("ByName(%s) = %v, %v", lang.Name(), got, ok)
		}
	}
}

func TestSeedIdentifiers_TypeScript(t *testing.T) {
	ctx := context.Background()
	content := "const msg = greet(user);\n"

	tests := []struct {
		name    string
		cursor  textrange.Position
		want    []string
		notWant []string
	}{
		{
			name:    "on call target",
			cursor:  textrange.Position{Line: 0, Character: 14},
			want:    []string{"greet"},
			notWant: []string{"msg", "user"},
		},
		{
			name:    "inside call arguments",
			cursor:  textrange.Position{Line: 0, Character: 19},
			want:    []string{"greet", "user"},
			notWant: []string{"msg"},
		},
		{
			name:    "on declared name",
			cursor:  textrange.Position{Line: 0, Character: 7},
			want:    []string{"msg"},
			notWant: []string{"greet", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TypeScript.SeedIdentifiers(ctx, content, tt.cursor)
			if err != nil {
				t.Fatalf("SeedIdentifiers failed: %v", err)
			}
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("SeedIdentifiers = %v, missing %q", got, w)
				}
			}
			for _, nw := range tt.notWant {
				if slices.Contains(got, nw) {
					t.Errorf("SeedIdentifiers = %v, unexpectedly contains %q", got, nw)
				}
			}
		})
	}
}

func TestSeedIdentifiers_WhitespaceOnly(t *testing.T) {
	got, err := TypeScript.SeedIdentifiers(context.Background(), "   \n\t\n", textrange.Position{Line: 1, Character: 0})
	if err != nil {
		t.Fatalf("SeedIdentifiers failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SeedIdentifiers = %v, want none", got)
	}
}

func TestSeedIdentifiers_Go(t *testing.T) {
	content := "package main\n\nfunc run() {\n\tserve(NewStore())\n}\n"
	got, err := Go.SeedIdentifiers(context.Background(), content, textrange.Position{Line: 3, Character: 8})
	if err != nil {
		t.Fatalf("SeedIdentifiers failed: %v", err)
	}
	if !slices.Contains(got, "NewStore") || !slices.Contains(got, "serve") {
		t.Errorf("SeedIdentifiers = %v, want serve and NewStore", got)
	}
}

func TestRelatedIdentifiers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		lang      *Language
		content   string
		declRange textrange.Range
		want      []string
	}{
		{
			name:      "typescript type alias",
			lang:      TypeScript,
			content:   "type A = B;\n",
			declRange: textrange.New(0, 5, 0, 6),
			want:      []string{"B"},
		},
		{
			name:      "typescript function",
			lang:      TypeScript,
			content:   "function greet(p: Person): Greeting {\n  return format(p.name);\n}\n",
			declRange: textrange.New(0, 9, 0, 14),
			want:      []string{"Person", "Greeting", "format"},
		},
		{
			name:      "typescript class heritage",
			lang:      TypeScript,
			content:   "class Dog extends Animal implements Pet {}\n",
			declRange: textrange.New(0, 6, 0, 9),
			want:      []string{"Animal", "Pet"},
		},
		{
			name:      "javascript class heritage",
			lang:      JavaScript,
			content:   "class Dog extends Animal {}\n",
			declRange: textrange.New(0, 6, 0, 9),
			want:      []string{"Animal"},
		},
		{
			name:      "go struct fields",
			lang:      Go,
			content:   "package main\n\ntype Server struct {\n\tstore *Store\n\tcfg   Config\n}\n",
			declRange: textrange.New(2, 5, 2, 11),
			want:      []string{"Store", "Config"},
		},
		{
			name:      "go function signature",
			lang:      Go,
			content:   "package main\n\nfunc NewServer(cfg Config) *Server {\n\treturn nil\n}\n",
			declRange: textrange.New(2, 5, 2, 14),
			want:      []string{"Config", "Server"},
		},
		{
			name:      "python superclass",
			lang:      Python,
			content:   "class Dog(Animal):\n    pass\n",
			declRange: textrange.New(0, 6, 0, 9),
			want:      []string{"Animal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lang.RelatedIdentifiers(ctx, tt.content, tt.declRange)
			if err != nil {
				t.Fatalf("RelatedIdentifiers failed: %v", err)
			}
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("RelatedIdentifiers = %v, missing %q", got, w)
				}
			}
		})
	}
}

func TestRelatedIdentifiers_NonMatchingRange(t *testing.T) {
	got, err := TypeScript.RelatedIdentifiers(context.Background(), "type A = B;\n", textrange.New(0, 5, 0, 7))
	if err != nil {
		t.Fatalf("RelatedIdentifiers failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("RelatedIdentifiers = %v, want none", got)
	}
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TypeScript.SeedIdentifiers(ctx, "const a = 1;\n", textrange.Position{})
	if err == nil {
		// Small inputs may finish before the parser observes cancellation.
		t.Skip("parser completed before cancellation was observed")
	}
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestQueryError(t *testing.T) {
	broken := &Language{
		name:          "broken",
		grammar:       TypeScript.grammar,
		cursorSource:  "(no_such_node) @identifier",
		relatedSource: typeScriptRelatedQuery,
		tagsSource:    typeScriptTagsQuery,
	}

	_, err := broken.SeedIdentifiers(context.Background(), "a", textrange.Position{})
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("Expected QueryError, got %v", err)
	}
	if qe.Query != QueryCursorContext {
		t.Errorf("QueryError.Query = %q, want %q", qe.Query, QueryCursorContext)
	}
	if !errors.Is(err, domain.ErrQuery) {
		t.Error("Expected error to match ErrQuery")
	}

	// The failure is sticky.
	if _, err := broken.RelatedIdentifiers(context.Background(), "a", textrange.Range{}); !errors.Is(err, domain.ErrQuery) {
		t.Errorf("Expected sticky ErrQuery, got %v", err)
	}
}

func findOccurrence(doc *scip.Document, symbol string) *scip.Occurrence {
	for _, occ := range doc.Occurrences {
		if occ.Symbol == symbol && occ.SymbolRoles&int32(scip.SymbolRole_Definition) != 0 {
			return occ
		}
	}
	return nil
}

func findInfo(doc *scip.Document, symbol string) *scip.SymbolInformation {
	for _, info := range doc.Symbols {
		if info.Symbol == symbol {
			return info
		}
	}
	return nil
}

func TestSymbolize_TypeScript(t *testing.T) {
	content := "class Greeter {\n  greet(name: string): string {\n    return name;\n  }\n}\n\ntype Alias = Greeter;\n"

	doc, err := NewSymbolizer().Symbolize(context.Background(), TypeScript, "src/greeter.ts", content)
	if err != nil {
		t.Fatalf("Symbolize failed: %v", err)
	}
	if doc.RelativePath != "src/greeter.ts" || doc.Language != "TypeScript" {
		t.Errorf("Unexpected document header: %q %q", doc.RelativePath, doc.Language)
	}

	tests := []struct {
		symbol    string
		kind      scip.SymbolInformation_Kind
		nameRange textrange.Range
		enclosing textrange.Range
	}{
		{SymbolScheme + "Greeter#", scip.SymbolInformation_Class, textrange.New(0, 6, 0, 13), textrange.New(0, 0, 4, 1)},
		{SymbolScheme + "Greeter#greet().", scip.SymbolInformation_Method, textrange.New(1, 2, 1, 7), textrange.New(1, 2, 3, 3)},
		{SymbolScheme + "Alias#", scip.SymbolInformation_TypeAlias, textrange.New(6, 5, 6, 10), textrange.New(6, 0, 6, 21)},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			occ := findOccurrence(doc, tt.symbol)
			if occ == nil {
				t.Fatalf("No definition occurrence for %q", tt.symbol)
			}
			r, err := textrange.FromSCIP(occ.Range)
			if err != nil || !r.Equal(tt.nameRange) {
				t.Errorf("Range = %v (%v), want %s", occ.Range, err, tt.nameRange)
			}
			enc, err := textrange.FromSCIP(occ.EnclosingRange)
			if err != nil || !enc.Equal(tt.enclosing) {
				t.Errorf("EnclosingRange = %v (%v), want %s", occ.EnclosingRange, err, tt.enclosing)
			}
			info := findInfo(doc, tt.symbol)
			if info == nil {
				t.Fatalf("No symbol information for %q", tt.symbol)
			}
			if info.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", info.Kind, tt.kind)
			}
		})
	}

	var refs int
	for _, occ := range doc.Occurrences {
		if occ.SymbolRoles == 0 {
			refs++
			if len(occ.EnclosingRange) != 0 {
				t.Errorf("Reference %q has an enclosing range", occ.Symbol)
			}
		}
	}
	if refs == 0 {
		t.Error("Expected reference occurrences")
	}
}

func TestSymbolize_PythonMethodNesting(t *testing.T) {
	content := "class Repo:\n    def load(self):\n        pass\n\ndef main():\n    pass\n"

	doc, err := NewSymbolizer().Symbolize(context.Background(), Python, "repo.py", content)
	if err != nil {
		t.Fatalf("Symbolize failed: %v", err)
	}

	if info := findInfo(doc, SymbolScheme+"Repo#load()."); info == nil || info.Kind != scip.SymbolInformation_Method {
		t.Errorf("Expected Repo#load(). as a method, got %v", info)
	}
	if info := findInfo(doc, SymbolScheme+"main()."); info == nil || info.Kind != scip.SymbolInformation_Function {
		t.Errorf("Expected main(). as a function, got %v", info)
	}
}

func TestSymbolize_GoDeclarations(t *testing.T) {
	content := "package store\n\nconst Limit = 10\n\ntype Store struct{}\n\nfunc (s *Store) Get() {}\n\nfunc New() *Store { return nil }\n"

	doc, err := NewSymbolizer().Symbolize(context.Background(), Go, "store.go", content)
	if err != nil {
		t.Fatalf("Symbolize failed: %v", err)
	}

	for _, symbol := range []string{"Limit.", "Store#", "Get().", "New()."} {
		if findOccurrence(doc, SymbolScheme+symbol) == nil {
			t.Errorf("Missing definition %q", symbol)
		}
	}
}

func TestSymbolize_ToleratesSyntaxErrors(t *testing.T) {
	doc, err := NewSymbolizer().Symbolize(context.Background(), TypeScript, "broken.ts", "function ok() {}\nfunction (\n")
	if err != nil {
		t.Fatalf("Symbolize failed: %v", err)
	}
	if findOccurrence(doc, SymbolScheme+"ok().") == nil {
		t.Error("Expected the well-formed declaration to survive")
	}
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"simple_Name1", "simple_Name1"},
		{"$el", "$el"},
		{"has space", "`has space`"},
		{"tick`", "`tick```"},
		{"", "``"},
	}

	for _, tt := range tests {
		if got := escapeName(tt.in); got != tt.want {
			t.Errorf("escapeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSymbolStrings_Parse(t *testing.T) {
	for _, symbol := range []string{SymbolScheme + "Greeter#greet().", SymbolScheme + "`has space`."} {
		parsed, err := scip.ParseSymbol(symbol)
		if err != nil {
			t.Fatalf("ParseSymbol(%q) failed: %v", symbol, err)
		}
		if len(parsed.Descriptors) == 0 {
			t.Errorf("ParseSymbol(%q) returned no descriptors", symbol)
		}
	}
}
