package domain

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestContentID_String(t *testing.T) {
	const hexID = "0123456789abcdef0123456789abcdef01234567"

	var id ContentID
	if _, err := hex.Decode(id[:], []byte(hexID)); err != nil {
		t.Fatalf("Failed to decode fixture id: %v", err)
	}
	if id.String() != hexID {
		t.Errorf("String() = %q, want %q", id.String(), hexID)
	}
	if got := (ContentID{}).String(); got != strings.Repeat("0", 40) {
		t.Errorf("zero String() = %q", got)
	}
}

func TestContextAtPositionResponse_JSONShape(t *testing.T) {
	resp := NewContextAtPositionResponse([]SymbolContextSnippet{
		{FileName: "greet.ts", Symbol: "scip-ctags . . . greet().", Content: "function greet() {}"},
	})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	got := string(data)
	for _, want := range []string{`"symbols":[`, `"fileName":"greet.ts"`, `"symbol":"scip-ctags . . . greet()."`, `"files":[]`} {
		if !strings.Contains(got, want) {
			t.Errorf("Marshalled response %s missing %s", got, want)
		}
	}
}

func TestNewContextAtPositionResponse_NilSymbols(t *testing.T) {
	resp := NewContextAtPositionResponse(nil)
	if resp.Symbols == nil || resp.Files == nil {
		t.Fatal("Expected non-nil slices")
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	if string(data) != `{"symbols":[],"files":[]}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestSymbolContextSnippet_SetSemantics(t *testing.T) {
	a := SymbolContextSnippet{FileName: "a.ts", Symbol: "s", Content: "c"}
	b := SymbolContextSnippet{FileName: "a.ts", Symbol: "s", Content: "c"}

	set := map[SymbolContextSnippet]struct{}{a: {}, b: {}}
	if len(set) != 1 {
		t.Errorf("Expected structurally equal snippets to collapse, got %d", len(set))
	}
}

func TestSortSnippets(t *testing.T) {
	snippets := []SymbolContextSnippet{
		{FileName: "b.ts", Symbol: "x"},
		{FileName: "a.ts", Symbol: "z"},
		{FileName: "a.ts", Symbol: "y"},
	}
	SortSnippets(snippets)

	want := []string{"a.ts/y", "a.ts/z", "b.ts/x"}
	for i, s := range snippets {
		if got := s.FileName + "/" + s.Symbol; got != want[i] {
			t.Errorf("snippets[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{ErrNotFound, ErrNotText, ErrOutOfBounds, ErrParse, ErrQuery, ErrRevision}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v unexpectedly matches %v", a, b)
			}
		}
	}
}
