// Package textrange models zero-based positions and ranges in source text
// and converts them to byte offsets.
package textrange

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/sha1n/mcp-symctx-server/internal/domain"
)

// Position is a zero-based line and character pair. Character counts
// bytes from the start of the line, matching tree-sitter columns.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Compare orders positions by line, then character.
func (p Position) Compare(o Position) int {
	return cmp.Or(cmp.Compare(p.Line, o.Line), cmp.Compare(p.Character, o.Character))
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// At returns the zero-length range at p.
func At(p Position) Range {
	return Range{Start: p, End: p}
}

// New builds a range from line and character pairs.
func New(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// FromSCIP decodes a packed SCIP range: [startLine, startChar, endChar] for
// single-line ranges or [startLine, startChar, endLine, endChar].
func FromSCIP(packed []int32) (Range, error) {
	switch len(packed) {
	case 3:
		return New(int(packed[0]), int(packed[1]), int(packed[0]), int(packed[2])), nil
	case 4:
		return New(int(packed[0]), int(packed[1]), int(packed[2]), int(packed[3])), nil
	default:
		return Range{}, fmt.Errorf("packed range must have 3 or 4 elements, got %d", len(packed))
	}
}

// SCIP encodes the range in packed SCIP form.
func (r Range) SCIP() []int32 {
	if r.Start.Line == r.End.Line {
		return []int32{int32(r.Start.Line), int32(r.Start.Character), int32(r.End.Character)}
	}
	return []int32{int32(r.Start.Line), int32(r.Start.Character), int32(r.End.Line), int32(r.End.Character)}
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return r.Start.Compare(o.Start) <= 0 && o.End.Compare(r.End) <= 0
}

// ContainsPosition reports whether p lies within r, ends included.
func (r Range) ContainsPosition(p Position) bool {
	return r.Contains(At(p))
}

// Equal reports whether both ends match.
func (r Range) Equal(o Range) bool {
	return r.Start == o.Start && r.End == o.End
}

// IsEmpty reports whether the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// ToByteSpan converts r to byte offsets into text.
func ToByteSpan(r Range, text string) (start, end int, err error) {
	if r.End.Compare(r.Start) < 0 {
		return 0, 0, fmt.Errorf("%w: %s ends before it starts", domain.ErrOutOfBounds, r)
	}

	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		offsets[i] = offset
		offset += len(line) + 1
	}

	resolve := func(p Position) (int, error) {
		if p.Line < 0 || p.Line >= len(lines) {
			return 0, fmt.Errorf("%w: line %d of %d", domain.ErrOutOfBounds, p.Line, len(lines))
		}
		if p.Character < 0 || p.Character > len(lines[p.Line]) {
			return 0, fmt.Errorf("%w: character %d of line %d with length %d", domain.ErrOutOfBounds, p.Character, p.Line, len(lines[p.Line]))
		}
		return offsets[p.Line] + p.Character, nil
	}

	if start, err = resolve(r.Start); err != nil {
		return 0, 0, err
	}
	if end, err = resolve(r.End); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Slice returns the text covered by r.
func Slice(r Range, text string) (string, error) {
	start, end, err := ToByteSpan(r, text)
	if err != nil {
		return "", err
	}
	return text[start:end], nil
}
