package grammar

import (
	"context"
	"strings"

	"github.com/sha1n/mcp-symctx-server/internal/textrange"
	sitter "github.com/smacker/go-tree-sitter"
)

// parse parses content with a fresh parser. Parsers are not shared
// between goroutines; the returned tree must be closed by the caller.
func (l *Language) parse(ctx context.Context, content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(l.grammar)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, &ParseError{Language: l.name, Err: err}
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, &ParseError{Language: l.name}
	}
	return tree, nil
}

// eachMatch runs q over root and calls fn for every match.
func eachMatch(q *sitter.Query, root *sitter.Node, fn func(m *sitter.QueryMatch)) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		fn(m)
	}
}

// nodeRange converts the node span to a text range.
func nodeRange(n *sitter.Node) textrange.Range {
	start, end := n.StartPoint(), n.EndPoint()
	return textrange.New(int(start.Row), int(start.Column), int(end.Row), int(end.Column))
}

// SeedIdentifiers returns the text of every identifier the cursor-context
// query considers in scope at cursor. Results are not deduplicated.
func (l *Language) SeedIdentifiers(ctx context.Context, content string, cursor textrange.Position) ([]string, error) {
	queries, err := l.queries()
	if err != nil {
		return nil, err
	}

	src := []byte(content)
	tree, err := l.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	q := queries.cursor
	var hits []string
	eachMatch(q, tree.RootNode(), func(m *sitter.QueryMatch) {
		identifier := ""
		found := false
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case CaptureRange:
				if !nodeRange(c.Node).ContainsPosition(cursor) {
					return
				}
			case CaptureIdentifier:
				identifier = c.Node.Content(src)
				found = true
			}
		}
		if found && strings.TrimSpace(identifier) != "" {
			hits = append(hits, identifier)
		}
	})
	return hits, nil
}

// RelatedIdentifiers returns the related identifiers of the declaration
// whose name node spans exactly declRange.
func (l *Language) RelatedIdentifiers(ctx context.Context, content string, declRange textrange.Range) ([]string, error) {
	queries, err := l.queries()
	if err != nil {
		return nil, err
	}

	src := []byte(content)
	tree, err := l.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	q := queries.related
	var related []string
	eachMatch(q, tree.RootNode(), func(m *sitter.QueryMatch) {
		matched := false
		var texts []string
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case CaptureName:
				if nodeRange(c.Node).Equal(declRange) {
					matched = true
				}
			case CaptureRelated:
				texts = append(texts, c.Node.Content(src))
			}
		}
		if matched {
			related = append(related, texts...)
		}
	})
	return related, nil
}
