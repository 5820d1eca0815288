package grammar

import (
	"context"
	"slices"
	"strings"

	"github.com/sha1n/mcp-symctx-server/internal/textrange"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/sourcegraph/scip/bindings/go/scip"
)

// SymbolScheme prefixes every symbol produced by the symbolizer.
const SymbolScheme = "scip-ctags . . . "

type descriptorSuffix int

const (
	suffixTerm descriptorSuffix = iota
	suffixType
	suffixMethod
	suffixNamespace
)

type kindSpec struct {
	kind   scip.SymbolInformation_Kind
	suffix descriptorSuffix
}

// definitionKinds maps the tag suffix of a @definition.<kind> capture.
var definitionKinds = map[string]kindSpec{
	"function":  {scip.SymbolInformation_Function, suffixMethod},
	"method":    {scip.SymbolInformation_Method, suffixMethod},
	"class":     {scip.SymbolInformation_Class, suffixType},
	"interface": {scip.SymbolInformation_Interface, suffixType},
	"type":      {scip.SymbolInformation_TypeAlias, suffixType},
	"enum":      {scip.SymbolInformation_Enum, suffixType},
	"module":    {scip.SymbolInformation_Module, suffixNamespace},
	"variable":  {scip.SymbolInformation_Variable, suffixTerm},
	"constant":  {scip.SymbolInformation_Constant, suffixTerm},
}

type definition struct {
	name       string
	kind       string
	nameRange  textrange.Range
	enclosing  textrange.Range
	startByte  uint32
	endByte    uint32
	descriptor string
	symbol     string
}

func (d *definition) strictlyContains(o *definition) bool {
	if d.startByte == o.startByte && d.endByte == o.endByte {
		return false
	}
	return d.startByte <= o.startByte && o.endByte <= d.endByte
}

type reference struct {
	name string
	r    textrange.Range
}

// Symbolizer turns source files into SCIP documents using the tags query
// of each language.
type Symbolizer struct{}

// NewSymbolizer creates a tree-sitter symbolizer.
func NewSymbolizer() *Symbolizer {
	return &Symbolizer{}
}

// Symbolize parses content and returns a document holding one definition
// occurrence per tagged declaration and one reference occurrence per other
// tagged identifier. Syntax errors are tolerated; only a missing tree fails.
func (s *Symbolizer) Symbolize(ctx context.Context, lang *Language, path, content string) (*scip.Document, error) {
	queries, err := lang.queries()
	if err != nil {
		return nil, err
	}

	src := []byte(content)
	tree, err := lang.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	q := queries.tags
	var defs []*definition
	var refs []reference
	defNames := make(map[textrange.Range]bool)

	eachMatch(q, tree.RootNode(), func(m *sitter.QueryMatch) {
		var nameNode, defNode *sitter.Node
		kind := ""
		for _, c := range m.Captures {
			capture := q.CaptureNameForId(c.Index)
			switch {
			case capture == CaptureName:
				nameNode = c.Node
			case strings.HasPrefix(capture, definitionCapturePrefix):
				defNode = c.Node
				kind = strings.TrimPrefix(capture, definitionCapturePrefix)
			case capture == CaptureReference:
				refs = append(refs, reference{name: c.Node.Content(src), r: nodeRange(c.Node)})
			}
		}
		if nameNode == nil || defNode == nil {
			return
		}
		r := nodeRange(nameNode)
		if defNames[r] {
			return
		}
		defNames[r] = true
		defs = append(defs, &definition{
			name:      nameNode.Content(src),
			kind:      kind,
			nameRange: r,
			enclosing: nodeRange(defNode),
			startByte: defNode.StartByte(),
			endByte:   defNode.EndByte(),
		})
	})

	assignSymbols(defs)

	doc := &scip.Document{
		Language:     lang.scipName,
		RelativePath: path,
	}
	infos := make(map[string]bool)
	for _, d := range defs {
		doc.Occurrences = append(doc.Occurrences, &scip.Occurrence{
			Range:          d.nameRange.SCIP(),
			Symbol:         d.symbol,
			SymbolRoles:    int32(scip.SymbolRole_Definition),
			EnclosingRange: d.enclosing.SCIP(),
		})
		if infos[d.symbol] {
			continue
		}
		infos[d.symbol] = true
		doc.Symbols = append(doc.Symbols, &scip.SymbolInformation{
			Symbol:      d.symbol,
			Kind:        kindOf(d.kind).kind,
			DisplayName: d.name,
		})
	}

	seenRefs := make(map[textrange.Range]bool)
	for _, ref := range refs {
		if ref.name == "" || defNames[ref.r] || seenRefs[ref.r] {
			continue
		}
		seenRefs[ref.r] = true
		doc.Occurrences = append(doc.Occurrences, &scip.Occurrence{
			Range:  ref.r.SCIP(),
			Symbol: SymbolScheme + formatDescriptor(ref.name, suffixTerm),
		})
	}

	return doc, nil
}

// assignSymbols nests every definition under the definitions that enclose
// it and derives its symbol string from that chain.
func assignSymbols(defs []*definition) {
	slices.SortStableFunc(defs, func(a, b *definition) int {
		if a.startByte != b.startByte {
			return int(a.startByte) - int(b.startByte)
		}
		return int(b.endByte) - int(a.endByte)
	})

	var stack []*definition
	for _, d := range defs {
		for len(stack) > 0 && !stack[len(stack)-1].strictlyContains(d) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && d.kind == "function" && kindOf(stack[len(stack)-1].kind).suffix == suffixType {
			d.kind = "method"
		}

		d.descriptor = formatDescriptor(d.name, kindOf(d.kind).suffix)
		var sb strings.Builder
		sb.WriteString(SymbolScheme)
		for _, parent := range stack {
			sb.WriteString(parent.descriptor)
		}
		sb.WriteString(d.descriptor)
		d.symbol = sb.String()

		stack = append(stack, d)
	}
}

func kindOf(kind string) kindSpec {
	if spec, ok := definitionKinds[kind]; ok {
		return spec
	}
	return kindSpec{scip.SymbolInformation_UnspecifiedKind, suffixTerm}
}

func formatDescriptor(name string, suffix descriptorSuffix) string {
	name = escapeName(name)
	switch suffix {
	case suffixType:
		return name + "#"
	case suffixMethod:
		return name + "()."
	case suffixNamespace:
		return name + "/"
	default:
		return name + "."
	}
}

// escapeName backtick-quotes names that are not simple identifiers.
func escapeName(name string) string {
	simple := name != ""
	for _, r := range name {
		if !isSimpleIdentifierRune(r) {
			simple = false
			break
		}
	}
	if simple {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func isSimpleIdentifierRune(r rune) bool {
	return r == '_' || r == '+' || r == '-' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
