package graph

// UnknownType is the Type every node and edge falls back to when none is
// given explicitly.
const UnknownType = "UNKNOWNTYPE"

// GraphElement is the common base of Node and Edge: a typed, attributed
// thing that knows which Graph it belongs to.
type GraphElement struct {
	Attributable
	typ   string
	graph *Graph
}

func newGraphElement(g *Graph, typ string) GraphElement {
	if typ == "" {
		typ = UnknownType
	}
	return GraphElement{Attributable: newAttributable(), typ: typ, graph: g}
}

// Type is the element's GXL/graph type, e.g. "Directory", "Class" or
// "Call".
func (e *GraphElement) Type() string { return e.typ }

// Graph returns the graph this element belongs to.
func (e *GraphElement) Graph() *Graph { return e.graph }

// SourceRangeAttr is the name of the canonical range attribute recording an
// element's extent in its source file, e.g. a class's whole body.
const SourceRangeAttr = "SourceRange"

// SelectionRangeAttr is the name of the canonical range attribute recording
// an element's "selection" extent, e.g. just a class's name token — the
// narrower range editors highlight when you jump to the symbol.
const SelectionRangeAttr = "SelectionRange"

// SetSourceRange records the element's origin in its source file under the
// canonical SourceRange attribute.
func (e *GraphElement) SetSourceRange(r Range) { e.SetRangeAttr(SourceRangeAttr, r) }

// SourceRange reconstructs the range previously set by SetSourceRange, or
// the zero Range if none was set.
func (e *GraphElement) SourceRange() Range {
	r, _ := e.RangeAttr(SourceRangeAttr)
	return r
}

// SetSourceLocation records the canonical Source.File, Source.Path,
// Source.Line and Source.Column attributes (line/column already 1-based).
// If no SourceRange was set previously, a degenerate one-character range
// at (line, column) is synthesised so every located element has one.
func (e *GraphElement) SetSourceLocation(file, dir string, line, column int) {
	e.SetString("Source.File", file)
	e.SetString("Source.Path", dir)
	e.SetInt("Source.Line", int64(line))
	e.SetInt("Source.Column", int64(column))
	if _, ok := e.RangeAttr(SourceRangeAttr); !ok {
		e.SetRangeAttr(SourceRangeAttr, Range{StartLine: line, StartChar: column, EndLine: line, EndChar: column + 1})
	}
}
