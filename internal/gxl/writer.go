// Package gxl serialises a graph.Graph to the GXL (Graph eXchange
// Language) XML interchange format: typed, attributed nodes and edges,
// with the node forest preserved as an out-of-band hierarchical edge type
// since GXL itself has no native parent/child concept.
package gxl

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
)

// HierarchyEdgeType names the synthetic edges the writer emits to encode
// each node's parent, since GXL graphs have no native tree structure.
const HierarchyEdgeType = "hierarchy"

// hierarchyRoleAttr marks a hierarchy edge's end as the child side, the
// only role the importer ever synthesises (parent->child).
const hierarchyRoleAttr = "is_child"

// Writer serialises graphs under a fixed GXL graph id.
type Writer struct {
	GraphID string
}

// New creates a writer that will name the top-level <graph> element
// graphID.
func New(graphID string) *Writer {
	return &Writer{GraphID: graphID}
}

// Write serialises g to out as a complete GXL document.
func (w *Writer) Write(g *graph.Graph, out io.Writer) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return fmt.Errorf("gxl: writing header: %w", err)
	}
	if _, err := io.WriteString(out, "<!DOCTYPE gxl SYSTEM \"http://www.gupro.de/GXL/gxl-1.0.dtd\">\n"); err != nil {
		return fmt.Errorf("gxl: writing doctype: %w", err)
	}

	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")

	gxlStart := xml.StartElement{Name: xml.Name{Local: "gxl"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "xmlns:xlink"}, Value: "http://www.w3.org/1999/xlink"},
	}}
	if err := enc.EncodeToken(gxlStart); err != nil {
		return err
	}

	graphStart := xml.StartElement{Name: xml.Name{Local: "graph"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "id"}, Value: w.GraphID},
		{Name: xml.Name{Local: "edgemode"}, Value: "directed"},
	}}
	if err := enc.EncodeToken(graphStart); err != nil {
		return err
	}

	for _, attr := range g.SortedAttrs() {
		if err := writeAttr(enc, attr); err != nil {
			return err
		}
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		if err := writeNode(enc, n); err != nil {
			return err
		}
	}

	for _, e := range g.Edges() {
		if err := writeEdge(enc, e.ID(), e.Type(), e.Source().ID(), e.Target().ID(), e.SortedAttrs()); err != nil {
			return err
		}
	}

	for _, n := range nodes {
		p := n.Parent()
		if p == nil {
			continue
		}
		id := fmt.Sprintf("%s#%s#%s", HierarchyEdgeType, p.ID(), n.ID())
		attrs := []graph.Attr{{Name: hierarchyRoleAttr, Kind: "bool", Value: true}}
		if err := writeEdge(enc, id, HierarchyEdgeType, p.ID(), n.ID(), attrs); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(graphStart.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(gxlStart.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func writeNode(enc *xml.Encoder, n *graph.Node) error {
	start := xml.StartElement{Name: xml.Name{Local: "node"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "id"}, Value: n.ID()},
	}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeType(enc, n.Type()); err != nil {
		return err
	}
	for _, attr := range n.SortedAttrs() {
		if err := writeAttr(enc, attr); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func writeEdge(enc *xml.Encoder, id, typ, from, to string, attrs []graph.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: "edge"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "id"}, Value: id},
		{Name: xml.Name{Local: "from"}, Value: from},
		{Name: xml.Name{Local: "to"}, Value: to},
	}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeType(enc, typ); err != nil {
		return err
	}
	for _, attr := range attrs {
		if err := writeAttr(enc, attr); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func writeType(enc *xml.Encoder, typ string) error {
	start := xml.StartElement{Name: xml.Name{Local: "type"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "xlink:href"}, Value: "type:" + typ},
	}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func writeAttr(enc *xml.Encoder, a graph.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: "attr"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "name"}, Value: a.Name},
	}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	var valueTag, text string
	switch a.Kind {
	case "bool":
		valueTag = "bool"
		if a.Value.(bool) {
			text = "true"
		} else {
			text = "false"
		}
	case "int":
		valueTag = "int"
		text = strconv.FormatInt(a.Value.(int64), 10)
	case "float":
		valueTag = "float"
		text = strconv.FormatFloat(a.Value.(float64), 'g', -1, 64)
	default:
		valueTag = "string"
		text = fmt.Sprint(a.Value)
	}

	valStart := xml.StartElement{Name: xml.Name{Local: valueTag}}
	if err := enc.EncodeToken(valStart); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	if err := enc.EncodeToken(valStart.End()); err != nil {
		return err
	}

	return enc.EncodeToken(start.End())
}
