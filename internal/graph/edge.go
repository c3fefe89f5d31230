package graph

import "fmt"

// Edge is a directed, typed relation between two nodes of the same graph.
// Its ID is derived, not assigned: "<Type>#<Source.ID>#<Target.ID>", which
// doubles as the dedup key the edge phase relies on to insert relations
// idempotently from concurrent workers.
type Edge struct {
	GraphElement
	id     string
	source *Node
	target *Node
}

// NewEdge allocates an edge of the given type between source and target.
// Both nodes must already have an ID assigned; the edge's own ID is
// computed immediately and is immutable thereafter.
func NewEdge(g *Graph, typ string, source, target *Node) (*Edge, error) {
	if source.ID() == "" || target.ID() == "" {
		return nil, fmt.Errorf("graph: cannot create %s edge with an unidentified endpoint", typ)
	}
	e := &Edge{
		GraphElement: newGraphElement(g, typ),
		source:       source,
		target:       target,
	}
	e.id = fmt.Sprintf("%s#%s#%s", e.Type(), source.ID(), target.ID())
	return e, nil
}

// ID is the edge's generated, immutable identifier.
func (e *Edge) ID() string { return e.id }

// Source is the edge's origin node.
func (e *Edge) Source() *Node { return e.source }

// Target is the edge's destination node.
func (e *Edge) Target() *Node { return e.target }
