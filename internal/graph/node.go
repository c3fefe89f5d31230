package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Node is a directory, file or symbol in the import's forest. Its ID is
// immutable once assigned: the node phase picks an ID, and if that ID
// already names a different node the importer suffixes it with a fresh
// uuid before ever calling SetID.
type Node struct {
	GraphElement

	idMu sync.RWMutex
	id   string

	sourceName string

	treeMu   sync.RWMutex
	parent   *Node
	children []*Node
	level    int

	edgeMu   sync.Mutex
	outgoing map[string]*Edge
	incoming map[string]*Edge
}

// NewNode allocates a node of the given type, not yet attached to the
// graph's forest or ID index. Call Graph.AddNode to register it.
func NewNode(g *Graph, typ string) *Node {
	return &Node{
		GraphElement: newGraphElement(g, typ),
		outgoing:     make(map[string]*Edge),
		incoming:     make(map[string]*Edge),
	}
}

// ID returns the node's identifier, or "" if it has not been assigned one
// yet.
func (n *Node) ID() string {
	n.idMu.RLock()
	defer n.idMu.RUnlock()
	return n.id
}

// SetID assigns the node's identifier. It may be called exactly once; a
// second call panics, since ID immutability is one of the forest's
// invariants and a violation indicates an importer bug rather than bad
// input.
func (n *Node) SetID(id string) {
	n.idMu.Lock()
	if n.id != "" {
		n.idMu.Unlock()
		panic(fmt.Sprintf("graph: node ID already set to %q, refusing to overwrite with %q", n.id, id))
	}
	n.id = id
	n.idMu.Unlock()
	n.SetString("Linkage.Name", id)
}

// SourceName is the node's unqualified display name (a file's base name, a
// symbol's identifier), independent of its graph ID.
func (n *Node) SourceName() string { return n.sourceName }

// SetSourceName sets the node's display name and its Source.Name attribute.
func (n *Node) SetSourceName(name string) {
	n.sourceName = name
	n.SetString("Source.Name", name)
}

// Parent returns the node's parent in the forest, or nil for a root.
func (n *Node) Parent() *Node {
	n.treeMu.RLock()
	defer n.treeMu.RUnlock()
	return n.parent
}

// Children returns a snapshot of the node's children, in insertion order.
func (n *Node) Children() []*Node {
	n.treeMu.RLock()
	defer n.treeMu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Level is the node's depth in the forest: 0 for roots, parent's Level+1
// otherwise. It is maintained incrementally by SetParent and is
// authoritative until the next structural change.
func (n *Node) Level() int {
	n.treeMu.RLock()
	defer n.treeMu.RUnlock()
	return n.level
}

// SetParent attaches n as the last child of p, or detaches n to become a
// root when p is nil. It refuses to create a self-loop or to attach a node
// to its own descendant, either of which would corrupt the forest.
func (n *Node) SetParent(p *Node) error {
	if p == n {
		return fmt.Errorf("graph: node %q cannot be its own parent", n.ID())
	}
	if p != nil && p.isDescendantOf(n) {
		return fmt.Errorf("graph: node %q is an ancestor of %q, reparenting would create a cycle", n.ID(), p.ID())
	}

	n.treeMu.Lock()
	old := n.parent
	n.treeMu.Unlock()

	if old != nil {
		old.removeChild(n)
	}

	n.treeMu.Lock()
	n.parent = p
	n.treeMu.Unlock()

	if p != nil {
		p.addChild(n)
	}

	n.recomputeLevel()
	n.graph.markHierarchyDirty()
	return nil
}

func (n *Node) addChild(c *Node) {
	n.treeMu.Lock()
	defer n.treeMu.Unlock()
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	n.treeMu.Lock()
	defer n.treeMu.Unlock()
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) isDescendantOf(ancestor *Node) bool {
	cur := n
	for {
		p := cur.Parent()
		if p == nil {
			return false
		}
		if p == ancestor {
			return true
		}
		cur = p
	}
}

func (n *Node) recomputeLevel() {
	p := n.Parent()
	lvl := 0
	if p != nil {
		lvl = p.Level() + 1
	}
	n.treeMu.Lock()
	changed := n.level != lvl
	n.level = lvl
	kids := append([]*Node(nil), n.children...)
	n.treeMu.Unlock()
	if changed {
		for _, k := range kids {
			k.recomputeLevel()
		}
	}
}

// addOutgoing registers e as an outgoing edge, keyed by its generated ID.
// Re-adding an edge with the same ID is a no-op, which is how the edge
// phase gets idempotent insertion for free.
func (n *Node) addOutgoing(e *Edge) {
	n.edgeMu.Lock()
	defer n.edgeMu.Unlock()
	n.outgoing[e.ID()] = e
}

func (n *Node) addIncoming(e *Edge) {
	n.edgeMu.Lock()
	defer n.edgeMu.Unlock()
	n.incoming[e.ID()] = e
}

// Outgoing returns a snapshot of the node's outgoing edges, sorted by ID
// for deterministic iteration.
func (n *Node) Outgoing() []*Edge {
	n.edgeMu.Lock()
	defer n.edgeMu.Unlock()
	return sortedEdges(n.outgoing)
}

// Incoming returns a snapshot of the node's incoming edges, sorted by ID.
func (n *Node) Incoming() []*Edge {
	n.edgeMu.Lock()
	defer n.edgeMu.Unlock()
	return sortedEdges(n.incoming)
}

func sortedEdges(m map[string]*Edge) []*Edge {
	out := make([]*Edge, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// isomorphicTo reports whether n and other carry the same type and
// attribute snapshot, the criterion the node phase's dedup pass uses
// before creating a new node for what might be a symbol already seen from
// another file (e.g. a C header included twice).
func (n *Node) isomorphicTo(other *Node) bool {
	if n.Type() != other.Type() {
		return false
	}
	return n.snapshot().equal(other.snapshot())
}
