package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Graph is the import's output: a forest of typed, attributed nodes linked
// by typed, attributed edges. All mutation methods are safe to call from
// the node phase's single goroutine and from the edge phase's worker pool
// at once.
type Graph struct {
	Attributable

	name string

	mu        sync.RWMutex
	nodesByID map[string]*Node
	allNodes  []*Node
	edgesByID map[string]*Edge
	hashIndex map[uint64][]*Node
	dirty     bool
	roots     []*Node
	maxDepth  int
}

// New creates an empty graph with the given name (the GXL document's
// root graph name attribute).
func New(name string) *Graph {
	return &Graph{
		Attributable: newAttributable(),
		name:         name,
		nodesByID:    make(map[string]*Node),
		edgesByID:    make(map[string]*Edge),
		hashIndex:    make(map[uint64][]*Node),
	}
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// AddNode registers a node that already has an ID assigned. It is an error
// to add a node whose ID collides with one already present; the importer
// is expected to resolve collisions (via a uuid suffix) before calling
// AddNode, never after.
func (g *Graph) AddNode(n *Node) error {
	id := n.ID()
	if id == "" {
		return fmt.Errorf("graph: cannot add node with empty ID")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodesByID[id]; exists {
		return fmt.Errorf("graph: duplicate node ID %q", id)
	}
	g.nodesByID[id] = n
	g.allNodes = append(g.allNodes, n)
	h := contentHash(n.Type(), n.snapshot())
	g.hashIndex[h] = append(g.hashIndex[h], n)
	g.dirty = true
	return nil
}

// NodeByID looks a node up by its graph ID.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodesByID[id]
	return n, ok
}

// FindIsomorphic returns an already-registered node with the same type and
// attribute snapshot as n, or nil if none exists. It is the O(1)-expected
// secondary index in front of the O(n) equality check: only nodes sharing
// n's content hash are compared.
func (g *Graph) FindIsomorphic(n *Node) *Node {
	h := contentHash(n.Type(), n.snapshot())
	g.mu.RLock()
	candidates := g.hashIndex[h]
	g.mu.RUnlock()
	for _, cand := range candidates {
		if cand != n && cand.isomorphicTo(n) {
			return cand
		}
	}
	return nil
}

// AddEdge registers e, keyed by its generated ID, and links it into both
// endpoints' edge sets. It reports false without error if an edge with the
// same ID is already present, which is how concurrent edge-phase workers
// insert relations idempotently without a global lock around the whole
// operation.
func (g *Graph) AddEdge(e *Edge) bool {
	g.mu.Lock()
	if _, exists := g.edgesByID[e.ID()]; exists {
		g.mu.Unlock()
		return false
	}
	g.edgesByID[e.ID()] = e
	g.mu.Unlock()

	e.Source().addOutgoing(e)
	e.Target().addIncoming(e)
	return true
}

// EdgeByID looks an edge up by its generated ID.
func (g *Graph) EdgeByID(id string) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edgesByID[id]
	return e, ok
}

// Nodes returns every node in the graph, in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.allNodes))
	copy(out, g.allNodes)
	return out
}

// Edges returns every edge in the graph, sorted by ID.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	out := make([]*Edge, 0, len(g.edgesByID))
	for _, e := range g.edgesByID {
		out = append(out, e)
	}
	g.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// markHierarchyDirty invalidates the cached roots/MaxDepth, recomputed
// lazily on the next call that needs them.
func (g *Graph) markHierarchyDirty() {
	g.mu.Lock()
	g.dirty = true
	g.mu.Unlock()
}

// Roots returns the graph's top-level nodes (those with no parent), in
// insertion order.
func (g *Graph) Roots() []*Node {
	g.recomputeIfDirty()
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.roots))
	copy(out, g.roots)
	return out
}

// MaxDepth returns max(Level)+1 over every node, or 0 for an empty graph.
func (g *Graph) MaxDepth() int {
	g.recomputeIfDirty()
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxDepth
}

func (g *Graph) recomputeIfDirty() {
	g.mu.Lock()
	if !g.dirty {
		g.mu.Unlock()
		return
	}
	nodes := make([]*Node, len(g.allNodes))
	copy(nodes, g.allNodes)
	g.mu.Unlock()

	var roots []*Node
	max := 0
	for _, n := range nodes {
		if n.Parent() == nil {
			roots = append(roots, n)
		}
		lvl := n.Level()
		n.SetInt("Metrics.Level", int64(lvl))
		if lvl > max {
			max = lvl
		}
	}

	maxDepth := 0
	if len(nodes) > 0 {
		maxDepth = max + 1
	}

	g.mu.Lock()
	g.roots = roots
	g.maxDepth = maxDepth
	g.dirty = false
	g.mu.Unlock()
}

// NodeCount and EdgeCount are cheap, lock-protected sizes used by the
// CLI summary line.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.allNodes)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edgesByID)
}
