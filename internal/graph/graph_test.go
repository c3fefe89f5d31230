package graph

import "testing"

func TestNodeSetIDTwicePanics(t *testing.T) {
	g := New("t")
	n := NewNode(g, "File")
	n.SetID("a")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second SetID")
		}
	}()
	n.SetID("b")
}

func TestAddNodeDuplicateID(t *testing.T) {
	g := New("t")
	a := NewNode(g, "File")
	a.SetID("f#1")
	if err := g.AddNode(a); err != nil {
		t.Fatalf("first add: %v", err)
	}
	b := NewNode(g, "File")
	b.SetID("f#1")
	if err := g.AddNode(b); err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestSetParentRejectsSelf(t *testing.T) {
	g := New("t")
	n := NewNode(g, "File")
	n.SetID("n")
	_ = g.AddNode(n)
	if err := n.SetParent(n); err == nil {
		t.Fatal("expected error parenting a node to itself")
	}
}

func TestSetParentRejectsCycle(t *testing.T) {
	g := New("t")
	parent := NewNode(g, "Directory")
	parent.SetID("p")
	_ = g.AddNode(parent)
	child := NewNode(g, "File")
	child.SetID("c")
	_ = g.AddNode(child)

	if err := child.SetParent(parent); err != nil {
		t.Fatalf("child->parent: %v", err)
	}
	if err := parent.SetParent(child); err == nil {
		t.Fatal("expected cycle rejection when attaching ancestor under its own descendant")
	}
}

func TestLevelAndRootsRecompute(t *testing.T) {
	g := New("t")
	root := NewNode(g, "Directory")
	root.SetID("root")
	_ = g.AddNode(root)
	child := NewNode(g, "File")
	child.SetID("child")
	_ = g.AddNode(child)
	grandchild := NewNode(g, "Class")
	grandchild.SetID("gc")
	_ = g.AddNode(grandchild)

	if err := child.SetParent(root); err != nil {
		t.Fatal(err)
	}
	if err := grandchild.SetParent(child); err != nil {
		t.Fatal(err)
	}

	if lvl := grandchild.Level(); lvl != 2 {
		t.Fatalf("expected level 2, got %d", lvl)
	}
	roots := g.Roots()
	if len(roots) != 1 || roots[0] != root {
		t.Fatalf("expected exactly root as the sole root, got %v", roots)
	}
	if g.MaxDepth() != 3 {
		t.Fatalf("expected max depth 3, got %d", g.MaxDepth())
	}
}

func TestEdgeIDAndIdempotentInsert(t *testing.T) {
	g := New("t")
	a := NewNode(g, "Function")
	a.SetID("a")
	_ = g.AddNode(a)
	b := NewNode(g, "Function")
	b.SetID("b")
	_ = g.AddNode(b)

	e1, err := NewEdge(g, "Source.Call", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if e1.ID() != "Source.Call#a#b" {
		t.Fatalf("unexpected edge ID: %s", e1.ID())
	}
	if !g.AddEdge(e1) {
		t.Fatal("expected first insert to succeed")
	}
	e2, err := NewEdge(g, "Source.Call", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if g.AddEdge(e2) {
		t.Fatal("expected duplicate edge insert to be rejected")
	}
	if len(a.Outgoing()) != 1 || len(b.Incoming()) != 1 {
		t.Fatalf("expected exactly one outgoing/incoming edge after dedup")
	}
}

func TestIsomorphicNodesShareHash(t *testing.T) {
	g := New("t")
	a := NewNode(g, "Class")
	a.SetString("NAME", "Foo")
	a.SetID("a")
	_ = g.AddNode(a)

	b := NewNode(g, "Class")
	b.SetString("NAME", "Foo")

	found := g.FindIsomorphic(b)
	if found != a {
		t.Fatalf("expected to find isomorphic node a, got %v", found)
	}

	c := NewNode(g, "Class")
	c.SetString("NAME", "Bar")
	if g.FindIsomorphic(c) != nil {
		t.Fatal("did not expect a match for a differently-named node")
	}
}

func TestRangeContainsAndTighter(t *testing.T) {
	outer := Range{StartLine: 0, StartChar: 0, EndLine: 10, EndChar: 0}
	inner := Range{StartLine: 2, StartChar: 4, EndLine: 2, EndChar: 8}
	if !outer.Contains(inner) {
		t.Fatal("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Fatal("did not expect inner to contain outer")
	}
	if !inner.tighter(outer) {
		t.Fatal("expected inner to be the tighter range")
	}
}
