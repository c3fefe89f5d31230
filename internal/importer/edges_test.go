package importer

import (
	"testing"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
)

func newTestNode(g *graph.Graph, typ, id string) *graph.Node {
	n := graph.NewNode(g, typ)
	n.SetID(id)
	if err := g.AddNode(n); err != nil {
		panic(err)
	}
	return n
}

func TestApplyEdgeDropsSelfReference(t *testing.T) {
	g := graph.New("t")
	foo := newTestNode(g, "Function", "foo")

	outcome := applyEdge(g, edgeRule{EdgeCall, "Call", false}, foo, foo, true, false)
	if outcome != edgeDroppedSelf {
		t.Fatalf("expected edgeDroppedSelf, got %v", outcome)
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("expected no edge to be added")
	}
}

func TestApplyEdgeKeepsSelfReferenceWhenNotAvoided(t *testing.T) {
	g := graph.New("t")
	foo := newTestNode(g, "Function", "foo")

	outcome := applyEdge(g, edgeRule{EdgeCall, "Call", false}, foo, foo, false, false)
	if outcome != edgeAdded {
		t.Fatalf("expected edgeAdded, got %v", outcome)
	}
}

func TestApplyEdgeDropsParentReference(t *testing.T) {
	g := graph.New("t")
	fn := newTestNode(g, "Function", "fn")
	local := newTestNode(g, "Variable", "fn.local")
	if err := local.SetParent(fn); err != nil {
		t.Fatal(err)
	}

	outcome := applyEdge(g, edgeRule{EdgeReference, "Reference", true}, local, fn, false, true)
	if outcome != edgeDroppedParent {
		t.Fatalf("expected edgeDroppedParent, got %v", outcome)
	}
}

func TestApplyEdgeReversesDirection(t *testing.T) {
	g := graph.New("t")
	foo := newTestNode(g, "Function", "foo")
	bar := newTestNode(g, "Function", "bar")

	// Reference is reversed: querying foo's references that land on bar
	// produces an edge from bar to foo.
	outcome := applyEdge(g, edgeRule{EdgeReference, "Reference", true}, foo, bar, false, false)
	if outcome != edgeAdded {
		t.Fatalf("expected edgeAdded, got %v", outcome)
	}
	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(edges))
	}
	if edges[0].Source() != bar || edges[0].Target() != foo {
		t.Fatalf("expected reversed edge bar->foo, got %s->%s", edges[0].Source().ID(), edges[0].Target().ID())
	}
}

func TestApplyEdgeDropsDuplicate(t *testing.T) {
	g := graph.New("t")
	foo := newTestNode(g, "Function", "foo")
	bar := newTestNode(g, "Function", "bar")

	rule := edgeRule{EdgeCall, "Call", false}
	first := applyEdge(g, rule, bar, foo, false, false)
	if first != edgeAdded {
		t.Fatalf("expected first insert to succeed, got %v", first)
	}
	second := applyEdge(g, rule, bar, foo, false, false)
	if second != edgeDroppedDuplicate {
		t.Fatalf("expected edgeDroppedDuplicate, got %v", second)
	}
	if len(g.Edges()) != 1 {
		t.Fatalf("expected exactly one edge after duplicate insert, got %d", len(g.Edges()))
	}
}

func TestApplyEdgeTwoFileCallAndReference(t *testing.T) {
	g := graph.New("t")
	foo := newTestNode(g, "Function", "a.foo")
	bar := newTestNode(g, "Function", "b.bar")

	// bar calls foo.
	callOutcome := applyEdge(g, edgeRule{EdgeCall, "Call", false}, bar, foo, true, false)
	if callOutcome != edgeAdded {
		t.Fatalf("expected call edge to be added, got %v", callOutcome)
	}
	// References to foo resolve to bar's call site; Reference is reversed.
	refOutcome := applyEdge(g, edgeRule{EdgeReference, "Reference", true}, foo, bar, true, false)
	if refOutcome != edgeAdded {
		t.Fatalf("expected reference edge to be added, got %v", refOutcome)
	}

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected exactly 2 edges, got %d", len(edges))
	}
	var sawCall, sawRef bool
	for _, e := range edges {
		switch e.Type() {
		case "Call":
			sawCall = true
			if e.Source() != bar || e.Target() != foo {
				t.Fatalf("call edge should be bar->foo, got %s->%s", e.Source().ID(), e.Target().ID())
			}
		case "Reference":
			sawRef = true
			if e.Source() != bar || e.Target() != foo {
				t.Fatalf("reference edge should be reversed to bar->foo, got %s->%s", e.Source().ID(), e.Target().ID())
			}
		}
	}
	if !sawCall || !sawRef {
		t.Fatalf("expected one Call and one Reference edge")
	}
}
