package metrics

import (
	"testing"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
)

func buildTree(t *testing.T) (*graph.Graph, *graph.Node, *graph.Node, *graph.Node) {
	t.Helper()
	g := graph.New("t")
	dir := graph.NewNode(g, "Directory")
	dir.SetID("dir")
	if err := g.AddNode(dir); err != nil {
		t.Fatal(err)
	}

	fileA := graph.NewNode(g, "File")
	fileA.SetID("a")
	fileA.SetInt("LOC", 10)
	if err := g.AddNode(fileA); err != nil {
		t.Fatal(err)
	}
	if err := fileA.SetParent(dir); err != nil {
		t.Fatal(err)
	}

	fileB := graph.NewNode(g, "File")
	fileB.SetID("b")
	fileB.SetInt("LOC", 25)
	if err := g.AddNode(fileB); err != nil {
		t.Fatal(err)
	}
	if err := fileB.SetParent(dir); err != nil {
		t.Fatal(err)
	}

	return g, dir, fileA, fileB
}

func TestAggregateSumsUpTheForest(t *testing.T) {
	g, dir, _, _ := buildTree(t)
	Aggregate(g, []Spec{{Name: "LOC", AsInt: true, WithSuffix: false}})

	total, _ := dir.Int("LOC")
	if total != 35 {
		t.Fatalf("expected directory LOC to be 35, got %d", total)
	}
}

func TestAggregateWithSuffixLeavesOriginalIntact(t *testing.T) {
	g, dir, fileA, _ := buildTree(t)
	Aggregate(g, []Spec{{Name: "Diag_Error", AsInt: true, WithSuffix: true}})

	if v, ok := fileA.Int("Diag_Error_SUM"); !ok || v != 0 {
		t.Fatalf("expected fileA's own Diag_Error_SUM to be 0, got %d (ok=%v)", v, ok)
	}
	if _, ok := dir.Int("Diag_Error"); ok {
		t.Fatal("did not expect the unsuffixed name to be written when WithSuffix is set")
	}
}

func TestAggregateLeafHasNoChildContribution(t *testing.T) {
	g, _, fileA, _ := buildTree(t)
	Aggregate(g, []Spec{{Name: "LOC", AsInt: true}})
	v, _ := fileA.Int("LOC")
	if v != 10 {
		t.Fatalf("expected leaf LOC to remain 10, got %d", v)
	}
}
