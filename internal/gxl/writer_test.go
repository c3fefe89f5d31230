package gxl

import (
	"strings"
	"testing"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
)

func TestWriteProducesWellFormedDocument(t *testing.T) {
	g := graph.New("test")
	a := graph.NewNode(g, "File")
	a.SetID("a")
	a.SetString("Source.File", "a.go")
	a.SetInt("LOC", 12)
	if err := g.AddNode(a); err != nil {
		t.Fatal(err)
	}

	b := graph.NewNode(g, "Class")
	b.SetID("a.Foo")
	if err := g.AddNode(b); err != nil {
		t.Fatal(err)
	}
	if err := b.SetParent(a); err != nil {
		t.Fatal(err)
	}

	e, err := graph.NewEdge(g, "Reference", b, a)
	if err != nil {
		t.Fatal(err)
	}
	g.AddEdge(e)

	var buf strings.Builder
	if err := New("root").Write(g, &buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`<?xml version="1.0"`,
		`<gxl`,
		`<graph id="root" edgemode="directed">`,
		`<node id="a">`,
		`<node id="a.Foo">`,
		`type:File`,
		`type:Class`,
		`<edge id="Reference#a.Foo#a" from="a.Foo" to="a">`,
		`type:hierarchy`,
		`name="is_child"`,
		`</gxl>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestWriteEmptyGraph(t *testing.T) {
	g := graph.New("empty")
	var buf strings.Builder
	if err := New("empty").Write(g, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<graph id="empty"`) {
		t.Fatal("expected a graph element even with no nodes")
	}
}
