package interval

import "testing"

func TestTightestEnclosingPicksNarrowest(t *testing.T) {
	ranges := []Range{
		{StartLine: 0, StartChar: 0, EndLine: 100, EndChar: 0},   // file
		{StartLine: 10, StartChar: 0, EndLine: 50, EndChar: 0},   // class
		{StartLine: 20, StartChar: 2, EndLine: 25, EndChar: 3},   // method
	}
	values := []any{"file", "class", "method"}
	tree := Build(ranges, values)

	v, ok := tree.TightestEnclosing(22, 5)
	if !ok || v != "method" {
		t.Fatalf("expected method, got %v (ok=%v)", v, ok)
	}

	v, ok = tree.TightestEnclosing(30, 5)
	if !ok || v != "class" {
		t.Fatalf("expected class, got %v (ok=%v)", v, ok)
	}

	v, ok = tree.TightestEnclosing(90, 0)
	if !ok || v != "file" {
		t.Fatalf("expected file, got %v (ok=%v)", v, ok)
	}

	_, ok = tree.TightestEnclosing(200, 0)
	if ok {
		t.Fatal("expected no match outside every range")
	}
}

func TestTightestEnclosingTieBreaksByInsertionOrder(t *testing.T) {
	ranges := []Range{
		{StartLine: 5, StartChar: 0, EndLine: 5, EndChar: 10},
		{StartLine: 5, StartChar: 0, EndLine: 5, EndChar: 10},
	}
	values := []any{"first", "second"}
	tree := Build(ranges, values)

	v, ok := tree.TightestEnclosing(5, 5)
	if !ok || v != "first" {
		t.Fatalf("expected tie to resolve to the first-inserted value, got %v", v)
	}
}

func TestStabReturnsAllTiedMinimaInInsertionOrder(t *testing.T) {
	ranges := []Range{
		{StartLine: 5, StartChar: 0, EndLine: 5, EndChar: 10},
		{StartLine: 5, StartChar: 0, EndLine: 5, EndChar: 10},
		{StartLine: 0, StartChar: 0, EndLine: 100, EndChar: 0},
	}
	values := []any{"first", "second", "file"}
	tree := Build(ranges, values)

	got := tree.Stab(Range{StartLine: 5, StartChar: 5, EndLine: 5, EndChar: 5})
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("expected both tied minima in insertion order, got %v", got)
	}
}

func TestStabRequiresFullRangeContainment(t *testing.T) {
	ranges := []Range{
		{StartLine: 10, StartChar: 0, EndLine: 20, EndChar: 0},
	}
	values := []any{"class"}
	tree := Build(ranges, values)

	// A query range that only partially overlaps the stored range must
	// not match: Stab requires the stored range to tightly contain the
	// query, not merely intersect it.
	got := tree.Stab(Range{StartLine: 5, StartChar: 0, EndLine: 15, EndChar: 0})
	if len(got) != 0 {
		t.Fatalf("expected no match for a partially-overlapping query, got %v", got)
	}

	got = tree.Stab(Range{StartLine: 12, StartChar: 0, EndLine: 14, EndChar: 0})
	if len(got) != 1 || got[0] != "class" {
		t.Fatalf("expected class to tightly contain the nested query, got %v", got)
	}
}

func TestBuildHandlesManyIdenticalRanges(t *testing.T) {
	n := 50
	ranges := make([]Range, n)
	values := make([]any, n)
	for i := range ranges {
		ranges[i] = Range{StartLine: 1, StartChar: 1, EndLine: 1, EndChar: 1}
		values[i] = i
	}
	tree := Build(ranges, values)
	v, ok := tree.TightestEnclosing(1, 1)
	if !ok || v != 0 {
		t.Fatalf("expected first of many identical ranges to win, got %v", v)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := Build(nil, nil)
	if _, ok := tree.TightestEnclosing(0, 0); ok {
		t.Fatal("expected no match on an empty tree")
	}
}
