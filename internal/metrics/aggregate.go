// Package metrics propagates per-node attribute values up the graph's
// forest by summation, the pass that turns a file's own line count into a
// directory's aggregate line count, and a function's own diagnostic tally
// into its enclosing class's.
package metrics

import "github.com/uni-bremen-agst/LSP2GXL/internal/graph"

// Spec names one attribute to aggregate: its name, whether it is stored
// as an int or a float, and whether the aggregated total is written back
// to the same name or to "<name>_SUM".
type Spec struct {
	Name       string
	AsInt      bool
	WithSuffix bool
}

// outputName is the attribute name the aggregated total is stored under.
func (s Spec) outputName() string {
	if s.WithSuffix {
		return s.Name + "_SUM"
	}
	return s.Name
}

// Aggregate runs a DFS over every root in g's forest, computing for each
// node the sum of its own value for each spec plus the aggregated values
// of all its children, and storing the result under outputName().
func Aggregate(g *graph.Graph, specs []Spec) {
	for _, root := range g.Roots() {
		aggregateNode(root, specs)
	}
}

// aggregateNode returns, for each spec in order, the node's aggregated
// total (already written to the node as a side effect).
func aggregateNode(n *graph.Node, specs []Spec) []float64 {
	totals := make([]float64, len(specs))
	for i, spec := range specs {
		totals[i] = selfValue(n, spec)
	}

	for _, child := range n.Children() {
		childTotals := aggregateNode(child, specs)
		for i := range totals {
			totals[i] += childTotals[i]
		}
	}

	for i, spec := range specs {
		store(n, spec, totals[i])
	}
	return totals
}

func selfValue(n *graph.Node, spec Spec) float64 {
	if spec.AsInt {
		v, _ := n.Int(spec.Name)
		return float64(v)
	}
	v, _ := n.Float(spec.Name)
	return v
}

func store(n *graph.Node, spec Spec, total float64) {
	if spec.AsInt {
		n.SetInt(spec.outputName(), int64(total))
		return
	}
	n.SetFloat(spec.outputName(), total)
}
