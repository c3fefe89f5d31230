package importer

import "github.com/uni-bremen-agst/LSP2GXL/internal/graph"

// edgeRule is one row of the edge direction table: which graph edge type
// an EdgeKind produces, and whether the resolved (source, target) pair
// must be swapped before the edge is added.
type edgeRule struct {
	kind    EdgeKind
	typ     string
	reverse bool
}

// edgeRules is the fixed table of §4.3 step 5, walked in this order for
// every (file, node) pair so that, within one node's work, relation
// queries always issue in the same sequence.
var edgeRules = []edgeRule{
	{EdgeDefinition, "Definition", false},
	{EdgeDeclaration, "Declaration", false},
	{EdgeTypeDefinition, "Of_Type", false},
	{EdgeImplementation, "Implementation_Of", true},
	{EdgeReference, "Reference", true},
	{EdgeCall, "Call", false},
	{EdgeExtend, "Extend", false},
}

// edgeOutcome classifies what happened to a candidate edge, for counting
// and testing without touching the graph.
type edgeOutcome int

const (
	edgeAdded edgeOutcome = iota
	edgeDroppedSelf
	edgeDroppedParent
	edgeDroppedDuplicate
)

// applyEdge runs the filter rules of §4.3 step 6 against a candidate
// (source, target) pair for the given rule, adding the edge to g when it
// survives. It is deliberately free of any LSP or interval-tree
// dependency so the filter logic can be tested in isolation.
func applyEdge(g *graph.Graph, rule edgeRule, source, target *graph.Node, avoidSelf, avoidParent bool) edgeOutcome {
	if avoidSelf && source == target {
		return edgeDroppedSelf
	}
	if avoidParent && target == source.Parent() {
		return edgeDroppedParent
	}

	from, to := source, target
	if rule.reverse {
		from, to = target, source
	}

	e, err := graph.NewEdge(g, rule.typ, from, to)
	if err != nil {
		return edgeDroppedDuplicate
	}
	if _, exists := g.EdgeByID(e.ID()); exists {
		return edgeDroppedDuplicate
	}
	if !g.AddEdge(e) {
		return edgeDroppedDuplicate
	}
	return edgeAdded
}
