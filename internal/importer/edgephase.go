package importer

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
	"github.com/uni-bremen-agst/LSP2GXL/internal/lsp"
)

// relationFanOut caps concurrent LSP relation queries at 4 regardless of
// how many (file, node) worker tasks are in flight: servers throttle
// poorly under higher fan-out than that, independent of the edge phase's
// own task-pool size.
const relationFanOut = 4

// edgePhase issues every enabled relation query for every (file, node)
// pair carrying a source range, bounded by opts.jobs() concurrent tasks
// and relationFanOut concurrent LSP calls across all of them combined.
func (imp *Importer) edgePhase(ctx context.Context) error {
	caps := imp.handler.Capabilities()
	enabled := imp.enabledRules(caps)
	if len(enabled) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.opts.jobs())
	relationSem := semaphore.NewWeighted(relationFanOut)

	for path, nodes := range imp.rangedNodes {
		path := path
		for _, rn := range nodes {
			n := rn.n
			if n.Type() == "Directory" || n.Type() == "File" {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				imp.processNodeEdges(gctx, relationSem, path, n, enabled)
				return nil
			})
		}
	}

	return g.Wait()
}

// enabledRules narrows the fixed edge-direction table to the kinds both
// enabled by options and advertised by the server, preserving table order.
func (imp *Importer) enabledRules(caps lsp.ServerCapabilities) []edgeRule {
	var out []edgeRule
	for _, rule := range edgeRules {
		if !imp.opts.edgeKindEnabled(rule.kind) {
			continue
		}
		if !capabilityAdvertised(caps, rule.kind) {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func capabilityAdvertised(caps lsp.ServerCapabilities, kind EdgeKind) bool {
	switch kind {
	case EdgeDefinition:
		return lsp.Enabled(caps.DefinitionProvider)
	case EdgeDeclaration:
		return lsp.Enabled(caps.DeclarationProvider)
	case EdgeTypeDefinition:
		return lsp.Enabled(caps.TypeDefinitionProvider)
	case EdgeImplementation:
		return lsp.Enabled(caps.ImplementationProvider)
	case EdgeReference:
		return lsp.Enabled(caps.ReferencesProvider)
	case EdgeCall:
		return lsp.Enabled(caps.CallHierarchyProvider)
	case EdgeExtend:
		return lsp.Enabled(caps.TypeHierarchyProvider)
	default:
		return false
	}
}

// processNodeEdges issues every enabled-and-advertised relation query for
// one node, in table order, resolving each returned location through the
// interval index and applying the insertion filter rules. Any error
// surfacing from a relation query is logged and absorbed: it must not
// abort the rest of the edge phase.
func (imp *Importer) processNodeEdges(ctx context.Context, sem *semaphore.Weighted, path string, n *graph.Node, rules []edgeRule) {
	line, char := symbolQueryPoint(n)

	for _, rule := range rules {
		locations, err := imp.queryRelation(ctx, sem, rule.kind, path, line, char)
		if err != nil {
			imp.sink.Warning("importer: %s: %s on %s: %v", path, rule.kind, n.ID(), err)
			continue
		}
		for _, loc := range locations {
			imp.insertEdge(rule, n, loc)
		}
	}
}

// queryRelation dispatches to the Handler method matching kind, holding
// relationSem for the duration of the LSP call.
func (imp *Importer) queryRelation(ctx context.Context, sem *semaphore.Weighted, kind EdgeKind, path string, line, char int) ([]lsp.Location, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer sem.Release(1)

	switch kind {
	case EdgeDefinition:
		return imp.handler.Definition(ctx, path, line, char)
	case EdgeDeclaration:
		return imp.handler.Declaration(ctx, path, line, char)
	case EdgeTypeDefinition:
		return imp.handler.TypeDefinition(ctx, path, line, char)
	case EdgeImplementation:
		return imp.handler.Implementation(ctx, path, line, char)
	case EdgeReference:
		return imp.handler.References(ctx, path, line, char, false)
	case EdgeCall:
		items, err := imp.handler.OutgoingCalls(ctx, path, line, char, nil)
		return callItemsToLocations(items), err
	case EdgeExtend:
		items, err := imp.handler.Supertypes(ctx, path, line, char, nil)
		return typeItemsToLocations(items), err
	default:
		return nil, nil
	}
}

func callItemsToLocations(items []lsp.CallHierarchyItem) []lsp.Location {
	out := make([]lsp.Location, 0, len(items))
	for _, it := range items {
		out = append(out, lsp.Location{URI: it.URI, Range: it.SelectionRange})
	}
	return out
}

func typeItemsToLocations(items []lsp.TypeHierarchyItem) []lsp.Location {
	out := make([]lsp.Location, 0, len(items))
	for _, it := range items {
		out = append(out, lsp.Location{URI: it.URI, Range: it.SelectionRange})
	}
	return out
}

// insertEdge resolves loc to a target node via the interval index and
// runs it through the §4.3 step 6 filter rules.
func (imp *Importer) insertEdge(rule edgeRule, source *graph.Node, loc lsp.Location) {
	targetPath := uriToPath(loc.URI)
	target, ok := imp.resolveNode(targetPath, loc.Range.Start.Line, loc.Range.Start.Character)
	if !ok {
		return
	}

	outcome := applyEdge(imp.graph, rule, source, target, imp.opts.AvoidSelfRefs, imp.opts.AvoidParentRefs)
	if outcome == edgeAdded {
		imp.nextEdgeCount()
	}
}

// symbolQueryPoint is the position relation queries are issued at: a
// symbol's selection range (its identifier token), falling back to the
// start of its source range for nodes that never got a selection range
// (namely File nodes, not normally edge-phase subjects but handled
// defensively).
func symbolQueryPoint(n *graph.Node) (line, char int) {
	if r, ok := n.RangeAttr(graph.SelectionRangeAttr); ok {
		return r.StartLine, r.StartChar
	}
	r := n.SourceRange()
	return r.StartLine, r.StartChar
}
