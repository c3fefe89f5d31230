package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
	"github.com/uni-bremen-agst/LSP2GXL/internal/ignore"
	"github.com/uni-bremen-agst/LSP2GXL/internal/interval"
	"github.com/uni-bremen-agst/LSP2GXL/internal/lsp"
	"github.com/uni-bremen-agst/LSP2GXL/internal/metrics"
	"github.com/uni-bremen-agst/LSP2GXL/internal/perf"
	"github.com/uni-bremen-agst/LSP2GXL/internal/serverregistry"
	"github.com/uni-bremen-agst/LSP2GXL/internal/tracelog"
)

// Importer runs one import: server resolution, discovery, node phase,
// index build, edge phase, diagnostics and aggregation, writing
// everything into a single Graph.
type Importer struct {
	opts Options
	sink *tracelog.Sink
	perf *perf.Recorder

	projectRoot string
	server      serverregistry.Server
	handler     *lsp.Handler
	graph       *graph.Graph

	dirMu    sync.Mutex
	dirCache map[string]*graph.Node

	rangedMu    sync.Mutex
	rangedNodes map[string][]rangedNode

	trees map[string]*interval.Tree

	edgeCount int64
}

type rangedNode struct {
	r graph.Range
	n *graph.Node
}

// New creates an Importer for one run. sink receives every warning and
// error; rec (may be nil) receives per-phase timings.
func New(opts Options, sink *tracelog.Sink, rec *perf.Recorder) *Importer {
	return &Importer{
		opts:        opts,
		sink:        sink,
		perf:        rec,
		dirCache:    make(map[string]*graph.Node),
		rangedNodes: make(map[string][]rangedNode),
		trees:       make(map[string]*interval.Tree),
	}
}

// Run executes the whole pipeline and returns the resulting graph. A
// non-nil error means a fatal, import-aborting failure (setup, or a
// protocol violation from DocumentSymbols); anything recoverable is
// logged to the sink and the import continues.
func (imp *Importer) Run(ctx context.Context) (*graph.Graph, error) {
	if imp.opts.Registry == nil {
		return nil, fmt.Errorf("importer: no server registry configured")
	}
	server, err := imp.opts.Registry.Resolve(imp.opts.ServerName)
	if err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	imp.server = server

	if len(imp.opts.Roots) == 0 {
		return nil, fmt.Errorf("importer: no include roots configured")
	}
	root, err := filepath.Abs(imp.opts.Roots[0])
	if err != nil {
		return nil, fmt.Errorf("importer: resolving project root: %w", err)
	}
	imp.projectRoot = root
	imp.graph = graph.New(filepath.Base(root))

	matcher := ignore.NewMatcherFromFile(imp.opts.Excludes, filepath.Join(root, ".lsp2gxlignore"))

	var files []string
	if err := imp.timed("discovery", func() error {
		var derr error
		files, derr = imp.discover(matcher)
		return derr
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("importer: no files under %s match %s's extensions", root, imp.server.Name)
	}

	handler := lsp.NewHandler(imp.server.LanguageID, imp.opts.Timeout, imp.logFunc())
	if err := imp.timed("startup", func() error {
		return handler.Start(ctx, imp.server.Command, imp.server.Args, pathToURI(root), imp.initOptions(), imp.opts.IOLogDir)
	}); err != nil {
		return nil, fmt.Errorf("importer: starting %s: %w", imp.server.Name, err)
	}
	imp.handler = handler
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), imp.opts.Timeout)
		defer cancel()
		if err := handler.Shutdown(sctx); err != nil {
			imp.sink.Warning("importer: shutting down %s: %v", imp.server.Name, err)
		}
	}()

	if err := imp.timed("node-phase", func() error { return imp.nodePhase(ctx, files) }); err != nil {
		return nil, err
	}

	if imp.server.LanguageID == "java" {
		imp.timed("java-correction", func() error { imp.javaCorrection(); return nil })
	}

	imp.timed("index-build", func() error { imp.buildIndexes(); return nil })

	if err := imp.timed("edge-phase", func() error { return imp.edgePhase(ctx) }); err != nil {
		return nil, err
	}

	imp.timed("diagnostics", func() error { imp.diagnosticsPhase(ctx); return nil })

	imp.timed("aggregation", func() error {
		metrics.Aggregate(imp.graph, []metrics.Spec{
			{Name: "Metric.Lines.LOC", AsInt: true, WithSuffix: false},
			{Name: "Metrics.LSP_Error", AsInt: true, WithSuffix: true},
			{Name: "Metrics.LSP_Warning", AsInt: true, WithSuffix: true},
			{Name: "Metrics.LSP_Information", AsInt: true, WithSuffix: true},
			{Name: "Metrics.LSP_Hint", AsInt: true, WithSuffix: true},
		})
		return nil
	})

	imp.graph.SetString("BasePath", root)
	imp.graph.Roots() // forces the roots/level/Metrics.Level recompute before handoff

	return imp.graph, nil
}

func (imp *Importer) timed(phase string, fn func() error) error {
	if imp.perf == nil {
		return fn()
	}
	return imp.perf.Timed(phase, fn)
}

func (imp *Importer) initOptions() any {
	if imp.opts.InitOptions != nil {
		return imp.opts.InitOptions
	}
	return imp.server.InitOptions
}

func (imp *Importer) logFunc() func(severity, msg string) {
	return func(severity, msg string) {
		switch severity {
		case "error":
			imp.sink.Error("%s: %s", imp.server.Name, msg)
		case "warning":
			imp.sink.Warning("%s: %s", imp.server.Name, msg)
		default:
			imp.sink.Info("%s: %s", imp.server.Name, msg)
		}
	}
}

// relPath returns path relative to the project root, slash-normalised.
func (imp *Importer) relPath(path string) string {
	rel, err := filepath.Rel(imp.projectRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// registerRanged records n under path's bucket for the later per-file
// interval-tree build, provided n actually carries a source range.
func (imp *Importer) registerRanged(path string, n *graph.Node) {
	r := n.SourceRange()
	if r == (graph.Range{}) {
		return
	}
	imp.rangedMu.Lock()
	imp.rangedNodes[path] = append(imp.rangedNodes[path], rangedNode{r: r, n: n})
	imp.rangedMu.Unlock()
}

// buildIndexes constructs one interval tree per file from the nodes
// registered during the node phase, skipped entirely when the
// unoptimised linear path was requested.
func (imp *Importer) buildIndexes() {
	if imp.opts.Unoptimized {
		return
	}
	for path, nodes := range imp.rangedNodes {
		ranges := make([]interval.Range, len(nodes))
		values := make([]any, len(nodes))
		for i, rn := range nodes {
			ranges[i] = interval.Range{StartLine: rn.r.StartLine, StartChar: rn.r.StartChar, EndLine: rn.r.EndLine, EndChar: rn.r.EndChar}
			values[i] = rn.n
		}
		imp.trees[path] = interval.Build(ranges, values)
	}
}

// resolveNode finds the node that tightest-encloses (line, char) in
// path's file, via the interval index or, when unoptimised, a linear
// scan over the same candidate set.
func (imp *Importer) resolveNode(path string, line, char int) (*graph.Node, bool) {
	if !imp.opts.Unoptimized {
		tree, ok := imp.trees[path]
		if !ok {
			return nil, false
		}
		v, ok := tree.TightestEnclosing(line, char)
		if !ok {
			return nil, false
		}
		return v.(*graph.Node), true
	}

	imp.rangedMu.Lock()
	candidates := append([]rangedNode(nil), imp.rangedNodes[path]...)
	imp.rangedMu.Unlock()

	var best *rangedNode
	for i := range candidates {
		c := &candidates[i]
		if !rangeContainsPoint(c.r, line, char) {
			continue
		}
		if best == nil || tighterRange(c.r, best.r) {
			best = c
		}
	}
	if best == nil {
		return nil, false
	}
	return best.n, true
}

func rangeContainsPoint(r graph.Range, line, char int) bool {
	start := graph.Range{StartLine: line, StartChar: char, EndLine: line, EndChar: char}
	return r.Contains(start)
}

func tighterRange(a, b graph.Range) bool {
	as := a.EndLine - a.StartLine
	bs := b.EndLine - b.StartLine
	if as != bs {
		return as < bs
	}
	return (a.EndChar - a.StartChar) < (b.EndChar - b.StartChar)
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// uriToPath reverses pathToURI, converting a file:// location returned by
// the server back into the plain filesystem path used as the key into
// rangedNodes and trees.
func uriToPath(uri string) string {
	const prefix = "file://"
	if strings.HasPrefix(uri, prefix) {
		return filepath.FromSlash(strings.TrimPrefix(uri, prefix))
	}
	return uri
}

func (imp *Importer) nextEdgeCount() int64 {
	return atomic.AddInt64(&imp.edgeCount, 1)
}

// EdgeCount returns the number of edges the edge phase actually added
// (post-filtering).
func (imp *Importer) EdgeCount() int64 {
	return atomic.LoadInt64(&imp.edgeCount)
}
