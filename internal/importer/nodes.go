package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
	"github.com/uni-bremen-agst/LSP2GXL/internal/lsp"
)

// nodePhase walks every discovered file in order, materialising
// directory, file and symbol nodes. A fatal protocol violation (flat
// SymbolInformation from a server that advertised hierarchical support)
// aborts the whole import; any other per-file failure is logged and the
// phase moves on to the next file.
func (imp *Importer) nodePhase(ctx context.Context, files []string) error {
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := imp.importFile(ctx, path); err != nil {
			if errors.Is(err, lsp.ErrFatalProtocol) {
				return err
			}
			imp.sink.Warning("importer: %s: %v", path, err)
		}
	}
	return nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	if err := imp.handler.OpenDocument(path); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer func() {
		if err := imp.handler.CloseDocument(path); err != nil {
			imp.sink.Warning("importer: closing %s: %v", path, err)
		}
	}()

	dirNode, err := imp.ensureDirChain(filepath.Dir(path))
	if err != nil {
		return err
	}

	relPath := imp.relPath(path)
	parent := dirNode
	if imp.opts.nodeKindEnabled("file") {
		parent = imp.newFileNode(path, relPath, dirNode)
	}

	symbols, err := imp.handler.DocumentSymbols(ctx, path)
	if err != nil {
		return fmt.Errorf("documentSymbol: %w", err)
	}

	return imp.importSymbols(ctx, path, relPath, "", parent, symbols)
}

// ensureDirChain returns the directory node for absDir, creating it and
// every ancestor up to the project root on first use. Results are cached
// by absolute path so sibling files in the same directory share one node.
func (imp *Importer) ensureDirChain(absDir string) (*graph.Node, error) {
	imp.dirMu.Lock()
	defer imp.dirMu.Unlock()
	return imp.ensureDirLocked(absDir)
}

func (imp *Importer) ensureDirLocked(absDir string) (*graph.Node, error) {
	if n, ok := imp.dirCache[absDir]; ok {
		return n, nil
	}

	rel := imp.relPath(absDir)
	id := rel + "/"
	name := filepath.Base(absDir)
	if rel == "." {
		id = "./"
		name = filepath.Base(imp.projectRoot)
	}

	var parent *graph.Node
	if rel != "." {
		p, err := imp.ensureDirLocked(filepath.Dir(absDir))
		if err != nil {
			return nil, err
		}
		parent = p
	}

	n := graph.NewNode(imp.graph, "Directory")
	n.SetSourceName(name)
	n.SetString("Source.Path", rel)
	n.SetID(id)
	if err := imp.graph.AddNode(n); err != nil {
		return nil, fmt.Errorf("adding directory node %s: %w", id, err)
	}
	if parent != nil {
		if err := n.SetParent(parent); err != nil {
			return nil, fmt.Errorf("parenting directory node %s: %w", id, err)
		}
	}

	imp.dirCache[absDir] = n
	return n, nil
}

func (imp *Importer) newFileNode(path, relPath string, parent *graph.Node) *graph.Node {
	n := graph.NewNode(imp.graph, "File")
	loc := countLines(path)
	n.SetSourceRange(graph.Range{StartLine: 0, StartChar: 0, EndLine: loc, EndChar: 0})
	n.SetSourceName(filepath.Base(path))
	n.SetSourceLocation(filepath.Base(path), filepath.Dir(relPath), 1, 1)
	n.SetInt("Metric.Lines.LOC", int64(loc))
	n.SetID(relPath)

	if err := imp.graph.AddNode(n); err != nil {
		imp.sink.Warning("importer: adding file node %s: %v", relPath, err)
	}
	if err := n.SetParent(parent); err != nil {
		imp.sink.Warning("importer: parenting file node %s: %v", relPath, err)
	}
	imp.registerRanged(path, n)
	return n
}

// importSymbols recurses through a document's hierarchical symbol tree.
// enclosingName is the SourceName of the nearest symbol node actually
// materialised above this point, or "" at the file's root — it is what
// the "<parent.sourceName>.<symbolName>" ID rule keys off, skipping over
// disabled-kind symbols rather than treating them as ID-chain breaks.
func (imp *Importer) importSymbols(ctx context.Context, path, relPath, enclosingName string, parent *graph.Node, symbols []lsp.DocumentSymbol) error {
	for _, sym := range symbols {
		kind := lsp.SymbolKindToString(sym.Kind)
		if !imp.opts.nodeKindEnabled(kind) {
			if err := imp.importSymbols(ctx, path, relPath, enclosingName, parent, sym.Children); err != nil {
				return err
			}
			continue
		}

		node, err := imp.materializeSymbolNode(ctx, path, relPath, enclosingName, kind, sym)
		if err != nil {
			return fmt.Errorf("symbol %s: %w", sym.Name, err)
		}
		if err := node.SetParent(parent); err != nil {
			imp.sink.Warning("importer: %s: parenting %s: %v", path, node.ID(), err)
		}
		imp.registerRanged(path, node)

		if err := imp.importSymbols(ctx, path, relPath, sym.Name, node, sym.Children); err != nil {
			return err
		}
	}
	return nil
}

// materializeSymbolNode builds the node for one symbol, implementing the
// dedup-then-hover-then-collision sequence of §4.3 step e: an isomorphic
// node already in the graph is reused outright (no hover fetch, no new
// ID); otherwise hover text is fetched for the new node and its proposed
// ID is suffixed with a fresh uuid if it collides with one already
// present.
func (imp *Importer) materializeSymbolNode(ctx context.Context, path, relPath, enclosingName, kind string, sym lsp.DocumentSymbol) (*graph.Node, error) {
	candidate := graph.NewNode(imp.graph, symbolNodeType(kind))
	candidate.SetSourceName(sym.Name)
	candidate.SetSourceRange(lspToGraphRange(sym.Range))
	candidate.SetRangeAttr(graph.SelectionRangeAttr, lspToGraphRange(sym.SelectionRange))
	line, col := sym.SelectionRange.Start.Line+1, sym.SelectionRange.Start.Character+1
	candidate.SetSourceLocation(filepath.Base(path), filepath.Dir(relPath), line, col)
	candidate.SetInt("Metric.Lines.LOC", int64(sym.Range.End.Line-sym.Range.Start.Line))
	if sym.IsDeprecated() {
		candidate.SetToggle("Deprecated", true)
	}

	if existing := imp.graph.FindIsomorphic(candidate); existing != nil {
		return existing, nil
	}

	if text, ok, err := imp.handler.Hover(ctx, path, sym.SelectionRange.Start.Line, sym.SelectionRange.Start.Character); err != nil {
		imp.sink.Warning("importer: %s: hover for %s: %v", path, sym.Name, err)
	} else if ok {
		candidate.SetString("HoverText", text)
	}

	id := sym.Name
	if enclosingName != "" {
		id = enclosingName + "." + sym.Name
	}
	if _, exists := imp.graph.NodeByID(id); exists {
		id = id + "#" + uuid.NewString()
	}
	candidate.SetID(id)

	if err := imp.graph.AddNode(candidate); err != nil {
		return nil, fmt.Errorf("adding node %s: %w", id, err)
	}
	return candidate, nil
}

func lspToGraphRange(r lsp.Range) graph.Range {
	return graph.Range{
		StartLine: r.Start.Line,
		StartChar: r.Start.Character,
		EndLine:   r.End.Line,
		EndChar:   r.End.Character,
	}
}

// symbolNodeType maps the internal kind string to a GXL node type name.
func symbolNodeType(kind string) string {
	if kind == "" {
		return graph.UnknownType
	}
	parts := strings.Split(kind, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// countLines counts newline-terminated lines in path, plus one for a
// final line without a trailing newline. A file that can't be read
// counts as zero lines rather than aborting the node it belongs to.
func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		count++
	}
	return count
}
