package importer

import (
	"path/filepath"
	"strings"

	"github.com/uni-bremen-agst/LSP2GXL/internal/graph"
)

// javaCorrection is the Java-only post-node step: it synthesises Package
// nodes from each class's directory and reparents class nodes under
// them, replacing the generic directory-nesting the rest of the node
// phase produces. Java's package is the unit of namespacing, not the
// directory tree above it, so two classes compiled from different source
// roots but sharing a package need to land under the same node. It also
// records Num_Methods on each class, a metric only meaningful once the
// class's children are final.
func (imp *Importer) javaCorrection() {
	packages := make(map[string]*graph.Node)

	for _, n := range imp.graph.Nodes() {
		if n.Type() != "Class" {
			continue
		}

		var methodCount int64
		for _, c := range n.Children() {
			if c.Type() == "Method" || c.Type() == "Constructor" {
				methodCount++
			}
		}
		n.SetInt("Num_Methods", methodCount)

		file := n.Parent()
		if file == nil || file.Type() != "File" {
			continue
		}
		dir, _ := file.String("Source.Path")
		pkgName := dirToPackage(dir)
		if pkgName == "" {
			continue
		}

		pkg := imp.ensurePackageChain(packages, pkgName)
		if err := n.SetParent(pkg); err != nil {
			imp.sink.Warning("importer: java: reparenting %s under package %s: %v", n.ID(), pkgName, err)
		}
	}
}

// ensurePackageChain returns the Package node for the fully-dotted name,
// creating it and every enclosing package (com -> com.example ->
// com.example.foo) on first use.
func (imp *Importer) ensurePackageChain(cache map[string]*graph.Node, dotted string) *graph.Node {
	segments := strings.Split(dotted, ".")
	var parent *graph.Node
	var built strings.Builder

	for i, seg := range segments {
		if i > 0 {
			built.WriteByte('.')
		}
		built.WriteString(seg)
		name := built.String()

		pkg, ok := cache[name]
		if !ok {
			pkg = imp.findOrCreatePackageNode("Package:"+name, seg)
			cache[name] = pkg
			if parent != nil {
				if err := pkg.SetParent(parent); err != nil {
					imp.sink.Warning("importer: java: nesting package %s: %v", name, err)
				}
			}
		}
		parent = pkg
	}
	return parent
}

func (imp *Importer) findOrCreatePackageNode(id, name string) *graph.Node {
	if existing, ok := imp.graph.NodeByID(id); ok {
		return existing
	}
	n := graph.NewNode(imp.graph, "Package")
	n.SetSourceName(name)
	n.SetID(id)
	if err := imp.graph.AddNode(n); err != nil {
		imp.sink.Warning("importer: java: adding package node %s: %v", id, err)
	}
	return n
}

// dirToPackage converts a project-relative directory ("com/example/foo")
// into a dotted Java package name ("com.example.foo"), or "" for the
// project root.
func dirToPackage(dir string) string {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" || dir == "." {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}
