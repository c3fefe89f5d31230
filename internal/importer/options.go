// Package importer is the orchestrator: it sequences discovery, the
// serial node phase, the per-file interval index, the parallel edge
// phase, diagnostic draining and metric aggregation into one Graph.
package importer

import (
	"time"

	"github.com/uni-bremen-agst/LSP2GXL/internal/serverregistry"
)

// EdgeKind names one of the seven relation queries the edge phase can
// issue, independent of the LSP method or graph edge type it maps to.
type EdgeKind string

const (
	EdgeDefinition     EdgeKind = "Definition"
	EdgeDeclaration    EdgeKind = "Declaration"
	EdgeTypeDefinition EdgeKind = "TypeDefinition"
	EdgeImplementation EdgeKind = "Implementation"
	EdgeReference      EdgeKind = "Reference"
	EdgeCall           EdgeKind = "Call"
	EdgeExtend         EdgeKind = "Extend"
)

// Options configures one import run. Zero-valued maps mean "every kind/
// severity enabled", so a caller that only wants to override a handful of
// toggles does not have to enumerate the rest.
type Options struct {
	Roots    []string
	Excludes []string

	// ServerName and Registry drive §4.3's "Additional step 0": the
	// Importer itself resolves ServerName against Registry before
	// discovery starts, and a missing name is a Setup error. Registry
	// overrides (a local, nonstandard command/args) are applied by the
	// caller via Registry.Set before the run, not here.
	ServerName string
	Registry   *serverregistry.Registry

	InitOptions any

	Timeout     time.Duration
	Jobs        int
	Unoptimized bool

	IOLogDir string

	EnabledNodeKinds            map[string]bool
	EnabledEdgeKinds            map[EdgeKind]bool
	EnabledDiagnosticSeverities map[int]bool

	AvoidSelfRefs   bool
	AvoidParentRefs bool
}

func (o Options) nodeKindEnabled(kind string) bool {
	if o.EnabledNodeKinds == nil {
		return true
	}
	v, ok := o.EnabledNodeKinds[kind]
	if !ok {
		return true
	}
	return v
}

func (o Options) edgeKindEnabled(k EdgeKind) bool {
	if o.EnabledEdgeKinds == nil {
		return true
	}
	v, ok := o.EnabledEdgeKinds[k]
	if !ok {
		return true
	}
	return v
}

func (o Options) diagnosticSeverityEnabled(sev int) bool {
	if o.EnabledDiagnosticSeverities == nil {
		return true
	}
	v, ok := o.EnabledDiagnosticSeverities[sev]
	if !ok {
		return true
	}
	return v
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return 4
}
