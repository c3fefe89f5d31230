package importer

import (
	"context"
	"time"

	"github.com/uni-bremen-agst/LSP2GXL/internal/lsp"
)

// diagnosticCounterNames maps an LSP diagnostic severity to the counter
// attribute incremented on its enclosing node, per §4.3 step 7.
var diagnosticCounterNames = map[int]string{
	lsp.DiagnosticSeverityError:       "Metrics.LSP_Error",
	lsp.DiagnosticSeverityWarning:     "Metrics.LSP_Warning",
	lsp.DiagnosticSeverityInformation: "Metrics.LSP_Information",
	lsp.DiagnosticSeverityHint:        "Metrics.LSP_Hint",
}

// diagnosticsPhase drains the diagnostics observed during the run and
// tallies each one onto a single node: the one resolveNode finds as the
// tightest enclosing node of the diagnostic's start position. Pull
// diagnostics is disabled server-wide (pullDiagnosticsEnabled is false),
// so every registered server pushes instead: §4.3 step 7 has the importer
// wait one timeout window after the edge phase for any trailing
// publishDiagnostics notifications to arrive before draining the buffer.
func (imp *Importer) diagnosticsPhase(ctx context.Context) {
	select {
	case <-time.After(imp.opts.Timeout):
	case <-ctx.Done():
	}

	for uri, diags := range imp.handler.DrainPushedDiagnostics() {
		path := uriToPath(uri)
		for _, d := range diags {
			sev := d.Severity
			if sev == 0 {
				sev = lsp.DiagnosticSeverityError
			}
			if !imp.opts.diagnosticSeverityEnabled(sev) {
				continue
			}
			name, ok := diagnosticCounterNames[sev]
			if !ok {
				continue
			}
			node, ok := imp.resolveNode(path, d.Range.Start.Line, d.Range.Start.Character)
			if !ok {
				continue
			}
			node.AddInt(name, 1)
		}
	}
}
