// Package lsp drives a Language Server Protocol server as a subprocess and
// exposes the subset of the protocol the importer needs: document
// symbols, hover, the four position-to-location queries, references,
// call/type hierarchy, and push diagnostics. Client is the JSON-RPC wire
// layer; Handler adds lifecycle management, progress-based quiescence and
// per-server quirk handling on top of it.
package lsp
