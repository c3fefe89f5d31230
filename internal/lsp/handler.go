package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// State is the Handler's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// pullDiagnosticsEnabled gates textDocument/diagnostic pull support. Left
// off: every server in the registry pushes diagnostics instead, and no
// caller has needed to force a pull yet.
const pullDiagnosticsEnabled = false

// quiescenceIdle is how long work-done progress must stay fully closed,
// with no new token created, before a server is considered settled after
// initialize.
const quiescenceIdle = 500 * time.Millisecond

// quiescencePoll is how often the wait loop re-checks progress state.
const quiescencePoll = 50 * time.Millisecond

// Handler wraps a Client with LSP semantics: initialization lifecycle,
// work-done-progress quiescence, push-diagnostics buffering and a
// per-method facade that absorbs known server quirks (flat vs
// hierarchical document symbols, Location vs LocationLink, benign
// errors) so the importer never has to.
type Handler struct {
	language string

	mu    sync.Mutex
	state State

	client  *Client
	timeout time.Duration
	caps    ServerCapabilities

	progress *progressTracker

	diagMu sync.Mutex
	diag   map[string][]Diagnostic

	log func(severity, msg string)
}

// NewHandler creates a handler for languageID, not yet started. timeout
// bounds every individual request. log receives notable server
// log/show-message traffic, severity-tagged ("error", "warning", "info",
// "log"); it may be nil.
func NewHandler(languageID string, timeout time.Duration, log func(severity, msg string)) *Handler {
	if log == nil {
		log = func(string, string) {}
	}
	return &Handler{
		language: languageID,
		timeout:  timeout,
		progress: newProgressTracker(),
		diag:     make(map[string][]Diagnostic),
		log:      log,
	}
}

// State returns the handler's current lifecycle state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Language returns the language identifier the handler was created for.
func (h *Handler) Language() string { return h.language }

// Start launches the server subprocess and performs the initialize
// handshake, waiting for work-done progress to settle before returning.
func (h *Handler) Start(ctx context.Context, command string, args []string, rootURI string, initOptions any, ioLogDir string) error {
	h.mu.Lock()
	if h.state != StateUninitialized {
		h.mu.Unlock()
		return fmt.Errorf("lsp: handler for %s already started", h.language)
	}
	h.state = StateInitializing
	h.mu.Unlock()

	client, err := NewClient(command, args, rootURI, h.language, ioLogDir)
	if err != nil {
		h.setState(StateUninitialized)
		return fmt.Errorf("lsp: launching %s server: %w", h.language, err)
	}
	client.SetNotificationHandler(h.onNotification)
	client.SetRequestHandler(h.onServerRequest)

	h.mu.Lock()
	h.client = client
	h.mu.Unlock()

	ictx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	result, err := client.Initialize(ictx, initOptions)
	if err != nil {
		_ = client.Kill()
		h.setState(StateUninitialized)
		return fmt.Errorf("lsp: initializing %s server: %w", h.language, err)
	}
	h.mu.Lock()
	h.caps = result.Capabilities
	h.mu.Unlock()

	h.awaitQuiescence(8 * h.timeout)
	h.setState(StateReady)
	return nil
}

// Capabilities returns the server's advertised capabilities from the
// initialize response, the importer's source of truth for which relation
// queries are worth issuing at all.
func (h *Handler) Capabilities() ServerCapabilities {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.caps
}

func (h *Handler) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Shutdown stops the server, using the polite shutdown/exit handshake
// unless the language is known to hang on it.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if h.state == StateUninitialized || h.client == nil {
		h.mu.Unlock()
		return nil
	}
	h.state = StateShuttingDown
	client := h.client
	h.mu.Unlock()

	var err error
	if skipsShutdownHandshake(h.language) {
		err = client.Kill()
	} else {
		sctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		err = client.Shutdown(sctx)
	}
	h.setState(StateUninitialized)
	return err
}

// skipsShutdownHandshake names the servers known to block indefinitely on
// a polite shutdown/exit round trip, so Shutdown kills them instead.
func skipsShutdownHandshake(language string) bool {
	switch language {
	case "typescript", "python":
		return true
	default:
		return false
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}

// --- notifications & server requests -------------------------------------

func (h *Handler) onNotification(method string, params json.RawMessage) {
	switch method {
	case "textDocument/publishDiagnostics":
		var p PublishDiagnosticsParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		h.diagMu.Lock()
		h.diag[p.URI] = p.Diagnostics
		h.diagMu.Unlock()
	case "$/progress":
		var p ProgressParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		var v WorkDoneProgressValue
		_ = json.Unmarshal(p.Value, &v)
		h.progress.onValue(fmt.Sprint(p.Token), v.Kind)
	case "window/logMessage":
		var p LogMessageParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		if isBenignLogMessage(h.language, p.Message) {
			return
		}
		h.log(messageTypeSeverity(p.Type), p.Message)
	case "window/showMessage":
		var p LogMessageParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		h.log(messageTypeSeverity(p.Type), p.Message)
	}
}

func (h *Handler) onServerRequest(method string, params json.RawMessage) (any, error) {
	switch method {
	case "window/workDoneProgress/create":
		var p struct {
			Token any `json:"token"`
		}
		_ = json.Unmarshal(params, &p)
		h.progress.onCreate(fmt.Sprint(p.Token))
		return nil, nil
	case "window/workDoneProgress/cancel":
		// A server may request cancellation of a progress token the client
		// already considers done (race on Shutdown); nothing to act on.
		return nil, nil
	case "workspace/configuration":
		var p struct {
			Items []struct{} `json:"items"`
		}
		_ = json.Unmarshal(params, &p)
		return make([]any, len(p.Items)), nil
	default:
		return nil, nil
	}
}

func messageTypeSeverity(t int) string {
	switch t {
	case 1:
		return "error"
	case 2:
		return "warning"
	case 3:
		return "info"
	default:
		return "log"
	}
}

// isBenignLogMessage filters server log chatter known to carry no signal:
// Go's gopls metadata warnings for files outside any module, and
// OmniSharp's noisy didOpen acknowledgements.
func isBenignLogMessage(language, msg string) bool {
	switch language {
	case "go":
		return strings.Contains(msg, "no package metadata for file")
	case "csharp":
		return strings.Contains(msg, "didOpen") || strings.Contains(msg, "OmniSharp")
	default:
		return false
	}
}

// --- progress / quiescence -------------------------------------------------

type progressTracker struct {
	mu        sync.Mutex
	active    map[string]bool
	lastEvent time.Time
}

func newProgressTracker() *progressTracker {
	return &progressTracker{active: make(map[string]bool), lastEvent: time.Now()}
}

func (p *progressTracker) onCreate(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[token] = true
	p.lastEvent = time.Now()
}

func (p *progressTracker) onValue(token, kind string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch kind {
	case "begin", "report":
		p.active[token] = true
	case "end":
		p.active[token] = false
	}
	p.lastEvent = time.Now()
}

func (p *progressTracker) quiescent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, open := range p.active {
		if open {
			return false
		}
	}
	return time.Since(p.lastEvent) >= quiescenceIdle
}

// awaitQuiescence blocks until every observed work-done token has ended
// and none has been created for quiescenceIdle, or giveUpAfter elapses.
// Giving up is not an error: a server that never reports progress at all
// is simply considered immediately quiescent-adjacent and importing
// proceeds.
func (h *Handler) awaitQuiescence(giveUpAfter time.Duration) {
	deadline := time.Now().Add(giveUpAfter)
	for {
		if h.progress.quiescent() {
			return
		}
		if time.Now().After(deadline) {
			return
		}
		time.Sleep(quiescencePoll)
	}
}

// --- document lifecycle -----------------------------------------------------

// OpenDocument sends textDocument/didOpen for path, reading its content
// from disk.
func (h *Handler) OpenDocument(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lsp: reading %s: %w", path, err)
	}
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()
	return client.Notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        pathToURI(path),
			LanguageID: h.language,
			Version:    1,
			Text:       string(content),
		},
	})
}

// CloseDocument sends textDocument/didClose for path.
func (h *Handler) CloseDocument(path string) error {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()
	return client.Notify("textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
	})
}

// --- queries ----------------------------------------------------------------

// ErrFatalProtocol wraps errors that should abort the whole import rather
// than just the current file, such as a server returning flat
// SymbolInformation from a request that requires the hierarchical shape.
var ErrFatalProtocol = fmt.Errorf("fatal protocol violation")

// DocumentSymbols requests the hierarchical symbol tree for path. A
// request that times out returns a nil slice, not an error: the file's
// subtree is simply truncated to nothing, per the importer's
// always-forward-progress rule.
func (h *Handler) DocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	raw, err := client.CallRaw(cctx, "textDocument/documentSymbol", DocumentSymbolParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
	})
	if err != nil {
		if cctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	var probes []json.RawMessage
	if err := json.Unmarshal(raw, &probes); err != nil {
		return nil, fmt.Errorf("lsp: decoding documentSymbol response: %w", err)
	}
	if len(probes) == 0 {
		return nil, nil
	}

	var probe struct {
		SelectionRange *Range `json:"selectionRange"`
	}
	if err := json.Unmarshal(probes[0], &probe); err == nil && probe.SelectionRange != nil {
		var out []DocumentSymbol
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("lsp: decoding hierarchical symbols: %w", err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %s server returned flat SymbolInformation from textDocument/documentSymbol; hierarchicalDocumentSymbolSupport was advertised and is required", ErrFatalProtocol, h.language)
}

// Hover requests hover text at a position, flattening MarkupContent and
// plain-string/MarkedString forms to a single string. It returns ("",
// false, nil) whenever the server has nothing to say, including the known
// "no package metadata for file" gopls error.
func (h *Handler) Hover(ctx context.Context, path string, line, char int) (string, bool, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	raw, err := client.CallRaw(cctx, "textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     Position{Line: line, Character: char},
	})
	if err != nil {
		if cctx.Err() != nil || isBenignQueryError(h.language, err) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return "", false, nil
	}

	var hover Hover
	if err := json.Unmarshal(raw, &hover); err != nil {
		return "", false, nil
	}
	text := extractHoverText(hover.Contents)
	return text, text != "", nil
}

func extractHoverText(contents any) string {
	switch v := contents.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, extractHoverText(item))
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// isBenignQueryError recognises known non-fatal server error responses
// that should be treated as "no result" rather than propagated.
func isBenignQueryError(language string, err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "workDoneProgress/cancel") {
		return true // a stale progress token cancelled after the work it tracked already finished
	}
	switch language {
	case "go":
		return strings.Contains(msg, "no package metadata for file")
	}
	return strings.Contains(msg, "unknown request") // e.g. rust-analyzer on hierarchy methods it doesn't implement
}

// positionalQuery drives the four symmetrical position-to-location
// queries (definition, declaration, typeDefinition, implementation),
// resolving either a single Location, an array of Location, or an array
// of LocationLink.
func (h *Handler) positionalQuery(ctx context.Context, method, path string, line, char int) ([]Location, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	raw, err := client.CallRaw(cctx, method, TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     Position{Line: line, Character: char},
	})
	if err != nil {
		if cctx.Err() != nil || isBenignQueryError(h.language, err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeLocations(raw), nil
}

func decodeLocations(raw json.RawMessage) []Location {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] != '[' {
		var single Location
		if err := json.Unmarshal(raw, &single); err == nil && single.URI != "" {
			return []Location{single}
		}
		return nil
	}

	var direct []Location
	if err := json.Unmarshal(raw, &direct); err == nil {
		allValid := true
		for _, l := range direct {
			if l.URI == "" {
				allValid = false
				break
			}
		}
		if allValid {
			return direct
		}
	}

	var links []LocationLink
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil
	}
	out := make([]Location, 0, len(links))
	for _, l := range links {
		r := l.TargetRange
		if l.TargetSelectionRange != (Range{}) {
			r = l.TargetSelectionRange
		}
		out = append(out, Location{URI: l.TargetURI, Range: r})
	}
	return out
}

// Definition resolves textDocument/definition.
func (h *Handler) Definition(ctx context.Context, path string, line, char int) ([]Location, error) {
	return h.positionalQuery(ctx, "textDocument/definition", path, line, char)
}

// Declaration resolves textDocument/declaration.
func (h *Handler) Declaration(ctx context.Context, path string, line, char int) ([]Location, error) {
	return h.positionalQuery(ctx, "textDocument/declaration", path, line, char)
}

// TypeDefinition resolves textDocument/typeDefinition.
func (h *Handler) TypeDefinition(ctx context.Context, path string, line, char int) ([]Location, error) {
	return h.positionalQuery(ctx, "textDocument/typeDefinition", path, line, char)
}

// Implementation resolves textDocument/implementation.
func (h *Handler) Implementation(ctx context.Context, path string, line, char int) ([]Location, error) {
	return h.positionalQuery(ctx, "textDocument/implementation", path, line, char)
}

// References resolves textDocument/references.
func (h *Handler) References(ctx context.Context, path string, line, char int, includeDeclaration bool) ([]Location, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var out []Location
	err := client.Call(cctx, "textDocument/references", ReferenceParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     Position{Line: line, Character: char},
		Context:      ReferenceContext{IncludeDeclaration: includeDeclaration},
	}, &out)
	if err != nil {
		if cctx.Err() != nil || isBenignQueryError(h.language, err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// OutgoingCalls prepares a call hierarchy item at (line, char) and
// resolves its outgoing calls, applying filter (if non-nil) to the
// prepared items before following them. A failed or unsupported prepare
// is logged and treated as zero outgoing calls, not a fatal error: many
// servers only partially implement call hierarchy.
func (h *Handler) OutgoingCalls(ctx context.Context, path string, line, char int, filter func(CallHierarchyItem) bool) ([]CallHierarchyItem, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var items []CallHierarchyItem
	if err := client.Call(cctx, "textDocument/prepareCallHierarchy", CallHierarchyPrepareParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     Position{Line: line, Character: char},
	}, &items); err != nil {
		h.log("warning", fmt.Sprintf("%s: prepareCallHierarchy: %v", h.language, err))
		return nil, nil
	}

	var out []CallHierarchyItem
	for _, item := range items {
		if filter != nil && !filter(item) {
			continue
		}
		// Some servers reject the typed CallHierarchyOutgoingCallsParams
		// wrapper but accept the same payload sent as a bare map; send it
		// that way to sidestep the discrepancy rather than special-case
		// each server.
		raw, err := client.CallRaw(cctx, "callHierarchy/outgoingCalls", map[string]any{"item": item})
		if err != nil {
			continue
		}
		var outgoing []CallHierarchyOutgoingCall
		if err := json.Unmarshal(raw, &outgoing); err != nil {
			continue
		}
		for _, oc := range outgoing {
			out = append(out, oc.To)
		}
	}
	return out, nil
}

// Supertypes prepares a type hierarchy item at (line, char) and resolves
// its supertypes, with the same filter/failure semantics as OutgoingCalls.
func (h *Handler) Supertypes(ctx context.Context, path string, line, char int, filter func(TypeHierarchyItem) bool) ([]TypeHierarchyItem, error) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var items []TypeHierarchyItem
	if err := client.Call(cctx, "textDocument/prepareTypeHierarchy", TypeHierarchyPrepareParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     Position{Line: line, Character: char},
	}, &items); err != nil {
		h.log("warning", fmt.Sprintf("%s: prepareTypeHierarchy: %v", h.language, err))
		return nil, nil
	}

	var out []TypeHierarchyItem
	for _, item := range items {
		if filter != nil && !filter(item) {
			continue
		}
		raw, err := client.CallRaw(cctx, "typeHierarchy/supertypes", map[string]any{"item": item})
		if err != nil {
			continue
		}
		var supertypes []TypeHierarchyItem
		if err := json.Unmarshal(raw, &supertypes); err != nil {
			continue
		}
		out = append(out, supertypes...)
	}
	return out, nil
}

// PullDiagnostics requests textDocument/diagnostic for path. Disabled by
// pullDiagnosticsEnabled: every registered server pushes diagnostics
// instead, and no caller needs this path exercised yet, but the
// implementation is kept ready rather than removed.
func (h *Handler) PullDiagnostics(ctx context.Context, path string) ([]Diagnostic, error) {
	if !pullDiagnosticsEnabled {
		return nil, nil
	}
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	cctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var result struct {
		Items []Diagnostic `json:"items"`
	}
	if err := client.Call(cctx, "textDocument/diagnostic", map[string]any{
		"textDocument": TextDocumentIdentifier{URI: pathToURI(path)},
	}, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// DrainPushedDiagnostics returns every diagnostic pushed since the last
// drain, keyed by file URI, and clears the buffer.
func (h *Handler) DrainPushedDiagnostics() map[string][]Diagnostic {
	h.diagMu.Lock()
	defer h.diagMu.Unlock()
	out := h.diag
	h.diag = make(map[string][]Diagnostic)
	return out
}

func pathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	p := path
	if !strings.HasPrefix(p, "/") {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return "file://" + p
}
