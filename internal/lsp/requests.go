package lsp

// LSP Request/Response types for initialization and common requests

// InitializeParams sent to server during initialization
type InitializeParams struct {
	ProcessID             int                `json:"processId"`
	RootURI               string             `json:"rootUri"`
	Capabilities          ClientCapabilities `json:"capabilities"`
	InitializationOptions any                `json:"initializationOptions,omitempty"`
	WorkspaceFolders      []WorkspaceFolder  `json:"workspaceFolders,omitempty"`
}

// WorkspaceFolder names a root the client is editing.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// ClientCapabilities describes client capabilities
type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument,omitempty"`
	Workspace    WorkspaceClientCapabilities    `json:"workspace,omitempty"`
	Window       WindowClientCapabilities       `json:"window,omitempty"`
}

// SymbolKindCapability advertises which SymbolKind values the client
// understands.
type SymbolKindCapability struct {
	ValueSet []SymbolKind `json:"valueSet,omitempty"`
}

// TagSupportCapability advertises which SymbolTag values the client
// understands (currently only SymbolTagDeprecated exists).
type TagSupportCapability struct {
	ValueSet []int `json:"valueSet,omitempty"`
}

// HoverClientCapabilities advertises which MarkupContent kinds the client
// can render for textDocument/hover.
type HoverClientCapabilities struct {
	ContentFormat []string `json:"contentFormat,omitempty"`
}

// SemanticTokensClientCapabilities advertises the token types/modifiers
// the client understands. Not consumed anywhere yet: no component queries
// textDocument/semanticTokens, so it exists purely as an advertised,
// unused capability, same as a real client would send before growing a
// semantic-highlighting feature.
type SemanticTokensClientCapabilities struct {
	TokenTypes     []string `json:"tokenTypes,omitempty"`
	TokenModifiers []string `json:"tokenModifiers,omitempty"`
}

// WindowClientCapabilities advertises work-done-progress support, which
// the quiescence check depends on servers actually using.
type WindowClientCapabilities struct {
	WorkDoneProgress bool `json:"workDoneProgress,omitempty"`
}

// TextDocumentClientCapabilities for text document features
type TextDocumentClientCapabilities struct {
	DocumentSymbol     DocumentSymbolClientCapabilities     `json:"documentSymbol,omitempty"`
	CallHierarchy      CallHierarchyClientCapabilities      `json:"callHierarchy,omitempty"`
	TypeHierarchy      TypeHierarchyClientCapabilities      `json:"typeHierarchy,omitempty"`
	Definition         DefinitionClientCapabilities         `json:"definition,omitempty"`
	PublishDiagnostics PublishDiagnosticsClientCapabilities `json:"publishDiagnostics,omitempty"`
	Hover              HoverClientCapabilities              `json:"hover,omitempty"`
	SemanticTokens     SemanticTokensClientCapabilities     `json:"semanticTokens,omitempty"`
}

// DefinitionClientCapabilities advertises LocationLink support for
// definition/declaration/typeDefinition/implementation requests.
type DefinitionClientCapabilities struct {
	LinkSupport bool `json:"linkSupport,omitempty"`
}

// PublishDiagnosticsClientCapabilities for textDocument/publishDiagnostics.
type PublishDiagnosticsClientCapabilities struct {
	RelatedInformation bool `json:"relatedInformation,omitempty"`
}

// DocumentSymbolClientCapabilities for document symbols
type DocumentSymbolClientCapabilities struct {
	HierarchicalDocumentSymbolSupport bool                  `json:"hierarchicalDocumentSymbolSupport,omitempty"`
	SymbolKind                        *SymbolKindCapability `json:"symbolKind,omitempty"`
	TagSupport                        *TagSupportCapability `json:"tagSupport,omitempty"`
}

// CallHierarchyClientCapabilities for call hierarchy
type CallHierarchyClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

// TypeHierarchyClientCapabilities for type hierarchy
type TypeHierarchyClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

// WorkspaceClientCapabilities for workspace features
type WorkspaceClientCapabilities struct {
	Symbol WorkspaceSymbolClientCapabilities `json:"symbol,omitempty"`
}

// WorkspaceSymbolClientCapabilities for workspace symbols
type WorkspaceSymbolClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

// InitializeResult returned by server after initialization
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities describes what the server can do
// Note: Many fields use `any` because LSP servers can return either
// a boolean (true/false) or an options object for each capability
type ServerCapabilities struct {
	TextDocumentSync        any `json:"textDocumentSync,omitempty"`
	DocumentSymbolProvider  any `json:"documentSymbolProvider,omitempty"`
	WorkspaceSymbolProvider any `json:"workspaceSymbolProvider,omitempty"`
	HoverProvider           any `json:"hoverProvider,omitempty"`
	DefinitionProvider      any `json:"definitionProvider,omitempty"`
	DeclarationProvider     any `json:"declarationProvider,omitempty"`
	TypeDefinitionProvider  any `json:"typeDefinitionProvider,omitempty"`
	ReferencesProvider      any `json:"referencesProvider,omitempty"`
	ImplementationProvider  any `json:"implementationProvider,omitempty"`
	CallHierarchyProvider   any `json:"callHierarchyProvider,omitempty"`
	TypeHierarchyProvider   any `json:"typeHierarchyProvider,omitempty"`
	DiagnosticProvider      any `json:"diagnosticProvider,omitempty"`
}

// Enabled reports whether a ServerCapabilities provider field is present
// and not explicitly false — LSP providers are either a bool or an
// options object, and nil/absent means unsupported.
func Enabled(provider any) bool {
	if provider == nil {
		return false
	}
	if b, ok := provider.(bool); ok {
		return b
	}
	return true
}

// DocumentSymbolParams for textDocument/documentSymbol request
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// WorkspaceSymbolParams for workspace/symbol request
type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

// CallHierarchyPrepareParams for callHierarchy/prepare
type CallHierarchyPrepareParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CallHierarchyIncomingCallsParams for callHierarchy/incomingCalls
type CallHierarchyIncomingCallsParams struct {
	Item CallHierarchyItem `json:"item"`
}

// CallHierarchyOutgoingCallsParams for callHierarchy/outgoingCalls
type CallHierarchyOutgoingCallsParams struct {
	Item CallHierarchyItem `json:"item"`
}

// TypeHierarchyPrepareParams for typeHierarchy/prepare
type TypeHierarchyPrepareParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// TypeHierarchySupertypesParams for typeHierarchy/supertypes
type TypeHierarchySupertypesParams struct {
	Item TypeHierarchyItem `json:"item"`
}

// TypeHierarchySubtypesParams for typeHierarchy/subtypes
type TypeHierarchySubtypesParams struct {
	Item TypeHierarchyItem `json:"item"`
}

// ImplementationParams for textDocument/implementation
type ImplementationParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// ReferenceContext toggles whether the declaration itself is included
// among textDocument/references results.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams for textDocument/references
type ReferenceParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	Context      ReferenceContext       `json:"context"`
}

// TextDocumentItem is the full document payload sent on didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// DidOpenTextDocumentParams for textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidCloseTextDocumentParams for textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DefaultClientCapabilities returns capabilities we advertise to servers
func DefaultClientCapabilities() ClientCapabilities {
	return ClientCapabilities{
		TextDocument: TextDocumentClientCapabilities{
			DocumentSymbol: DocumentSymbolClientCapabilities{
				HierarchicalDocumentSymbolSupport: true,
				SymbolKind:                        &SymbolKindCapability{ValueSet: allSymbolKinds()},
				TagSupport:                         &TagSupportCapability{ValueSet: []int{SymbolTagDeprecated}},
			},
			Hover: HoverClientCapabilities{ContentFormat: []string{"markdown", "plaintext"}},
			CallHierarchy: CallHierarchyClientCapabilities{
				DynamicRegistration: false,
			},
			TypeHierarchy: TypeHierarchyClientCapabilities{
				DynamicRegistration: false,
			},
			Definition: DefinitionClientCapabilities{
				LinkSupport: true,
			},
			PublishDiagnostics: PublishDiagnosticsClientCapabilities{
				RelatedInformation: true,
			},
		},
		Workspace: WorkspaceClientCapabilities{
			Symbol: WorkspaceSymbolClientCapabilities{
				DynamicRegistration: false,
			},
		},
		Window: WindowClientCapabilities{
			WorkDoneProgress: true,
		},
	}
}
