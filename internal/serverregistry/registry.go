// Package serverregistry holds the fixed table mapping a server name to
// the executable that implements it, the file extensions it is
// responsible for, its LSP languageId, and any initializationOptions it
// expects. The importer resolves --lsp-server against this table once,
// before the node phase starts.
package serverregistry

import "fmt"

// Server describes one entry in the registry.
type Server struct {
	Name        string
	Command     string
	Args        []string
	Extensions  []string
	LanguageID  string
	InitOptions any
}

// Registry is a name-indexed table of the known servers; Set may override
// or add entries.
type Registry struct {
	byName map[string]Server
	order  []string
}

// Default returns the registry seeded with the servers built into the
// tool: one widely-used server per supported language.
func Default() *Registry {
	r := &Registry{byName: make(map[string]Server)}
	for _, s := range []Server{
		{
			Name:       "gopls",
			Command:    "gopls",
			Args:       []string{"serve"},
			Extensions: []string{".go"},
			LanguageID: "go",
		},
		{
			Name:       "pyright",
			Command:    "pyright-langserver",
			Args:       []string{"--stdio"},
			Extensions: []string{".py", ".pyi"},
			LanguageID: "python",
		},
		{
			Name:       "typescript-language-server",
			Command:    "typescript-language-server",
			Args:       []string{"--stdio"},
			Extensions: []string{".ts", ".tsx", ".js", ".jsx"},
			LanguageID: "typescript",
		},
		{
			Name:       "jdtls",
			Command:    "jdtls",
			Args:       nil,
			Extensions: []string{".java"},
			LanguageID: "java",
		},
		{
			Name:       "sourcekit-lsp",
			Command:    "sourcekit-lsp",
			Args:       nil,
			Extensions: []string{".swift"},
			LanguageID: "swift",
		},
		{
			Name:       "rust-analyzer",
			Command:    "rust-analyzer",
			Args:       nil,
			Extensions: []string{".rs"},
			LanguageID: "rust",
		},
		{
			Name:       "ocamllsp",
			Command:    "ocamllsp",
			Args:       nil,
			Extensions: []string{".ml", ".mli"},
			LanguageID: "ocaml",
		},
	} {
		r.add(s)
	}
	return r
}

func (r *Registry) add(s Server) {
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
}

// Set overrides or adds an entry, used by config overrides
// (lsp.<name>.command / args, keyed by server name) and by tests.
func (r *Registry) Set(s Server) {
	if _, exists := r.byName[s.Name]; !exists {
		r.order = append(r.order, s.Name)
	}
	r.byName[s.Name] = s
}

// ByName looks a server up by its registry name (e.g. "gopls").
func (r *Registry) ByName(name string) (Server, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// ByExtension returns the server responsible for a given file extension
// (including the leading dot), or false if none is registered.
func (r *Registry) ByExtension(ext string) (Server, bool) {
	for _, name := range r.order {
		s := r.byName[name]
		for _, e := range s.Extensions {
			if e == ext {
				return s, true
			}
		}
	}
	return Server{}, false
}

// All returns every registered server, in registration order.
func (r *Registry) All() []Server {
	out := make([]Server, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Resolve looks up name and returns an error naming every known server
// when it is not found, the shape the CLI needs to report a useful
// --lsp-server typo message.
func (r *Registry) Resolve(name string) (Server, error) {
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	return Server{}, fmt.Errorf("serverregistry: unknown server %q (known: %v)", name, r.names())
}

func (r *Registry) names() []string {
	return append([]string(nil), r.order...)
}
