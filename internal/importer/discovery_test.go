package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/uni-bremen-agst/LSP2GXL/internal/ignore"
	"github.com/uni-bremen-agst/LSP2GXL/internal/serverregistry"
)

func TestDiscoverFiltersByExtensionAndIgnoresVendor(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "src", "lib.rs"), "pub fn foo() {}\n")
	mustWrite(t, filepath.Join(dir, "src", "notes.txt"), "not rust\n")
	mustWrite(t, filepath.Join(dir, "vendor", "dep.rs"), "pub fn ignored() {}\n")

	imp := New(Options{Roots: []string{dir}}, nil, nil)
	imp.server = serverregistry.Server{Name: "rust-analyzer", Extensions: []string{".rs"}}

	files, err := imp.discover(ignore.NewMatcher(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected exactly one discovered file, got %v", files)
	}
	if filepath.Base(files[0]) != "lib.rs" {
		t.Fatalf("expected lib.rs, got %s", files[0])
	}
}

func TestDiscoverEmptyIncludeSet(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "README.md"), "nothing to see here\n")

	imp := New(Options{Roots: []string{dir}}, nil, nil)
	imp.server = serverregistry.Server{Name: "rust-analyzer", Extensions: []string{".rs"}}

	files, err := imp.discover(ignore.NewMatcher(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no discovered files, got %v", files)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}
