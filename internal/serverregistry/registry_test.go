package serverregistry

import (
	"strings"
	"testing"
)

func TestDefaultRegistryHasAllSevenLanguages(t *testing.T) {
	r := Default()
	want := []string{".go", ".py", ".ts", ".java", ".swift", ".rs", ".ml"}
	for _, ext := range want {
		if _, ok := r.ByExtension(ext); !ok {
			t.Errorf("expected a server registered for %s", ext)
		}
	}
}

func TestResolveUnknownNamesKnownServers(t *testing.T) {
	r := Default()
	_, err := r.Resolve("not-a-real-server")
	if err == nil {
		t.Fatal("expected an error for an unknown server name")
	}
	if !strings.Contains(err.Error(), "gopls") {
		t.Fatalf("expected the error to name the known servers, got %v", err)
	}
}

func TestSetOverridesExistingEntry(t *testing.T) {
	r := Default()
	r.Set(Server{Name: "gopls", Command: "/custom/gopls", Extensions: []string{".go"}, LanguageID: "go"})
	s, ok := r.ByName("gopls")
	if !ok || s.Command != "/custom/gopls" {
		t.Fatalf("expected override to take effect, got %+v", s)
	}
	if len(r.All()) != 7 {
		t.Fatalf("expected override not to add a duplicate entry, got %d", len(r.All()))
	}
}
