package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Import.Jobs != Default().Import.Jobs {
		t.Fatalf("expected default jobs, got %d", cfg.Import.Jobs)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.LSP["go"] = LSPConfig{Command: "/opt/gopls", Args: []string{"serve", "-v"}}
	cfg.Import.Jobs = 9

	if err := Save(dir, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Import.Jobs != 9 {
		t.Fatalf("expected jobs=9 after round trip, got %d", loaded.Import.Jobs)
	}
	if loaded.LSP["go"].Command != "/opt/gopls" {
		t.Fatalf("expected overridden gopls command, got %+v", loaded.LSP["go"])
	}
}

func TestTimeoutConversion(t *testing.T) {
	cfg := ImportConfig{TimeoutSeconds: 5}
	if cfg.Timeout().Seconds() != 5 {
		t.Fatalf("expected 5s timeout, got %v", cfg.Timeout())
	}
}

func TestDefaultConfigDirIsRelative(t *testing.T) {
	if filepath.IsAbs(DefaultConfigDir) {
		t.Fatal("expected DefaultConfigDir to be relative")
	}
}
