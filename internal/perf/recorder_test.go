package perf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecordWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.csv")
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	r.Record("node-phase", 15*time.Millisecond)
	r.Record("edge-phase", 42500*time.Microsecond)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "phase,milliseconds") {
		t.Fatalf("expected header row, got:\n%s", content)
	}
	if !strings.Contains(content, "node-phase,15.000") {
		t.Fatalf("expected node-phase row, got:\n%s", content)
	}
	if !strings.Contains(content, "edge-phase,42.500") {
		t.Fatalf("expected edge-phase row, got:\n%s", content)
	}
}

func TestNilRecorderIsANoop(t *testing.T) {
	var r *Recorder
	r.Record("whatever", time.Second)
	if err := r.Close(); err != nil {
		t.Fatalf("expected nil recorder Close to be a no-op, got %v", err)
	}
}

func TestTimedPropagatesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.csv")
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	sentinel := os.ErrClosed
	got := r.Timed("phase", func() error { return sentinel })
	if got != sentinel {
		t.Fatalf("expected Timed to propagate the error, got %v", got)
	}
}
