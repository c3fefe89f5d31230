package lsp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProgressTrackerQuiescence(t *testing.T) {
	p := newProgressTracker()
	p.onCreate("1")
	if p.quiescent() {
		t.Fatal("expected not quiescent while a token is open")
	}
	p.onValue("1", "end")
	if p.quiescent() {
		t.Fatal("expected not quiescent immediately after the last event")
	}
	p.lastEvent = p.lastEvent.Add(-2 * quiescenceIdle)
	if !p.quiescent() {
		t.Fatal("expected quiescent once idle window has elapsed with no open tokens")
	}
}

func TestDecodeLocationsSingleObject(t *testing.T) {
	raw := json.RawMessage(`{"uri":"file:///a.go","range":{"start":{"line":1,"character":2},"end":{"line":1,"character":5}}}`)
	locs := decodeLocations(raw)
	if len(locs) != 1 || locs[0].URI != "file:///a.go" {
		t.Fatalf("unexpected locations: %+v", locs)
	}
}

func TestDecodeLocationsArray(t *testing.T) {
	raw := json.RawMessage(`[{"uri":"file:///a.go","range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}}}]`)
	locs := decodeLocations(raw)
	if len(locs) != 1 {
		t.Fatalf("expected one location, got %d", len(locs))
	}
}

func TestDecodeLocationsLocationLinks(t *testing.T) {
	raw := json.RawMessage(`[{"targetUri":"file:///b.go","targetRange":{"start":{"line":3,"character":0},"end":{"line":3,"character":10}},"targetSelectionRange":{"start":{"line":3,"character":4},"end":{"line":3,"character":8}}}]`)
	locs := decodeLocations(raw)
	if len(locs) != 1 || locs[0].URI != "file:///b.go" {
		t.Fatalf("unexpected locations: %+v", locs)
	}
	if locs[0].Range.Start.Character != 4 {
		t.Fatalf("expected targetSelectionRange to take priority, got %+v", locs[0].Range)
	}
}

func TestDecodeLocationsNull(t *testing.T) {
	if locs := decodeLocations(json.RawMessage(`null`)); locs != nil {
		t.Fatalf("expected nil for null response, got %+v", locs)
	}
}

func TestExtractHoverTextFromMarkupContent(t *testing.T) {
	var contents any
	_ = json.Unmarshal([]byte(`{"kind":"markdown","value":"some **docs**"}`), &contents)
	if got := extractHoverText(contents); got != "some **docs**" {
		t.Fatalf("unexpected hover text: %q", got)
	}
}

func TestSkipsShutdownHandshake(t *testing.T) {
	if !skipsShutdownHandshake("typescript") {
		t.Fatal("expected typescript to skip the handshake")
	}
	if skipsShutdownHandshake("go") {
		t.Fatal("did not expect go to skip the handshake")
	}
}

func TestHandlerStateString(t *testing.T) {
	h := NewHandler("go", time.Second, nil)
	if h.State() != StateUninitialized {
		t.Fatalf("expected a fresh handler to be uninitialized, got %s", h.State())
	}
}

func TestIsBenignStderrLine(t *testing.T) {
	if !isBenignStderrLine("java", "WARNING: some jvm noise\n") {
		t.Fatal("expected java WARNING lines to be filtered")
	}
	if isBenignStderrLine("java", "real compile error\n") {
		t.Fatal("did not expect an unrelated line to be filtered")
	}
}
