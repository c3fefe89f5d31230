package tracelog

import (
	"strings"
	"testing"
)

func TestExitCodeReflectsErrorSeverityOnly(t *testing.T) {
	var buf strings.Builder
	s := New(&buf)
	s.Warning("a warning")
	if s.ExitCode() != 0 {
		t.Fatal("expected exit code 0 before any error-severity message")
	}
	s.Error("something broke")
	if s.ExitCode() != 1 {
		t.Fatal("expected exit code 1 after an error-severity message")
	}
}

func TestCountsPerSeverity(t *testing.T) {
	var buf strings.Builder
	s := New(&buf)
	s.Info("one")
	s.Info("two")
	s.Warning("three")
	if s.Count(SeverityInfo) != 2 || s.Count(SeverityWarning) != 1 || s.Count(SeverityError) != 0 {
		t.Fatalf("unexpected counts: info=%d warning=%d error=%d", s.Count(SeverityInfo), s.Count(SeverityWarning), s.Count(SeverityError))
	}
}

func TestLogIncludesMessage(t *testing.T) {
	var buf strings.Builder
	s := New(&buf)
	s.Error("server %q crashed with code %d", "gopls", 137)
	if !strings.Contains(buf.String(), `server "gopls" crashed with code 137`) {
		t.Fatalf("expected formatted message in output, got: %s", buf.String())
	}
}
