// Package tracelog is the severity-colored trace sink every user-visible
// failure goes through on its way to an exit code: the top-level driver
// asks the sink whether anything at error severity was ever logged, and
// maps that to exit status 1.
package tracelog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// Severity orders from least to most serious; Error is the only severity
// that flips ExitCode to 1.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	infoPrefix    = color.New(color.FgCyan).SprintFunc()
	warningPrefix = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorPrefix   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Sink is a concurrency-safe trace destination. Every importer component
// that needs to surface a warning or error writes through one.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	sawErr int32
	counts [3]int
}

// New creates a sink writing to w. Whether prefixes are colorised follows
// the color package's global NoColor setting; w itself is not inspected.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Default returns a sink writing to os.Stderr.
func Default() *Sink {
	return New(os.Stderr)
}

// Log records a message at the given severity.
func (s *Sink) Log(sev Severity, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	s.mu.Lock()
	s.counts[sev]++
	s.mu.Unlock()

	if sev == SeverityError {
		atomic.StoreInt32(&s.sawErr, 1)
	}

	var prefix string
	switch sev {
	case SeverityError:
		prefix = errorPrefix("error:")
	case SeverityWarning:
		prefix = warningPrefix("warning:")
	default:
		prefix = infoPrefix("info:")
	}

	s.mu.Lock()
	fmt.Fprintf(s.w, "%s %s\n", prefix, msg)
	s.mu.Unlock()
}

// Info logs at SeverityInfo.
func (s *Sink) Info(format string, args ...any) { s.Log(SeverityInfo, format, args...) }

// Warning logs at SeverityWarning.
func (s *Sink) Warning(format string, args ...any) { s.Log(SeverityWarning, format, args...) }

// Error logs at SeverityError.
func (s *Sink) Error(format string, args ...any) { s.Log(SeverityError, format, args...) }

// SawError reports whether any message was ever logged at SeverityError.
func (s *Sink) SawError() bool {
	return atomic.LoadInt32(&s.sawErr) != 0
}

// ExitCode is 1 if SawError, 0 otherwise — the trace sink is the single
// place that decides the process's exit status for non-setup failures.
func (s *Sink) ExitCode() int {
	if s.SawError() {
		return 1
	}
	return 0
}

// Count returns how many messages were logged at sev.
func (s *Sink) Count(sev Severity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[sev]
}
