// Package perf records the wall-clock cost of each import phase as CSV
// rows, the optional --perf-csv output.
package perf

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Recorder appends one "<phase>,<milliseconds>" row per call to Record.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// Open creates path if needed and returns a Recorder appending to it. The
// "phase,milliseconds" header row is written only when the file is empty.
func Open(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("perf: opening %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		if err := w.Write([]string{"phase", "milliseconds"}); err != nil {
			f.Close()
			return nil, fmt.Errorf("perf: writing header: %w", err)
		}
		w.Flush()
	}
	return &Recorder{w: w, closer: f}, nil
}

// Record appends a row for phase having taken d.
func (r *Recorder) Record(phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.w.Write([]string{phase, fmt.Sprintf("%.3f", float64(d.Microseconds())/1000.0)})
	r.w.Flush()
}

// Timed runs fn, recording its elapsed time under phase, and returns
// whatever error fn returned.
func (r *Recorder) Timed(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Record(phase, time.Since(start))
	return err
}

// Close flushes and closes the underlying file. Safe to call on a nil
// Recorder (the --perf-csv flag is optional).
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	return r.closer.Close()
}
