// Package recorder is the out-of-core logger collaborator (§6): it appends
// one JSON object per line to a file for every decoded record handed to it,
// grounded on the original FileRecorder's append-mode, newline-terminated
// dump (core.py).
package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
)

// record is the JSON shape persisted per line: the packet type, its
// scalar fields, and a receive timestamp (metadata per §6, not part of
// the wire format).
type record struct {
	Type       string         `json:"type"`
	Fields     map[string]any `json:"fields"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Recorder appends decoded records to a file, one JSON object per line.
// Append is the only mutating operation; callers own delivery order (the
// dispatcher in cmd/aimms-server hands it every popped record exactly
// once, the same record also applied to httpapi.State, mirroring
// UAVMaster.run's single pop() fanned out to both sinks).
type Recorder struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// New opens path for append (creating it if absent) and returns a Recorder
// ready for Append calls.
func New(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Recorder{f: f, w: bufio.NewWriter(f)}, nil
}

// Append marshals rec as one JSON line and flushes it to the file.
func (r *Recorder) Append(rec telemetry.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := json.Marshal(record{
		Type:       string(rec.Type),
		Fields:     rec.Fields,
		ReceivedAt: timeNow(),
	})
	if err != nil {
		return err
	}
	if _, err := r.w.Write(line); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	return r.w.Flush()
}

// Close flushes any buffered output and closes the underlying file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.w.Flush()
	return r.f.Close()
}

// timeNow is a var so tests can stub it without touching wall-clock time.
var timeNow = time.Now
