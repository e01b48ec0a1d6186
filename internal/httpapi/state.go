// Package httpapi is the out-of-core HTTP collaborator (§6): it keeps a
// snapshot of the most recent record per packet type (the original's
// UAVMaster.state, generalised per type) and serves it read-only as JSON.
package httpapi

import (
	"sync"

	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
)

// State holds the latest decoded record per packet type.
type State struct {
	mu     sync.RWMutex
	latest map[telemetry.Type]telemetry.Record
}

// NewState returns an empty State.
func NewState() *State {
	return &State{latest: make(map[telemetry.Type]telemetry.Record)}
}

// Update replaces the stored record for its type.
func (s *State) Update(r telemetry.Record) {
	s.mu.Lock()
	s.latest[r.Type] = r
	s.mu.Unlock()
}

// Snapshot returns a copy of the latest record per type.
func (s *State) Snapshot() map[telemetry.Type]telemetry.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[telemetry.Type]telemetry.Record, len(s.latest))
	for k, v := range s.latest {
		out[k] = v
	}
	return out
}

// Get returns the latest record for one type, and whether one has ever
// been seen.
func (s *State) Get(t telemetry.Type) (telemetry.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[t]
	return r, ok
}
