// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/hioload-quic/api"
)

// TraceRecord is one captured lifecycle event.
type TraceRecord struct {
	Event  api.TraceEvent
	Fields map[string]any
}

// Tracer captures lifecycle events for inspection in tests.
type Tracer struct {
	mu      sync.Mutex
	records []TraceRecord
}

// NewTracer creates an empty capturing tracer.
func NewTracer() *Tracer { return &Tracer{} }

// Event implements api.Tracer.
func (t *Tracer) Event(ev api.TraceEvent, fields map[string]any) {
	t.mu.Lock()
	t.records = append(t.records, TraceRecord{Event: ev, Fields: fields})
	t.mu.Unlock()
}

// Records returns a snapshot of all captured events.
func (t *Tracer) Records() []TraceRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Count returns how many times ev was observed.
func (t *Tracer) Count(ev api.TraceEvent) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.records {
		if r.Event == ev {
			n++
		}
	}
	return n
}
