// File: session/registration.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registration is the administrative owner grouping sessions under one
// scope. It exposes exactly one lock and one ordered session collection;
// Open and Close link sessions in and out under that lock. It also runs
// a connection rundown of its own, so closing the registration can wait
// for every connection created under it to be freed.

package session

import (
	"container/list"
	"sync"

	"github.com/google/uuid"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/internal/concurrency"
)

// Registration groups sessions under one administrative scope.
type Registration struct {
	typ  api.HandleType
	id   string
	name string

	// mu guards sessions. Short, bounded critical sections only.
	mu       sync.Mutex
	sessions *list.List

	connRundown concurrency.Rundown

	defaults api.Settings
	tracer   api.Tracer
}

// NewRegistration creates a registration. defaults, when non-nil, seeds
// the settings every session opened under it inherits. A nil tracer
// defaults to the no-op tracer.
func NewRegistration(name string, defaults *api.Settings, tracer api.Tracer) *Registration {
	if tracer == nil {
		tracer = api.NopTracer{}
	}
	r := &Registration{
		typ:      api.HandleRegistration,
		id:       uuid.NewString(),
		name:     name,
		sessions: list.New(),
		tracer:   tracer,
	}
	if defaults != nil {
		r.defaults = *defaults
	}
	r.connRundown.Init()
	return r
}

// ID returns the registration's trace identity.
func (r *Registration) ID() string { return r.id }

// Name returns the application-assigned scope name.
func (r *Registration) Name() string { return r.name }

// SessionCount reports the number of currently open sessions.
func (r *Registration) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

// ConnectionsDraining reports whether CloseConnections started.
func (r *Registration) ConnectionsDraining() bool {
	return r.connRundown.Draining()
}

// Close tears the registration down. Every session must already be
// closed; violating that order is a caller bug and panics. Blocks until
// every connection that adopted this registration has been closed.
func (r *Registration) Close() {
	if r == nil {
		return
	}
	if r.typ != api.HandleRegistration {
		panic("session: Close on a non-registration handle")
	}
	r.mu.Lock()
	live := r.sessions.Len()
	r.mu.Unlock()
	if live != 0 {
		panic("session: registration closed with open sessions")
	}
	r.connRundown.ReleaseAndWait()
}
