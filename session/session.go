// File: session/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Session object lifecycle: Open links a session under its registration,
// Close drains and frees it, Shutdown fans a request out to every member
// connection. Membership and broadcast live in registry.go.

package session

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/internal/concurrency"
	"github.com/momentics/hioload-quic/internal/servercache"
)

// ownership is the variant distinguishing registration-owned sessions
// from the process default session. It decides what Close does before
// the rundown wait.
type ownership interface {
	// unlink detaches the session from its owner on the Close path.
	unlink(s *Session)
	// traceFields contributes owner identity to lifecycle events.
	traceFields(fields map[string]any)
}

// ownedBy links the session into its registration's collection.
type ownedBy struct{ reg *Registration }

func (o ownedBy) unlink(s *Session) {
	o.reg.mu.Lock()
	o.reg.sessions.Remove(s.link)
	o.reg.mu.Unlock()
}

func (o ownedBy) traceFields(fields map[string]any) {
	fields["registration"] = o.reg.id
}

// unowned marks the process-wide default session. Its close path first
// broadcasts a silent shutdown so every member connection is queued for
// teardown before the session drains.
type unowned struct{}

func (unowned) unlink(s *Session) {
	s.Shutdown(api.ShutdownSilent, 0)
}

func (unowned) traceFields(map[string]any) {}

// Session is the long-lived object holding the resumption cache and the
// connection membership registry.
type Session struct {
	typ api.HandleType
	id  string

	owner ownership
	link  *list.Element // slot in the registration's session list

	// ClientContext is the opaque caller context supplied to Open.
	ClientContext any

	settings api.Settings

	rundown concurrency.Rundown

	// connsMu guards conns. Fast-path lock: list insert/remove/walk
	// only, never held while a connection processes a request.
	connsMu sync.Mutex
	conns   *list.List // of *connection.Conn

	cache *servercache.Cache

	state  atomic.Int32
	tracer api.Tracer
}

func newSession(owner ownership, clientContext any, tracer api.Tracer) *Session {
	if tracer == nil {
		tracer = api.NopTracer{}
	}
	s := &Session{
		typ:           api.HandleSession,
		id:            uuid.NewString(),
		owner:         owner,
		ClientContext: clientContext,
		conns:         list.New(),
		cache:         servercache.New(tracer),
		tracer:        tracer,
	}
	s.rundown.Init()
	s.trace(api.TraceSessionCreated, nil)
	return s
}

// Open allocates a session under reg and links it into the
// registration's session collection.
func Open(reg *Registration, clientContext any) (*Session, error) {
	if reg == nil || reg.typ != api.HandleRegistration {
		return nil, api.NewError(api.StatusInvalidArgument, "open: bad registration handle")
	}
	s := newSession(ownedBy{reg}, clientContext, reg.tracer)
	s.settings = reg.defaults
	reg.mu.Lock()
	s.link = reg.sessions.PushBack(s)
	reg.mu.Unlock()
	return s, nil
}

// NewUnowned creates the process default session, owned by no
// registration.
func NewUnowned(clientContext any, tracer api.Tracer) *Session {
	return newSession(unowned{}, clientContext, tracer)
}

// ID returns the session's trace identity.
func (s *Session) ID() string { return s.id }

// State reports the session's lifecycle state.
func (s *Session) State() api.SessionState {
	return api.SessionState(s.state.Load())
}

// Settings returns the blob inherited by registered connections.
func (s *Session) Settings() api.Settings { return s.settings }

// SetSettings overlays src onto the session's inherited settings. Only
// affects connections registered afterwards.
func (s *Session) SetSettings(src *api.Settings) { s.settings.Merge(src) }

// CacheGetState returns the cached resumption state for serverName. The
// returned security configuration, when non-nil, carries its own
// reference and must be released by the caller.
func (s *Session) CacheGetState(serverName string) (api.Version, api.TransportParameters, api.SecConfig, bool) {
	return s.cache.GetState(serverName)
}

// CacheSetState records negotiated resumption state for serverName.
// Best-effort: failures are dropped silently.
func (s *Session) CacheSetState(serverName string, version api.Version, params api.TransportParameters, sec api.SecConfig) {
	s.cache.SetState(serverName, version, params, sec)
}

// CacheLen reports the number of cached server identities.
func (s *Session) CacheLen() int { return s.cache.Len() }

// Close unlinks the session from its owner, blocks until every
// registered connection has unregistered, and frees the session's
// resources. Safe on a nil session; panics on a handle of the wrong
// type. Must not be called from a connection's work-queue processing
// path, which could never drain itself.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.typ != api.HandleSession {
		panic("session: Close on a non-session handle")
	}
	s.trace(api.TraceSessionCleanup, nil)
	s.state.Store(int32(api.SessionClosing))

	s.owner.unlink(s)

	s.rundown.ReleaseAndWait()
	s.free()
}

// free releases the session's resources once the rundown has drained.
// A non-empty membership here means the teardown order was violated:
// children must be cleaned up before the parent.
func (s *Session) free() {
	s.connsMu.Lock()
	live := s.conns.Len()
	s.connsMu.Unlock()
	if live != 0 {
		panic("session: freed with registered connections")
	}
	s.cache.Close()
	s.state.Store(int32(api.SessionFreed))
	s.trace(api.TraceSessionDestroyed, nil)
}

func (s *Session) trace(ev api.TraceEvent, extra map[string]any) {
	fields := map[string]any{"session": s.id}
	s.owner.traceFields(fields)
	for k, v := range extra {
		fields[k] = v
	}
	s.tracer.Event(ev, fields)
}
