// File: session/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection membership registry and the shutdown broadcaster layered on
// it. The registry lock guards list insert/remove/walk only; the
// broadcast queues each connection's pre-reserved backup operation under
// the lock but never waits for the connection to process it.

package session

import (
	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/connection"
)

// RegisterConnection registers conn with s. A connection already
// registered elsewhere is unregistered first, so double registration is
// harmless. Under an owned session the connection adopts the owning
// registration (taking a token on its connection rundown) and inherits
// the session's settings. Registering onto a session whose teardown has
// begun is a caller bug and panics.
func (s *Session) RegisterConnection(conn *connection.Conn) {
	UnregisterConnection(conn)

	if o, ok := s.owner.(ownedBy); ok {
		if o.reg.connRundown.Acquire() {
			conn.AdoptRegistration(o.reg.connRundown.Release)
		}
		conn.ApplySettings(&s.settings)
	}

	if !s.rundown.Acquire() {
		panic("session: connection registered on a draining session")
	}
	s.connsMu.Lock()
	elem := s.conns.PushBack(conn)
	s.connsMu.Unlock()
	conn.Attach(s, elem)

	s.trace(api.TraceConnRegistered, map[string]any{"conn": conn.ID()})
}

// UnregisterConnection removes conn from the session it is registered
// with. No-op for an unregistered connection. Safe to call concurrently
// with registration and unregistration of other connections and with a
// shutdown broadcast.
func UnregisterConnection(conn *connection.Conn) {
	if r := conn.Registrar(); r != nil {
		r.Unregister(conn)
	}
}

// Unregister implements connection.Registrar.
func (s *Session) Unregister(conn *connection.Conn) {
	_, elem := conn.Detach()
	if elem == nil {
		return
	}
	s.trace(api.TraceConnUnregistered, map[string]any{"conn": conn.ID()})
	s.connsMu.Lock()
	s.conns.Remove(elem)
	s.connsMu.Unlock()
	s.rundown.Release()
}

// ConnectionCount reports the current membership size.
func (s *Session) ConnectionCount() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return s.conns.Len()
}

// Shutdown delivers a shutdown request to every currently registered
// connection, at most once per connection, without allocating. Error
// codes beyond the 62-bit wire range are silently ignored. The requests
// execute on each connection's own schedule; Shutdown does not wait.
func (s *Session) Shutdown(flags api.ShutdownFlags, errorCode uint64) {
	if s == nil {
		return
	}
	if s.typ != api.HandleSession {
		panic("session: Shutdown on a non-session handle")
	}
	if errorCode > api.MaxAppErrorCode {
		return
	}

	s.state.CompareAndSwap(int32(api.SessionActive), int32(api.SessionShuttingDown))
	s.trace(api.TraceSessionShutdown, map[string]any{
		"flags":      uint32(flags),
		"error_code": errorCode,
	})

	s.connsMu.Lock()
	for e := s.conns.Front(); e != nil; e = e.Next() {
		conn := e.Value.(*connection.Conn)
		// Skipped when a request is already pending on the connection:
		// at-most-one-pending, not at-least-one-per-call.
		conn.QueueShutdown(flags, errorCode)
	}
	s.connsMu.Unlock()
}

// TraceRundown re-emits the session's lifecycle state and queues a
// trace-rundown request to every member connection.
func (s *Session) TraceRundown() {
	s.trace(api.TraceSessionRundown, map[string]any{"state": s.State().String()})

	s.connsMu.Lock()
	for e := s.conns.Front(); e != nil; e = e.Next() {
		e.Value.(*connection.Conn).QueueTraceRundown()
	}
	s.connsMu.Unlock()
}
