// Package api
// Author: momentics <momentics@gmail.com>
//
// Lifecycle tracing contract. Every transition of a session or a
// connection's membership emits a structured event. Tracing is an
// observability side effect, never a correctness dependency: the no-op
// tracer is a valid collaborator.

package api

// TraceEvent identifies a lifecycle transition.
type TraceEvent int

const (
	TraceSessionCreated TraceEvent = iota
	TraceSessionCleanup
	TraceSessionDestroyed
	TraceSessionShutdown
	TraceSessionRundown
	TraceConnRegistered
	TraceConnUnregistered
	TraceAllocFailure
)

func (e TraceEvent) String() string {
	switch e {
	case TraceSessionCreated:
		return "session-created"
	case TraceSessionCleanup:
		return "session-cleanup"
	case TraceSessionDestroyed:
		return "session-destroyed"
	case TraceSessionShutdown:
		return "session-shutdown"
	case TraceSessionRundown:
		return "session-rundown"
	case TraceConnRegistered:
		return "conn-registered"
	case TraceConnUnregistered:
		return "conn-unregistered"
	case TraceAllocFailure:
		return "alloc-failure"
	}
	return "unknown"
}

// Tracer receives structured lifecycle events.
type Tracer interface {
	Event(ev TraceEvent, fields map[string]any)
}

// NopTracer discards all events.
type NopTracer struct{}

func (NopTracer) Event(TraceEvent, map[string]any) {}
