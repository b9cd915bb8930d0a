// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants for the session core.

package api

// HandleType tags every externally visible object so misuse of a handle
// of the wrong kind is caught at the API boundary.
type HandleType int

const (
	HandleUnknown HandleType = iota
	HandleRegistration
	HandleSession
	HandleConnection
)

func (h HandleType) String() string {
	switch h {
	case HandleRegistration:
		return "registration"
	case HandleSession:
		return "session"
	case HandleConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// SessionState enumerates the lifecycle of a session object.
type SessionState int32

const (
	SessionActive SessionState = iota
	SessionShuttingDown
	SessionClosing
	SessionFreed
)

func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionShuttingDown:
		return "shutting-down"
	case SessionClosing:
		return "closing"
	case SessionFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// ShutdownFlags modifies how a shutdown broadcast is delivered.
type ShutdownFlags uint32

const (
	// ShutdownNone requests an ordinary shutdown with the given error code.
	ShutdownNone ShutdownFlags = 0
	// ShutdownSilent tears connections down without notifying the peer.
	ShutdownSilent ShutdownFlags = 1 << 0
)

// Silent reports whether the silent bit is set.
func (f ShutdownFlags) Silent() bool { return f&ShutdownSilent != 0 }

// MaxAppErrorCode is the largest application error code representable on
// the wire (62-bit varint). Shutdown requests carrying a larger code are
// ignored.
const MaxAppErrorCode uint64 = (1 << 62) - 1

// Version is a negotiated protocol version number.
type Version uint32
