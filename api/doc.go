// Package api
// Author: momentics <momentics@gmail.com>
//
// Public contracts and shared types for the hioload-quic session core.
// The session layer manages resumption state reused across connections
// and coordinates the lifecycle of every connection registered under it.
//
// Concrete implementations live in the session, connection, and internal
// packages. Collaborators (tracing, security configuration, the per
// connection work queue) are specified here at their interface boundary.

package api
