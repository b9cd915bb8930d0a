// Package session
// Author: momentics <momentics@gmail.com>
//
// Session layer of the hioload-quic transport stack. A session outlives
// individual connections and carries the cross-connection state needed
// for fast reconnection: a resumption cache keyed by server identity,
// and the membership registry used to coordinate the lifecycle of every
// connection created under it.
//
// Destruction is race-free by construction: each registered connection
// holds a token on the session's rundown guard, and Close blocks until
// the last token drains. Shutdown is a one-shot, allocation-free fan-out
// of a request to every member connection.

package session
