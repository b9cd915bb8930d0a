// File: connection/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conn is the session core's view of a transport connection: a session
// back-reference, an inherited settings blob, a work queue, and one
// pre-reserved backup operation guarded by an atomic in-use flag. The
// handshake and packet machinery live elsewhere; the session core only
// needs reliable, allocation-free delivery of queued requests.

package connection

import (
	"container/list"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/pool"
)

// Registrar is the session-side owner a Conn is registered with.
type Registrar interface {
	Unregister(c *Conn)
}

// Conn is a transport connection collaborator. A Conn's own
// register/unregister calls are never concurrent with each other (caller
// contract), so the attachment fields need no lock; the work queue and
// the backup flag are touched from arbitrary goroutines and are atomic.
type Conn struct {
	typ api.HandleType
	id  string

	// Session attachment, managed by the session core.
	registrar  Registrar
	element    *list.Element
	regRelease func() // registration rundown token

	settings api.Settings

	queue *WorkQueue

	// Pre-reserved single-shot request slot. backupUsed transitions
	// unused→used by compare-and-swap; it is cleared only after the
	// operation was processed.
	backupOper api.Operation
	backupUsed atomic.Bool
}

// New creates an unregistered connection.
func New() *Conn {
	return &Conn{
		typ:   api.HandleConnection,
		id:    uuid.NewString(),
		queue: NewWorkQueue(),
	}
}

// ID returns the connection's trace identity.
func (c *Conn) ID() string { return c.id }

// Queue returns the connection's work queue.
func (c *Conn) Queue() *WorkQueue { return c.queue }

// Registrar returns the session the connection is registered with, nil
// when unregistered.
func (c *Conn) Registrar() Registrar { return c.registrar }

// Attach records the session attachment. Called by the session core with
// the membership handle produced under the registry lock.
func (c *Conn) Attach(r Registrar, elem *list.Element) {
	c.registrar = r
	c.element = elem
}

// Detach clears and returns the current attachment.
func (c *Conn) Detach() (Registrar, *list.Element) {
	r, e := c.registrar, c.element
	c.registrar, c.element = nil, nil
	return r, e
}

// AdoptRegistration stores the release of the owning registration's
// connection-rundown token. The token is returned on Close.
func (c *Conn) AdoptRegistration(release func()) {
	if c.regRelease != nil {
		c.regRelease()
	}
	c.regRelease = release
}

// ApplySettings overlays the inherited session settings onto the
// connection's own.
func (c *Conn) ApplySettings(s *api.Settings) {
	c.settings.Merge(s)
}

// Settings returns the connection's effective settings.
func (c *Conn) Settings() api.Settings { return c.settings }

// QueueShutdown reserves the backup operation and hands it to the work
// queue at highest priority, without allocating. Returns false when a
// request is already pending on this connection: at-most-one-pending is
// the guarantee.
func (c *Conn) QueueShutdown(flags api.ShutdownFlags, errorCode uint64) bool {
	if !c.backupUsed.CompareAndSwap(false, true) {
		return false
	}
	c.backupOper = api.Operation{
		Type:             api.OperConnShutdown,
		FreeAfterProcess: false,
		Shutdown:         api.ShutdownArgs{Flags: flags, ErrorCode: errorCode},
	}
	if !c.queue.Push(&c.backupOper, api.PriorityHighest) {
		// Priority lane full. Give the reservation back so a later
		// request can retry once the queue drains.
		c.backupUsed.Store(false)
		return false
	}
	return true
}

// BackupPending reports whether the backup slot is reserved.
func (c *Conn) BackupPending() bool { return c.backupUsed.Load() }

// QueueTraceRundown asks the connection to re-emit its trace state. The
// operation is pooled; ordinary priority.
func (c *Conn) QueueTraceRundown() {
	c.queue.Push(pool.AllocOperation(api.OperTraceRundown), api.PriorityNormal)
}

// ProcessNext pops one operation and hands it to fn. Pooled operations
// are returned to the pool afterwards; processing the backup operation
// re-arms the slot. Returns false when the queue was empty.
func (c *Conn) ProcessNext(fn func(*api.Operation)) bool {
	op, ok := c.queue.Pop()
	if !ok {
		return false
	}
	if fn != nil {
		fn(op)
	}
	if op == &c.backupOper {
		c.backupUsed.Store(false)
	} else {
		pool.FreeOperation(op)
	}
	return true
}

// Close releases the registration's connection-rundown token. The
// connection must already be unregistered from its session.
func (c *Conn) Close() {
	if c.regRelease != nil {
		c.regRelease()
		c.regRelease = nil
	}
}
