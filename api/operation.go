// File: api/operation.go
// Author: momentics <momentics@gmail.com>
//
// Operation descriptors handed to a connection's work queue. A shutdown
// broadcast populates a connection's pre-reserved backup operation so
// delivery never allocates, even under memory pressure.

package api

// OperationType discriminates the payload of an Operation.
type OperationType int

const (
	OperNone OperationType = iota
	// OperConnShutdown asks the connection to shut itself down.
	OperConnShutdown
	// OperTraceRundown asks the connection to re-emit its trace state.
	OperTraceRundown
)

// Priority selects the lane an operation is queued on.
type Priority int

const (
	PriorityNormal Priority = iota
	// PriorityHighest operations preempt all queued normal work and are
	// accepted without allocating.
	PriorityHighest
)

// ShutdownArgs carries the parameters of a shutdown request.
type ShutdownArgs struct {
	Flags     ShutdownFlags
	ErrorCode uint64
}

// Operation is a single unit of work queued to a connection. Operations
// are either drawn from a pool (FreeAfterProcess true) or embedded in
// the connection itself (the backup operation, FreeAfterProcess false).
type Operation struct {
	Type             OperationType
	FreeAfterProcess bool
	Shutdown         ShutdownArgs
}

// OperationQueue is the work-queue accept surface a connection exposes
// to the session core. Push must not allocate for PriorityHighest and
// reports false only when a bounded lane is full.
type OperationQueue interface {
	Push(op *Operation, prio Priority) bool
}
