// File: connection/workqueue.go
// Package connection implements the connection-side collaborators of the
// session core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WorkQueue is a two-lane operation queue. The highest-priority lane is
// a preallocated MPMC ring so a shutdown broadcast can enqueue without
// allocating; the normal lane is an unbounded FIFO for ordinary work.

package connection

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/internal/concurrency"
)

// defaultPriorityCapacity bounds the allocation-free lane. One slot per
// concurrent high-priority producer is enough; sizing generously costs
// only a few pointers.
const defaultPriorityCapacity = 16

// WorkQueue accepts operations for a connection to process on its own
// schedule. Implements api.OperationQueue.
type WorkQueue struct {
	prio *concurrency.OperRing

	mu     sync.Mutex
	normal *queue.Queue

	wake chan struct{}
}

// NewWorkQueue creates an empty queue.
func NewWorkQueue() *WorkQueue {
	return &WorkQueue{
		prio:   concurrency.NewOperRing(defaultPriorityCapacity),
		normal: queue.New(),
		wake:   make(chan struct{}, 1),
	}
}

// Push enqueues op on the lane selected by prio. The highest-priority
// lane never allocates and reports false when full; the normal lane
// always accepts.
func (q *WorkQueue) Push(op *api.Operation, prio api.Priority) bool {
	if prio == api.PriorityHighest {
		if !q.prio.Offer(op) {
			return false
		}
		q.signal()
		return true
	}
	q.mu.Lock()
	q.normal.Add(op)
	q.mu.Unlock()
	q.signal()
	return true
}

// Pop dequeues the next operation, draining the priority lane first.
func (q *WorkQueue) Pop() (*api.Operation, bool) {
	if op, ok := q.prio.Poll(); ok {
		return op, true
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.normal.Length() == 0 {
		return nil, false
	}
	return q.normal.Remove().(*api.Operation), true
}

// Len reports an instantaneous total across both lanes.
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	n := q.normal.Length()
	q.mu.Unlock()
	return n + q.prio.Len()
}

// Wake returns a channel that receives after every Push, so a processing
// goroutine can sleep between operations.
func (q *WorkQueue) Wake() <-chan struct{} { return q.wake }

func (q *WorkQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
