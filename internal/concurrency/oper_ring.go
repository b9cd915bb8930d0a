// File: internal/concurrency/oper_ring.go
// Package concurrency provides a bounded MPMC ring for queued operations.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OperRing is the preallocated priority lane of a connection's work
// queue: Offer never allocates, so a shutdown broadcast can enqueue work
// even under memory pressure. Sequence-number cells per Dmitry Vyukov's
// bounded MPMC queue.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-quic/api"
)

type ringCell struct {
	sequence atomic.Uint64
	op       *api.Operation
}

// OperRing is a bounded multi-producer multi-consumer operation queue.
type OperRing struct {
	head atomic.Uint64
	_    cpu.CacheLinePad
	tail atomic.Uint64
	_    cpu.CacheLinePad
	mask uint64
	cell []ringCell
}

// NewOperRing creates a ring with capacity rounded up to a power of two.
func NewOperRing(capacity int) *OperRing {
	size := 2
	for size < capacity {
		size <<= 1
	}
	r := &OperRing{
		mask: uint64(size - 1),
		cell: make([]ringCell, size),
	}
	for i := range r.cell {
		r.cell[i].sequence.Store(uint64(i))
	}
	return r
}

// Offer enqueues op; returns false if the ring is full. Never allocates.
func (r *OperRing) Offer(op *api.Operation) bool {
	for {
		tail := r.tail.Load()
		c := &r.cell[tail&r.mask]
		seq := c.sequence.Load()
		switch dif := int64(seq) - int64(tail); {
		case dif == 0:
			if r.tail.CompareAndSwap(tail, tail+1) {
				c.op = op
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		}
		// tail moved, retry
	}
}

// Poll dequeues the oldest operation; ok is false when the ring is empty.
func (r *OperRing) Poll() (op *api.Operation, ok bool) {
	for {
		head := r.head.Load()
		c := &r.cell[head&r.mask]
		seq := c.sequence.Load()
		switch dif := int64(seq) - int64(head+1); {
		case dif == 0:
			if r.head.CompareAndSwap(head, head+1) {
				op = c.op
				c.op = nil
				c.sequence.Store(head + r.mask + 1)
				return op, true
			}
		case dif < 0:
			return nil, false // empty
		}
		// head moved, retry
	}
}

// Len reports an instantaneous element count, for probes only.
func (r *OperRing) Len() int {
	t, h := r.tail.Load(), r.head.Load()
	if t < h {
		return 0
	}
	return int(t - h)
}
