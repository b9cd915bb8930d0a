// File: internal/concurrency/rundown.go
// Package concurrency provides the synchronization primitives of the
// session core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Rundown lets a destroying object wait until every in-flight user has
// finished, while refusing new users once teardown begins. Count and
// draining flag share one atomic word, so marking the drain and detecting
// the last release cannot race each other.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// drainingBit occupies the top bit of the state word; the low 63 bits
// hold the number of outstanding holders.
const drainingBit = uint64(1) << 63

// Rundown is a draining reference guard. The zero value is unusable;
// call Init before sharing it.
type Rundown struct {
	state atomic.Uint64
	_     cpu.CacheLinePad
	done  chan struct{}
}

// Init sets the count to one (the owner's own token) with draining off.
func (r *Rundown) Init() {
	r.state.Store(1)
	r.done = make(chan struct{})
}

// Acquire attaches a new holder. Returns false once draining began; no
// new holders may attach to an object being torn down. Safe to call
// concurrently from any goroutine.
func (r *Rundown) Acquire() bool {
	for {
		s := r.state.Load()
		if s&drainingBit != 0 {
			return false
		}
		if r.state.CompareAndSwap(s, s+1) {
			return true
		}
	}
}

// Release drops one holder. If this was the last holder and draining
// was requested, the waiter in ReleaseAndWait is woken.
func (r *Rundown) Release() {
	s := r.state.Add(^uint64(0))
	if s == drainingBit {
		close(r.done)
	}
}

// ReleaseAndWait marks the guard draining, drops the owner's own token,
// and blocks until every remaining holder has released. Must be called
// at most once, from the goroutine performing destruction, and never
// while holding a lock a concurrent Acquire/Release might need.
func (r *Rundown) ReleaseAndWait() {
	if r.state.Load()&drainingBit != 0 {
		panic("concurrency: rundown drained twice")
	}
	// One atomic add sets the draining bit and drops the own token
	// together, so the last concurrent Release cannot slip past the
	// drain mark unnoticed.
	s := r.state.Add(drainingBit - 1)
	if s == drainingBit {
		close(r.done)
		return
	}
	<-r.done
}

// Holders reports the current holder count. Debug probes only; the value
// is stale the moment it is read.
func (r *Rundown) Holders() uint64 {
	return r.state.Load() &^ drainingBit
}

// Draining reports whether teardown has begun.
func (r *Rundown) Draining() bool {
	return r.state.Load()&drainingBit != 0
}
