// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import (
	"sync"

	"github.com/momentics/hioload-quic/api"
)

// ObjectPool is a generic object pool.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

// SyncPool wraps sync.Pool for generic usage.
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool with a creator function.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{New: func() any { return creator() }},
	}
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	sp.pool.Put(obj)
}

// operations is the shared pool backing every normal-priority operation.
// Backup operations are embedded in their connection and never come from
// here.
var operations = NewSyncPool(func() *api.Operation { return new(api.Operation) })

// AllocOperation takes a pooled operation, reset and typed. The caller
// must return it through FreeOperation once processed, which is why
// FreeAfterProcess is set.
func AllocOperation(t api.OperationType) *api.Operation {
	op := operations.Get()
	*op = api.Operation{Type: t, FreeAfterProcess: true}
	return op
}

// FreeOperation returns a pooled operation. Operations embedded in a
// connection (FreeAfterProcess false) are ignored.
func FreeOperation(op *api.Operation) {
	if op == nil || !op.FreeAfterProcess {
		return
	}
	*op = api.Operation{}
	operations.Put(op)
}
