// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"sync/atomic"

	"github.com/momentics/hioload-quic/api"
)

// SecConfig is a counted security configuration whose reference count is
// observable from tests.
type SecConfig struct {
	refs  atomic.Int64
	freed atomic.Bool
}

// NewSecConfig returns a config holding one reference.
func NewSecConfig() *SecConfig {
	sc := &SecConfig{}
	sc.refs.Store(1)
	return sc
}

// AddRef implements api.SecConfig.
func (sc *SecConfig) AddRef() api.SecConfig {
	if sc.refs.Add(1) <= 1 {
		panic("fake: AddRef on released SecConfig")
	}
	return sc
}

// Release implements api.SecConfig.
func (sc *SecConfig) Release() {
	switch n := sc.refs.Add(-1); {
	case n == 0:
		sc.freed.Store(true)
	case n < 0:
		panic("fake: SecConfig released more times than referenced")
	}
}

// Refs reports the current reference count.
func (sc *SecConfig) Refs() int64 { return sc.refs.Load() }

// Freed reports whether the last reference was released.
func (sc *SecConfig) Freed() bool { return sc.freed.Load() }
