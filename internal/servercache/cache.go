// File: internal/servercache/cache.go
// Package servercache caches negotiated state from previous connections
// to a server, keyed by server identity, for resumption across
// connections.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lookups run on the handshake path under a shared lock; updates take
// the exclusive lock. xxhash gives dispersion over short identities, but
// equality of (length, bytes) is the authority: colliding hashes are
// resolved by an exact chain scan.

package servercache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/momentics/hioload-quic/api"
)

const bucketCount = 256 // power of two, no resizing: entries live for the session

// maxServerNameLen bounds the identity length; longer names are dropped
// on the best-effort set path.
const maxServerNameLen = 0xFFFF

type entry struct {
	next       *entry
	hash       uint64
	serverName string
	version    api.Version
	params     api.TransportParameters
	secConfig  api.SecConfig
}

// Cache is the per-session resumption cache. Entries are created on the
// first successful handshake for an identity, updated in place on later
// handshakes, and destroyed only with the owning session.
type Cache struct {
	mu      sync.RWMutex
	buckets [bucketCount]*entry
	count   int
	tracer  api.Tracer
}

// New creates an empty cache. A nil tracer defaults to the no-op tracer.
func New(tracer api.Tracer) *Cache {
	if tracer == nil {
		tracer = api.NopTracer{}
	}
	return &Cache{tracer: tracer}
}

// lookup scans the hash chain for an exact (length, bytes) match.
// Callers hold c.mu, shared or exclusive.
func (c *Cache) lookup(hash uint64, serverName string) *entry {
	for e := c.buckets[hash&(bucketCount-1)]; e != nil; e = e.next {
		if e.hash == hash && e.serverName == serverName {
			return e
		}
	}
	return nil
}

// GetState copies out the cached version and transport parameters for
// serverName and takes a new reference on the cached security
// configuration (nil if none was cached). Returns ok false, with no
// reference taken, when the identity is unknown.
func (c *Cache) GetState(serverName string) (version api.Version, params api.TransportParameters, sec api.SecConfig, ok bool) {
	hash := xxhash.Sum64String(serverName)

	c.mu.RLock()
	if e := c.lookup(hash, serverName); e != nil {
		version = e.version
		params = e.params
		if e.secConfig != nil {
			sec = e.secConfig.AddRef()
		}
		ok = true
	}
	c.mu.RUnlock()
	return
}

// SetState records the negotiated state for serverName. An existing
// entry is overwritten in place; the old security-configuration
// reference is swapped only when a non-nil one is supplied. The cache is
// best-effort: oversized identities are silently dropped.
func (c *Cache) SetState(serverName string, version api.Version, params api.TransportParameters, sec api.SecConfig) {
	if len(serverName) == 0 || len(serverName) > maxServerNameLen {
		c.tracer.Event(api.TraceAllocFailure, map[string]any{
			"object": "server cache entry",
			"bytes":  len(serverName),
		})
		return
	}
	hash := xxhash.Sum64String(serverName)

	c.mu.Lock()
	if e := c.lookup(hash, serverName); e != nil {
		e.version = version
		e.params = params
		if sec != nil {
			if e.secConfig != nil {
				e.secConfig.Release()
			}
			e.secConfig = sec.AddRef()
		}
	} else {
		e = &entry{
			hash: hash,
			// strings.Clone semantics: the cache owns its own copy of
			// the identity bytes.
			serverName: string([]byte(serverName)),
			version:    version,
			params:     params,
		}
		if sec != nil {
			e.secConfig = sec.AddRef()
		}
		idx := hash & (bucketCount - 1)
		e.next = c.buckets[idx]
		c.buckets[idx] = e
		c.count++
	}
	c.mu.Unlock()
}

// Len reports the number of cached identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// Close releases every held security-configuration reference and empties
// the cache. Called exactly once, when the owning session is destroyed.
func (c *Cache) Close() {
	c.mu.Lock()
	for i := range c.buckets {
		for e := c.buckets[i]; e != nil; e = e.next {
			if e.secConfig != nil {
				e.secConfig.Release()
				e.secConfig = nil
			}
		}
		c.buckets[i] = nil
	}
	c.count = 0
	c.mu.Unlock()
}
