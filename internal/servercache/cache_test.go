// Copyright 2026 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// cache_test.go — Unit and concurrency tests for the resumption cache.
package servercache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/fake"
)

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := New(nil)
	p1 := api.TransportParameters{InitialMaxData: 1 << 20, MaxIdleTimeoutMs: 30000}
	c.SetState("example.com", 1, p1, nil)

	v, p, sec, ok := c.GetState("example.com")
	if !ok {
		t.Fatal("GetState missed a freshly set identity")
	}
	if v != 1 || p != p1 || sec != nil {
		t.Fatalf("GetState = (%d, %+v, %v), want (1, %+v, nil)", v, p, sec, p1)
	}
}

func TestCache_NotFound(t *testing.T) {
	c := New(nil)
	if _, _, _, ok := c.GetState("nobody.example"); ok {
		t.Error("GetState returned ok for unknown identity")
	}
}

func TestCache_UpdateInPlace(t *testing.T) {
	c := New(nil)
	p1 := api.TransportParameters{InitialMaxData: 100}
	p2 := api.TransportParameters{InitialMaxData: 200}

	c.SetState("example.com", 1, p1, nil)
	c.SetState("example.com", 2, p2, nil)

	if c.Len() != 1 {
		t.Fatalf("Len = %d after update, want 1 (entry duplicated)", c.Len())
	}
	v, p, _, ok := c.GetState("example.com")
	if !ok || v != 2 || p != p2 {
		t.Fatalf("GetState = (%d, %+v), want (2, %+v)", v, p, p2)
	}
}

func TestCache_SecConfigRefCounting(t *testing.T) {
	c := New(nil)
	sc := fake.NewSecConfig()
	c.SetState("example.com", 1, api.TransportParameters{}, sc)
	if got := sc.Refs(); got != 2 {
		t.Fatalf("Refs = %d after set, want 2 (caller + cache)", got)
	}

	_, _, ref, ok := c.GetState("example.com")
	if !ok || ref == nil {
		t.Fatal("GetState lost the cached sec config")
	}
	if got := sc.Refs(); got != 3 {
		t.Fatalf("Refs = %d after get, want 3", got)
	}
	ref.Release()

	// Nil update keeps the existing reference.
	c.SetState("example.com", 2, api.TransportParameters{}, nil)
	if got := sc.Refs(); got != 2 {
		t.Fatalf("Refs = %d after nil update, want 2", got)
	}

	// Replacing swaps exactly one reference.
	sc2 := fake.NewSecConfig()
	c.SetState("example.com", 3, api.TransportParameters{}, sc2)
	if got := sc.Refs(); got != 1 {
		t.Fatalf("old Refs = %d after replace, want 1", got)
	}
	if got := sc2.Refs(); got != 2 {
		t.Fatalf("new Refs = %d after replace, want 2", got)
	}

	c.Close()
	if got := sc2.Refs(); got != 1 {
		t.Fatalf("new Refs = %d after Close, want 1", got)
	}
}

func TestCache_NotFoundTakesNoReference(t *testing.T) {
	c := New(nil)
	sc := fake.NewSecConfig()
	c.SetState("known.example", 1, api.TransportParameters{}, sc)

	if _, _, ref, ok := c.GetState("unknown.example"); ok || ref != nil {
		t.Fatal("not-found path produced a reference")
	}
	if got := sc.Refs(); got != 2 {
		t.Errorf("Refs = %d after miss, want 2", got)
	}
}

// TestCache_HashCollision injects two entries with identical hash values
// directly into a chain and checks that exact identity comparison keeps
// them apart.
func TestCache_HashCollision(t *testing.T) {
	c := New(nil)
	a := &entry{hash: 42, serverName: "a.example", version: 1}
	b := &entry{hash: 42, serverName: "b.example", version: 2}
	a.next = b
	c.buckets[42&(bucketCount-1)] = a
	c.count = 2

	if e := c.lookup(42, "b.example"); e == nil || e.version != 2 {
		t.Fatal("lookup mixed up colliding identities")
	}
	if e := c.lookup(42, "c.example"); e != nil {
		t.Fatal("lookup matched an identity that was never inserted")
	}
}

func TestCache_OversizedIdentityDropped(t *testing.T) {
	tr := fake.NewTracer()
	c := New(tr)
	huge := make([]byte, maxServerNameLen+1)
	c.SetState(string(huge), 1, api.TransportParameters{}, nil)
	if c.Len() != 0 {
		t.Error("oversized identity was cached")
	}
	if tr.Count(api.TraceAllocFailure) != 1 {
		t.Error("drop was not traced")
	}
}

func TestCache_ConcurrentReadersAndWriters(t *testing.T) {
	c := New(nil)
	const names = 32
	var wg sync.WaitGroup
	for i := 0; i < names; i++ {
		name := fmt.Sprintf("host-%d.example", i)
		wg.Add(2)
		go func(name string, v api.Version) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.SetState(name, v, api.TransportParameters{InitialMaxData: uint64(v)}, nil)
			}
		}(name, api.Version(i+1))
		go func(name string) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.GetState(name)
			}
		}(name)
	}
	wg.Wait()

	if c.Len() != names {
		t.Fatalf("Len = %d, want %d", c.Len(), names)
	}
	for i := 0; i < names; i++ {
		name := fmt.Sprintf("host-%d.example", i)
		v, p, _, ok := c.GetState(name)
		if !ok || v != api.Version(i+1) || p.InitialMaxData != uint64(i+1) {
			t.Fatalf("GetState(%s) = (%d, %+v, %v)", name, v, p, ok)
		}
	}
}
