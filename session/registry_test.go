// Copyright 2026 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// registry_test.go — Membership registry and shutdown broadcast tests.
package session

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/connection"
)

func drainShutdowns(c *connection.Conn) []api.ShutdownArgs {
	var got []api.ShutdownArgs
	for c.ProcessNext(func(op *api.Operation) {
		if op.Type == api.OperConnShutdown {
			got = append(got, op.Shutdown)
		}
	}) {
	}
	return got
}

func TestRegistry_ConcurrentRegisterUnregister(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)

	const total = 200
	const keep = 50 // connections left registered at the end
	conns := make([]*connection.Conn, total)
	for i := range conns {
		conns[i] = connection.New()
	}

	var wg sync.WaitGroup
	for i, c := range conns {
		wg.Add(1)
		go func(i int, c *connection.Conn) {
			defer wg.Done()
			s.RegisterConnection(c)
			if i >= keep {
				UnregisterConnection(c)
			}
		}(i, c)
	}
	wg.Wait()

	if got := s.ConnectionCount(); got != keep {
		t.Fatalf("ConnectionCount = %d, want %d", got, keep)
	}
	// Exactly the still-registered connections remain attached.
	for i, c := range conns {
		attached := c.Registrar() != nil
		if i < keep && !attached {
			t.Fatalf("conn %d lost its registration", i)
		}
		if i >= keep && attached {
			t.Fatalf("conn %d still attached after unregister", i)
		}
	}

	for i := 0; i < keep; i++ {
		UnregisterConnection(conns[i])
	}
	for _, c := range conns {
		c.Close()
	}
	s.Close()
	reg.Close()
}

func TestRegisterConnection_MovesBetweenSessions(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s1, _ := Open(reg, nil)
	s2, _ := Open(reg, nil)
	c := connection.New()

	s1.RegisterConnection(c)
	s2.RegisterConnection(c) // implicit unregister from s1

	if s1.ConnectionCount() != 0 || s2.ConnectionCount() != 1 {
		t.Fatalf("membership = (%d, %d), want (0, 1)",
			s1.ConnectionCount(), s2.ConnectionCount())
	}

	UnregisterConnection(c)
	c.Close()
	s1.Close()
	s2.Close()
	reg.Close()
}

func TestRegisterConnection_PanicsOnDrainingSession(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)
	s.Close()
	c := connection.New()
	defer func() {
		if recover() == nil {
			t.Error("RegisterConnection did not panic on a closed session")
		}
		c.Close() // returns the registration token taken before the panic
		reg.Close()
	}()
	s.RegisterConnection(c)
}

func TestShutdown_BroadcastExactlyOnceEach(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)
	c1 := connection.New()
	c2 := connection.New()
	s.RegisterConnection(c1)
	s.RegisterConnection(c2)

	s.Shutdown(api.ShutdownNone, 42)

	for i, c := range []*connection.Conn{c1, c2} {
		got := drainShutdowns(c)
		if len(got) != 1 {
			t.Fatalf("conn %d received %d shutdown requests, want 1", i+1, len(got))
		}
		if got[0].ErrorCode != 42 || got[0].Flags != api.ShutdownNone {
			t.Fatalf("conn %d request = %+v", i+1, got[0])
		}
	}

	UnregisterConnection(c1)
	UnregisterConnection(c2)
	c1.Close()
	c2.Close()

	// Membership already empty: Close must return promptly.
	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked with empty membership")
	}
	reg.Close()
}

func TestShutdown_ConcurrentCallsDeliverAtMostOne(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)
	c := connection.New()
	s.RegisterConnection(c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(code uint64) {
			defer wg.Done()
			s.Shutdown(api.ShutdownNone, code)
		}(uint64(i))
	}
	wg.Wait()

	if got := drainShutdowns(c); len(got) != 1 {
		t.Fatalf("connection observed %d shutdown requests, want 1", len(got))
	}

	UnregisterConnection(c)
	c.Close()
	s.Close()
	reg.Close()
}

func TestShutdown_IgnoresOutOfRangeErrorCode(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)
	c := connection.New()
	s.RegisterConnection(c)

	s.Shutdown(api.ShutdownNone, api.MaxAppErrorCode+1)

	if got := drainShutdowns(c); len(got) != 0 {
		t.Fatalf("out-of-range error code still delivered %d requests", len(got))
	}
	if s.State() != api.SessionActive {
		t.Error("out-of-range shutdown changed the session state")
	}

	UnregisterConnection(c)
	c.Close()
	s.Close()
	reg.Close()
}

func TestShutdown_ConcurrentWithUnregister(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)

	const n = 64
	conns := make([]*connection.Conn, n)
	for i := range conns {
		conns[i] = connection.New()
		s.RegisterConnection(conns[i])
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Shutdown(api.ShutdownSilent, 0)
	}()
	go func() {
		defer wg.Done()
		for _, c := range conns {
			UnregisterConnection(c)
		}
	}()
	wg.Wait()

	// Each connection saw at most one request regardless of the race.
	for i, c := range conns {
		if got := drainShutdowns(c); len(got) > 1 {
			t.Fatalf("conn %d received %d requests", i, len(got))
		}
		c.Close()
	}
	s.Close()
	reg.Close()
}

func TestTraceRundown_QueuesToEveryMember(t *testing.T) {
	reg := NewRegistration("app", nil, nil)
	s, _ := Open(reg, nil)
	c1 := connection.New()
	c2 := connection.New()
	s.RegisterConnection(c1)
	s.RegisterConnection(c2)

	s.TraceRundown()

	for i, c := range []*connection.Conn{c1, c2} {
		seen := 0
		for c.ProcessNext(func(op *api.Operation) {
			if op.Type == api.OperTraceRundown {
				seen++
			}
		}) {
		}
		if seen != 1 {
			t.Fatalf("conn %d saw %d trace-rundown requests, want 1", i+1, seen)
		}
	}

	UnregisterConnection(c1)
	UnregisterConnection(c2)
	c1.Close()
	c2.Close()
	s.Close()
	reg.Close()
}
