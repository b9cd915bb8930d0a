// File: facade/hioload.go
// Unified facade layer for the hioload-quic library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// HioloadQUIC aggregates the session core behind a single facade: it
// wires configuration, tracing, metrics, debug probes, one registration,
// and the process default session. The facade exposes methods to open
// sessions, reach the default session, and perform a unified shutdown.

package facade

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-quic/api"
	"github.com/momentics/hioload-quic/control"
	"github.com/momentics/hioload-quic/session"
	"github.com/momentics/hioload-quic/trace"
)

// Option customizes facade construction.
type Option func(*options)

type options struct {
	logWriter  io.Writer
	registerer prometheus.Registerer
	tracer     api.Tracer
}

// WithLogWriter redirects lifecycle logging. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithRegisterer selects the Prometheus registerer for metrics.
// Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithTracer replaces the built-in zerolog tracer entirely.
func WithTracer(t api.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// HioloadQUIC is the main facade type.
// It implements api.GracefulShutdown to allow unified shutdown logic.
type HioloadQUIC struct {
	cfg *control.Config

	tracer  api.Tracer
	metrics *control.Metrics
	probes  *control.DebugProbes

	registration *session.Registration
	defaultSess  *session.Session
}

// New initializes the session layer from cfg. A nil cfg uses defaults.
func New(cfg *control.Config, opts ...Option) (*HioloadQUIC, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	o := options{logWriter: os.Stderr, registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	h := &HioloadQUIC{cfg: cfg}

	tracer := o.tracer
	if tracer == nil {
		tracer = trace.NewLogger(o.logWriter)
	}
	if cfg.EnableMetrics {
		h.metrics = control.NewMetrics(o.registerer)
		tracer = trace.Fanout{tracer, h.metrics}
	}
	h.tracer = tracer

	settings := cfg.Settings()
	h.registration = session.NewRegistration(cfg.AppName, &settings, tracer)
	h.defaultSess = session.NewUnowned(nil, tracer)

	if cfg.EnableDebug {
		h.probes = control.NewDebugProbes()
		h.probes.RegisterProbe("sessions", func() any {
			return h.registration.SessionCount()
		})
		h.probes.RegisterProbe("default_session_conns", func() any {
			return h.defaultSess.ConnectionCount()
		})
		h.probes.RegisterProbe("default_session_cache", func() any {
			return h.defaultSess.CacheLen()
		})
	}
	return h, nil
}

// Registration returns the facade's registration scope.
func (h *HioloadQUIC) Registration() *session.Registration { return h.registration }

// DefaultSession returns the process-wide ownerless session.
func (h *HioloadQUIC) DefaultSession() *session.Session { return h.defaultSess }

// OpenSession opens a session under the facade's registration.
func (h *HioloadQUIC) OpenSession(clientContext any) (*session.Session, error) {
	return session.Open(h.registration, clientContext)
}

// Tracer returns the composed lifecycle tracer.
func (h *HioloadQUIC) Tracer() api.Tracer { return h.tracer }

// Probes returns the debug probe registry, nil when debug is disabled.
func (h *HioloadQUIC) Probes() *control.DebugProbes { return h.probes }

// Shutdown implements api.GracefulShutdown: closes the default session
// and the registration. Every session opened through OpenSession must be
// closed first, and every connection unregistered; Shutdown blocks until
// the connection rundowns drain.
func (h *HioloadQUIC) Shutdown() error {
	h.defaultSess.Close()
	h.registration.Close()
	return nil
}

var _ api.GracefulShutdown = (*HioloadQUIC)(nil)
