// File: trace/zerolog.go
// Package trace provides structured lifecycle tracing backends.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package trace

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-quic/api"
)

// Logger emits lifecycle events as structured zerolog records.
type Logger struct {
	log zerolog.Logger
}

// NewLogger creates a tracer writing JSON records to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// NewWithLogger wraps an existing zerolog logger.
func NewWithLogger(l zerolog.Logger) *Logger {
	return &Logger{log: l}
}

// Event implements api.Tracer. Allocation failures log at warn level,
// everything else at debug: lifecycle churn is high-volume.
func (l *Logger) Event(ev api.TraceEvent, fields map[string]any) {
	var e *zerolog.Event
	if ev == api.TraceAllocFailure {
		e = l.log.Warn()
	} else {
		e = l.log.Debug()
	}
	e.Str("event", ev.String())
	for k, v := range fields {
		e.Interface(k, v)
	}
	e.Send()
}

// Fanout replicates every event to each tracer in order.
type Fanout []api.Tracer

// Event implements api.Tracer.
func (f Fanout) Event(ev api.TraceEvent, fields map[string]any) {
	for _, t := range f {
		t.Event(ev, fields)
	}
}
