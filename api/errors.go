// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-quic.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrSessionClosed     = fmt.Errorf("session is closed")
	ErrQueueFull         = fmt.Errorf("operation queue is full")
	ErrNotFound          = fmt.Errorf("resource not found")
	ErrNotSupported      = fmt.Errorf("operation not supported")
)

// StatusCode represents specific error conditions in the library.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusInvalidArgument
	StatusResourceExhausted
	StatusSessionClosed
	StatusQueueFull
	StatusNotFound
	StatusInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    StatusCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code StatusCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
