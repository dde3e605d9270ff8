// Package errors provides domain-specific error types for remsh.
//
// These types carry structured context (operation, address) that lets
// callers classify failures — fatal startup conditions versus
// per-connection I/O errors — and provides better diagnostics than
// plain string wrapping.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrNoCandidates is returned when host resolution yields no
	// addresses to attempt.
	ErrNoCandidates = errors.New("no candidate addresses resolved")

	// ErrAllCandidatesFailed is returned after a full single pass over
	// every resolved address without a successful connect.
	ErrAllCandidatesFailed = errors.New("could not connect to any resolved address")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op      string // operation: "dial", "listen", "accept", "read", "write"
	Addr    string // network address involved
	Err     error  // underlying error
	Timeout bool   // whether the failure was a deadline expiry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Timeout {
		s += " (timeout)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError, automatically detecting deadline expiry
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:      op,
		Addr:    addr,
		Err:     err,
		Timeout: IsTimeout(err),
	}
}

// ── Classification helpers ───────────────────────────────────────────

// IsTimeout reports whether err represents an expired I/O deadline.
// Workers treat these as "nothing happened in this wait", not failures.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// IsClosed reports whether err came from an operation on a listener or
// connection that has already been closed — the normal signature of an
// orderly shutdown, not a fault.
func IsClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use this package as a drop-in replacement for
// the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
