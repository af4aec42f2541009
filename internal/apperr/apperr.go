// Package apperr defines the error taxonomy shared by the store, the
// projector, the probe worker, and both interactive front ends. Callers
// classify failures with errors.Is against the sentinel kinds below so the
// UI can decide between a toast, a blocking dialog, and a fatal exit.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation policy decisions.
type Kind int

const (
	// TerminalUnavailable means stdin/stdout is not an interactive terminal.
	TerminalUnavailable Kind = iota
	// TerminalMode means entering or restoring a terminal mode failed.
	TerminalMode
	// Persistence means a write/rename of a persisted file failed.
	Persistence
	// Validation means user input failed a domain rule.
	Validation
	// Probe means a latency check timed out or the endpoint is unreachable.
	Probe
	// Migration means the stored schema is unreadable or unsupported.
	Migration
)

func (k Kind) String() string {
	switch k {
	case TerminalUnavailable:
		return "terminal unavailable"
	case TerminalMode:
		return "terminal mode failure"
	case Persistence:
		return "persistence failure"
	case Validation:
		return "validation failure"
	case Probe:
		return "probe failure"
	case Migration:
		return "migration failure"
	}
	return "unknown"
}

// Error carries a kind, a message, and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, &Error{Kind: k}) works against
// the sentinels returned by KindOf targets.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind || t.Kind == e.Kind && t.Msg == e.Msg
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a kind and message, preserving the cause chain.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf returns the kind carried by err, or ok=false when err is untyped.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
