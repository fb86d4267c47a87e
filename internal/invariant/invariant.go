// Package invariant provides contract assertions for goshape.
//
// All functions panic on violation. A violation is a programming error (a
// misused API), never bad input: bad input is reported as issues.
package invariant

import (
	"fmt"
	"runtime"
)

// Error is the panic value of every violation. It wraps the cause passed
// to Violation so callers that recover can match it with errors.Is.
type Error struct {
	Kind  string
	Msg   string
	At    string
	cause error
}

func (e *Error) Error() string {
	s := e.Kind + " VIOLATION: " + e.Msg
	if e.At != "" {
		s += "\n  at " + e.At
	}
	return s
}

func (e *Error) Unwrap() error { return e.cause }

// Precondition checks an input contract at function entry.
//
// Example:
//
//	invariant.Precondition(provider != nil, "lazy provider must not be nil")
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", nil, format, args...)
	}
}

// Invariant checks an internal invariant during execution.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", nil, format, args...)
	}
}

// NotNil panics if value is nil.
func NotNil(value any, name string) {
	if value == nil {
		fail("PRECONDITION", nil, "%s must not be nil", name)
	}
}

// Violation panics unconditionally with cause wrapped.
func Violation(cause error, format string, args ...any) {
	fail("CONTRACT", cause, format, args...)
}

// fail panics with a formatted message including the caller's location.
func fail(kind string, cause error, format string, args ...any) {
	pcs := make([]uintptr, 10)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	e := &Error{Kind: kind, Msg: msg, cause: cause}
	if frame, ok := frames.Next(); ok {
		e.At = fmt.Sprintf("%s:%d", frame.File, frame.Line)
	}
	panic(e)
}
