// Package errs defines the error taxonomy shared by every dynamics
// package: a small sum type carrying a stable kind, a numeric code, and
// the source location where the error was raised. No package in this
// module panics on externally supplied data; fallible operations return
// an *Error instead.
package errs

import (
	"fmt"
	"runtime"
)

// Kind is one of the four error taxonomies named in the design.
type Kind int

const (
	// Validation covers precondition violations on externally supplied
	// data: non-finite numbers, non-normalized quaternions, out-of-range
	// rotor speeds, wrong vector lengths, negative mass/inertia,
	// non-orthogonal desired rotations. Recovered locally by rejecting
	// the operation.
	Validation Kind = iota
	// Numeric covers singular matrices, GJK/EPA iteration-cap exceeded,
	// degenerate simplices, division by near-zero. Recovered by
	// returning "no-contact" or skipping the command; must not crash.
	Numeric
	// Liveness covers use of a stale or out-of-range entity handle. The
	// operation is a no-op that returns this error.
	Liveness
	// Configuration covers missing mandatory component init. Creation
	// fails, no partial state left behind.
	Configuration
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Numeric:
		return "numeric"
	case Liveness:
		return "liveness"
	case Configuration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Code ranges, each with at least 1000-code separation.
const (
	baseValidation    = 1000
	baseNumeric       = 2000
	baseLiveness      = 3000
	baseConfiguration = 4000
)

// Error is the sum type returned by every fallible operation in this
// module.
type Error struct {
	Kind   Kind
	Code   int
	Msg    string
	Source string // file:line of the call that raised the error.
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s[%d] %s (%s)", e.Kind, e.Code, e.Msg, e.Source)
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// New builds an Error with the given kind, an offset added to that
// kind's base code, and a formatted message. The source location is the
// line that called New, not New itself.
func New(kind Kind, offset int, format string, args ...any) *Error {
	base := baseValidation
	switch kind {
	case Numeric:
		base = baseNumeric
	case Liveness:
		base = baseLiveness
	case Configuration:
		base = baseConfiguration
	}
	return &Error{
		Kind:   kind,
		Code:   base + offset,
		Msg:    fmt.Sprintf(format, args...),
		Source: caller(),
	}
}

// Is reports whether err is a taxonomy Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
