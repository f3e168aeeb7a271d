// Package graph implements the message/graph runtime (§4.5): typed
// messages, message iterators, component classes with method tables,
// ports, graph wiring and pull scheduling, MIP version negotiation, and a
// per-goroutine error cause chain.
//
// Grounded on original_source/src/lib/graph/ (component-class.c, mip.c,
// component-class-sink-simple.c, message/*.c) for semantics, and on the
// teacher's collector.go/search.go scatter-gather style and
// stack_util.go/event.go stack-capture idiom for the Go shape.
package graph

import "fmt"

// Status is the common return enum of §4.5: every component-class and
// message-iterator method returns one of these.
type Status int

const (
	StatusOK Status = iota
	StatusEnd
	StatusAgain
	StatusInterrupted
	StatusNoMatch
	StatusUnknownObject
	StatusMemoryError
	StatusOverflowError
	StatusUserError
	StatusError
	StatusFrozen
	StatusInvalidFieldPath
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusEnd:
		return "END"
	case StatusAgain:
		return "AGAIN"
	case StatusInterrupted:
		return "INTERRUPTED"
	case StatusNoMatch:
		return "NO_MATCH"
	case StatusUnknownObject:
		return "UNKNOWN_OBJECT"
	case StatusMemoryError:
		return "MEMORY_ERROR"
	case StatusOverflowError:
		return "OVERFLOW_ERROR"
	case StatusUserError:
		return "USER_ERROR"
	case StatusError:
		return "ERROR"
	case StatusFrozen:
		return "FROZEN"
	case StatusInvalidFieldPath:
		return "INVALID_FIELD_PATH"
	default:
		return "UNKNOWN_STATUS"
	}
}

// statusError wraps a Status as an error, for call sites that prefer the
// idiomatic Go `error` return over a bare Status value.
type statusError struct {
	status Status
	detail string
}

func (e *statusError) Error() string {
	if e.detail == "" {
		return e.status.String()
	}
	return fmt.Sprintf("%s: %s", e.status, e.detail)
}

// Status returns the underlying Status code.
func (e *statusError) Status() Status { return e.status }

// NewStatusError returns an error carrying the given Status and detail
// message.
func NewStatusError(status Status, detail string) error {
	return &statusError{status: status, detail: detail}
}

// StatusOf extracts the Status from an error returned by this package, or
// StatusError if err is non-nil but not one of ours, or StatusOK if err is
// nil.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	if se, ok := err.(*statusError); ok {
		return se.status
	}
	return StatusError
}
