package graph

import (
	"fmt"
	"runtime"
	"strings"
)

// ActorType identifies what kind of entity appended an error Cause (§4.5.3).
type ActorType int

const (
	ActorUnknown ActorType = iota
	ActorComponent
	ActorComponentClass
	ActorMessageIterator
)

func (a ActorType) String() string {
	switch a {
	case ActorUnknown:
		return "UNKNOWN"
	case ActorComponent:
		return "COMPONENT"
	case ActorComponentClass:
		return "COMPONENT_CLASS"
	case ActorMessageIterator:
		return "MESSAGE_ITERATOR"
	default:
		return "UNKNOWN_ACTOR"
	}
}

// Cause is one link of an error chain (§4.5.3): actor type, optional
// component/class identification, the file/line the cause was appended
// from, and a formatted message.
type Cause struct {
	ActorType     ActorType
	ComponentName string
	ClassName     string
	File          string
	Line          int
	Message       string
}

func (c Cause) String() string {
	if c.ComponentName != "" {
		return fmt.Sprintf("%s:%d [%s %s]: %s", c.File, c.Line, c.ActorType, c.ComponentName, c.Message)
	}
	return fmt.Sprintf("%s:%d [%s]: %s", c.File, c.Line, c.ActorType, c.Message)
}

// ErrorChain is an ordered list of causes, innermost first (§4.5.3). The
// original library keeps this in thread-local storage; a graph in this
// implementation is pinned to one goroutine for its lifetime (§5 "the core
// may be used from multiple threads only by pinning each graph... to one
// thread"), so the chain is simply held by each Component (its Errors
// field) rather than recovered from goroutine-local state, which Go does
// not expose.
type ErrorChain struct {
	causes []Cause
}

// AppendCauseFromUnknown appends a cause with no actor identification.
func (ec *ErrorChain) AppendCauseFromUnknown(format string, args ...interface{}) {
	ec.append(Cause{ActorType: ActorUnknown, Message: fmt.Sprintf(format, args...)})
}

// AppendCauseFromComponent appends a cause attributed to a running
// component instance.
func (ec *ErrorChain) AppendCauseFromComponent(componentName, className string, format string, args ...interface{}) {
	ec.append(Cause{
		ActorType:     ActorComponent,
		ComponentName: componentName,
		ClassName:     className,
		Message:       fmt.Sprintf(format, args...),
	})
}

// AppendCauseFromComponentClass appends a cause attributed to a component
// class (outside any particular instance, e.g. during MIP negotiation).
func (ec *ErrorChain) AppendCauseFromComponentClass(className string, format string, args ...interface{}) {
	ec.append(Cause{
		ActorType: ActorComponentClass,
		ClassName: className,
		Message:   fmt.Sprintf(format, args...),
	})
}

// AppendCauseFromMessageIterator appends a cause attributed to a running
// message iterator.
func (ec *ErrorChain) AppendCauseFromMessageIterator(componentName, className string, format string, args ...interface{}) {
	ec.append(Cause{
		ActorType:     ActorMessageIterator,
		ComponentName: componentName,
		ClassName:     className,
		Message:       fmt.Sprintf(format, args...),
	})
}

// append captures the caller's file/line the way the teacher's
// event2.go/getStack2 captures a call stack with plain runtime.Callers,
// rather than reaching for a third-party stack-trace library for a single
// frame.
func (ec *ErrorChain) append(c Cause) {
	if _, file, line, ok := runtime.Caller(2); ok {
		c.File = shortFile(file)
		c.Line = line
	}
	ec.causes = append(ec.causes, c)
}

func shortFile(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		if j := strings.LastIndex(path[:i], "/"); j >= 0 {
			return path[j+1:]
		}
	}
	return path
}

// Causes returns the chain's causes, innermost (oldest) first.
func (ec *ErrorChain) Causes() []Cause {
	out := make([]Cause, len(ec.causes))
	copy(out, ec.causes)
	return out
}

// Empty reports whether the chain holds no causes.
func (ec *ErrorChain) Empty() bool { return len(ec.causes) == 0 }

// Take transfers ownership of the chain's causes to the caller and clears
// the chain, mirroring current_thread_take_error (§4.5.3).
func (ec *ErrorChain) Take() []Cause {
	causes := ec.causes
	ec.causes = nil
	return causes
}

// Move reinstalls a previously-taken cause list, mirroring
// current_thread_move_error (§4.5.3).
func (ec *ErrorChain) Move(causes []Cause) {
	ec.causes = causes
}

// Clear discards the chain's causes, mirroring current_thread_clear_error
// (§4.5.3).
func (ec *ErrorChain) Clear() {
	ec.causes = nil
}

func (ec *ErrorChain) Error() string {
	var b strings.Builder
	for i, c := range ec.causes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.String())
	}
	return b.String()
}
