package ir

import (
	"fmt"

	"github.com/tracekit/ctf/obj"
)

// LogLevel is the optional severity level attached to an event class
// (§3.5). Values follow the conventional syslog-derived CTF scale.
type LogLevel int

const (
	LogLevelUnspecified LogLevel = iota
	LogLevelEmergency
	LogLevelAlert
	LogLevelCritical
	LogLevelError
	LogLevelWarning
	LogLevelNotice
	LogLevelInfo
	LogLevelDebugSystem
	LogLevelDebugProgram
	LogLevelDebugProcess
	LogLevelDebugModule
	LogLevelDebugUnit
	LogLevelDebugFunction
	LogLevelDebugLine
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelUnspecified:
		return "UNSPECIFIED"
	case LogLevelEmergency:
		return "EMERGENCY"
	case LogLevelAlert:
		return "ALERT"
	case LogLevelCritical:
		return "CRITICAL"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelNotice:
		return "NOTICE"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebugSystem:
		return "DEBUG_SYSTEM"
	case LogLevelDebugProgram:
		return "DEBUG_PROGRAM"
	case LogLevelDebugProcess:
		return "DEBUG_PROCESS"
	case LogLevelDebugModule:
		return "DEBUG_MODULE"
	case LogLevelDebugUnit:
		return "DEBUG_UNIT"
	case LogLevelDebugFunction:
		return "DEBUG_FUNCTION"
	case LogLevelDebugLine:
		return "DEBUG_LINE"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// EventClass describes one kind of event within a stream class: an optional
// log level and EMF (event metadata framework) URI, plus specific-context
// and payload field classes (§3.5). Instances are borrowed from a
// per-event-class pool of recycled *Event objects (§4.1, §4.4).
type EventClass struct {
	base obj.Base

	id     uint64
	name   string
	stream *StreamClass

	hasLogLevel bool
	logLevel    LogLevel
	emfURI      string

	specificContextFC FieldClass
	payloadFC         FieldClass

	instancePool *obj.Pool[*Event]
}

func (ec *EventClass) ID() uint64               { return ec.id }
func (ec *EventClass) Name() string             { return ec.name }
func (ec *EventClass) StreamClass() *StreamClass { return ec.stream }
func (ec *EventClass) Frozen() bool             { return ec.base.Frozen() }

// SetLogLevel sets the event class's optional log level.
func (ec *EventClass) SetLogLevel(level LogLevel) error {
	if err := ec.checkMutable(); err != nil {
		return err
	}
	ec.hasLogLevel = true
	ec.logLevel = level
	return nil
}

// LogLevel returns the event class's log level and whether one was set.
func (ec *EventClass) LogLevel() (LogLevel, bool) { return ec.logLevel, ec.hasLogLevel }

// SetEMFURI sets the event class's EMF (event metadata framework) URI.
func (ec *EventClass) SetEMFURI(uri string) error {
	if err := ec.checkMutable(); err != nil {
		return err
	}
	ec.emfURI = uri
	return nil
}

// EMFURI returns the event class's EMF URI, or "" if unset.
func (ec *EventClass) EMFURI() string { return ec.emfURI }

// SetSpecificContextFieldClass sets the event class's specific-context
// field class, which must be a Structure.
func (ec *EventClass) SetSpecificContextFieldClass(fc FieldClass) error {
	if err := ec.checkMutable(); err != nil {
		return err
	}
	if fc != nil && fc.Kind() != KindStructure {
		return fmt.Errorf("ir: event specific-context field class must be a structure")
	}
	ec.specificContextFC = fc
	if fc != nil {
		ec.base.OnFreeze(fc.Freeze)
	}
	return nil
}

func (ec *EventClass) SpecificContextFieldClass() FieldClass { return ec.specificContextFC }

// SetPayloadFieldClass sets the event class's payload field class, which
// must be a Structure.
func (ec *EventClass) SetPayloadFieldClass(fc FieldClass) error {
	if err := ec.checkMutable(); err != nil {
		return err
	}
	if fc != nil && fc.Kind() != KindStructure {
		return fmt.Errorf("ir: event payload field class must be a structure")
	}
	ec.payloadFC = fc
	if fc != nil {
		ec.base.OnFreeze(fc.Freeze)
	}
	return nil
}

func (ec *EventClass) PayloadFieldClass() FieldClass { return ec.payloadFC }

// Freeze marks the event class immutable, deep-freezing its specific-
// context and payload field classes (§3.1).
func (ec *EventClass) Freeze() { ec.base.Freeze() }

func (ec *EventClass) checkMutable() error {
	if err := ec.base.CheckMutable(); err != nil {
		return fmt.Errorf("ir: event class: %w", err)
	}
	return nil
}

// borrowEvent returns an idle *Event from the class's pool, or a freshly
// allocated one (§4.1 "create() returns the last free object if any, else
// calls new").
func (ec *EventClass) borrowEvent() *Event {
	ev := ec.instancePool.Create()
	ev.class = ec
	return ev
}

// recycleEvent returns an *Event to the class's pool (§4.4 "the event... is
// returned to the per-event-class pool").
func (ec *EventClass) recycleEvent(ev *Event) {
	ev.reset()
	ec.instancePool.Recycle(ev)
}

// PoolStats exposes the event class's instance pool statistics.
func (ec *EventClass) PoolStats() *obj.PoolStats { return ec.instancePool.Stats() }
