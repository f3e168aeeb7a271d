package ir

import (
	"fmt"

	"github.com/tracekit/ctf/obj"
	"github.com/tracekit/ctf/value"
)

// Trace is an instance of a TraceClass: a live trace under construction or
// being read, owning zero or more Streams (§3.5).
type Trace struct {
	base obj.Base

	class *TraceClass

	streams []*Stream
}

// NewTrace returns a new trace instance of the given (already-validated)
// trace class.
func NewTrace(class *TraceClass) *Trace {
	t := &Trace{class: class}
	t.base.Init(nil)
	return t
}

func (t *Trace) Class() *TraceClass { return t.class }
func (t *Trace) GetRef()            { t.base.GetRef() }
func (t *Trace) PutRef()            { t.base.PutRef() }

// CreateStream instantiates a new Stream of the given stream class, which
// must belong to t's trace class.
func (t *Trace) CreateStream(class *StreamClass) (*Stream, error) {
	if class.trace != t.class {
		return nil, fmt.Errorf("ir: stream class %q does not belong to trace class %q", class.Name(), t.class.Name())
	}
	s := &Stream{
		id:    uint64(len(t.streams)),
		class: class,
		trace: t,
	}
	s.base.Init(nil)
	t.streams = append(t.streams, s)
	t.GetRef()
	return s, nil
}

// Streams returns the trace's streams, in creation order.
func (t *Trace) Streams() []*Stream {
	out := make([]*Stream, len(t.streams))
	copy(out, t.streams)
	return out
}

// Stream is an instance of a StreamClass within a Trace (§3.5). It holds its
// ID, class and trace only; packets created from it reference the stream,
// and the stream keeps no record of them.
type Stream struct {
	base obj.Base

	id    uint64
	class *StreamClass
	trace *Trace
}

func (s *Stream) ID() uint64          { return s.id }
func (s *Stream) Class() *StreamClass { return s.class }
func (s *Stream) Trace() *Trace       { return s.trace }
func (s *Stream) GetRef()             { s.base.GetRef() }
func (s *Stream) PutRef()             { s.base.PutRef() }

// CreatePacket instantiates a new Packet belonging to s, with the given
// packet-context field instance (shaped per the stream class's
// packet-context field class; must be a Map value or nil).
func (s *Stream) CreatePacket(context *value.Value) (*Packet, error) {
	if context != nil && context.Kind() != value.KindMap {
		return nil, fmt.Errorf("ir: packet context must be a map value")
	}
	p := &Packet{stream: s, context: context}
	p.base.Init(nil)
	s.GetRef()
	return p, nil
}

// Packet is an instance of a packet within a Stream: an optional
// packet-context field instance bracketed by PacketBeginning/PacketEnd
// messages (§3.5, §3.6).
type Packet struct {
	base obj.Base

	stream  *Stream
	context *value.Value
}

func (p *Packet) Stream() *Stream        { return p.stream }
func (p *Packet) Context() *value.Value  { return p.context }
func (p *Packet) GetRef()                { p.base.GetRef() }
func (p *Packet) PutRef()                { p.base.PutRef() }

// Event is an instance of an EventClass: the common-context, specific-
// context, and payload field instances for one occurrence (§3.5). Events
// are recycled through their event class's pool (§4.1, §4.4) rather than
// individually allocated and freed.
type Event struct {
	base obj.Base

	class  *EventClass
	stream *Stream
	packet *Packet

	commonContext   *value.Value
	specificContext *value.Value
	payload         *value.Value

	defaultCS *ClockSnapshot
}

func (e *Event) Class() *EventClass   { return e.class }
func (e *Event) Stream() *Stream      { return e.stream }
func (e *Event) Packet() *Packet      { return e.packet }

// SetCommonContext sets the event's common-context field instance (must be
// a Map value, shaped per the owning stream class's event-common-context
// field class).
func (e *Event) SetCommonContext(v *value.Value) error {
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: event common context must be a map value")
	}
	e.commonContext = v
	return nil
}

func (e *Event) CommonContext() *value.Value { return e.commonContext }

// SetSpecificContext sets the event's specific-context field instance (must
// be a Map value, shaped per the owning event class's specific-context
// field class).
func (e *Event) SetSpecificContext(v *value.Value) error {
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: event specific context must be a map value")
	}
	e.specificContext = v
	return nil
}

func (e *Event) SpecificContext() *value.Value { return e.specificContext }

// SetPayload sets the event's payload field instance (must be a Map value,
// shaped per the owning event class's payload field class).
func (e *Event) SetPayload(v *value.Value) error {
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: event payload must be a map value")
	}
	e.payload = v
	return nil
}

func (e *Event) Payload() *value.Value { return e.payload }

// SetDefaultClockSnapshot attaches the event's default-clock snapshot. Per
// §4.4 this must be bound to the owning stream class's default clock class;
// that cross-check is the caller's responsibility (typically package graph
// at message-creation time, which holds the stream class in scope).
func (e *Event) SetDefaultClockSnapshot(cs *ClockSnapshot) { e.defaultCS = cs }

func (e *Event) DefaultClockSnapshot() *ClockSnapshot { return e.defaultCS }

// reset clears an event's instance state before it is returned to its
// class's pool, so the next borrower does not observe stale field data
// (§4.1's pool contract covers idle-but-constructed objects, not their
// payload).
func (e *Event) reset() {
	e.stream = nil
	e.packet = nil
	e.commonContext = nil
	e.specificContext = nil
	e.payload = nil
	e.defaultCS = nil
}

// CreateEvent implements §4.4's create_event algorithm: borrow or allocate
// an event object from the event class's pool, bind it to the given stream
// (and, optionally, packet), and return it ready for field instances to be
// attached.
func CreateEvent(eventClass *EventClass, packet *Packet, stream *Stream) (*Event, error) {
	if eventClass == nil {
		return nil, fmt.Errorf("ir: create_event requires a non-nil event class")
	}
	if stream == nil {
		return nil, fmt.Errorf("ir: create_event requires a non-nil stream")
	}
	if eventClass.stream != stream.class {
		return nil, fmt.Errorf("ir: event class %q does not belong to stream class %q", eventClass.Name(), stream.class.Name())
	}
	if packet != nil && packet.stream.class != stream.class {
		return nil, fmt.Errorf("ir: packet's stream class does not match stream's class")
	}

	ev := eventClass.borrowEvent()
	ev.stream = stream
	ev.packet = packet
	stream.GetRef()
	if packet != nil {
		packet.GetRef()
	}

	return ev, nil
}

// ReleaseEvent returns an event (and transitively its stream/packet
// references) to its owning event class's pool, per §4.4's recycling rule.
func ReleaseEvent(ev *Event) {
	if ev.stream != nil {
		ev.stream.PutRef()
	}
	if ev.packet != nil {
		ev.packet.PutRef()
	}
	ev.class.recycleEvent(ev)
}
