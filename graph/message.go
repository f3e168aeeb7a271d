package graph

import (
	"fmt"

	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/obj"
)

// MessageKind discriminates the message variants of §3.6.
type MessageKind int

const (
	MessageKindStreamBeginning MessageKind = iota
	MessageKindStreamEnd
	MessageKindPacketBeginning
	MessageKindPacketEnd
	MessageKindEvent
	MessageKindDiscardedEvents
	MessageKindDiscardedPackets
	MessageKindMessageIteratorInactivity
)

func (k MessageKind) String() string {
	switch k {
	case MessageKindStreamBeginning:
		return "STREAM_BEGINNING"
	case MessageKindStreamEnd:
		return "STREAM_END"
	case MessageKindPacketBeginning:
		return "PACKET_BEGINNING"
	case MessageKindPacketEnd:
		return "PACKET_END"
	case MessageKindEvent:
		return "EVENT"
	case MessageKindDiscardedEvents:
		return "DISCARDED_EVENTS"
	case MessageKindDiscardedPackets:
		return "DISCARDED_PACKETS"
	case MessageKindMessageIteratorInactivity:
		return "MESSAGE_ITERATOR_INACTIVITY"
	default:
		return "UNKNOWN_MESSAGE_KIND"
	}
}

// Message is the common interface of every message variant pulled through a
// graph (§3.6, §4.5). Like ir.FieldClass it is a small tagged-union
// interface rather than one struct with an embedded kind, mirroring the
// teacher's preference for distinct value types over an `interface{}` bag
// (event.go's Event/Frame split).
type Message interface {
	Kind() MessageKind
	base() *obj.Base
}

// StreamBeginningMessage marks the start of a stream instance.
type StreamBeginningMessage struct {
	b      obj.Base
	Stream *ir.Stream
}

func (m *StreamBeginningMessage) Kind() MessageKind { return MessageKindStreamBeginning }
func (m *StreamBeginningMessage) base() *obj.Base    { return &m.b }

// StreamEndMessage marks the end of a stream instance.
type StreamEndMessage struct {
	b      obj.Base
	Stream *ir.Stream
}

func (m *StreamEndMessage) Kind() MessageKind { return MessageKindStreamEnd }
func (m *StreamEndMessage) base() *obj.Base    { return &m.b }

// PacketBeginningMessage marks the start of a packet. The stream class must
// support packets (§3.6 invariant).
type PacketBeginningMessage struct {
	b      obj.Base
	Packet *ir.Packet
}

func (m *PacketBeginningMessage) Kind() MessageKind { return MessageKindPacketBeginning }
func (m *PacketBeginningMessage) base() *obj.Base    { return &m.b }

// PacketEndMessage marks the end of a packet.
type PacketEndMessage struct {
	b      obj.Base
	Packet *ir.Packet
}

func (m *PacketEndMessage) Kind() MessageKind { return MessageKindPacketEnd }
func (m *PacketEndMessage) base() *obj.Base    { return &m.b }

// EventMessage carries a single event instance, with an optional default
// clock snapshot when the stream class's default clock class is set.
type EventMessage struct {
	b          obj.Base
	Event      *ir.Event
	ClockSnapshot *ir.ClockSnapshot
}

func (m *EventMessage) Kind() MessageKind { return MessageKindEvent }
func (m *EventMessage) base() *obj.Base    { return &m.b }

// DiscardedEventsMessage reports a gap in a stream's event sequence,
// grounded on original_source/src/lib/graph/message/discarded-items.c.
// Count, when known, must be > 0; BeginningCS must not be after EndingCS
// when both are present.
type DiscardedEventsMessage struct {
	b            obj.Base
	Stream       *ir.Stream
	Count        uint64
	HasCount     bool
	BeginningCS  *ir.ClockSnapshot
	EndingCS     *ir.ClockSnapshot
}

func (m *DiscardedEventsMessage) Kind() MessageKind { return MessageKindDiscardedEvents }
func (m *DiscardedEventsMessage) base() *obj.Base    { return &m.b }

// DiscardedPacketsMessage reports a gap in a stream's packet sequence.
type DiscardedPacketsMessage struct {
	b           obj.Base
	Stream      *ir.Stream
	Count       uint64
	HasCount    bool
	BeginningCS *ir.ClockSnapshot
	EndingCS    *ir.ClockSnapshot
}

func (m *DiscardedPacketsMessage) Kind() MessageKind { return MessageKindDiscardedPackets }
func (m *DiscardedPacketsMessage) base() *obj.Base    { return &m.b }

// MessageIteratorInactivityMessage reports that an upstream iterator has no
// message ready but is not at end of stream, carrying a clock snapshot so
// downstream iterators can still advance their notion of time. Grounded on
// original_source/src/lib/graph/message/message-iterator-inactivity.c.
type MessageIteratorInactivityMessage struct {
	b             obj.Base
	ClockSnapshot *ir.ClockSnapshot
}

func (m *MessageIteratorInactivityMessage) Kind() MessageKind {
	return MessageKindMessageIteratorInactivity
}
func (m *MessageIteratorInactivityMessage) base() *obj.Base { return &m.b }

// Pools. One pool per message kind is shared across a graph rather than
// per event class (unlike ir.EventClass's per-class event pool) since
// message kinds other than Event are not event-class-scoped (§4.1 "message
// pools are confined to their owning graph").
type MessagePools struct {
	streamBeginning *obj.Pool[*StreamBeginningMessage]
	streamEnd       *obj.Pool[*StreamEndMessage]
	packetBeginning *obj.Pool[*PacketBeginningMessage]
	packetEnd       *obj.Pool[*PacketEndMessage]
	event           *obj.Pool[*EventMessage]
	discardedEvents *obj.Pool[*DiscardedEventsMessage]
	discardedPackets *obj.Pool[*DiscardedPacketsMessage]
	inactivity      *obj.Pool[*MessageIteratorInactivityMessage]
}

// NewMessagePools constructs a fresh set of message pools for one graph.
func NewMessagePools() *MessagePools {
	return &MessagePools{
		streamBeginning: obj.NewPool(func() *StreamBeginningMessage { return &StreamBeginningMessage{} }, nil),
		streamEnd:       obj.NewPool(func() *StreamEndMessage { return &StreamEndMessage{} }, nil),
		packetBeginning: obj.NewPool(func() *PacketBeginningMessage { return &PacketBeginningMessage{} }, nil),
		packetEnd:       obj.NewPool(func() *PacketEndMessage { return &PacketEndMessage{} }, nil),
		event:           obj.NewPool(func() *EventMessage { return &EventMessage{} }, nil),
		discardedEvents: obj.NewPool(func() *DiscardedEventsMessage { return &DiscardedEventsMessage{} }, nil),
		discardedPackets: obj.NewPool(func() *DiscardedPacketsMessage { return &DiscardedPacketsMessage{} }, nil),
		inactivity:      obj.NewPool(func() *MessageIteratorInactivityMessage { return &MessageIteratorInactivityMessage{} }, nil),
	}
}

func (p *MessagePools) CreateStreamBeginning(stream *ir.Stream) (*StreamBeginningMessage, error) {
	if stream == nil {
		return nil, NewStatusError(StatusError, "stream beginning message requires a stream")
	}
	m := p.streamBeginning.Create()
	m.Stream = stream
	stream.GetRef()
	return m, nil
}

func (p *MessagePools) ReleaseStreamBeginning(m *StreamBeginningMessage) {
	m.Stream.PutRef()
	m.Stream = nil
	p.streamBeginning.Recycle(m)
}

func (p *MessagePools) CreateStreamEnd(stream *ir.Stream) (*StreamEndMessage, error) {
	if stream == nil {
		return nil, NewStatusError(StatusError, "stream end message requires a stream")
	}
	m := p.streamEnd.Create()
	m.Stream = stream
	stream.GetRef()
	return m, nil
}

func (p *MessagePools) ReleaseStreamEnd(m *StreamEndMessage) {
	m.Stream.PutRef()
	m.Stream = nil
	p.streamEnd.Recycle(m)
}

func (p *MessagePools) CreatePacketBeginning(packet *ir.Packet) (*PacketBeginningMessage, error) {
	if packet == nil {
		return nil, NewStatusError(StatusError, "packet beginning message requires a packet")
	}
	if !packet.Stream().Class().Flags().SupportsPackets {
		return nil, NewStatusError(StatusError, "stream class does not support packets")
	}
	m := p.packetBeginning.Create()
	m.Packet = packet
	packet.GetRef()
	return m, nil
}

func (p *MessagePools) ReleasePacketBeginning(m *PacketBeginningMessage) {
	m.Packet.PutRef()
	m.Packet = nil
	p.packetBeginning.Recycle(m)
}

func (p *MessagePools) CreatePacketEnd(packet *ir.Packet) (*PacketEndMessage, error) {
	if packet == nil {
		return nil, NewStatusError(StatusError, "packet end message requires a packet")
	}
	m := p.packetEnd.Create()
	m.Packet = packet
	packet.GetRef()
	return m, nil
}

func (p *MessagePools) ReleasePacketEnd(m *PacketEndMessage) {
	m.Packet.PutRef()
	m.Packet = nil
	p.packetEnd.Recycle(m)
}

// CreateEvent builds an event message, grounded on
// original_source/src/lib/graph/message/event.c's construction checks: the
// event must have a default clock snapshot set whenever its stream class
// declares a default clock class, and must not have one otherwise; a
// snapshot that is set must belong to that default clock class.
func (p *MessagePools) CreateEvent(ev *ir.Event) (*EventMessage, error) {
	if ev == nil {
		return nil, NewStatusError(StatusError, "event message requires an event")
	}
	cs := ev.DefaultClockSnapshot()
	hasDefaultClockClass := ev.Class().StreamClass().DefaultClockClass() != nil
	if hasDefaultClockClass && cs == nil {
		return nil, NewStatusError(StatusError, "event's stream class has a default clock class but the event has no clock snapshot")
	}
	if !hasDefaultClockClass && cs != nil {
		return nil, NewStatusError(StatusError, "event has a clock snapshot but its stream class has no default clock class")
	}
	if cs != nil && cs.ClockClass() != ev.Class().StreamClass().DefaultClockClass() {
		return nil, NewStatusError(StatusError, "event's clock snapshot is not bound to its stream class's default clock class")
	}
	m := p.event.Create()
	m.Event = ev
	m.ClockSnapshot = cs
	return m, nil
}

func (p *MessagePools) ReleaseEvent(m *EventMessage) {
	ir.ReleaseEvent(m.Event)
	m.Event = nil
	m.ClockSnapshot = nil
	p.event.Recycle(m)
}

// CreateDiscardedEvents validates the invariants of §3.6: a known count
// must be positive, and when both clock snapshots are present they must
// belong to the same clock class and the beginning must not be after the
// ending. The owning stream class must support discarded-events messages;
// its DiscardedEventsHaveCS flag is not consulted, so snapshots are neither
// required nor rejected on its account.
func (p *MessagePools) CreateDiscardedEvents(stream *ir.Stream, count uint64, hasCount bool, begin, end *ir.ClockSnapshot) (*DiscardedEventsMessage, error) {
	if stream == nil {
		return nil, NewStatusError(StatusError, "discarded events message requires a stream")
	}
	if !stream.Class().Flags().SupportsDiscardedEvents {
		return nil, NewStatusError(StatusError, "stream class does not support discarded events messages")
	}
	if hasCount && count == 0 {
		return nil, NewStatusError(StatusError, "discarded events count must be greater than zero when known")
	}
	if err := checkClockOrder(begin, end); err != nil {
		return nil, err
	}
	m := p.discardedEvents.Create()
	m.Stream = stream
	m.Count = count
	m.HasCount = hasCount
	m.BeginningCS = begin
	m.EndingCS = end
	stream.GetRef()
	return m, nil
}

func (p *MessagePools) ReleaseDiscardedEvents(m *DiscardedEventsMessage) {
	m.Stream.PutRef()
	*m = DiscardedEventsMessage{}
	p.discardedEvents.Recycle(m)
}

// CreateDiscardedPackets mirrors CreateDiscardedEvents for packet gaps.
func (p *MessagePools) CreateDiscardedPackets(stream *ir.Stream, count uint64, hasCount bool, begin, end *ir.ClockSnapshot) (*DiscardedPacketsMessage, error) {
	if stream == nil {
		return nil, NewStatusError(StatusError, "discarded packets message requires a stream")
	}
	if !stream.Class().Flags().SupportsDiscardedPackets {
		return nil, NewStatusError(StatusError, "stream class does not support discarded packets messages")
	}
	if hasCount && count == 0 {
		return nil, NewStatusError(StatusError, "discarded packets count must be greater than zero when known")
	}
	if err := checkClockOrder(begin, end); err != nil {
		return nil, err
	}
	m := p.discardedPackets.Create()
	m.Stream = stream
	m.Count = count
	m.HasCount = hasCount
	m.BeginningCS = begin
	m.EndingCS = end
	stream.GetRef()
	return m, nil
}

func (p *MessagePools) ReleaseDiscardedPackets(m *DiscardedPacketsMessage) {
	m.Stream.PutRef()
	*m = DiscardedPacketsMessage{}
	p.discardedPackets.Recycle(m)
}

func (p *MessagePools) CreateMessageIteratorInactivity(cs *ir.ClockSnapshot) (*MessageIteratorInactivityMessage, error) {
	if cs == nil {
		return nil, NewStatusError(StatusError, "message iterator inactivity message requires a clock snapshot")
	}
	m := p.inactivity.Create()
	m.ClockSnapshot = cs
	return m, nil
}

func (p *MessagePools) ReleaseMessageIteratorInactivity(m *MessageIteratorInactivityMessage) {
	m.ClockSnapshot = nil
	p.inactivity.Recycle(m)
}

func checkClockOrder(begin, end *ir.ClockSnapshot) error {
	if begin == nil || end == nil {
		return nil
	}
	if begin.ClockClass() != end.ClockClass() {
		return NewStatusError(StatusError, "beginning and ending clock snapshots belong to different clock classes")
	}
	if begin.Cycles() > end.Cycles() {
		return NewStatusError(StatusError, fmt.Sprintf("beginning clock snapshot (%d) is after ending clock snapshot (%d)", begin.Cycles(), end.Cycles()))
	}
	return nil
}
