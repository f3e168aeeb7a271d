package ir

import (
	"fmt"

	"github.com/tracekit/ctf/obj"
)

// StreamClassFlags are the boolean capability flags of §3.5.
type StreamClassFlags struct {
	SupportsPackets            bool
	PacketsHaveBeginCS         bool
	PacketsHaveEndCS           bool
	SupportsDiscardedEvents    bool
	DiscardedEventsHaveCS      bool
	SupportsDiscardedPackets   bool
	DiscardedPacketsHaveCS     bool
}

// StreamClass is a family of event classes sharing packet/header layout and
// a default clock (§3.5). Its parent trace class is reachable but does not
// own a reference back (non-owning per §9's cyclic-reference design note).
type StreamClass struct {
	base obj.Base

	id    uint64
	name  string
	trace *TraceClass

	packetContextFC       FieldClass
	eventHeaderFC         FieldClass
	eventCommonContextFC  FieldClass
	defaultClockClass     *ClockClass

	flags StreamClassFlags

	eventClasses []*EventClass
}

func (sc *StreamClass) ID() uint64          { return sc.id }
func (sc *StreamClass) Name() string        { return sc.name }
func (sc *StreamClass) TraceClass() *TraceClass { return sc.trace }
func (sc *StreamClass) Frozen() bool        { return sc.base.Frozen() }

// SetPacketContextFieldClass sets the stream class's packet-context field
// class, which must be a Structure.
func (sc *StreamClass) SetPacketContextFieldClass(fc FieldClass) error {
	if err := sc.checkMutable(); err != nil {
		return err
	}
	if fc != nil && fc.Kind() != KindStructure {
		return fmt.Errorf("ir: packet-context field class must be a structure")
	}
	sc.packetContextFC = fc
	if fc != nil {
		sc.base.OnFreeze(fc.Freeze)
	}
	return nil
}

func (sc *StreamClass) PacketContextFieldClass() FieldClass { return sc.packetContextFC }

// SetEventHeaderFieldClass sets the stream class's event-header field
// class, which must be a Structure.
func (sc *StreamClass) SetEventHeaderFieldClass(fc FieldClass) error {
	if err := sc.checkMutable(); err != nil {
		return err
	}
	if fc != nil && fc.Kind() != KindStructure {
		return fmt.Errorf("ir: event-header field class must be a structure")
	}
	sc.eventHeaderFC = fc
	if fc != nil {
		sc.base.OnFreeze(fc.Freeze)
	}
	return nil
}

func (sc *StreamClass) EventHeaderFieldClass() FieldClass { return sc.eventHeaderFC }

// SetEventCommonContextFieldClass sets the stream class's event-common-
// context field class, which must be a Structure.
func (sc *StreamClass) SetEventCommonContextFieldClass(fc FieldClass) error {
	if err := sc.checkMutable(); err != nil {
		return err
	}
	if fc != nil && fc.Kind() != KindStructure {
		return fmt.Errorf("ir: event-common-context field class must be a structure")
	}
	sc.eventCommonContextFC = fc
	if fc != nil {
		sc.base.OnFreeze(fc.Freeze)
	}
	return nil
}

func (sc *StreamClass) EventCommonContextFieldClass() FieldClass { return sc.eventCommonContextFC }

// SetDefaultClockClass attaches the stream class's default clock class.
// Freezing the stream class freezes the default clock class too (§3.1).
func (sc *StreamClass) SetDefaultClockClass(cc *ClockClass) error {
	if err := sc.checkMutable(); err != nil {
		return err
	}
	sc.defaultClockClass = cc
	if cc != nil {
		sc.base.OnFreeze(cc.Freeze)
	}
	return nil
}

func (sc *StreamClass) DefaultClockClass() *ClockClass { return sc.defaultClockClass }

// SetFlags sets the stream class's capability flags.
func (sc *StreamClass) SetFlags(flags StreamClassFlags) error {
	if err := sc.checkMutable(); err != nil {
		return err
	}
	sc.flags = flags
	return nil
}

func (sc *StreamClass) Flags() StreamClassFlags { return sc.flags }

// AppendEventClass adds a new event class to the stream class and returns
// it.
func (sc *StreamClass) AppendEventClass(name string) (*EventClass, error) {
	if err := sc.checkMutable(); err != nil {
		return nil, err
	}

	ec := &EventClass{
		id:     uint64(len(sc.eventClasses)),
		name:   name,
		stream: sc,
	}
	ec.base.Init(nil)
	ec.instancePool = obj.NewPool(func() *Event {
		return &Event{}
	}, nil)

	sc.eventClasses = append(sc.eventClasses, ec)
	sc.base.OnFreeze(ec.Freeze)

	return ec, nil
}

// EventClasses returns the stream class's event classes, in declaration
// order.
func (sc *StreamClass) EventClasses() []*EventClass {
	out := make([]*EventClass, len(sc.eventClasses))
	copy(out, sc.eventClasses)
	return out
}

// Freeze marks the stream class immutable, deep-freezing its event classes,
// packet-context class, event-common-context class, and default clock class
// (§3.1).
func (sc *StreamClass) Freeze() { sc.base.Freeze() }

func (sc *StreamClass) checkMutable() error {
	if err := sc.base.CheckMutable(); err != nil {
		return fmt.Errorf("ir: stream class: %w", err)
	}
	return nil
}
