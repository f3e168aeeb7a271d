package ir

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tracekit/ctf/obj"
	"github.com/tracekit/ctf/value"
)

// TraceClass is the root of a metadata hierarchy (§3.5): zero or more
// Stream classes, plus environment entries and user attributes. Freezing a
// trace class is deep: it freezes every stream class, which in turn
// freezes its event classes (§3.1).
//
// Per §9's arena-plus-index design note, a TraceClass owns its Stream
// classes outright (non-owning back-pointers point up from StreamClass to
// TraceClass); there is no separate arena allocator in this
// implementation, but the ownership discipline is the same: destroying the
// last strong reference to a TraceClass destroys everything reachable only
// through it.
type TraceClass struct {
	base obj.Base

	name        string
	uuid        uuid.UUID
	hasUUID     bool
	environment *value.Value
	attributes  *value.Value

	streamClasses []*StreamClass
}

// NewTraceClass returns a new, empty, unfrozen trace class.
func NewTraceClass(name string) *TraceClass {
	tc := &TraceClass{name: name}
	tc.base.Init(nil)
	return tc
}

func (tc *TraceClass) Name() string   { return tc.name }
func (tc *TraceClass) Frozen() bool   { return tc.base.Frozen() }
func (tc *TraceClass) GetRef()        { tc.base.GetRef() }
func (tc *TraceClass) PutRef()        { tc.base.PutRef() }

// SetUUID attaches an optional UUID to the trace class.
func (tc *TraceClass) SetUUID(id uuid.UUID) error {
	if err := tc.base.CheckMutable(); err != nil {
		return fmt.Errorf("ir: trace class: %w", err)
	}
	tc.uuid = id
	tc.hasUUID = true
	return nil
}

// UUID returns the trace class's UUID and whether one was set.
func (tc *TraceClass) UUID() (uuid.UUID, bool) { return tc.uuid, tc.hasUUID }

// SetEnvironment attaches the trace class's environment entries (must be a
// Map value; §3.5).
func (tc *TraceClass) SetEnvironment(v *value.Value) error {
	if err := tc.base.CheckMutable(); err != nil {
		return fmt.Errorf("ir: trace class: %w", err)
	}
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: trace class environment must be a map value")
	}
	tc.environment = v
	return nil
}

// Environment returns the trace class's environment entries, or nil.
func (tc *TraceClass) Environment() *value.Value { return tc.environment }

// SetUserAttributes attaches the trace class's user attributes (§4.6).
func (tc *TraceClass) SetUserAttributes(v *value.Value) error {
	if err := tc.base.CheckMutable(); err != nil {
		return fmt.Errorf("ir: trace class: %w", err)
	}
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: trace class user attributes must be a map value")
	}
	tc.attributes = v
	return nil
}

// UserAttributes returns the trace class's user attributes, or nil.
func (tc *TraceClass) UserAttributes() *value.Value { return tc.attributes }

// AppendStreamClass adds a new, empty stream class to the trace class and
// returns it.
func (tc *TraceClass) AppendStreamClass(name string) (*StreamClass, error) {
	if err := tc.base.CheckMutable(); err != nil {
		return nil, fmt.Errorf("ir: trace class: %w", err)
	}

	sc := &StreamClass{
		id:    uint64(len(tc.streamClasses)),
		name:  name,
		trace: tc,
	}
	sc.base.Init(nil)

	tc.streamClasses = append(tc.streamClasses, sc)
	tc.base.OnFreeze(sc.Freeze)

	return sc, nil
}

// StreamClasses returns the trace class's stream classes, in declaration
// order.
func (tc *TraceClass) StreamClasses() []*StreamClass {
	out := make([]*StreamClass, len(tc.streamClasses))
	copy(out, tc.streamClasses)
	return out
}

// Freeze marks the trace class immutable, deep-freezing every stream class
// (and, transitively, every event class) per §3.1.
func (tc *TraceClass) Freeze() {
	tc.base.Freeze()
}
