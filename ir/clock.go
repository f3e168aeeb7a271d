package ir

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/tracekit/ctf/value"
)

// ErrOverflow is returned by clock conversions whose mathematical result
// does not fit in an int64 nanosecond count (§3.4, §7 OVERFLOW_ERROR).
var ErrOverflow = errors.New("clock conversion overflow")

// ClockClass describes a clock's frequency, precision, and origin (§3.4).
// google/uuid provides the optional UUID identifying the clock class
// across traces.
type ClockClass struct {
	name        string
	description string
	frequency   uint64 // Hz, > 0
	precision   uint64 // cycles
	offsetSec   int64
	offsetCyc   uint64 // < frequency
	isUnixEpoch bool
	uuid        uuid.UUID
	hasUUID     bool
	attributes  *value.Value
	frozen      bool
}

// NewClockClass returns a new clock class. frequency must be > 0 and
// offsetCycles must be < frequency (§3.4).
func NewClockClass(name, description string, frequency uint64, offsetSeconds int64, offsetCycles uint64) (*ClockClass, error) {
	if frequency == 0 {
		return nil, fmt.Errorf("ir: clock class frequency must be > 0")
	}
	if offsetCycles >= frequency {
		return nil, fmt.Errorf("ir: clock class offset cycles (%d) must be < frequency (%d)", offsetCycles, frequency)
	}
	return &ClockClass{
		name:        name,
		description: description,
		frequency:   frequency,
		offsetSec:   offsetSeconds,
		offsetCyc:   offsetCycles,
	}, nil
}

func (cc *ClockClass) Name() string            { return cc.name }
func (cc *ClockClass) Description() string     { return cc.description }
func (cc *ClockClass) Frequency() uint64       { return cc.frequency }
func (cc *ClockClass) Precision() uint64       { return cc.precision }
func (cc *ClockClass) OffsetSeconds() int64    { return cc.offsetSec }
func (cc *ClockClass) OffsetCycles() uint64    { return cc.offsetCyc }
func (cc *ClockClass) OriginIsUnixEpoch() bool { return cc.isUnixEpoch }
func (cc *ClockClass) Frozen() bool            { return cc.frozen }

// SetPrecision sets the clock's precision, in cycles.
func (cc *ClockClass) SetPrecision(cycles uint64) error {
	if cc.frozen {
		return fmt.Errorf("ir: clock class: %w", errFrozenClock)
	}
	cc.precision = cycles
	return nil
}

// SetOriginIsUnixEpoch sets whether the clock's origin is the Unix epoch.
func (cc *ClockClass) SetOriginIsUnixEpoch(v bool) error {
	if cc.frozen {
		return fmt.Errorf("ir: clock class: %w", errFrozenClock)
	}
	cc.isUnixEpoch = v
	return nil
}

// SetUUID attaches an optional UUID identifying this clock class.
func (cc *ClockClass) SetUUID(id uuid.UUID) error {
	if cc.frozen {
		return fmt.Errorf("ir: clock class: %w", errFrozenClock)
	}
	cc.uuid = id
	cc.hasUUID = true
	return nil
}

// UUID returns the clock class's UUID and whether one was set.
func (cc *ClockClass) UUID() (uuid.UUID, bool) { return cc.uuid, cc.hasUUID }

// SetUserAttributes attaches a user-attribute value (must be a Map).
func (cc *ClockClass) SetUserAttributes(v *value.Value) error {
	if cc.frozen {
		return fmt.Errorf("ir: clock class: %w", errFrozenClock)
	}
	if v != nil && v.Kind() != value.KindMap {
		return fmt.Errorf("ir: clock class user attributes must be a map value")
	}
	cc.attributes = v
	return nil
}

// UserAttributes returns the clock class's user-attribute value, or nil.
func (cc *ClockClass) UserAttributes() *value.Value { return cc.attributes }

// Freeze marks the clock class immutable, deep-freezing its user
// attributes (§3.1).
func (cc *ClockClass) Freeze() {
	if cc.frozen {
		return
	}
	cc.frozen = true
	cc.attributes.Freeze()
}

var errFrozenClock = errors.New("frozen")

// ClockSnapshot is `(clock class, raw cycle value)` (§3.4).
type ClockSnapshot struct {
	class  *ClockClass
	cycles uint64
}

// NewClockSnapshot returns a snapshot of the given clock class at the given
// raw cycle value.
func NewClockSnapshot(class *ClockClass, cycles uint64) *ClockSnapshot {
	return &ClockSnapshot{class: class, cycles: cycles}
}

// ClockClass returns the snapshot's clock class.
func (cs *ClockSnapshot) ClockClass() *ClockClass { return cs.class }

// Cycles returns the snapshot's raw cycle value.
func (cs *ClockSnapshot) Cycles() uint64 { return cs.cycles }

const nsPerSecond = 1_000_000_000

// NanosecondsFromOrigin computes the nanoseconds-from-origin view of the
// snapshot (§3.4):
//
//	floor(cycles/frequency)·10⁹ + (cycles mod frequency)·10⁹/frequency
//	    + offset_seconds·10⁹ + offset_cycles·10⁹/frequency
//
// using arbitrary-precision integers internally so that only the final
// bounds check — not the intermediate arithmetic — can overflow. Returns
// ErrOverflow if the mathematical result falls outside [math.MinInt64,
// math.MaxInt64].
func (cs *ClockSnapshot) NanosecondsFromOrigin() (int64, error) {
	cc := cs.class

	freq := new(big.Int).SetUint64(cc.frequency)
	cycles := new(big.Int).SetUint64(cs.cycles)
	billion := big.NewInt(nsPerSecond)

	// floor(cycles/frequency)*1e9 + (cycles mod frequency)*1e9/frequency
	q := new(big.Int)
	r := new(big.Int)
	q.DivMod(cycles, freq, r)

	total := new(big.Int).Mul(q, billion)

	rTerm := new(big.Int).Mul(r, billion)
	rTerm.Div(rTerm, freq)
	total.Add(total, rTerm)

	// offset_seconds*1e9
	offsetSec := new(big.Int).Mul(big.NewInt(cc.offsetSec), billion)
	total.Add(total, offsetSec)

	// offset_cycles*1e9/frequency
	offsetCyc := new(big.Int).SetUint64(cc.offsetCyc)
	offsetCycTerm := new(big.Int).Mul(offsetCyc, billion)
	offsetCycTerm.Div(offsetCycTerm, freq)
	total.Add(total, offsetCycTerm)

	maxI64 := big.NewInt(math.MaxInt64)
	minI64 := big.NewInt(math.MinInt64)

	if total.Cmp(maxI64) > 0 || total.Cmp(minI64) < 0 {
		return 0, ErrOverflow
	}

	return total.Int64(), nil
}
