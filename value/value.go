// Package value implements the typed dynamic value tree of CTF IR §4.6:
// component parameters, environment entries, and trace-class user
// attributes are all represented with this type. It has no direct teacher
// analogue — no example repo ships a dynamic value tree — so its shape
// follows the teacher's snapshot-struct idiom (plain, JSON-tagged,
// by-value) seen in trace.go's StaticTrace/SelectedTrace rather than any
// single grounded algorithm; see DESIGN.md.
package value

import (
	"errors"
	"fmt"
	"sort"
)

var errFrozen = errors.New("frozen")

// Kind identifies which alternative of the tagged union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindUnsigned
	KindSigned
	KindReal
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable-once-frozen dynamic value, one of Null, Bool,
// 64-bit Unsigned/Signed Integer, 64-bit float Real, String, Array, or Map
// (insertion-ordered string keys to values).
type Value struct {
	kind   Kind
	b      bool
	u      uint64
	i      int64
	f      float64
	s      string
	arr    []*Value
	mkeys  []string
	mvals  map[string]*Value
	frozen bool
}

// Null returns the null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Unsigned wraps a uint64.
func Unsigned(u uint64) *Value { return &Value{kind: KindUnsigned, u: u} }

// Signed wraps an int64.
func Signed(i int64) *Value { return &Value{kind: KindSigned, i: i} }

// Real wraps a float64.
func Real(f float64) *Value { return &Value{kind: KindReal, f: f} }

// String wraps a string.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Array returns an empty array value.
func Array() *Value { return &Value{kind: KindArray} }

// Map returns an empty, insertion-ordered map value.
func Map() *Value { return &Value{kind: KindMap, mvals: map[string]*Value{}} }

// Kind returns the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is Null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; ok is false if the kind doesn't match.
func (v *Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsUnsigned returns the uint64 payload; ok is false if the kind doesn't match.
func (v *Value) AsUnsigned() (uint64, bool) {
	if v.kind != KindUnsigned {
		return 0, false
	}
	return v.u, true
}

// AsSigned returns the int64 payload; ok is false if the kind doesn't match.
func (v *Value) AsSigned() (int64, bool) {
	if v.kind != KindSigned {
		return 0, false
	}
	return v.i, true
}

// AsReal returns the float64 payload; ok is false if the kind doesn't match.
func (v *Value) AsReal() (float64, bool) {
	if v.kind != KindReal {
		return 0, false
	}
	return v.f, true
}

// AsString returns the string payload; ok is false if the kind doesn't match.
func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// checkMutable returns an error if the value is frozen.
func (v *Value) checkMutable() error {
	if v.frozen {
		return fmt.Errorf("value: %w", errFrozen)
	}
	return nil
}

// Append adds an element to an array value.
func (v *Value) Append(elem *Value) error {
	if v.kind != KindArray {
		return fmt.Errorf("value: Append on non-array kind %s", v.kind)
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.arr = append(v.arr, elem)
	return nil
}

// ArrayLen returns the number of elements in an array value, or 0 for other
// kinds.
func (v *Value) ArrayLen() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.arr)
}

// ArrayAt returns the element at index i of an array value.
func (v *Value) ArrayAt(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// Set inserts or overwrites a key in a map value, preserving the original
// insertion order of existing keys.
func (v *Value) Set(key string, elem *Value) error {
	if v.kind != KindMap {
		return fmt.Errorf("value: Set on non-map kind %s", v.kind)
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	if _, exists := v.mvals[key]; !exists {
		v.mkeys = append(v.mkeys, key)
	}
	v.mvals[key] = elem
	return nil
}

// Get returns the value at key in a map value, and whether it was present.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	e, ok := v.mvals[key]
	return e, ok
}

// Keys returns a map value's keys in insertion order.
func (v *Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	out := make([]string, len(v.mkeys))
	copy(out, v.mkeys)
	return out
}

// Freeze deep-freezes the value: arrays and maps freeze their elements
// recursively (§4.6 "freeze (deep)").
func (v *Value) Freeze() {
	if v == nil || v.frozen {
		return
	}
	v.frozen = true
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			e.Freeze()
		}
	case KindMap:
		for _, k := range v.mkeys {
			v.mvals[k].Freeze()
		}
	}
}

// Frozen reports whether Freeze has been called on this value.
func (v *Value) Frozen() bool { return v.frozen }

// DeepCopy returns an independent, unfrozen copy of the value tree.
func (v *Value) DeepCopy() *Value {
	if v == nil {
		return nil
	}
	cp := &Value{kind: v.kind, b: v.b, u: v.u, i: v.i, f: v.f, s: v.s}
	switch v.kind {
	case KindArray:
		cp.arr = make([]*Value, len(v.arr))
		for i, e := range v.arr {
			cp.arr[i] = e.DeepCopy()
		}
	case KindMap:
		cp.mvals = make(map[string]*Value, len(v.mvals))
		cp.mkeys = make([]string, len(v.mkeys))
		copy(cp.mkeys, v.mkeys)
		for _, k := range v.mkeys {
			cp.mvals[k] = v.mvals[k].DeepCopy()
		}
	}
	return cp
}

// IsEqual reports structural equality: same kind and payload, recursively
// for Array and Map (map comparison is order-insensitive on keys, since
// insertion order is positional metadata, not semantic content, for
// equality purposes).
func (v *Value) IsEqual(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindUnsigned:
		return v.u == other.u
	case KindSigned:
		return v.i == other.i
	case KindReal:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].IsEqual(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.mkeys) != len(other.mkeys) {
			return false
		}
		for _, k := range v.mkeys {
			ov, ok := other.mvals[k]
			if !ok || !v.mvals[k].IsEqual(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Extend overwrites entries of the base map with deep copies of the
// corresponding entries of ext, adding any keys ext has that base doesn't,
// and returns the resulting (new) map. Both base and ext must be Map
// values; Extend never mutates either argument (§4.6 "map_extend... with
// deep copies of extension-map entries").
func Extend(base, ext *Value) (*Value, error) {
	if base.kind != KindMap || ext.kind != KindMap {
		return nil, fmt.Errorf("value: Extend requires two map values")
	}

	out := Map()
	for _, k := range base.mkeys {
		_ = out.Set(k, base.mvals[k].DeepCopy())
	}
	for _, k := range ext.mkeys {
		_ = out.Set(k, ext.mvals[k].DeepCopy())
	}

	return out, nil
}

// sortedKeys returns v's keys in sorted order, for deterministic iteration
// independent of insertion order.
func sortedKeys(v *Value) []string {
	keys := v.Keys()
	sort.Strings(keys)
	return keys
}
