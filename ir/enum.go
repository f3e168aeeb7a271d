package ir

import (
	"fmt"

	"github.com/tracekit/ctf/obj"
)

// EnumerationMapping is one label with its set of inclusive value ranges
// (§3.2: "ordered list of mappings (label → set of inclusive ranges)").
// Exactly one of SignedRanges/UnsignedRanges is set, matching the
// enumeration's container signedness (§4.1: interval sets cover "either
// signed or unsigned 64-bit space", and an unsigned container's values can
// exceed int64's range).
type EnumerationMapping struct {
	Label          string
	SignedRanges   *obj.IntervalSet[int64]
	UnsignedRanges *obj.IntervalSet[uint64]
}

// EnumerationFC is the Enumeration field class kind: an Integer container
// with an ordered list of label→range mappings. Mappings may overlap on
// value; label uniqueness is required for variant tag selection (§3.2).
type EnumerationFC struct {
	common
	container *IntegerFC
	mappings  []EnumerationMapping
}

// NewEnumerationFC returns a new Enumeration field class over the given
// Integer container class, which must already validate on its own (§3.2).
func NewEnumerationFC(container *IntegerFC) (*EnumerationFC, error) {
	if container == nil {
		return nil, fmt.Errorf("ir: enumeration field class requires a non-nil container integer class")
	}
	kind := KindEnumerationUnsigned
	if container.Signed() {
		kind = KindEnumerationSigned
	}
	return &EnumerationFC{
		common:    newCommon(kind, container.Alignment()),
		container: container,
	}, nil
}

// Container returns the underlying Integer field class.
func (fc *EnumerationFC) Container() *IntegerFC { return fc.container }

// Signed reports whether the enumeration's container is signed.
func (fc *EnumerationFC) Signed() bool { return fc.container.Signed() }

// checkNewMapping enforces the invariants shared by both AddMapping
// variants: a non-empty, unique label.
func (fc *EnumerationFC) checkNewMapping(label string) error {
	if err := fc.checkMutable(); err != nil {
		return err
	}
	if label == "" {
		return fmt.Errorf("ir: enumeration mapping label must not be empty")
	}
	for _, m := range fc.mappings {
		if m.Label == label {
			return fmt.Errorf("ir: enumeration mapping label %q already exists", label)
		}
	}
	return nil
}

// AddMapping appends a label with its set of inclusive signed ranges.
// Overlapping ranges for the same or different labels are permitted; only
// label uniqueness is enforced (§3.2). The container must be signed
// (KindEnumerationSigned); use AddMappingUnsigned for an unsigned
// container.
func (fc *EnumerationFC) AddMapping(label string, ranges *obj.IntervalSet[int64]) error {
	if err := fc.checkNewMapping(label); err != nil {
		return err
	}
	if !fc.Signed() {
		return fmt.Errorf("ir: enumeration field class has an unsigned container; use AddMappingUnsigned")
	}
	fc.mappings = append(fc.mappings, EnumerationMapping{Label: label, SignedRanges: ranges})
	if ranges != nil {
		ranges.Freeze()
	}
	return nil
}

// AddMappingUnsigned appends a label with its set of inclusive unsigned
// ranges, for an enumeration whose container is unsigned (§3.2, §4.1: an
// unsigned container's values can exceed the range of int64).
func (fc *EnumerationFC) AddMappingUnsigned(label string, ranges *obj.IntervalSet[uint64]) error {
	if err := fc.checkNewMapping(label); err != nil {
		return err
	}
	if fc.Signed() {
		return fmt.Errorf("ir: enumeration field class has a signed container; use AddMapping")
	}
	fc.mappings = append(fc.mappings, EnumerationMapping{Label: label, UnsignedRanges: ranges})
	if ranges != nil {
		ranges.Freeze()
	}
	return nil
}

// Mappings returns the enumeration's mappings in declaration order.
func (fc *EnumerationFC) Mappings() []EnumerationMapping {
	out := make([]EnumerationMapping, len(fc.mappings))
	copy(out, fc.mappings)
	return out
}

// HasLabel reports whether the enumeration declares the given label.
func (fc *EnumerationFC) HasLabel(label string) bool {
	for _, m := range fc.mappings {
		if m.Label == label {
			return true
		}
	}
	return false
}

// LabelsForValue returns every label whose range set contains v, for a
// signed-container enumeration. Multiple labels may match, since ranges may
// overlap (§3.2).
func (fc *EnumerationFC) LabelsForValue(v int64) []string {
	var labels []string
	for _, m := range fc.mappings {
		if m.SignedRanges != nil && m.SignedRanges.Contains(v) {
			labels = append(labels, m.Label)
		}
	}
	return labels
}

// LabelsForUnsignedValue is LabelsForValue's counterpart for an
// unsigned-container enumeration, needed because a container up to 64 bits
// wide can hold values that don't fit in int64 (§4.1).
func (fc *EnumerationFC) LabelsForUnsignedValue(v uint64) []string {
	var labels []string
	for _, m := range fc.mappings {
		if m.UnsignedRanges != nil && m.UnsignedRanges.Contains(v) {
			labels = append(labels, m.Label)
		}
	}
	return labels
}
