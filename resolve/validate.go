package resolve

import (
	"fmt"

	"github.com/tracekit/ctf/ir"
)

// Input is the five scope roots of a trace/stream/event-class graph,
// gathered right before first use (§4.3). Any root may be nil.
type Input struct {
	PacketContext        ir.FieldClass
	EventHeader          ir.FieldClass
	EventCommonContext   ir.FieldClass
	EventSpecificContext ir.FieldClass
	EventPayload         ir.FieldClass
}

// Output holds the (possibly new, if a deep copy was required) field
// classes, plus the original handles the caller must release once it has
// installed the new ones (§4.3: "transferring the old handles to the
// caller for release").
type Output struct {
	PacketContext        ir.FieldClass
	EventHeader          ir.FieldClass
	EventCommonContext   ir.FieldClass
	EventSpecificContext ir.FieldClass
	EventPayload         ir.FieldClass

	OldPacketContext        ir.FieldClass
	OldEventHeader          ir.FieldClass
	OldEventCommonContext   ir.FieldClass
	OldEventSpecificContext ir.FieldClass
	OldEventPayload         ir.FieldClass
}

// Validate runs the two-pass validation of §4.3 over in's five scope
// roots: a resolution pass (deep-copying any subtree that contains a
// sequence or variant, so resolution cannot mutate a shared tree, then
// resolving by-name references per §4.2) followed by a local validation
// pass (per-kind structural checks, recursive descent). Grounded on
// original_source/lib/ctf-ir/validation.c's two-function split
// (validate_event_class_types / validate_stream_class_types), collapsed
// here into one entry point operating over the five field-path scopes
// directly.
func Validate(in Input) (*Output, error) {
	out := &Output{
		OldPacketContext:        in.PacketContext,
		OldEventHeader:          in.EventHeader,
		OldEventCommonContext:   in.EventCommonContext,
		OldEventSpecificContext: in.EventSpecificContext,
		OldEventPayload:         in.EventPayload,
	}

	out.PacketContext = maybeDeepCopy(in.PacketContext)
	out.EventHeader = maybeDeepCopy(in.EventHeader)
	out.EventCommonContext = maybeDeepCopy(in.EventCommonContext)
	out.EventSpecificContext = maybeDeepCopy(in.EventSpecificContext)
	out.EventPayload = maybeDeepCopy(in.EventPayload)

	ctx := &Context{
		PacketContext:        out.PacketContext,
		EventHeader:          out.EventHeader,
		EventCommonContext:   out.EventCommonContext,
		EventSpecificContext: out.EventSpecificContext,
		EventPayload:         out.EventPayload,
	}

	// Dependency order per §4.3: packet-context, event-header,
	// stream-event-common-context, event-specific-context, event-payload.
	roots := []ir.FieldClass{out.PacketContext, out.EventHeader, out.EventCommonContext, out.EventSpecificContext, out.EventPayload}

	for _, root := range roots {
		if err := ResolveFieldPaths(root, ctx); err != nil {
			return nil, err
		}
	}

	for _, root := range roots {
		if err := localValidate(root); err != nil {
			return nil, err
		}
	}

	// Every validated root is frozen, whether it was deep-copied above or
	// taken as given.
	for _, root := range roots {
		if root != nil {
			root.Freeze()
		}
	}

	return out, nil
}

// FinalizeStreamClass runs the §4.3 validator over a stream class's own
// scope roots (packet-context, event-header, event-common-context) and
// installs the (possibly deep-copied) result back onto the stream class,
// implementing §4.3's "moves them into the containing trace/stream/event
// classes" for the stream-level scopes. Package ir has no way to invoke
// this itself (it cannot import package resolve without a cycle), so a
// stream class builder must call this once its context/header field
// classes are in place and before the stream class — or any event class
// appended to it — is put to use; cmd/ctfdump's trace-class builder does
// this immediately after configuring the stream class.
func FinalizeStreamClass(sc *ir.StreamClass) error {
	out, err := Validate(Input{
		PacketContext:      sc.PacketContextFieldClass(),
		EventHeader:        sc.EventHeaderFieldClass(),
		EventCommonContext: sc.EventCommonContextFieldClass(),
	})
	if err != nil {
		return err
	}
	if err := sc.SetPacketContextFieldClass(out.PacketContext); err != nil {
		return err
	}
	if err := sc.SetEventHeaderFieldClass(out.EventHeader); err != nil {
		return err
	}
	if err := sc.SetEventCommonContextFieldClass(out.EventCommonContext); err != nil {
		return err
	}
	return nil
}

// FinalizeEventClass runs the §4.3 validator over an event class's
// specific-context and payload field classes, resolved against its own
// scopes plus the containing stream class's packet-context, event-header,
// and event-common-context scopes (a field in the event's payload may
// reference a sibling living in any of those, per §4.2's scope lattice),
// and installs the (possibly deep-copied) result back onto the event
// class. FinalizeStreamClass must be called on the owning stream class
// first. The stream-level scopes are only read here, never written back:
// their own validated, installed copies belong to the stream class, not
// to any one event class built against it.
func FinalizeEventClass(ec *ir.EventClass) error {
	sc := ec.StreamClass()
	out, err := Validate(Input{
		PacketContext:        sc.PacketContextFieldClass(),
		EventHeader:          sc.EventHeaderFieldClass(),
		EventCommonContext:   sc.EventCommonContextFieldClass(),
		EventSpecificContext: ec.SpecificContextFieldClass(),
		EventPayload:         ec.PayloadFieldClass(),
	})
	if err != nil {
		return err
	}
	if err := ec.SetSpecificContextFieldClass(out.EventSpecificContext); err != nil {
		return err
	}
	if err := ec.SetPayloadFieldClass(out.EventPayload); err != nil {
		return err
	}
	return nil
}

// containsSequenceOrVariant reports whether fc or any of its descendants is
// a Sequence or Variant field class, the trigger for the deep-copy policy
// of §4.3.
func containsSequenceOrVariant(fc ir.FieldClass) bool {
	if fc == nil {
		return false
	}
	switch v := fc.(type) {
	case *ir.SequenceFC:
		return true
	case *ir.VariantFC:
		return true
	case *ir.StructureFC:
		for _, m := range v.Members() {
			if containsSequenceOrVariant(m.Class) {
				return true
			}
		}
	case *ir.ArrayFC:
		return containsSequenceOrVariant(v.Element())
	case *ir.OptionFC:
		return containsSequenceOrVariant(v.Content())
	case *ir.EnumerationFC:
		return containsSequenceOrVariant(v.Container())
	}
	return false
}

// maybeDeepCopy implements §4.3's deep-copy policy: copying is performed
// only when a subtree contains at least one dynamic sequence or variant,
// to avoid unnecessary allocation.
func maybeDeepCopy(fc ir.FieldClass) ir.FieldClass {
	if fc == nil {
		return nil
	}
	if !containsSequenceOrVariant(fc) {
		return fc
	}
	return deepCopyFieldClass(fc)
}

// deepCopyFieldClass rebuilds an independent copy of fc's entire subtree
// using the same public constructors a caller would use, so the copy
// shares no mutable state with the original.
func deepCopyFieldClass(fc ir.FieldClass) ir.FieldClass {
	switch v := fc.(type) {
	case *ir.BoolFC:
		return ir.NewBoolFC(v.Alignment())

	case *ir.BitArrayFC:
		cp, err := ir.NewBitArrayFC(v.WidthBits(), v.Alignment())
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid bit-array field class: %v", err))
		}
		return cp

	case *ir.IntegerFC:
		cp, err := ir.NewIntegerFC(v.Signed(), v.WidthBits(), v.Alignment(), v.DisplayBase(), v.Encoding(), v.ByteOrder())
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid integer field class: %v", err))
		}
		if cc := v.MappedClockClass(); cc != nil {
			_ = cp.SetMappedClockClass(cc)
		}
		return cp

	case *ir.RealFC:
		signBit := 1
		cp, err := ir.NewRealFC(signBit, v.ExponentBits(), v.MantissaBits(), v.Alignment(), v.ByteOrder())
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid real field class: %v", err))
		}
		return cp

	case *ir.StringFC:
		cp, err := ir.NewStringFC(v.Encoding())
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid string field class: %v", err))
		}
		return cp

	case *ir.EnumerationFC:
		container := deepCopyFieldClass(v.Container()).(*ir.IntegerFC)
		cp, err := ir.NewEnumerationFC(container)
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid enumeration field class: %v", err))
		}
		for _, m := range v.Mappings() {
			if v.Signed() {
				err = cp.AddMapping(m.Label, m.SignedRanges)
			} else {
				err = cp.AddMappingUnsigned(m.Label, m.UnsignedRanges)
			}
			if err != nil {
				panic(fmt.Sprintf("resolve: deep-copying a previously-valid enumeration mapping: %v", err))
			}
		}
		return cp

	case *ir.StructureFC:
		cp := ir.NewStructureFC()
		for _, m := range v.Members() {
			if err := cp.AppendMember(m.Name, deepCopyFieldClass(m.Class)); err != nil {
				panic(fmt.Sprintf("resolve: deep-copying a previously-valid structure field class: %v", err))
			}
		}
		return cp

	case *ir.VariantFC:
		var tagFC *ir.EnumerationFC
		if v.TagFieldClass() != nil {
			tagFC = deepCopyFieldClass(v.TagFieldClass()).(*ir.EnumerationFC)
		}
		cp := ir.NewVariantFC(tagFC, v.TagFieldName())
		for _, opt := range v.Members() {
			if err := cp.AppendOption(opt.Name, deepCopyFieldClass(opt.Class)); err != nil {
				panic(fmt.Sprintf("resolve: deep-copying a previously-valid variant field class: %v", err))
			}
		}
		return cp

	case *ir.ArrayFC:
		cp, err := ir.NewArrayFC(deepCopyFieldClass(v.Element()), v.Length())
		if err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid array field class: %v", err))
		}
		return cp

	case *ir.SequenceFC:
		return ir.NewSequenceFC(deepCopyFieldClass(v.Element()), v.LengthFieldName())

	case *ir.OptionFC:
		cp := ir.NewOptionFC(deepCopyFieldClass(v.Content()))
		var labels []string
		for l := range v.EnumLabels() {
			labels = append(labels, l)
		}
		if err := cp.SetSelector(v.SelectorKind(), v.SelectorFieldName(), labels); err != nil {
			panic(fmt.Sprintf("resolve: deep-copying a previously-valid option field class: %v", err))
		}
		return cp

	default:
		panic(fmt.Sprintf("resolve: deep copy: unknown field class kind %T", fc))
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// localValidate implements §4.3's "local validation pass": per-kind checks
// from the §3.2 table that a constructor alone cannot enforce because they
// depend on the whole subtree or on cross-field bookkeeping (structure
// alignment, variant tag/option correspondence, sequence length-name
// presence), applied with recursive descent.
func localValidate(fc ir.FieldClass) error {
	if fc == nil {
		return nil
	}

	switch v := fc.(type) {
	case *ir.StructureFC:
		if !isPowerOfTwo(v.Alignment()) {
			return fmt.Errorf("ir: structure field class alignment %d is not a power of two", v.Alignment())
		}
		for _, m := range v.Members() {
			if err := localValidate(m.Class); err != nil {
				return fmt.Errorf("member %q: %w", m.Name, err)
			}
		}

	case *ir.VariantFC:
		if v.TagFieldClass() == nil {
			return fmt.Errorf("ir: variant field class has no tag discriminator")
		}
		labels := map[string]bool{}
		for _, m := range v.TagFieldClass().Mappings() {
			labels[m.Label] = true
		}
		options := map[string]bool{}
		for _, opt := range v.Members() {
			options[opt.Name] = true
		}
		if len(labels) != len(options) {
			return fmt.Errorf("ir: variant field class has %d tag label(s) but %d option(s)", len(labels), len(options))
		}
		for label := range labels {
			if !options[label] {
				return fmt.Errorf("ir: variant field class tag label %q has no matching option", label)
			}
		}
		for _, opt := range v.Members() {
			if !labels[opt.Name] {
				return fmt.Errorf("ir: variant field class option %q has no matching tag label", opt.Name)
			}
		}
		for _, opt := range v.Members() {
			if err := localValidate(opt.Class); err != nil {
				return fmt.Errorf("option %q: %w", opt.Name, err)
			}
		}

	case *ir.ArrayFC:
		if err := localValidate(v.Element()); err != nil {
			return fmt.Errorf("array element: %w", err)
		}

	case *ir.SequenceFC:
		if v.LengthFieldName() == "" {
			return fmt.Errorf("ir: sequence field class length-field name must be non-empty")
		}
		if err := localValidate(v.Element()); err != nil {
			return fmt.Errorf("sequence element: %w", err)
		}

	case *ir.OptionFC:
		if err := localValidate(v.Content()); err != nil {
			return fmt.Errorf("option content: %w", err)
		}

	case *ir.EnumerationFC:
		if err := localValidate(v.Container()); err != nil {
			return fmt.Errorf("enumeration container: %w", err)
		}
	}

	return nil
}
