package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/obj"
	"github.com/tracekit/ctf/resolve"
)

func TestValidateDeepCopiesSequenceBearingSubtree(t *testing.T) {
	length := newU8(t)
	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("len", length))
	require.NoError(t, payload.AppendMember("data", seq))

	out, err := resolve.Validate(resolve.Input{EventPayload: payload})
	require.NoError(t, err)

	require.NotSame(t, payload, out.EventPayload)
	require.True(t, out.EventPayload.Frozen())
	require.Same(t, payload, out.OldEventPayload)
}

func TestValidateSkipsCopyWhenNoSequenceOrVariant(t *testing.T) {
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("x", newU8(t)))

	out, err := resolve.Validate(resolve.Input{EventPayload: payload})
	require.NoError(t, err)

	require.Same(t, payload, out.EventPayload)
}

func TestValidateRejectsMismatchedVariantOptions(t *testing.T) {
	tagContainer := newU8(t)
	tagFC, err := ir.NewEnumerationFC(tagContainer)
	require.NoError(t, err)

	ranges := obj.NewIntervalSet[uint64]()
	require.NoError(t, ranges.AddRange(0, 0))
	require.NoError(t, tagFC.AddMappingUnsigned("a", ranges))
	require.NoError(t, tagFC.AddMappingUnsigned("b", ranges))

	variant := ir.NewVariantFC(tagFC, "tag")
	require.NoError(t, variant.AppendOption("a", newU8(t)))
	// option "b" intentionally missing

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("tag", tagFC))
	require.NoError(t, payload.AppendMember("v", variant))

	_, err = resolve.Validate(resolve.Input{EventPayload: payload})
	require.Error(t, err)
}

func TestValidateStructureAlignmentMustBePowerOfTwo(t *testing.T) {
	badAlignedMember, err := ir.NewIntegerFC(false, 8, 3, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("x", badAlignedMember))

	_, err = resolve.Validate(resolve.Input{EventPayload: payload})
	require.Error(t, err)
}

func TestValidateResolvesSequenceLengthAgainstEventHeader(t *testing.T) {
	length := newU8(t)
	eventHeader := ir.NewStructureFC()
	require.NoError(t, eventHeader.AppendMember("len", length))

	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))

	out, err := resolve.Validate(resolve.Input{EventHeader: eventHeader, EventPayload: payload})
	require.NoError(t, err)

	var resolvedSeq *ir.SequenceFC
	for _, m := range out.EventPayload.Members() {
		if m.Name == "data" {
			resolvedSeq = m.Class.(*ir.SequenceFC)
		}
	}
	require.NotNil(t, resolvedSeq)

	path := resolvedSeq.LengthFieldPath()
	require.NotNil(t, path)
	require.Equal(t, ir.ScopeEventHeader, path.Scope())
}

func TestValidateLocallyValidatesEventHeaderAlignment(t *testing.T) {
	badAlignedMember, err := ir.NewIntegerFC(false, 8, 3, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)

	eventHeader := ir.NewStructureFC()
	require.NoError(t, eventHeader.AppendMember("x", badAlignedMember))

	_, err = resolve.Validate(resolve.Input{EventHeader: eventHeader})
	require.Error(t, err)
}

func TestFinalizeStreamClassAndEventClassInstallResolvedFieldClasses(t *testing.T) {
	tc := ir.NewTraceClass("test")
	sc, err := tc.AppendStreamClass("sc")
	require.NoError(t, err)

	length := newU8(t)
	eventHeader := ir.NewStructureFC()
	require.NoError(t, eventHeader.AppendMember("len", length))
	require.NoError(t, sc.SetEventHeaderFieldClass(eventHeader))

	require.NoError(t, resolve.FinalizeStreamClass(sc))
	require.True(t, sc.EventHeaderFieldClass().Frozen())

	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))

	ec, err := sc.AppendEventClass("ev")
	require.NoError(t, err)
	require.NoError(t, ec.SetPayloadFieldClass(payload))

	require.NoError(t, resolve.FinalizeEventClass(ec))
	require.True(t, ec.PayloadFieldClass().Frozen())

	resolvedSeq := ec.PayloadFieldClass().(*ir.StructureFC).Members()[0].Class.(*ir.SequenceFC)
	path := resolvedSeq.LengthFieldPath()
	require.NotNil(t, path)
	require.Equal(t, ir.ScopeEventHeader, path.Scope())
}
