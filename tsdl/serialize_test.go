package tsdl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/obj"
	"github.com/tracekit/ctf/tsdl"
)

func TestSerializeInteger(t *testing.T) {
	fc, err := ir.NewIntegerFC(false, 32, 8, ir.DisplayHex, ir.EncodingNone, ir.ByteOrderLittleEndian)
	require.NoError(t, err)

	text, err := tsdl.Serialize(fc)
	require.NoError(t, err)
	require.Contains(t, text, "size = 32")
	require.Contains(t, text, "align = 8")
	require.Contains(t, text, "signed = false")
	require.Contains(t, text, "base = 16")
	require.Contains(t, text, "byte_order = le")
}

func TestSerializeIntegerWithClockMapping(t *testing.T) {
	cc, err := ir.NewClockClass("monotonic", "", 1_000_000_000, 0, 0)
	require.NoError(t, err)
	fc, err := ir.NewIntegerFC(false, 64, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	require.NoError(t, fc.SetMappedClockClass(cc))

	text, err := tsdl.Serialize(fc)
	require.NoError(t, err)
	require.Contains(t, text, "map = clock.monotonic.value;")
}

func TestSerializeFloat(t *testing.T) {
	fc, err := ir.NewRealFC(1, 8, 24, 32, ir.ByteOrderBigEndian)
	require.NoError(t, err)

	text, err := tsdl.Serialize(fc)
	require.NoError(t, err)
	require.Contains(t, text, "exp_dig = 8")
	require.Contains(t, text, "mant_dig = 24")
	require.Contains(t, text, "byte_order = be")
}

func TestSerializeEnumeration(t *testing.T) {
	container, err := ir.NewIntegerFC(true, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	fc, err := ir.NewEnumerationFC(container)
	require.NoError(t, err)

	single := obj.NewIntervalSet[int64]()
	require.NoError(t, single.AddRange(1, 1))
	require.NoError(t, fc.AddMapping("ONE", single))

	span := obj.NewIntervalSet[int64]()
	require.NoError(t, span.AddRange(2, 5))
	require.NoError(t, fc.AddMapping("RANGE", span))

	text, err := tsdl.Serialize(fc)
	require.NoError(t, err)
	require.Contains(t, text, `"ONE" = 1`)
	require.Contains(t, text, `"RANGE" = 2 ... 5`)
}

func TestSerializeStructureWithArrayAndSequenceMembers(t *testing.T) {
	length, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	element, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	array, err := ir.NewArrayFC(element, 4)
	require.NoError(t, err)
	seq := ir.NewSequenceFC(element, "len")

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("len", length))
	require.NoError(t, payload.AppendMember("fixed", array))
	require.NoError(t, payload.AppendMember("var", seq))

	text, err := tsdl.Serialize(payload)
	require.NoError(t, err)
	require.Contains(t, text, "struct {")
	require.Contains(t, text, "fixed[4];")
	require.Contains(t, text, "var[len];")
}

func TestSerializeVariant(t *testing.T) {
	container, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	tagFC, err := ir.NewEnumerationFC(container)
	require.NoError(t, err)
	ranges := obj.NewIntervalSet[uint64]()
	require.NoError(t, ranges.AddRange(0, 0))
	require.NoError(t, tagFC.AddMappingUnsigned("a", ranges))

	u8, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	variant := ir.NewVariantFC(tagFC, "tag")
	require.NoError(t, variant.AppendOption("a", u8))

	text, err := tsdl.Serialize(variant)
	require.NoError(t, err)
	require.Contains(t, text, "variant <tag> {")
	require.Contains(t, text, "a;")
}

func TestSerializeString(t *testing.T) {
	fc, err := ir.NewStringFC(ir.EncodingUTF8)
	require.NoError(t, err)

	text, err := tsdl.Serialize(fc)
	require.NoError(t, err)
	require.Equal(t, "string { encoding = UTF8; }", text)
}
