package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/resolve"
)

func newU8(t *testing.T) *ir.IntegerFC {
	t.Helper()
	fc, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	return fc
}

func TestResolveSequenceLengthSameScope(t *testing.T) {
	length := newU8(t)
	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("len", length))
	require.NoError(t, payload.AppendMember("data", seq))

	ctx := &resolve.Context{EventPayload: payload}
	require.NoError(t, resolve.ResolveFieldPaths(payload, ctx))

	path := seq.LengthFieldPath()
	require.NotNil(t, path)
	require.Equal(t, ir.ScopeEventPayload, path.Scope())
	require.Equal(t, 1, path.Len())
	require.Equal(t, 0, path.Items()[0].Index)
}

func TestResolveRejectsTargetAfterSource(t *testing.T) {
	length := newU8(t)
	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))
	require.NoError(t, payload.AppendMember("len", length))

	ctx := &resolve.Context{EventPayload: payload}
	err := resolve.ResolveFieldPaths(payload, ctx)
	require.Error(t, err)
}

func TestResolveAcrossScopesStructureOnly(t *testing.T) {
	length := newU8(t)
	packetContext := ir.NewStructureFC()
	require.NoError(t, packetContext.AppendMember("len", length))

	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))

	ctx := &resolve.Context{PacketContext: packetContext, EventPayload: payload}
	require.NoError(t, resolve.ResolveFieldPaths(payload, ctx))

	path := seq.LengthFieldPath()
	require.NotNil(t, path)
	require.Equal(t, ir.ScopePacketContext, path.Scope())
}

func TestResolveRejectsNotFound(t *testing.T) {
	element := newU8(t)
	seq := ir.NewSequenceFC(element, "missing")
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))

	ctx := &resolve.Context{EventPayload: payload}
	err := resolve.ResolveFieldPaths(payload, ctx)
	require.Error(t, err)
}

func TestResolveIsIdempotent(t *testing.T) {
	length := newU8(t)
	element := newU8(t)
	seq := ir.NewSequenceFC(element, "len")

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("len", length))
	require.NoError(t, payload.AppendMember("data", seq))

	ctx := &resolve.Context{EventPayload: payload}
	require.NoError(t, resolve.ResolveFieldPaths(payload, ctx))
	first := seq.LengthFieldPath()

	require.NoError(t, resolve.ResolveFieldPaths(payload, ctx))
	second := seq.LengthFieldPath()

	require.Equal(t, first.Items(), second.Items())
	require.Equal(t, first.Scope(), second.Scope())
}
