package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/obj"
)

func buildSimpleStream(t *testing.T) (*ir.TraceClass, *ir.StreamClass, *ir.EventClass) {
	t.Helper()

	tc := ir.NewTraceClass("my-trace")
	sc, err := tc.AppendStreamClass("my-stream")
	require.NoError(t, err)

	payload := ir.NewStructureFC()
	intFC, err := ir.NewIntegerFC(false, 32, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	require.NoError(t, payload.AppendMember("count", intFC))

	ec, err := sc.AppendEventClass("my-event")
	require.NoError(t, err)
	require.NoError(t, ec.SetPayloadFieldClass(payload))

	return tc, sc, ec
}

func TestFreezeIsDeep(t *testing.T) {
	tc, sc, ec := buildSimpleStream(t)

	require.False(t, tc.Frozen())
	require.False(t, sc.Frozen())
	require.False(t, ec.Frozen())
	require.False(t, ec.PayloadFieldClass().Frozen())

	tc.Freeze()

	require.True(t, tc.Frozen())
	require.True(t, sc.Frozen())
	require.True(t, ec.Frozen())
	require.True(t, ec.PayloadFieldClass().Frozen())
}

func TestFrozenStructureRejectsMutation(t *testing.T) {
	fc := ir.NewStructureFC()
	fc.Freeze()

	boolFC := ir.NewBoolFC(1)
	err := fc.AppendMember("x", boolFC)
	require.ErrorIs(t, err, obj.ErrFrozen)
}

func TestRefCountBalance(t *testing.T) {
	tc := ir.NewTraceClass("t")
	sc, err := tc.AppendStreamClass("s")
	require.NoError(t, err)

	tr := ir.NewTrace(tc)
	stream, err := tr.CreateStream(sc)
	require.NoError(t, err)

	ec, err := sc.AppendEventClass("e")
	require.NoError(t, err)

	ev, err := ir.CreateEvent(ec, nil, stream)
	require.NoError(t, err)
	require.NotNil(t, ev)

	ir.ReleaseEvent(ev)
}
