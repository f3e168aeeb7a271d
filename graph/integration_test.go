package graph_test

// End-to-end scenarios exercising the IR, resolver/validator, message and
// graph packages together.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/graph"
	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/obj"
	"github.com/tracekit/ctf/resolve"
	"github.com/tracekit/ctf/value"
)

func TestScenarioStructAlignmentAndFreeze(t *testing.T) {
	a, err := ir.NewIntegerFC(false, 8, 1, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	b, err := ir.NewIntegerFC(false, 16, 1, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("a", a))
	require.NoError(t, payload.AppendMember("b", b))

	out, err := resolve.Validate(resolve.Input{EventPayload: payload})
	require.NoError(t, err)

	require.True(t, out.EventPayload.Frozen())
	require.Equal(t, 1, a.Alignment())
	require.Equal(t, 1, b.Alignment())
	require.Equal(t, 1, out.EventPayload.Alignment())
}

func TestScenarioVariantRejectsOptionWithoutTagLabel(t *testing.T) {
	tagContainer, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	tagFC, err := ir.NewEnumerationFC(tagContainer)
	require.NoError(t, err)

	xRange := obj.NewIntervalSet[uint64]()
	require.NoError(t, xRange.AddRange(0, 0))
	require.NoError(t, tagFC.AddMappingUnsigned("x", xRange))

	yRange := obj.NewIntervalSet[uint64]()
	require.NoError(t, yRange.AddRange(1, 1))
	require.NoError(t, tagFC.AddMappingUnsigned("y", yRange))

	u8, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	str, err := ir.NewStringFC(ir.EncodingUTF8)
	require.NoError(t, err)

	variant := ir.NewVariantFC(tagFC, "tag")
	require.NoError(t, variant.AppendOption("x", u8))
	require.NoError(t, variant.AppendOption("y", str))

	zOption, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	require.NoError(t, variant.AppendOption("z", zOption))

	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("tag", tagFC))
	require.NoError(t, payload.AppendMember("v", variant))

	_, err = resolve.Validate(resolve.Input{EventPayload: payload})
	require.Error(t, err)
	require.Contains(t, err.Error(), "z")
}

func TestScenarioSequenceLengthResolvesToPacketContext(t *testing.T) {
	length, err := ir.NewIntegerFC(false, 16, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	packetContext := ir.NewStructureFC()
	require.NoError(t, packetContext.AppendMember("len", length))

	element, err := ir.NewIntegerFC(false, 8, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	require.NoError(t, err)
	seq := ir.NewSequenceFC(element, "len")
	payload := ir.NewStructureFC()
	require.NoError(t, payload.AppendMember("data", seq))

	out, err := resolve.Validate(resolve.Input{PacketContext: packetContext, EventPayload: payload})
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
	require.Equal(t, ir.ScopePacketContext, path.Scope())
	idx, ok := out.PacketContext.(*ir.StructureFC).IndexOf("len")
	require.True(t, ok)
	require.Equal(t, 1, path.Len())
	require.Equal(t, idx, path.Items()[0].Index)
}

func TestScenarioEventMessageCarriesBitExactDoublePayload(t *testing.T) {
	tc := ir.NewTraceClass("test")
	sc, err := tc.AppendStreamClass("sc")
	require.NoError(t, err)
	cc, err := ir.NewClockClass("clk", "", 1_000_000_000, 0, 0)
	require.NoError(t, err)
	require.NoError(t, sc.SetDefaultClockClass(cc))
	ec, err := sc.AppendEventClass("ev")
	require.NoError(t, err)

	dblFC, err := ir.NewRealFC(1, 11, 53, 64, ir.ByteOrderNative)
	require.NoError(t, err)
	payloadFC := ir.NewStructureFC()
	require.NoError(t, payloadFC.AppendMember("dbl", dblFC))
	require.NoError(t, ec.SetPayloadFieldClass(payloadFC))

	trace := ir.NewTrace(tc)
	stream, err := trace.CreateStream(sc)
	require.NoError(t, err)

	ev, err := ir.CreateEvent(ec, nil, stream)
	require.NoError(t, err)

	const want = 17283.3881
	payload := value.Map()
	require.NoError(t, payload.Set("dbl", value.Real(want)))
	require.NoError(t, ev.SetPayload(payload))

	cs := ir.NewClockSnapshot(cc, 0)
	ev.SetDefaultClockSnapshot(cs)

	pools := graph.NewMessagePools()
	msg, err := pools.CreateEvent(ev)
	require.NoError(t, err)

	require.Equal(t, graph.MessageKindEvent, msg.Kind())
	require.Equal(t, uint64(0), msg.ClockSnapshot.Cycles())

	got, ok := msg.Event.Payload().Get("dbl")
	require.True(t, ok)
	gotF, ok := got.AsReal()
	require.True(t, ok)
	require.Equal(t, want, gotF)
}

func TestScenarioSimpleSinkSeesExactlyFourMessagesInOrder(t *testing.T) {
	tc := ir.NewTraceClass("test")
	sc, err := tc.AppendStreamClass("sc")
	require.NoError(t, err)
	ec, err := sc.AppendEventClass("ev")
	require.NoError(t, err)
	trace := ir.NewTrace(tc)
	stream, err := trace.CreateStream(sc)
	require.NoError(t, err)

	pools := graph.NewMessagePools()
	it := &countingIterator{stream: stream, ec: ec, pools: pools, n: 2}

	sourceClass := &graph.ComponentClass{
		Name:            "four-message-source",
		Kind:            graph.ComponentKindSource,
		OutputPortNames: []string{"out"},
		CreateIterator: func(ctx context.Context, c *graph.Component, port *graph.OutputPort) (graph.MessageIterator, error) {
			return it, nil
		},
	}

	g, err := graph.NewGraph([]graph.Descriptor{{Name: "four-message-source"}, {Name: "sink"}})
	require.NoError(t, err)

	source, err := g.AddSource(sourceClass, "source", nil)
	require.NoError(t, err)

	var seen []graph.MessageKind
	sinkClass := graph.NewSimpleSinkClass("sink")
	sink, err := g.AddSink(sinkClass, "sink", graph.SimpleSinkCallbacks{
		Consume: func(ctx context.Context, msg graph.Message) error {
			seen = append(seen, msg.Kind())
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, g.Connect(source.OutputPorts()[0], sink.InputPorts()[0]))

	require.NoError(t, g.Run(context.Background()))

	require.Equal(t, []graph.MessageKind{
		graph.MessageKindStreamBeginning,
		graph.MessageKindEvent,
		graph.MessageKindEvent,
		graph.MessageKindStreamEnd,
	}, seen)
}

func TestScenarioMIPSelection(t *testing.T) {
	zeroOne := func(interface{}) (*obj.IntervalSet[uint64], error) {
		rs := obj.NewIntervalSet[uint64]()
		require.NoError(t, rs.AddRange(0, 1))
		return rs, nil
	}
	zeroOnly := func(interface{}) (*obj.IntervalSet[uint64], error) {
		rs := obj.NewIntervalSet[uint64]()
		require.NoError(t, rs.AddRange(0, 0))
		return rs, nil
	}
	oneOnly := func(interface{}) (*obj.IntervalSet[uint64], error) {
		rs := obj.NewIntervalSet[uint64]()
		require.NoError(t, rs.AddRange(1, 1))
		return rs, nil
	}

	version, err := graph.GreatestOperativeMIPVersion([]graph.Descriptor{
		{Name: "a", GetSupportedMIPVersions: zeroOne},
		{Name: "b", GetSupportedMIPVersions: zeroOnly},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), version)

	_, err = graph.GreatestOperativeMIPVersion([]graph.Descriptor{
		{Name: "a", GetSupportedMIPVersions: oneOnly},
		{Name: "b", GetSupportedMIPVersions: zeroOnly},
	})
	require.Error(t, err)
	require.Equal(t, graph.StatusNoMatch, graph.StatusOf(err))
}
