package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/graph"
	"github.com/tracekit/ctf/ir"
)

// countingIterator emits one stream-beginning message, n event messages,
// then a stream-end message, then ends.
type countingIterator struct {
	stream  *ir.Stream
	ec      *ir.EventClass
	pools   *graph.MessagePools
	emitted int
	n       int
	stage   int // 0=beginning, 1..n=events, n+1=end, n+2=done
}

func (it *countingIterator) NextMessage(ctx context.Context) (graph.Message, error) {
	switch {
	case it.stage == 0:
		it.stage++
		return it.pools.CreateStreamBeginning(it.stream)
	case it.stage <= it.n:
		it.stage++
		ev, err := ir.CreateEvent(it.ec, nil, it.stream)
		if err != nil {
			return nil, graph.NewStatusError(graph.StatusError, err.Error())
		}
		it.emitted++
		return it.pools.CreateEvent(ev)
	case it.stage == it.n+1:
		it.stage++
		return it.pools.CreateStreamEnd(it.stream)
	default:
		return nil, graph.NewStatusError(graph.StatusEnd, "")
	}
}

func buildCountingGraph(t *testing.T, n int) (*graph.Graph, *[]graph.MessageKind) {
	t.Helper()

	tc := ir.NewTraceClass("test")
	sc, err := tc.AppendStreamClass("sc")
	require.NoError(t, err)
	ec, err := sc.AppendEventClass("ev")
	require.NoError(t, err)
	trace := ir.NewTrace(tc)
	stream, err := trace.CreateStream(sc)
	require.NoError(t, err)

	pools := graph.NewMessagePools()

	sourceClass := &graph.ComponentClass{
		Name: "counting-source",
		Kind: graph.ComponentKindSource,
		CreateIterator: func(ctx context.Context, c *graph.Component, port *graph.OutputPort) (graph.MessageIterator, error) {
			return &countingIterator{stream: stream, ec: ec, pools: pools, n: n}, nil
		},
	}

	g, err := graph.NewGraph([]graph.Descriptor{{Name: "counting-source"}, {Name: "sink"}})
	require.NoError(t, err)

	source, err := g.AddSource(sourceClass, "source", nil)
	require.NoError(t, err)
	outPort := source.AddOutputPort("out")

	var seen []graph.MessageKind
	sinkClass := graph.NewSimpleSinkClass("sink")
	sink, err := g.AddSink(sinkClass, "sink", graph.SimpleSinkCallbacks{
		Consume: func(ctx context.Context, msg graph.Message) error {
			seen = append(seen, msg.Kind())
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, sink.InputPorts(), 1)

	require.NoError(t, g.Connect(outPort, sink.InputPorts()[0]))

	return g, &seen
}

func TestGraphPullsSourceThroughSinkToCompletion(t *testing.T) {
	g, seen := buildCountingGraph(t, 3)
	require.NoError(t, g.Run(context.Background()))

	require.Equal(t, []graph.MessageKind{
		graph.MessageKindStreamBeginning,
		graph.MessageKindEvent,
		graph.MessageKindEvent,
		graph.MessageKindEvent,
		graph.MessageKindStreamEnd,
	}, *seen)
}

func TestGraphRejectsDuplicateComponentNames(t *testing.T) {
	g, err := graph.NewGraph([]graph.Descriptor{{Name: "a"}})
	require.NoError(t, err)
	class := &graph.ComponentClass{Name: "c", Kind: graph.ComponentKindSource}
	_, err = g.AddSource(class, "dup", nil)
	require.NoError(t, err)
	_, err = g.AddSource(class, "dup", nil)
	require.Error(t, err)
}

func TestGraphRunRequiresAtLeastOneSink(t *testing.T) {
	g, err := graph.NewGraph([]graph.Descriptor{{Name: "a"}})
	require.NoError(t, err)
	require.Error(t, g.Run(context.Background()))
}
