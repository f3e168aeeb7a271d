package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tracekit/ctf/graph"
	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/value"
)

// tickSourceIterator emits a stream-beginning message, `count` events each
// carrying an incrementing counter payload, then a stream-end message.
type tickSourceIterator struct {
	stream     *ir.Stream
	eventClass *ir.EventClass
	pools      *graph.MessagePools
	count      int
	emitted    int
	stage      int
}

func (it *tickSourceIterator) NextMessage(ctx context.Context) (graph.Message, error) {
	switch {
	case it.stage == 0:
		it.stage++
		return it.pools.CreateStreamBeginning(it.stream)
	case it.stage <= it.count:
		ev, err := ir.CreateEvent(it.eventClass, nil, it.stream)
		if err != nil {
			return nil, graph.NewStatusError(graph.StatusError, err.Error())
		}
		payload := value.Map()
		if err := payload.Set("counter", value.Unsigned(uint64(it.emitted))); err != nil {
			return nil, graph.NewStatusError(graph.StatusError, err.Error())
		}
		if err := ev.SetPayload(payload); err != nil {
			return nil, graph.NewStatusError(graph.StatusError, err.Error())
		}
		it.emitted++
		it.stage++
		return it.pools.CreateEvent(ev)
	case it.stage == it.count+1:
		it.stage++
		return it.pools.CreateStreamEnd(it.stream)
	default:
		return nil, graph.NewStatusError(graph.StatusEnd, "")
	}
}

func buildDemoGraph(stream *ir.Stream, eventClass *ir.EventClass, eventCount int, logger *zap.Logger) (*graph.Graph, error) {
	pools := graph.NewMessagePools()

	sourceClass := &graph.ComponentClass{
		Name:            "tick-source",
		Kind:            graph.ComponentKindSource,
		OutputPortNames: []string{"out"},
		CreateIterator: func(ctx context.Context, c *graph.Component, port *graph.OutputPort) (graph.MessageIterator, error) {
			return &tickSourceIterator{stream: stream, eventClass: eventClass, pools: pools, count: eventCount}, nil
		},
	}

	g, err := graph.NewGraph([]graph.Descriptor{{Name: "tick-source"}, {Name: "log-sink"}})
	if err != nil {
		return nil, err
	}

	source, err := g.AddSource(sourceClass, "source", nil)
	if err != nil {
		return nil, err
	}

	sinkClass := graph.NewSimpleSinkClass("log-sink")
	sink, err := g.AddSink(sinkClass, "sink", graph.SimpleSinkCallbacks{
		Consume: func(ctx context.Context, msg graph.Message) error {
			logMessage(logger, msg)
			return nil
		},
		Finalize: func() error {
			logger.Info("graph finished")
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	if err := g.Connect(source.OutputPorts()[0], sink.InputPorts()[0]); err != nil {
		return nil, fmt.Errorf("connect source to sink: %w", err)
	}

	return g, nil
}

func logMessage(logger *zap.Logger, msg graph.Message) {
	switch m := msg.(type) {
	case *graph.EventMessage:
		counter, _ := m.Event.Payload().Get("counter")
		u, _ := counter.AsUnsigned()
		logger.Info("event", zap.Uint64("counter", u))
	default:
		logger.Info("message", zap.Stringer("kind", msg.Kind()))
	}
}
