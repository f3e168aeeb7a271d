package graph

import (
	"context"
	"fmt"
)

// SimpleSinkCallbacks bundles the three user callbacks a simple sink wraps,
// grounded on original_source/src/lib/graph/component-class-sink-simple.c's
// simple_sink_init/simple_sink_consume/simple_sink_finalize trio, and on
// the teacher's Broker's subscriber-callback wiring (broker.go) for the Go
// shape of "a struct of user funcs invoked from one port".
type SimpleSinkCallbacks struct {
	// Initialize runs once before the first Consume call.
	Initialize func(ctx context.Context) error
	// Consume is called once per pulled message.
	Consume func(ctx context.Context, msg Message) error
	// Finalize runs once after the sink's single input port reaches end of
	// stream, or the graph is torn down early.
	Finalize func() error
}

type simpleSinkState struct {
	callbacks SimpleSinkCallbacks
	input     *InputPort
	ended     bool
}

// NewSimpleSinkClass returns a Sink component class with exactly one input
// port named "in", wrapping a SimpleSinkCallbacks trio. This is this
// implementation's analogue of bt_component_class_sink_simple: the
// easiest way to drive a graph to completion from plain Go functions
// without hand-writing a ComponentClass's full method table.
func NewSimpleSinkClass(name string) *ComponentClass {
	return &ComponentClass{
		Name:           name,
		Kind:           ComponentKindSink,
		InputPortNames: []string{"in"},
		Initialize: func(ctx context.Context, c *Component, params interface{}) error {
			callbacks, ok := params.(SimpleSinkCallbacks)
			if !ok {
				return NewStatusError(StatusError, "simple sink component requires SimpleSinkCallbacks params")
			}
			state := &simpleSinkState{callbacks: callbacks, input: c.InputPorts()[0]}
			c.Params = state
			if callbacks.Initialize != nil {
				return callbacks.Initialize(ctx)
			}
			return nil
		},
		Consume: func(ctx context.Context, c *Component) error {
			state := c.Params.(*simpleSinkState)
			if state.ended {
				return NewStatusError(StatusEnd, "")
			}
			msg, err := state.input.Pull(ctx)
			if err != nil {
				if StatusOf(err) == StatusEnd {
					state.ended = true
				}
				return err
			}
			if state.callbacks.Consume == nil {
				return nil
			}
			if err := state.callbacks.Consume(ctx, msg); err != nil {
				return NewStatusError(StatusUserError, fmt.Sprintf("consume callback: %v", err))
			}
			return nil
		},
		Finalize: func(c *Component) error {
			state, ok := c.Params.(*simpleSinkState)
			if !ok || state.callbacks.Finalize == nil {
				return nil
			}
			return state.callbacks.Finalize()
		},
	}
}
