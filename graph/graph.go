package graph

import (
	"context"
	"fmt"
)

// Graph wires component instances together and drives them to completion
// by pulling from its sinks, mirroring §4.5's pull model and the teacher's
// Collector.Search walk-then-gather shape (collector.go), generalized from
// "walk a ring buffer" to "pull a message iterator".
//
// A Graph is built once via AddSource/AddFilter/AddSink/Connect and then
// run with Run; per §5, a single Graph must only ever be driven by one
// goroutine at a time.
type Graph struct {
	mipVersion uint64
	components []*Component
	sinks      []*Component
	built      bool
}

// NewGraph negotiates the operative MIP version for the given component
// descriptors and returns an empty graph ready for component instances to
// be added to it. Per SupportedMIPVersion, negotiation will only ever
// succeed at version 0.
func NewGraph(descriptors []Descriptor) (*Graph, error) {
	version, err := GreatestOperativeMIPVersion(descriptors)
	if err != nil {
		return nil, err
	}
	return &Graph{mipVersion: version}, nil
}

// MIPVersion returns the version this graph negotiated at construction.
func (g *Graph) MIPVersion() uint64 { return g.mipVersion }

func (g *Graph) addComponent(class *ComponentClass, kind ComponentKind, name string, params interface{}) (*Component, error) {
	if g.built {
		return nil, NewStatusError(StatusError, "cannot add a component to a graph that has already been run")
	}
	if class.Kind != kind {
		return nil, NewStatusError(StatusError, fmt.Sprintf("component class %q is a %s, not a %s", class.Name, class.Kind, kind))
	}
	for _, c := range g.components {
		if c.Name == name {
			return nil, NewStatusError(StatusError, fmt.Sprintf("a component named %q already exists in this graph", name))
		}
	}
	c := newComponent(class, name, params)
	for _, n := range class.InputPortNames {
		c.AddInputPort(n)
	}
	for _, n := range class.OutputPortNames {
		c.AddOutputPort(n)
	}
	g.components = append(g.components, c)
	if kind == ComponentKindSink {
		g.sinks = append(g.sinks, c)
	}
	return c, nil
}

// AddSource instantiates a Source component class under the given unique
// name.
func (g *Graph) AddSource(class *ComponentClass, name string, params interface{}) (*Component, error) {
	return g.addComponent(class, ComponentKindSource, name, params)
}

// AddFilter instantiates a Filter component class under the given unique
// name.
func (g *Graph) AddFilter(class *ComponentClass, name string, params interface{}) (*Component, error) {
	return g.addComponent(class, ComponentKindFilter, name, params)
}

// AddSink instantiates a Sink component class under the given unique name.
func (g *Graph) AddSink(class *ComponentClass, name string, params interface{}) (*Component, error) {
	return g.addComponent(class, ComponentKindSink, name, params)
}

// Connect wires an output port to an input port. Each port may only be
// connected once.
func (g *Graph) Connect(out *OutputPort, in *InputPort) error {
	if out.IsConnected() {
		return NewStatusError(StatusError, fmt.Sprintf("output port %q of component %q is already connected", out.Name, out.Component.Name))
	}
	if in.IsConnected() {
		return NewStatusError(StatusError, fmt.Sprintf("input port %q of component %q is already connected", in.Name, in.Component.Name))
	}
	out.peer = in
	in.peer = out
	return nil
}

// Run initializes every component, then repeatedly pulls each sink until
// all sinks return StatusEnd, then finalizes every component in reverse
// order of initialization. It returns the first initialization or consume
// error encountered (a StatusInterrupted from Consume included), ctx.Err()
// if ctx is cancelled between pull rounds, and otherwise the first
// finalization error.
//
// This replaces the original library's bt_graph_run_once/bt_graph_run pair
// (caller-driven single-step vs. run-to-completion) with a single ctx-aware
// loop, following the teacher's preference for a context.Context-threaded
// method over a separate cancellation-token type (collector.go's
// Collector.Search takes a context.Context directly rather than returning
// a cancel handle).
func (g *Graph) Run(ctx context.Context) error {
	if len(g.sinks) == 0 {
		return NewStatusError(StatusError, "graph has no sink components")
	}
	g.built = true

	for _, c := range g.components {
		if err := c.initialize(ctx); err != nil {
			g.finalizeAll()
			return fmt.Errorf("initialize component %q: %w", c.Name, err)
		}
	}

	active := make([]*Component, len(g.sinks))
	copy(active, g.sinks)

	for len(active) > 0 {
		select {
		case <-ctx.Done():
			g.finalizeAll()
			return ctx.Err()
		default:
		}

		next := active[:0]
		for _, sink := range active {
			err := sink.Class.Consume(ctx, sink)
			switch StatusOf(err) {
			case StatusOK, StatusAgain:
				next = append(next, sink)
			case StatusEnd:
				// this sink is done; drop it from the active set
			default:
				g.finalizeAll()
				return fmt.Errorf("consume on sink %q: %w", sink.Name, err)
			}
		}
		active = next
	}

	return g.finalizeAll()
}

func (g *Graph) finalizeAll() error {
	var firstErr error
	for i := len(g.components) - 1; i >= 0; i-- {
		if err := g.components[i].finalize(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("finalize component %q: %w", g.components[i].Name, err)
		}
	}
	return firstErr
}
