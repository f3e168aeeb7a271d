package graph

import "context"

// ComponentKind is one of the three component roles of §4.5: a Source has
// only output ports, a Filter has both, a Sink has only input ports.
type ComponentKind int

const (
	ComponentKindSource ComponentKind = iota
	ComponentKindFilter
	ComponentKindSink
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentKindSource:
		return "SOURCE"
	case ComponentKindFilter:
		return "FILTER"
	case ComponentKindSink:
		return "SINK"
	default:
		return "UNKNOWN_COMPONENT_KIND"
	}
}

// MessageIterator is pulled by a downstream Filter or Sink to obtain the
// next message (§4.5.2). NextMessage returns a StatusEnd-carrying error
// once the iterator is exhausted, and StatusAgain when no message is ready
// yet but the iterator is not finished, mirroring
// bt_message_iterator_next's status contract.
type MessageIterator interface {
	NextMessage(ctx context.Context) (Message, error)
}

// CreateIteratorFunc builds a MessageIterator for one of a Source's or
// Filter's output ports. It receives the owning component so it can
// append causes to the component's error chain and read its upstreams (for
// a Filter).
type CreateIteratorFunc func(ctx context.Context, c *Component, port *OutputPort) (MessageIterator, error)

// ConsumeFunc is a Sink's per-pull-iteration method: pull one message from
// each connected input port and do something with it. Grounded on
// original_source/src/lib/graph/component-class-sink-simple.c's
// "consume" method, generalized from exactly-one input port to N.
type ConsumeFunc func(ctx context.Context, c *Component) error

// InitializeFunc and FinalizeFunc bracket a component's lifetime, run once
// each when the owning graph is built and torn down.
type InitializeFunc func(ctx context.Context, c *Component, params interface{}) error
type FinalizeFunc func(c *Component) error

// ComponentClass is the method table of §4.5: a named, versioned bundle of
// behavior that component instances are created from. Grounded on
// original_source/src/lib/graph/component-class.c's method-table struct,
// expressed as a Go struct of function fields rather than a C vtable.
type ComponentClass struct {
	Name                    string
	Description             string
	Kind                    ComponentKind
	GetSupportedMIPVersions GetSupportedMIPVersionsFunc

	// InputPortNames and OutputPortNames are declared up front so that a
	// graph builder can Connect ports before the graph runs and
	// Initialize methods fire. A component class with variable port sets
	// (e.g. a filter with one input per connected stream) can still call
	// Component.AddInputPort/AddOutputPort itself from its Initialize
	// method for any ports beyond this fixed set.
	InputPortNames  []string
	OutputPortNames []string

	// Source, Filter.
	CreateIterator CreateIteratorFunc

	// Sink only.
	Consume ConsumeFunc

	Initialize InitializeFunc
	Finalize   FinalizeFunc
}

// Component is a running instance of a ComponentClass, named uniquely
// within its owning graph, with its own error chain and output/input
// ports.
type Component struct {
	Name   string
	Class  *ComponentClass
	Params interface{}
	Errors ErrorChain

	inputs  []*InputPort
	outputs []*OutputPort

	initialized bool
	finalized   bool
}

func newComponent(class *ComponentClass, name string, params interface{}) *Component {
	return &Component{Name: name, Class: class, Params: params}
}

// AddInputPort declares a named input port on this component (Filter or
// Sink).
func (c *Component) AddInputPort(name string) *InputPort {
	p := &InputPort{Name: name, Component: c}
	c.inputs = append(c.inputs, p)
	return p
}

// AddOutputPort declares a named output port on this component (Source or
// Filter).
func (c *Component) AddOutputPort(name string) *OutputPort {
	p := &OutputPort{Name: name, Component: c}
	c.outputs = append(c.outputs, p)
	return p
}

// InputPorts and OutputPorts return a component's declared ports in
// declaration order.
func (c *Component) InputPorts() []*InputPort   { return c.inputs }
func (c *Component) OutputPorts() []*OutputPort { return c.outputs }

func (c *Component) initialize(ctx context.Context) error {
	if c.initialized || c.Class.Initialize == nil {
		c.initialized = true
		return nil
	}
	if err := c.Class.Initialize(ctx, c, c.Params); err != nil {
		c.Errors.AppendCauseFromComponent(c.Name, c.Class.Name, "initialize: %v", err)
		return err
	}
	c.initialized = true
	return nil
}

func (c *Component) finalize() error {
	if c.finalized || c.Class.Finalize == nil {
		c.finalized = true
		return nil
	}
	err := c.Class.Finalize(c)
	c.finalized = true
	if err != nil {
		c.Errors.AppendCauseFromComponent(c.Name, c.Class.Name, "finalize: %v", err)
		return err
	}
	return nil
}
