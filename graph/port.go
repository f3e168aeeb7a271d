package graph

import "context"

// OutputPort is a Source's or Filter's message-producing endpoint. Once
// connected to an InputPort and the graph is built, it owns the
// MessageIterator created by its component class.
type OutputPort struct {
	Name      string
	Component *Component

	iterator MessageIterator
	peer     *InputPort
}

// IsConnected reports whether this output port has been wired to an input
// port.
func (p *OutputPort) IsConnected() bool { return p.peer != nil }

func (p *OutputPort) ensureIterator(ctx context.Context) (MessageIterator, error) {
	if p.iterator != nil {
		return p.iterator, nil
	}
	if p.Component.Class.CreateIterator == nil {
		return nil, NewStatusError(StatusError, "component \""+p.Component.Name+"\" has no create-iterator method")
	}
	it, err := p.Component.Class.CreateIterator(ctx, p.Component, p)
	if err != nil {
		p.Component.Errors.AppendCauseFromComponent(p.Component.Name, p.Component.Class.Name, "create message iterator on port %q: %v", p.Name, err)
		return nil, err
	}
	p.iterator = it
	return it, nil
}

// Pull advances this output port's iterator by one message.
func (p *OutputPort) Pull(ctx context.Context) (Message, error) {
	it, err := p.ensureIterator(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := it.NextMessage(ctx)
	if err != nil {
		if StatusOf(err) != StatusEnd && StatusOf(err) != StatusAgain {
			p.Component.Errors.AppendCauseFromMessageIterator(p.Component.Name, p.Component.Class.Name, "pull on port %q: %v", p.Name, err)
		}
		return nil, err
	}
	return msg, nil
}

// InputPort is a Filter's or Sink's message-consuming endpoint, connected
// to exactly one upstream OutputPort.
type InputPort struct {
	Name      string
	Component *Component

	peer *OutputPort
}

// IsConnected reports whether this input port has been wired to an output
// port.
func (p *InputPort) IsConnected() bool { return p.peer != nil }

// Pull advances this input port's upstream output port by one message, the
// shape a Filter's or Sink's Consume/CreateIterator method uses to read
// from its upstreams (§4.5.2's pull scheduling).
func (p *InputPort) Pull(ctx context.Context) (Message, error) {
	if p.peer == nil {
		return nil, NewStatusError(StatusError, "input port \""+p.Name+"\" is not connected")
	}
	return p.peer.Pull(ctx)
}

// Upstream returns the connected output port, or nil.
func (p *InputPort) Upstream() *OutputPort { return p.peer }
