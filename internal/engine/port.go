package engine

import "errors"

// inHandler receives the signals arriving at a stage inlet.
type inHandler interface {
	onPush(elem any)
	onUpstreamFinish()
	onUpstreamFailure(err error)
}

// outHandler receives the signals arriving at a stage outlet.
type outHandler interface {
	onPull()
	onDownstreamFinish()
}

var errPushWithoutPull = errors.New("engine: push without pull")

// port connects the outlet of one stage to the inlet of the next. Demand
// across a port is one element: the downstream side pulls, the upstream side
// answers with exactly one push or a terminal signal.
//
// Pull and push are delivered as executor events so that a chain of stages
// never recurses. Cancellation and terminal signals are delivered directly,
// except that a terminal signal waits for a push still in flight.
type port struct {
	exec *executor
	in   inHandler
	out  outHandler

	pulled    bool
	inFlight  int
	finished  bool
	cancelled bool

	// terminal signal held back until in-flight pushes are delivered
	pendingFinish bool
	pendingErr    error
}

func newPort(exec *executor) *port {
	return &port{exec: exec}
}

// pull asks the upstream stage for one element.
func (p *port) pull() {
	if p.pulled || p.finished || p.cancelled {
		return
	}
	p.pulled = true
	p.exec.execute(func() {
		if p.finished || p.cancelled {
			return
		}
		p.out.onPull()
	})
}

// cancel tells the upstream stage that no more elements are wanted.
func (p *port) cancel() {
	if p.cancelled {
		return
	}
	p.cancelled = true
	p.pulled = false
	if !p.finished {
		p.out.onDownstreamFinish()
	}
}

// push hands elem to the downstream stage. It is dropped if the downstream
// side has cancelled.
func (p *port) push(elem any) {
	if p.cancelled || p.finished {
		return
	}
	if !p.pulled {
		panic(errPushWithoutPull)
	}
	p.pulled = false
	p.inFlight++
	p.exec.execute(func() {
		p.inFlight--
		if p.cancelled {
			return
		}
		p.in.onPush(elem)
		if p.inFlight == 0 && !p.cancelled {
			p.flushTerminal()
		}
	})
}

// complete signals normal completion downstream.
func (p *port) complete() {
	if p.finished || p.cancelled {
		return
	}
	p.finished = true
	p.pulled = false
	if p.inFlight > 0 {
		p.pendingFinish = true
		return
	}
	p.in.onUpstreamFinish()
}

// fail signals err downstream.
func (p *port) fail(err error) {
	if p.finished || p.cancelled {
		return
	}
	p.finished = true
	p.pulled = false
	if p.inFlight > 0 {
		p.pendingErr = err
		return
	}
	p.in.onUpstreamFailure(err)
}

func (p *port) flushTerminal() {
	switch {
	case p.pendingErr != nil:
		err := p.pendingErr
		p.pendingErr = nil
		p.in.onUpstreamFailure(err)
	case p.pendingFinish:
		p.pendingFinish = false
		p.in.onUpstreamFinish()
	}
}

// isPulled reports whether the downstream side waits for an element.
func (p *port) isPulled() bool {
	return p.pulled
}

// closed reports whether the port carries no further elements.
func (p *port) closed() bool {
	return p.finished || p.cancelled
}
