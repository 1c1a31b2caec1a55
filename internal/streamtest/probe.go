package streamtest

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/birdayz/rstreams/rflow"
)

// Probe is a Consumer that records what it receives. It requests nothing on
// its own unless configured with Initial or Refill.
type Probe[T any] struct {
	name string
	rec  *Recorder

	// Initial is requested right after subscription.
	Initial int64
	// Refill requests one more element after each one received.
	Refill bool
	// OnEach, when set, runs after each element is recorded.
	OnEach func(T)

	active atomic.Int32

	mu         sync.Mutex
	sub        rflow.Subscription
	subscribed int
	requested  int64
	received   int64
	elems      []T
	err        error
	completed  bool
	violations []string
	done       chan struct{}
}

var _ rflow.Consumer[string] = (*Probe[string])(nil)

// NewProbe creates a probe. Its signals go to rec, prefixed with name, when
// rec is not nil.
func NewProbe[T any](rec *Recorder, name string) *Probe[T] {
	return &Probe[T]{name: name, rec: rec, done: make(chan struct{})}
}

// Unbounded creates a probe that requests every element up front.
func Unbounded[T any]() *Probe[T] {
	p := NewProbe[T](nil, "probe")
	p.Initial = 1 << 62
	return p
}

func (p *Probe[T]) enter() {
	if p.active.Add(1) != 1 {
		p.violate("overlapping signals")
	}
}

func (p *Probe[T]) leave() {
	p.active.Add(-1)
}

func (p *Probe[T]) violate(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.violations = append(p.violations, fmt.Sprintf(format, args...))
}

func (p *Probe[T]) terminated() bool {
	return p.err != nil || p.completed
}

func (p *Probe[T]) OnSubscribe(s rflow.Subscription) {
	p.enter()
	defer p.leave()

	p.mu.Lock()
	p.subscribed++
	if p.subscribed > 1 {
		p.mu.Unlock()
		p.violate("subscribed twice")
		return
	}
	p.sub = s
	p.mu.Unlock()
	p.rec.Record(p.name + ": subscribed")

	if p.Initial > 0 {
		p.Request(p.Initial)
	}
}

func (p *Probe[T]) OnNext(v T) {
	p.enter()
	defer p.leave()

	p.mu.Lock()
	switch {
	case p.terminated():
		p.mu.Unlock()
		p.violate("element %v after terminal signal", v)
		return
	case p.received >= p.requested:
		p.mu.Unlock()
		p.violate("element %v without demand", v)
		return
	}
	p.received++
	p.elems = append(p.elems, v)
	p.mu.Unlock()
	p.rec.Record(fmt.Sprintf("%s: next %v", p.name, v))

	if p.OnEach != nil {
		p.OnEach(v)
	}
	if p.Refill {
		p.Request(1)
	}
}

func (p *Probe[T]) OnError(err error) {
	p.enter()
	defer p.leave()

	p.mu.Lock()
	if p.terminated() {
		p.mu.Unlock()
		p.violate("error %v after terminal signal", err)
		return
	}
	p.err = err
	p.mu.Unlock()
	p.rec.Record(p.name + ": error")
	close(p.done)
}

func (p *Probe[T]) OnComplete() {
	p.enter()
	defer p.leave()

	p.mu.Lock()
	if p.terminated() {
		p.mu.Unlock()
		p.violate("completion after terminal signal")
		return
	}
	p.completed = true
	p.mu.Unlock()
	p.rec.Record(p.name + ": complete")
	close(p.done)
}

// Request signals demand for n more elements.
func (p *Probe[T]) Request(n int64) {
	p.mu.Lock()
	sub := p.sub
	if n > 0 {
		p.requested += n
	}
	p.mu.Unlock()
	if sub != nil {
		sub.Request(n)
	}
}

// Cancel cancels the subscription.
func (p *Probe[T]) Cancel() {
	p.mu.Lock()
	sub := p.sub
	p.mu.Unlock()
	if sub != nil {
		p.rec.Record(p.name + ": cancel")
		sub.Cancel()
	}
}

// Done is closed on the terminal signal.
func (p *Probe[T]) Done() <-chan struct{} {
	return p.done
}

func (p *Probe[T]) Subscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed > 0
}

func (p *Probe[T]) Elements() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.elems)
}

func (p *Probe[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Probe[T]) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Violations lists every protocol rule the stream broke towards the probe.
func (p *Probe[T]) Violations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.violations)
}
