package streamtest

import (
	"slices"
	"sync"

	"github.com/birdayz/rstreams/rflow"
)

// SeqProducer emits a fixed sequence on demand, then completes or fails.
// Request may be called from within the consumer's OnNext; emission then
// continues in the loop already running instead of recursing.
type SeqProducer[T any] struct {
	elems []T
	err   error
	name  string
	rec   *Recorder

	mu         sync.Mutex
	consumer   rflow.Consumer[T]
	subscribed int
	requests   []int64
	demand     int64
	next       int
	emitting   bool
	cancelled  bool
	done       bool
}

var _ rflow.Producer[string] = (*SeqProducer[string])(nil)

func NewSeqProducer[T any](elems ...T) *SeqProducer[T] {
	return &SeqProducer[T]{elems: elems, name: "producer"}
}

// FailWith makes the producer fail with err after its elements.
func (p *SeqProducer[T]) FailWith(err error) *SeqProducer[T] {
	p.err = err
	return p
}

// Record sends the producer's lifecycle events to rec, prefixed with name.
func (p *SeqProducer[T]) Record(rec *Recorder, name string) *SeqProducer[T] {
	p.rec, p.name = rec, name
	return p
}

func (p *SeqProducer[T]) Subscribe(c rflow.Consumer[T]) {
	p.mu.Lock()
	p.subscribed++
	if p.consumer != nil {
		p.mu.Unlock()
		c.OnSubscribe(rflow.Inert)
		c.OnError(rflow.ErrAlreadySubscribed)
		return
	}
	p.consumer = c
	p.mu.Unlock()

	p.rec.Record(p.name + ": subscribed")
	c.OnSubscribe(&seqSubscription[T]{p: p})
	p.drain()
}

func (p *SeqProducer[T]) request(n int64) {
	p.mu.Lock()
	p.requests = append(p.requests, n)
	if n > 0 {
		p.demand += n
	}
	p.mu.Unlock()
	p.drain()
}

func (p *SeqProducer[T]) cancel() {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.cancelled = true
	p.mu.Unlock()
	p.rec.Record(p.name + ": cancelled")
}

func (p *SeqProducer[T]) drain() {
	p.mu.Lock()
	if p.emitting {
		p.mu.Unlock()
		return
	}
	p.emitting = true
	for !p.cancelled && !p.done {
		if p.next == len(p.elems) {
			p.done = true
			p.mu.Unlock()
			if p.err != nil {
				p.rec.Record(p.name + ": failed")
				p.consumer.OnError(p.err)
			} else {
				p.rec.Record(p.name + ": completed")
				p.consumer.OnComplete()
			}
			p.mu.Lock()
			break
		}
		if p.demand == 0 {
			break
		}
		v := p.elems[p.next]
		p.next++
		p.demand--
		p.mu.Unlock()
		p.consumer.OnNext(v)
		p.mu.Lock()
	}
	p.emitting = false
	p.mu.Unlock()
}

// Subscriptions counts Subscribe calls, rejected ones included.
func (p *SeqProducer[T]) Subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed
}

func (p *SeqProducer[T]) Requests() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.requests)
}

// Requested sums the positive requests received.
func (p *SeqProducer[T]) Requested() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, r := range p.requests {
		if r > 0 {
			n += r
		}
	}
	return n
}

// Emitted counts the elements delivered.
func (p *SeqProducer[T]) Emitted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

func (p *SeqProducer[T]) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}

type seqSubscription[T any] struct {
	p *SeqProducer[T]
}

func (s *seqSubscription[T]) Request(n int64) { s.p.request(n) }
func (s *seqSubscription[T]) Cancel()         { s.p.cancel() }
