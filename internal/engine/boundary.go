package engine

import (
	"math"

	"github.com/birdayz/rstreams/rflow"
)

// subscriberAdapter is the Consumer through which an outside Producer feeds a
// port. Demand is requested in batches of run.batch once the port is pulled;
// elements that arrive before the next pull are buffered.
type subscriberAdapter struct {
	run *run
	out *port

	sub       rflow.Subscription
	requested int64
	buffer    []any
	done      bool // upstream terminated
	completed bool // completion held back until the buffer drains
	cancelled bool
}

var _ rflow.Consumer[any] = (*subscriberAdapter)(nil)

func newSubscriberAdapter(r *run, out *port) *subscriberAdapter {
	return &subscriberAdapter{run: r, out: out}
}

// subscribeTo subscribes the adapter to an outside Producer.
func (a *subscriberAdapter) subscribeTo(p rflow.Producer[any]) {
	if err := protectDo(func() { p.Subscribe(a) }); err != nil {
		a.done = true
		a.buffer = nil
		a.out.fail(err)
	}
}

func (a *subscriberAdapter) OnSubscribe(s rflow.Subscription) {
	if s == nil {
		return
	}
	a.run.exec.execute(func() {
		if a.sub != nil || a.done {
			a.callOut(s.Cancel)
			return
		}
		a.sub = s
		if a.cancelled {
			a.callOut(s.Cancel)
			return
		}
		if a.out.isPulled() {
			a.refill()
		}
	})
}

func (a *subscriberAdapter) OnNext(elem any) {
	a.run.exec.execute(func() {
		if a.done || a.cancelled {
			return
		}
		if a.requested == 0 {
			a.violation(rflow.ErrDemandExceeded)
			return
		}
		a.requested--
		if a.out.isPulled() && len(a.buffer) == 0 {
			a.out.push(elem)
			return
		}
		a.buffer = append(a.buffer, elem)
	})
}

func (a *subscriberAdapter) OnError(err error) {
	a.run.exec.execute(func() {
		if a.done || a.cancelled {
			return
		}
		a.done = true
		a.buffer = nil
		a.out.fail(err)
	})
}

func (a *subscriberAdapter) OnComplete() {
	a.run.exec.execute(func() {
		if a.done || a.cancelled {
			return
		}
		a.done = true
		if len(a.buffer) == 0 {
			a.out.complete()
			return
		}
		a.completed = true
	})
}

func (a *subscriberAdapter) onPull() {
	if len(a.buffer) > 0 {
		elem := a.buffer[0]
		a.buffer[0] = nil
		a.buffer = a.buffer[1:]
		a.out.push(elem)
		if len(a.buffer) == 0 && a.completed {
			a.out.complete()
			return
		}
	}
	a.refill()
}

func (a *subscriberAdapter) onDownstreamFinish() {
	a.cancelled = true
	a.buffer = nil
	if a.sub != nil && !a.done {
		a.callOut(a.sub.Cancel)
	}
}

// refill tops up outstanding demand once it has fallen to half a batch.
func (a *subscriberAdapter) refill() {
	if a.sub == nil || a.done || a.cancelled {
		return
	}
	outstanding := a.requested + int64(len(a.buffer))
	if outstanding > a.run.batch/2 {
		return
	}
	n := a.run.batch - outstanding
	if n <= 0 {
		return
	}
	a.requested += n
	a.callOut(func() { a.sub.Request(n) })
}

func (a *subscriberAdapter) violation(err error) {
	a.done = true
	a.buffer = nil
	if a.sub != nil {
		a.callOut(a.sub.Cancel)
	}
	a.out.fail(err)
}

// callOut invokes outside code. A panic there is logged and otherwise
// ignored: the outside party has broken its contract, not this run.
func (a *subscriberAdapter) callOut(fn func()) {
	if err := protectDo(fn); err != nil {
		a.run.log.Warn("producer call panicked", "error", err)
	}
}

// publisherAdapter is the Producer through which an outside Consumer drains a
// port. Outstanding demand is forwarded as one pull at a time.
type publisherAdapter struct {
	run *run
	in  *port

	// start, when set, runs on the first accepted subscription.
	start func()
	// terminated, when set, observes how the subscription ended: nil error on
	// completion, the failure, or rflow.ErrCancelled.
	terminated func(error)

	consumer rflow.Consumer[any]
	demand   int64
	done     bool

	// upstream terminated before a consumer subscribed
	early    bool
	earlyErr error
}

var _ rflow.Producer[any] = (*publisherAdapter)(nil)

func newPublisherAdapter(r *run, in *port) *publisherAdapter {
	return &publisherAdapter{run: r, in: in}
}

func (a *publisherAdapter) Subscribe(c rflow.Consumer[any]) {
	a.run.exec.execute(func() {
		if a.consumer != nil {
			err := protectDo(func() {
				c.OnSubscribe(rflow.Inert)
				c.OnError(rflow.ErrAlreadySubscribed)
			})
			if err != nil {
				a.run.log.Warn("rejected consumer panicked", "error", err)
			}
			return
		}
		a.consumer = c
		a.callOut(func() { c.OnSubscribe(&publisherSubscription{a: a}) })
		if start := a.start; start != nil {
			a.start = nil
			start()
		}
		if a.early {
			a.early = false
			if a.earlyErr != nil {
				a.onUpstreamFailure(a.earlyErr)
			} else {
				a.onUpstreamFinish()
			}
		}
	})
}

func (a *publisherAdapter) request(n int64) {
	if a.done {
		return
	}
	if n <= 0 {
		a.done = true
		a.in.cancel()
		a.callOut(func() { a.consumer.OnError(rflow.ErrNonPositiveRequest) })
		a.finish(rflow.ErrNonPositiveRequest)
		return
	}
	if a.demand > math.MaxInt64-n {
		a.demand = math.MaxInt64
	} else {
		a.demand += n
	}
	a.pullIfWanted()
}

// pullIfWanted pulls when demand exceeds the elements already on their way.
func (a *publisherAdapter) pullIfWanted() {
	if !a.done && a.demand > int64(a.in.inFlight) {
		a.in.pull()
	}
}

func (a *publisherAdapter) cancel() {
	if a.done {
		return
	}
	a.done = true
	a.in.cancel()
	a.finish(rflow.ErrCancelled)
}

func (a *publisherAdapter) onPush(elem any) {
	if a.done {
		return
	}
	a.demand--
	a.callOut(func() { a.consumer.OnNext(elem) })
	a.pullIfWanted()
}

func (a *publisherAdapter) onUpstreamFinish() {
	if a.consumer == nil {
		a.early = true
		return
	}
	if a.done {
		return
	}
	a.done = true
	a.callOut(a.consumer.OnComplete)
	a.finish(nil)
}

func (a *publisherAdapter) onUpstreamFailure(err error) {
	if a.consumer == nil {
		a.early, a.earlyErr = true, err
		return
	}
	if a.done {
		return
	}
	a.done = true
	a.callOut(func() { a.consumer.OnError(err) })
	a.finish(err)
}

func (a *publisherAdapter) finish(err error) {
	if a.terminated != nil {
		a.terminated(err)
	}
}

// callOut invokes the outside Consumer. A Consumer that panics is treated as
// if it had cancelled.
func (a *publisherAdapter) callOut(fn func()) {
	if err := protectDo(fn); err != nil {
		a.run.log.Warn("consumer call panicked, cancelling", "error", err)
		if !a.done {
			a.done = true
			a.in.cancel()
			a.finish(err)
		}
	}
}

// publisherSubscription routes an outside Consumer's calls into the run.
type publisherSubscription struct {
	a *publisherAdapter
}

func (s *publisherSubscription) Request(n int64) {
	s.a.run.exec.execute(func() { s.a.request(n) })
}

func (s *publisherSubscription) Cancel() {
	s.a.run.exec.execute(s.a.cancel)
}
