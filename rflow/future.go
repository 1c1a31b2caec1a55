package rflow

import (
	"context"
	"sync"
)

// Future is a one-shot value holder. It is resolved at most once, with either
// a value or a failure cause, and resolution is terminal.
type Future[T any] interface {
	// Done is closed once the future is resolved.
	Done() <-chan struct{}

	// Get blocks until the future is resolved or ctx is done.
	Get(ctx context.Context) (T, error)

	// Poll returns the outcome without blocking. ok is false while the future
	// is still pending.
	Poll() (value T, ok bool, err error)
}

// completer is implemented by futures that can invoke a callback on
// resolution without a waiting goroutine.
type completer[T any] interface {
	OnComplete(func(T, error))
}

// Promise is the writable side of a Future. The zero value is not usable,
// create one with NewPromise.
type Promise[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	value     T
	err       error
	callbacks []func(T, error)
}

// NewPromise creates an unresolved Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolve completes the promise with v. It reports whether this call won.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(v, nil)
}

// Reject completes the promise with err. It reports whether this call won.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return false
	}
	p.resolved = true
	p.value = v
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// OnComplete registers fn to run once the promise is resolved. If it already
// is, fn runs immediately on the calling goroutine.
func (p *Promise[T]) OnComplete(fn func(T, error)) {
	p.mu.Lock()
	if !p.resolved {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	v, err := p.value, p.err
	p.mu.Unlock()
	fn(v, err)
}

func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

func (p *Promise[T]) Get(ctx context.Context) (T, error) {
	// A resolved promise wins over a done context.
	select {
	case <-p.done:
		return p.value, p.err
	default:
	}

	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *Promise[T]) Poll() (T, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.resolved {
		var zero T
		return zero, false, nil
	}
	return p.value, true, p.err
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) Future[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p
}

// Rejected returns a future already failed with err.
func Rejected[T any](err error) Future[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

// Notify calls fn once f is resolved. Futures created by this package call
// back directly; other implementations are awaited on a goroutine, which
// exits early if stop is closed.
func Notify[T any](f Future[T], stop <-chan struct{}, fn func(T, error)) {
	if c, ok := f.(completer[T]); ok {
		c.OnComplete(fn)
		return
	}
	go func() {
		select {
		case <-f.Done():
			v, _, err := f.Poll()
			fn(v, err)
		case <-stop:
		}
	}()
}

// Then returns a future resolved with fn applied to the value of f. A failure
// of f, or an error returned by fn, fails the returned future.
func Then[T, R any](f Future[T], fn func(T) (R, error)) Future[R] {
	p := NewPromise[R]()
	Notify(f, nil, func(v T, err error) {
		if err != nil {
			p.Reject(err)
			return
		}
		r, err := fn(v)
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(r)
	})
	return p
}
