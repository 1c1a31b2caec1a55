package rflow

import (
	"fmt"
	"reflect"
)

// EraseProducer exposes a typed Producer as a Producer of any.
func EraseProducer[T any](p Producer[T]) Producer[any] {
	if pa, ok := any(p).(Producer[any]); ok {
		return pa
	}
	return erasedProducer[T]{p: p}
}

type erasedProducer[T any] struct {
	p Producer[T]
}

func (e erasedProducer[T]) Subscribe(c Consumer[any]) {
	e.p.Subscribe(upcastConsumer[T]{c: c})
}

// upcastConsumer forwards typed signals to a Consumer of any. It cannot fail.
type upcastConsumer[T any] struct {
	c Consumer[any]
}

func (u upcastConsumer[T]) OnSubscribe(s Subscription) { u.c.OnSubscribe(s) }
func (u upcastConsumer[T]) OnNext(v T)                 { u.c.OnNext(v) }
func (u upcastConsumer[T]) OnError(err error)          { u.c.OnError(err) }
func (u upcastConsumer[T]) OnComplete()                { u.c.OnComplete() }

// EraseConsumer exposes a typed Consumer as a Consumer of any. An element of
// the wrong type cancels the subscription and fails the consumer with
// ErrElementType.
func EraseConsumer[T any](c Consumer[T]) Consumer[any] {
	if ca, ok := any(c).(Consumer[any]); ok {
		return ca
	}
	return &downcastConsumer[T]{c: c}
}

type downcastConsumer[T any] struct {
	c      Consumer[T]
	sub    Subscription
	failed bool
}

func (d *downcastConsumer[T]) OnSubscribe(s Subscription) {
	d.sub = s
	d.c.OnSubscribe(s)
}

func (d *downcastConsumer[T]) OnNext(v any) {
	if d.failed {
		return
	}
	t, err := Cast[T](v)
	if err != nil {
		d.failed = true
		if d.sub != nil {
			d.sub.Cancel()
		}
		d.c.OnError(err)
		return
	}
	d.c.OnNext(t)
}

func (d *downcastConsumer[T]) OnError(err error) {
	if d.failed {
		return
	}
	d.c.OnError(err)
}

func (d *downcastConsumer[T]) OnComplete() {
	if d.failed {
		return
	}
	d.c.OnComplete()
}

// EraseTransformer exposes a typed Transformer with any on both sides.
func EraseTransformer[In, Out any](t Transformer[In, Out]) Transformer[any, any] {
	if ta, ok := any(t).(Transformer[any, any]); ok {
		return ta
	}
	return erasedTransformer{
		Consumer: EraseConsumer[In](t),
		Producer: EraseProducer[Out](t),
	}
}

type erasedTransformer struct {
	Consumer[any]
	Producer[any]
}

// Typed exposes a Producer of any as a typed Producer.
func Typed[T any](p Producer[any]) Producer[T] {
	if pt, ok := any(p).(Producer[T]); ok {
		return pt
	}
	return typedProducer[T]{p: p}
}

type typedProducer[T any] struct {
	p Producer[any]
}

func (t typedProducer[T]) Subscribe(c Consumer[T]) {
	t.p.Subscribe(EraseConsumer(c))
}

// Cast converts an element to T. A nil element converts to the zero value.
func Cast[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var zero T
	if v == nil {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: got %T, want %v", ErrElementType, v, reflect.TypeFor[T]())
}
