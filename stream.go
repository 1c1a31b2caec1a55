package rstreams

import (
	"context"
	"fmt"

	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

// Run realizes the closed graph g and waits for its result.
//
// ctx bounds the wait only. A graph whose producers are all synchronous runs
// to completion on the calling goroutine before the wait begins, so ctx is
// checked once up front and cannot interrupt such a graph midway.
func Run[T any](ctx context.Context, e *Engine, g rgraph.Graph) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	f, err := e.RealizeAndRun(g)
	if err != nil {
		return zero, err
	}
	v, err := f.Get(ctx)
	if err != nil {
		return zero, err
	}
	return rflow.Cast[T](v)
}

// ToSlice runs the outlet-only graph g to completion and returns its
// elements in order.
func ToSlice[T any](ctx context.Context, e *Engine, g rgraph.Graph) ([]T, error) {
	closed, err := rgraph.Append(g, rgraph.Collect(rgraph.ToSlice[T]()))
	if err != nil {
		return nil, err
	}
	return Run[[]T](ctx, e, closed)
}

// FindFirst runs the outlet-only graph g until its first element. ok is
// false if g completed without one.
func FindFirst[T any](ctx context.Context, e *Engine, g rgraph.Graph) (v T, ok bool, err error) {
	closed, err := rgraph.Append(g, rgraph.FindFirst())
	if err != nil {
		return v, false, err
	}
	first, err := Run[rflow.Optional[any]](ctx, e, closed)
	if err != nil {
		return v, false, err
	}
	elem, ok := first.Get()
	if !ok {
		return v, false, nil
	}
	v, err = rflow.Cast[T](elem)
	if err != nil {
		return v, false, fmt.Errorf("first element: %w", err)
	}
	return v, true, nil
}

// Subscribe realizes the outlet-only graph g and subscribes c to it.
func Subscribe[T any](e *Engine, g rgraph.Graph, c rflow.Consumer[T]) error {
	p, err := e.RealizeProducer(g)
	if err != nil {
		return err
	}
	p.Subscribe(rflow.EraseConsumer(c))
	return nil
}
