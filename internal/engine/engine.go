// Package engine realizes graphs into running streams. Every run gets its own
// executor, ports and stage state; nothing is shared between runs, so one
// Graph can be realized any number of times.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

var (
	// ErrShapeMismatch is returned when a graph is realized as a shape it
	// does not have.
	ErrShapeMismatch = errors.New("engine: graph shape mismatch")
	// ErrUnsupportedStage is returned for a stage the engine cannot run.
	ErrUnsupportedStage = errors.New("engine: unsupported stage")
	// ErrPanic wraps a panic raised by a user callback.
	ErrPanic = errors.New("engine: callback panicked")
	// ErrNilResult is a stream error for a callback that returned nil where
	// a value is required.
	ErrNilResult = errors.New("engine: callback returned nil")
)

// DefaultRequestBatch is the number of elements requested at a time from an
// external producer.
const DefaultRequestBatch = 16

type Config struct {
	Log          *slog.Logger
	RequestBatch int64
	RunID        func() string
}

type Engine struct {
	log   *slog.Logger
	batch int64
	runID func() string
}

func New(cfg Config) *Engine {
	e := &Engine{
		log:   cfg.Log,
		batch: cfg.RequestBatch,
		runID: cfg.RunID,
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.batch <= 0 {
		e.batch = DefaultRequestBatch
	}
	if e.runID == nil {
		e.runID = uuid.NewString
	}
	return e
}

// RealizeProducer realizes an outlet-only graph. The run starts when the
// returned Producer is first subscribed.
func (e *Engine) RealizeProducer(g rgraph.Graph) (rflow.Producer[any], error) {
	if err := check(g, rgraph.ShapeProducer); err != nil {
		return nil, err
	}
	r := e.newRun(g)
	tail, start, err := r.materialize(g, nil)
	if err != nil {
		return nil, err
	}
	pub := newPublisherAdapter(r, tail)
	tail.in = pub
	pub.start = start
	pub.terminated = r.settle
	return pub, nil
}

// RealizeConsumer realizes an inlet-only graph and starts it. The returned
// future resolves with the result of the terminal stage.
func (e *Engine) RealizeConsumer(g rgraph.Graph) (rflow.Consumer[any], rflow.Future[any], error) {
	if err := check(g, rgraph.ShapeConsumer); err != nil {
		return nil, nil, err
	}
	r := e.newRun(g)
	head := r.newPort()
	sub := newSubscriberAdapter(r, head)
	head.out = sub
	_, start, err := r.materialize(g, head)
	if err != nil {
		return nil, nil, err
	}
	r.exec.execute(start)
	return sub, r.result, nil
}

// RealizeTransformer realizes a graph with inlet and outlet and starts it.
// The empty graph realizes as the identity transformer.
func (e *Engine) RealizeTransformer(g rgraph.Graph) (rflow.Transformer[any, any], error) {
	if !g.IsEmpty() {
		if err := check(g, rgraph.ShapeTransformer); err != nil {
			return nil, err
		}
	}
	r := e.newRun(g)
	head := r.newPort()
	sub := newSubscriberAdapter(r, head)
	head.out = sub
	tail, start, err := r.materialize(g, head)
	if err != nil {
		return nil, err
	}
	if tail == nil {
		tail = head
	}
	pub := newPublisherAdapter(r, tail)
	tail.in = pub
	pub.terminated = r.settle
	r.exec.execute(start)
	return transformer{Consumer: sub, Producer: pub}, nil
}

// RealizeAndRun realizes a closed graph and starts it. The start is drained
// on the calling goroutine, so a graph without asynchronous producers has
// terminated by the time the future is returned.
func (e *Engine) RealizeAndRun(g rgraph.Graph) (rflow.Future[any], error) {
	if g.IsEmpty() {
		return nil, fmt.Errorf("%w: empty graph has nothing to run", ErrShapeMismatch)
	}
	if err := check(g, rgraph.ShapeClosed); err != nil {
		return nil, err
	}
	r := e.newRun(g)
	_, start, err := r.materialize(g, nil)
	if err != nil {
		return nil, err
	}
	r.exec.execute(start)
	return r.result, nil
}

func check(g rgraph.Graph, want rgraph.Shape) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if got := g.Shape(); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrShapeMismatch, want, got)
	}
	return nil
}

func (e *Engine) newRun(g rgraph.Graph) *run {
	r := &run{
		id:     e.runID(),
		exec:   &executor{},
		batch:  e.batch,
		result: rflow.NewPromise[any](),
	}
	r.log = e.log.With("run", r.id)
	r.log.Debug("realizing graph", "graph", g.String(), "shape", g.Shape().String())

	r.result.OnComplete(func(_ any, err error) {
		switch {
		case err == nil:
			r.log.Debug("run completed")
		case errors.Is(err, rflow.ErrCancelled):
			r.log.Debug("run cancelled")
		default:
			r.log.Warn("run failed", "error", err)
		}
	})
	return r
}

type transformer struct {
	rflow.Consumer[any]
	rflow.Producer[any]
}
