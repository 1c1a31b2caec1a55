// Package rstreams runs reactive stream graphs. A graph is built with the
// rgraph package and realized by an Engine into a Producer, a Consumer, a
// Transformer or a running closed computation.
package rstreams

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/birdayz/rstreams/internal/engine"
	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

// Errors returned when a graph cannot be realized.
var (
	ErrShapeMismatch    = engine.ErrShapeMismatch
	ErrUnsupportedStage = engine.ErrUnsupportedStage
)

// ErrPanic wraps a panic raised by a user callback. It reaches consumers as a
// stream error.
var ErrPanic = engine.ErrPanic

// ErrInvalidRequestBatch is returned for a non-positive WithRequestBatch.
var ErrInvalidRequestBatch = errors.New("rstreams: request batch must be positive")

type Engine struct {
	log          *slog.Logger
	requestBatch int
	runID        func() string

	e *engine.Engine
}

// New creates an engine. Graphs realized by the same engine share nothing but
// its configuration.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		log:          NullLogger(),
		requestBatch: engine.DefaultRequestBatch,
		runID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.requestBatch <= 0 {
		return nil, ErrInvalidRequestBatch
	}

	e.e = engine.New(engine.Config{
		Log:          e.log,
		RequestBatch: int64(e.requestBatch),
		RunID:        e.runID,
	})
	return e, nil
}

// MustNew creates an engine, panicking on configuration errors.
// Prefer New() for production code to handle errors gracefully.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// RealizeProducer realizes an outlet-only graph. The run starts on the first
// Subscribe; a second subscriber is rejected with rflow.ErrAlreadySubscribed.
func (e *Engine) RealizeProducer(g rgraph.Graph) (rflow.Producer[any], error) {
	return e.e.RealizeProducer(g)
}

// RealizeConsumer realizes and starts an inlet-only graph. The future
// resolves with the result of its terminal stage.
func (e *Engine) RealizeConsumer(g rgraph.Graph) (rflow.Consumer[any], rflow.Future[any], error) {
	return e.e.RealizeConsumer(g)
}

// RealizeTransformer realizes and starts a graph with inlet and outlet. The
// empty graph is the identity transformer.
func (e *Engine) RealizeTransformer(g rgraph.Graph) (rflow.Transformer[any, any], error) {
	return e.e.RealizeTransformer(g)
}

// RealizeAndRun realizes and starts a closed graph. Stages run on the
// goroutines that signal them: when every producer in g is synchronous, the
// whole run completes before RealizeAndRun returns.
func (e *Engine) RealizeAndRun(g rgraph.Graph) (rflow.Future[any], error) {
	return e.e.RealizeAndRun(g)
}
