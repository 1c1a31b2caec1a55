package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/birdayz/rstreams/internal/streamtest"
	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

var errBoom = errors.New("boom")

func await(t *testing.T, f rflow.Future[any]) (any, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), streamtest.Timeout)
	defer cancel()
	return f.Get(ctx)
}

func runGraph(t *testing.T, e *Engine, stages ...rgraph.Stage) (any, error) {
	t.Helper()
	f, err := e.RealizeAndRun(rgraph.Must(stages...))
	assert.NoError(t, err)
	return await(t, f)
}

// collect runs stages followed by a ToSlice collector.
func collect(t *testing.T, e *Engine, stages ...rgraph.Stage) ([]any, error) {
	t.Helper()
	v, err := runGraph(t, e, append(stages, rgraph.Collect(rgraph.ToSlice[any]()))...)
	if err != nil {
		return nil, err
	}
	return v.([]any), nil
}

func ints(vs ...int) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// upTo returns 1..n.
func upTo(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestRealizeShapes(t *testing.T) {
	e := New(Config{})
	source := rgraph.Must(rgraph.Of(1))
	transformer := rgraph.Must(rgraph.Map(rgraph.Lift(func(v int) int { return v })))
	consumer := rgraph.Must(rgraph.FindFirst())
	closed := rgraph.Must(rgraph.Of(1), rgraph.FindFirst())

	t.Run("producer", func(t *testing.T) {
		_, err := e.RealizeProducer(source)
		assert.NoError(t, err)
		for _, g := range []rgraph.Graph{transformer, consumer, closed, rgraph.Empty()} {
			_, err := e.RealizeProducer(g)
			assert.IsError(t, err, ErrShapeMismatch)
		}
	})

	t.Run("consumer", func(t *testing.T) {
		_, _, err := e.RealizeConsumer(consumer)
		assert.NoError(t, err)
		for _, g := range []rgraph.Graph{source, transformer, closed} {
			_, _, err := e.RealizeConsumer(g)
			assert.IsError(t, err, ErrShapeMismatch)
		}
	})

	t.Run("transformer", func(t *testing.T) {
		_, err := e.RealizeTransformer(transformer)
		assert.NoError(t, err)
		_, err = e.RealizeTransformer(rgraph.Empty())
		assert.NoError(t, err)
		for _, g := range []rgraph.Graph{source, consumer, closed} {
			_, err := e.RealizeTransformer(g)
			assert.IsError(t, err, ErrShapeMismatch)
		}
	})

	t.Run("closed", func(t *testing.T) {
		_, err := e.RealizeAndRun(closed)
		assert.NoError(t, err)
		for _, g := range []rgraph.Graph{source, transformer, consumer, rgraph.Empty()} {
			_, err := e.RealizeAndRun(g)
			assert.IsError(t, err, ErrShapeMismatch)
		}
	})
}

func TestRunsShareNothing(t *testing.T) {
	e := New(Config{})
	g := rgraph.Must(rgraph.Of(1, 2, 3, 4), rgraph.Limit[int](2), rgraph.Collect(rgraph.Count[int]()))

	for range 3 {
		f, err := e.RealizeAndRun(g)
		assert.NoError(t, err)
		n, err := await(t, f)
		assert.NoError(t, err)
		assert.Equal(t, any(2), n)
	}
}

func TestRunLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(Config{Log: log, RunID: func() string { return "run-1" }})

	_, err := runGraph(t, e, rgraph.Of(1), rgraph.FindFirst())
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "run=run-1")
	assert.Contains(t, buf.String(), "run completed")

	buf.Reset()
	_, err = runGraph(t, e, rgraph.Failed(errBoom), rgraph.FindFirst())
	assert.IsError(t, err, errBoom)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "run failed")
}
