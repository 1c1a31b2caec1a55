package engine

import (
	"fmt"
	"log/slog"

	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

// run is the state of one realization of a graph. Nothing in it is shared
// with other runs of the same graph.
type run struct {
	id     string
	exec   *executor
	log    *slog.Logger
	batch  int64
	result *rflow.Promise[any]
}

// settle resolves the run result from the way a boundary subscription ended.
func (r *run) settle(err error) {
	if err != nil {
		r.result.Reject(err)
		return
	}
	r.result.Resolve(struct{}{})
}

func (r *run) newPort() *port {
	return newPort(r.exec)
}

// materialize wires the stages of g into ports and per-stage logic. head
// feeds the first stage when g has an inlet. The returned port is the outlet
// of the last stage, nil for a graph without outlet. Nothing is signalled
// until the returned start function runs inside the executor.
func (r *run) materialize(g rgraph.Graph, head *port) (*port, func(), error) {
	upstream := head
	var starts []func()
	for i, stage := range g.All() {
		var out *port
		if stage.Kind().HasOutlet() {
			out = r.newPort()
		}
		start, err := r.wire(stage, upstream, out)
		if err != nil {
			return nil, nil, fmt.Errorf("stage %d: %w", i, err)
		}
		if start != nil {
			starts = append(starts, start)
		}
		upstream = out
	}

	// Upstream stages start first, so a downstream stage that cancels or
	// pulls while starting always finds its upstream ready.
	return upstream, func() {
		for _, start := range starts {
			start()
		}
	}, nil
}

// wire creates the logic of one stage between in and out.
func (r *run) wire(stage rgraph.Stage, in, out *port) (func(), error) {
	switch s := stage.(type) {
	case rgraph.MapStage:
		l := &mapLogic{stageIO: attach(in, out), fn: s.Fn}
		bind(l, in, out)
		return nil, nil
	case rgraph.FilterStage:
		l := &filterLogic{stageIO: attach(in, out), factory: s.Predicate}
		bind(l, in, out)
		return l.start, nil
	case rgraph.TakeWhileStage:
		l := &takeWhileLogic{stageIO: attach(in, out), factory: s.Predicate, inclusive: s.Inclusive, empty: s.Empty}
		bind(l, in, out)
		return l.start, nil
	case rgraph.FlatMapStage:
		l := &flatMapLogic{stageIO: attach(in, out), run: r, fn: s.Fn}
		bind(l, in, out)
		return nil, nil
	case rgraph.FlatMapAsyncStage:
		l := newFlatMapAsyncLogic(attach(in, out), r, s.Fn)
		bind(l, in, out)
		return nil, nil
	case rgraph.FlatMapIterableStage:
		l := &flatMapIterableLogic{stageIO: attach(in, out), fn: s.Fn}
		bind(l, in, out)
		return nil, nil
	case rgraph.OfStage:
		l := &ofLogic{stageIO: attach(in, out), elements: s.Elements}
		bind(l, in, out)
		return l.start, nil
	case rgraph.FailedStage:
		l := &failedLogic{stageIO: attach(in, out), err: s.Err}
		bind(l, in, out)
		return l.start, nil
	case rgraph.ConcatStage:
		l := &concatLogic{stageIO: attach(in, out), run: r, first: s.First, second: s.Second}
		bind(l, in, out)
		return l.start, nil
	case rgraph.ExternalProducerStage:
		a := newSubscriberAdapter(r, out)
		out.out = a
		return func() { a.subscribeTo(s.Producer) }, nil
	case rgraph.ExternalTransformerStage:
		return r.wireTransformer(s.Transformer, in, out), nil
	case rgraph.ExternalConsumerStage:
		return r.wireConsumer(s.Consumer, in), nil
	case rgraph.FindFirstStage:
		l := &findFirstLogic{stageIO: attach(in, out), result: r.result}
		bind(l, in, out)
		return l.start, nil
	case rgraph.CollectStage:
		l := &collectLogic{stageIO: attach(in, out), run: r, acc: s.Accumulator, result: r.result}
		bind(l, in, out)
		return l.start, nil
	case rgraph.CancelStage:
		l := &cancelLogic{stageIO: attach(in, out), result: r.result}
		bind(l, in, out)
		return l.start, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStage, stage.Kind())
	}
}

// stageIO holds the ports of a stage: in is nil without inlet, out is nil
// without outlet.
type stageIO struct {
	in  *port
	out *port
}

func attach(in, out *port) stageIO {
	return stageIO{in: in, out: out}
}

// bind registers l as the handler of its ports.
func bind(l any, in, out *port) {
	if in != nil {
		in.in = l.(inHandler)
	}
	if out != nil {
		out.out = l.(outHandler)
	}
}

// failStage fails downstream and cancels upstream.
func (s stageIO) failStage(err error) {
	if s.out != nil {
		s.out.fail(err)
	}
	if s.in != nil {
		s.in.cancel()
	}
}

// sinkHandler terminates a nested chain inside a coordinator.
type sinkHandler struct {
	push    func(any)
	finish  func()
	failure func(error)
}

func (h *sinkHandler) onPush(elem any)             { h.push(elem) }
func (h *sinkHandler) onUpstreamFinish()           { h.finish() }
func (h *sinkHandler) onUpstreamFailure(err error) { h.failure(err) }
