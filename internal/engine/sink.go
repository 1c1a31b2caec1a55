package engine

import (
	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

// findFirstLogic resolves the run with the first element, or empty.
type findFirstLogic struct {
	stageIO
	result *rflow.Promise[any]
}

func (l *findFirstLogic) start() {
	l.in.pull()
}

func (l *findFirstLogic) onPush(elem any) {
	l.in.cancel()
	l.result.Resolve(rflow.Some(elem))
}

func (l *findFirstLogic) onUpstreamFinish() {
	l.result.Resolve(rflow.None[any]())
}

func (l *findFirstLogic) onUpstreamFailure(err error) {
	l.result.Reject(err)
}

// collectLogic folds the stream with an accumulator.
type collectLogic struct {
	stageIO
	run    *run
	acc    rgraph.Accumulator
	result *rflow.Promise[any]
	state  any
}

func (l *collectLogic) start() {
	if l.in.closed() {
		return
	}
	state, err := protect(l.acc.Supply)
	if err != nil {
		l.abort(err)
		return
	}
	l.state = state
	l.in.pull()
}

func (l *collectLogic) onPush(elem any) {
	state, err := protect(func() (any, error) { return l.acc.Accumulate(l.state, elem) })
	if err != nil {
		l.abort(err)
		return
	}
	l.state = state
	l.in.pull()
}

func (l *collectLogic) onUpstreamFinish() {
	res, err := protect(func() (any, error) { return l.acc.Finish(l.state) })
	l.state = nil
	if err != nil {
		l.result.Reject(err)
		return
	}
	l.result.Resolve(res)
}

func (l *collectLogic) onUpstreamFailure(err error) {
	l.discard()
	l.result.Reject(err)
}

func (l *collectLogic) abort(err error) {
	l.in.cancel()
	l.discard()
	l.result.Reject(err)
}

// discard hands the container of a failed run back to the collector.
func (l *collectLogic) discard() {
	state := l.state
	l.state = nil
	if l.acc.Discard == nil || state == nil {
		return
	}
	if err := protectDo(func() { l.acc.Discard(state) }); err != nil {
		l.run.log.Warn("collector discard panicked", "error", err)
	}
}

// cancelLogic cancels upstream without ever pulling.
type cancelLogic struct {
	stageIO
	result *rflow.Promise[any]
}

func (l *cancelLogic) start() {
	l.in.cancel()
	l.result.Resolve(struct{}{})
}

func (l *cancelLogic) onPush(any)              {}
func (l *cancelLogic) onUpstreamFinish()       {}
func (l *cancelLogic) onUpstreamFailure(error) {}
