package engine

import (
	"fmt"
	"iter"

	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

// The flat-map coordinators keep at most one inner stream active. The next
// outer element is pulled only once the active inner stream has completed.
// Downstream demand outstanding when an inner stream starts is forwarded to
// it right away.

// flatMapLogic runs one sub-graph per outer element.
type flatMapLogic struct {
	stageIO
	run       *run
	fn        func(any) (rgraph.Graph, error)
	inner     *port
	outerDone bool
}

func (l *flatMapLogic) onPull() {
	if l.inner != nil {
		l.inner.pull()
		return
	}
	if !l.outerDone {
		l.in.pull()
	}
}

func (l *flatMapLogic) onPush(elem any) {
	g, err := protect(func() (rgraph.Graph, error) { return l.fn(elem) })
	if err == nil {
		err = rgraph.ValidateSource(g)
	}
	if err != nil {
		l.failStage(err)
		return
	}

	tail, start, err := l.run.materialize(g, nil)
	if err != nil {
		l.failStage(err)
		return
	}
	l.inner = tail
	tail.in = &sinkHandler{
		push:    func(v any) { l.out.push(v) },
		finish:  func() { l.innerFinished(tail) },
		failure: func(err error) { l.innerFailed(tail, err) },
	}
	start()

	// start may already have terminated the inner stream, e.g. a Failed stage.
	if l.inner == tail && l.out.isPulled() {
		tail.pull()
	}
}

func (l *flatMapLogic) innerFinished(tail *port) {
	if l.inner != tail {
		return
	}
	l.inner = nil
	if l.outerDone {
		l.out.complete()
		return
	}
	if l.out.isPulled() {
		l.in.pull()
	}
}

func (l *flatMapLogic) innerFailed(tail *port, err error) {
	if l.inner != tail {
		return
	}
	l.inner = nil
	l.failStage(err)
}

func (l *flatMapLogic) onUpstreamFinish() {
	l.outerDone = true
	if l.inner == nil {
		l.out.complete()
	}
}

func (l *flatMapLogic) onUpstreamFailure(err error) {
	l.cancelInner()
	l.out.fail(err)
}

func (l *flatMapLogic) onDownstreamFinish() {
	l.cancelInner()
	l.in.cancel()
}

func (l *flatMapLogic) cancelInner() {
	if inner := l.inner; inner != nil {
		l.inner = nil
		inner.cancel()
	}
}

// flatMapAsyncLogic awaits one future per outer element.
type flatMapAsyncLogic struct {
	stageIO
	run       *run
	fn        func(any) (rflow.Future[any], error)
	pending   bool
	outerDone bool
	closed    bool
	stop      chan struct{}
}

func newFlatMapAsyncLogic(io stageIO, r *run, fn func(any) (rflow.Future[any], error)) *flatMapAsyncLogic {
	return &flatMapAsyncLogic{stageIO: io, run: r, fn: fn, stop: make(chan struct{})}
}

func (l *flatMapAsyncLogic) onPull() {
	if !l.pending && !l.outerDone {
		l.in.pull()
	}
}

func (l *flatMapAsyncLogic) onPush(elem any) {
	f, err := protect(func() (rflow.Future[any], error) { return l.fn(elem) })
	if err == nil && f == nil {
		err = fmt.Errorf("%w: mapper returned no future", ErrNilResult)
	}
	if err != nil {
		l.fail(err)
		return
	}

	l.pending = true
	rflow.Notify(f, l.stop, func(v any, err error) {
		l.run.exec.execute(func() { l.resolved(v, err) })
	})
}

func (l *flatMapAsyncLogic) resolved(v any, err error) {
	if l.closed {
		return
	}
	l.pending = false
	if err != nil {
		l.fail(err)
		return
	}
	l.out.push(v)
	if l.outerDone {
		l.shut()
		l.out.complete()
	}
}

func (l *flatMapAsyncLogic) onUpstreamFinish() {
	l.outerDone = true
	if !l.pending {
		l.shut()
		l.out.complete()
	}
}

func (l *flatMapAsyncLogic) onUpstreamFailure(err error) {
	l.shut()
	l.out.fail(err)
}

func (l *flatMapAsyncLogic) onDownstreamFinish() {
	l.shut()
	l.in.cancel()
}

func (l *flatMapAsyncLogic) fail(err error) {
	l.shut()
	l.failStage(err)
}

func (l *flatMapAsyncLogic) shut() {
	if !l.closed {
		l.closed = true
		close(l.stop)
	}
}

// flatMapIterableLogic drains one finite sequence per outer element.
type flatMapIterableLogic struct {
	stageIO
	fn        func(any) (iter.Seq2[any, error], error)
	cur       *cursor
	outerDone bool
}

func (l *flatMapIterableLogic) onPull() {
	if l.cur != nil {
		l.advance()
		return
	}
	if !l.outerDone {
		l.in.pull()
	}
}

func (l *flatMapIterableLogic) onPush(elem any) {
	seq, err := protect(func() (iter.Seq2[any, error], error) { return l.fn(elem) })
	if err != nil {
		l.failStage(err)
		return
	}
	l.cur = newCursor(seq)
	l.advance()
}

func (l *flatMapIterableLogic) advance() {
	v, done, err := l.cur.advance()
	switch {
	case err != nil:
		l.closeCursor()
		l.failStage(err)
	case done:
		l.closeCursor()
		if l.outerDone {
			l.out.complete()
		} else {
			l.in.pull()
		}
	default:
		l.out.push(v)
	}
}

func (l *flatMapIterableLogic) closeCursor() {
	if l.cur != nil {
		l.cur.close()
		l.cur = nil
	}
}

func (l *flatMapIterableLogic) onUpstreamFinish() {
	l.outerDone = true
	if l.cur == nil {
		l.out.complete()
	}
}

func (l *flatMapIterableLogic) onUpstreamFailure(err error) {
	l.closeCursor()
	l.out.fail(err)
}

func (l *flatMapIterableLogic) onDownstreamFinish() {
	l.closeCursor()
	l.in.cancel()
}
