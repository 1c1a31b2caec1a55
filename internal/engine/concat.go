package engine

import (
	"go.uber.org/multierr"

	"github.com/birdayz/rstreams/rgraph"
)

// concatLogic emits the elements of first, then those of second.
//
// The second graph is always started, even when the concatenation ends
// early: if first fails, or downstream cancels while first is active, second
// is started and cancelled right away so that it can release what it holds.
type concatLogic struct {
	stageIO
	run           *run
	first, second rgraph.Graph

	current       *port
	secondStarted bool
	done          bool
}

func (l *concatLogic) start() {
	tail, start, err := l.run.materialize(l.first, nil)
	if err != nil {
		l.done = true
		l.out.fail(multierr.Append(err, l.drainSecond()))
		return
	}
	l.current = tail
	tail.in = &sinkHandler{
		push:    func(v any) { l.out.push(v) },
		finish:  func() { l.firstFinished(tail) },
		failure: func(err error) { l.firstFailed(tail, err) },
	}
	start()
}

func (l *concatLogic) onPull() {
	if l.current != nil {
		l.current.pull()
	}
}

func (l *concatLogic) onDownstreamFinish() {
	if l.done {
		return
	}
	l.done = true
	if cur := l.current; cur != nil {
		l.current = nil
		cur.cancel()
	}
	if err := l.drainSecond(); err != nil {
		l.run.log.Warn("concat: cleanup of second graph failed", "error", err)
	}
}

func (l *concatLogic) firstFinished(tail *port) {
	if l.current != tail || l.done {
		return
	}
	l.current = nil
	if err := l.startSecond(); err != nil {
		l.done = true
		l.out.fail(err)
		return
	}
	if l.current != nil && l.out.isPulled() {
		l.current.pull()
	}
}

func (l *concatLogic) firstFailed(tail *port, err error) {
	if l.current != tail || l.done {
		return
	}
	l.current = nil
	l.done = true
	err = multierr.Append(err, l.drainSecond())

	// Deliver the failure behind the events the cleanup has queued, e.g. the
	// subscription handed over by an external producer, so that second is
	// cancelled before downstream learns about the error.
	l.run.exec.execute(func() { l.out.fail(err) })
}

// startSecond materializes second and makes it the current stream.
func (l *concatLogic) startSecond() error {
	l.secondStarted = true
	tail, start, err := l.run.materialize(l.second, nil)
	if err != nil {
		return err
	}
	l.current = tail
	tail.in = &sinkHandler{
		push: func(v any) { l.out.push(v) },
		finish: func() {
			if l.current == tail {
				l.current = nil
				l.done = true
				l.out.complete()
			}
		},
		failure: func(err error) {
			if l.current == tail {
				l.current = nil
				l.done = true
				l.out.fail(err)
			}
		},
	}
	start()
	return nil
}

// drainSecond starts second, if it has not been, and cancels it at once.
func (l *concatLogic) drainSecond() error {
	if l.secondStarted {
		return nil
	}
	l.secondStarted = true
	tail, start, err := l.run.materialize(l.second, nil)
	if err != nil {
		return err
	}
	tail.in = &sinkHandler{
		push:    func(any) {},
		finish:  func() {},
		failure: func(error) {},
	}
	start()
	tail.cancel()
	return nil
}
