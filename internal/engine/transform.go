package engine

import "fmt"

// mapLogic applies fn to every element.
type mapLogic struct {
	stageIO
	fn func(any) (any, error)
}

func (l *mapLogic) onPull()             { l.in.pull() }
func (l *mapLogic) onDownstreamFinish() { l.in.cancel() }

func (l *mapLogic) onPush(elem any) {
	v, err := protect(func() (any, error) { return l.fn(elem) })
	if err != nil {
		l.failStage(err)
		return
	}
	l.out.push(v)
}

func (l *mapLogic) onUpstreamFinish()           { l.out.complete() }
func (l *mapLogic) onUpstreamFailure(err error) { l.out.fail(err) }

// newPredicate invokes a per-run predicate factory.
func newPredicate(factory func() func(any) (bool, error)) (func(any) (bool, error), error) {
	pred, err := protect(func() (func(any) (bool, error), error) { return factory(), nil })
	if err != nil {
		return nil, err
	}
	if pred == nil {
		return nil, fmt.Errorf("%w: predicate factory returned nil", ErrNilResult)
	}
	return pred, nil
}

func test(pred func(any) (bool, error), elem any) (bool, error) {
	return protect(func() (bool, error) { return pred(elem) })
}

// filterLogic emits the elements its predicate accepts.
type filterLogic struct {
	stageIO
	factory func() func(any) (bool, error)
	pred    func(any) (bool, error)
}

func (l *filterLogic) start() {
	pred, err := newPredicate(l.factory)
	if err != nil {
		l.failStage(err)
		return
	}
	l.pred = pred
}

func (l *filterLogic) onPull()             { l.in.pull() }
func (l *filterLogic) onDownstreamFinish() { l.in.cancel() }

func (l *filterLogic) onPush(elem any) {
	ok, err := test(l.pred, elem)
	switch {
	case err != nil:
		l.failStage(err)
	case ok:
		l.out.push(elem)
	default:
		l.in.pull()
	}
}

func (l *filterLogic) onUpstreamFinish()           { l.out.complete() }
func (l *filterLogic) onUpstreamFailure(err error) { l.out.fail(err) }

// takeWhileLogic emits elements until its predicate first fails, then
// completes and cancels upstream.
type takeWhileLogic struct {
	stageIO
	factory   func() func(any) (bool, error)
	inclusive bool
	empty     bool
	pred      func(any) (bool, error)
}

func (l *takeWhileLogic) start() {
	if l.empty {
		l.in.cancel()
		// Completion waits for the downstream stages to start.
		l.out.exec.execute(l.out.complete)
		return
	}
	pred, err := newPredicate(l.factory)
	if err != nil {
		l.failStage(err)
		return
	}
	l.pred = pred
}

func (l *takeWhileLogic) onPull()             { l.in.pull() }
func (l *takeWhileLogic) onDownstreamFinish() { l.in.cancel() }

func (l *takeWhileLogic) onPush(elem any) {
	ok, err := test(l.pred, elem)
	if err != nil {
		l.failStage(err)
		return
	}
	if ok {
		l.out.push(elem)
		return
	}
	if l.inclusive {
		l.out.push(elem)
	}
	l.out.complete()
	l.in.cancel()
}

func (l *takeWhileLogic) onUpstreamFinish()           { l.out.complete() }
func (l *takeWhileLogic) onUpstreamFailure(err error) { l.out.fail(err) }
