package engine

import "iter"

// ofLogic emits a finite sequence on demand.
type ofLogic struct {
	stageIO
	elements iter.Seq2[any, error]
	cur      *cursor
}

func (l *ofLogic) start() {
	l.cur = newCursor(l.elements)
}

func (l *ofLogic) onPull() {
	v, done, err := l.cur.advance()
	switch {
	case err != nil:
		l.cur.close()
		l.out.fail(err)
	case done:
		l.cur.close()
		l.out.complete()
	default:
		l.out.push(v)
	}
}

func (l *ofLogic) onDownstreamFinish() {
	if l.cur != nil {
		l.cur.close()
	}
}

// failedLogic fails the stream as soon as it starts.
type failedLogic struct {
	stageIO
	err error
}

func (l *failedLogic) start() {
	l.out.fail(l.err)
}

func (l *failedLogic) onPull()             {}
func (l *failedLogic) onDownstreamFinish() {}
