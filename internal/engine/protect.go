package engine

import (
	"fmt"
	"iter"
)

// protect calls a user-supplied function, turning a panic into an error
// wrapping ErrPanic. User code failing by panic or by error is the same
// stream error.
func protect[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

// protectDo is protect for functions without a result.
func protectDo(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	fn()
	return nil
}

// cursor pulls from a sequence one element at a time.
type cursor struct {
	next func() (any, error, bool)
	stop func()
}

func newCursor(seq iter.Seq2[any, error]) *cursor {
	if seq == nil {
		seq = func(func(any, error) bool) {}
	}
	next, stop := iter.Pull2(seq)
	return &cursor{next: next, stop: stop}
}

// advance returns the next element. done is true once the sequence is
// exhausted; err is set when the sequence yielded or panicked with an error.
func (c *cursor) advance() (v any, done bool, err error) {
	type step struct {
		v  any
		ok bool
	}
	s, err := protect(func() (step, error) {
		v, err, ok := c.next()
		return step{v: v, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	return s.v, !s.ok, nil
}

func (c *cursor) close() {
	_ = protectDo(c.stop)
}
