package rgraph

import (
	"strings"

	"github.com/birdayz/rstreams/rflow"
)

// Collector folds a stream of T into a result R through an accumulation
// container A. Supply is invoked once per run. Discard is optional: it is
// called instead of Finish when the run fails or an Accumulate call errs.
type Collector[T, A, R any] struct {
	Supply     func() (A, error)
	Accumulate func(A, T) (A, error)
	Finish     func(A) (R, error)
	Discard    func(A)
}

func (c Collector[T, A, R]) erase() Accumulator {
	var discard func(any)
	if c.Discard != nil {
		discard = func(acc any) {
			if a, err := rflow.Cast[A](acc); err == nil {
				c.Discard(a)
			}
		}
	}
	return Accumulator{
		Discard: discard,
		Supply: func() (any, error) {
			return c.Supply()
		},
		Accumulate: func(acc, elem any) (any, error) {
			a, err := rflow.Cast[A](acc)
			if err != nil {
				return nil, err
			}
			t, err := rflow.Cast[T](elem)
			if err != nil {
				return nil, err
			}
			return c.Accumulate(a, t)
		},
		Finish: func(acc any) (any, error) {
			a, err := rflow.Cast[A](acc)
			if err != nil {
				return nil, err
			}
			return c.Finish(a)
		},
	}
}

func identity[A any](a A) (A, error) {
	return a, nil
}

// ToSlice collects the elements in order.
func ToSlice[T any]() Collector[T, []T, []T] {
	return Collector[T, []T, []T]{
		Supply: func() ([]T, error) { return []T{}, nil },
		Accumulate: func(acc []T, v T) ([]T, error) {
			return append(acc, v), nil
		},
		Finish: identity[[]T],
	}
}

// Reduce folds the elements with fn, starting from seed.
func Reduce[T any](seed T, fn func(T, T) (T, error)) Collector[T, T, T] {
	return Collector[T, T, T]{
		Supply:     func() (T, error) { return seed, nil },
		Accumulate: fn,
		Finish:     identity[T],
	}
}

// Count counts the elements.
func Count[T any]() Collector[T, int, int] {
	return Collector[T, int, int]{
		Supply:     func() (int, error) { return 0, nil },
		Accumulate: func(n int, _ T) (int, error) { return n + 1, nil },
		Finish:     identity[int],
	}
}

// GroupCount counts occurrences of each distinct element.
func GroupCount[K comparable]() Collector[K, map[K]int, map[K]int] {
	return Collector[K, map[K]int, map[K]int]{
		Supply: func() (map[K]int, error) { return map[K]int{}, nil },
		Accumulate: func(m map[K]int, k K) (map[K]int, error) {
			m[k]++
			return m, nil
		},
		Finish: identity[map[K]int],
	}
}

// Joining concatenates strings with sep between them.
func Joining(sep string) Collector[string, []string, string] {
	return Collector[string, []string, string]{
		Supply: func() ([]string, error) { return nil, nil },
		Accumulate: func(parts []string, s string) ([]string, error) {
			return append(parts, s), nil
		},
		Finish: func(parts []string) (string, error) { return strings.Join(parts, sep), nil },
	}
}
