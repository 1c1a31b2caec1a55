package rgraph

import (
	"iter"
	"slices"

	"github.com/birdayz/rstreams/rflow"
)

// The constructors below wrap typed functions into the type-erased stage
// parameters. An element that does not convert to the expected type fails the
// stream with rflow.ErrElementType.

// Map returns a stage applying fn to every element.
func Map[In, Out any](fn func(In) (Out, error)) Stage {
	if fn == nil {
		return MapStage{}
	}
	return MapStage{Fn: func(v any) (any, error) {
		in, err := rflow.Cast[In](v)
		if err != nil {
			return nil, err
		}
		return fn(in)
	}}
}

// Lift turns an infallible function into the form Map expects.
func Lift[In, Out any](fn func(In) Out) func(In) (Out, error) {
	return func(v In) (Out, error) {
		return fn(v), nil
	}
}

// Filter returns a stage emitting the elements accepted by the predicate
// that factory produces for each run.
func Filter[T any](factory func() func(T) (bool, error)) Stage {
	if factory == nil {
		return FilterStage{}
	}
	return FilterStage{Predicate: erasePredicateFactory(factory)}
}

// FilterFunc is Filter for a stateless predicate.
func FilterFunc[T any](pred func(T) bool) Stage {
	if pred == nil {
		return FilterStage{}
	}
	return Filter(statelessFactory(pred))
}

// TakeWhile returns a stage emitting elements until the predicate first
// rejects one. The rejected element is emitted only if inclusive is set.
func TakeWhile[T any](factory func() func(T) (bool, error), inclusive bool) Stage {
	if factory == nil {
		return TakeWhileStage{Inclusive: inclusive}
	}
	return TakeWhileStage{Predicate: erasePredicateFactory(factory), Inclusive: inclusive}
}

// TakeWhileFunc is TakeWhile for a stateless predicate.
func TakeWhileFunc[T any](pred func(T) bool, inclusive bool) Stage {
	if pred == nil {
		return TakeWhileStage{Inclusive: inclusive}
	}
	return TakeWhile(statelessFactory(pred), inclusive)
}

// Limit returns a stage emitting at most n elements. The counter is created
// per run, so the graph stays reusable. For n <= 0 upstream is cancelled
// without a single pull.
func Limit[T any](n int) Stage {
	if n <= 0 {
		return TakeWhileStage{
			Predicate: func() func(any) (bool, error) {
				return func(any) (bool, error) { return false, nil }
			},
			Empty: true,
		}
	}
	return TakeWhile(func() func(T) (bool, error) {
		seen := 0
		return func(T) (bool, error) {
			seen++
			return seen < n, nil
		}
	}, n > 0)
}

func statelessFactory[T any](pred func(T) bool) func() func(T) (bool, error) {
	return func() func(T) (bool, error) {
		return func(v T) (bool, error) {
			return pred(v), nil
		}
	}
}

func erasePredicateFactory[T any](factory func() func(T) (bool, error)) func() func(any) (bool, error) {
	return func() func(any) (bool, error) {
		pred := factory()
		if pred == nil {
			return nil
		}
		return func(v any) (bool, error) {
			t, err := rflow.Cast[T](v)
			if err != nil {
				return false, err
			}
			return pred(t)
		}
	}
}

// FlatMap returns a stage mapping every element to an outlet-only sub-graph
// whose elements are emitted in turn.
func FlatMap[In any](fn func(In) (Graph, error)) Stage {
	if fn == nil {
		return FlatMapStage{}
	}
	return FlatMapStage{Fn: func(v any) (Graph, error) {
		in, err := rflow.Cast[In](v)
		if err != nil {
			return Graph{}, err
		}
		return fn(in)
	}}
}

// FlatMapAsync returns a stage mapping every element to a future and emitting
// its value.
func FlatMapAsync[In, Out any](fn func(In) (rflow.Future[Out], error)) Stage {
	if fn == nil {
		return FlatMapAsyncStage{}
	}
	return FlatMapAsyncStage{Fn: func(v any) (rflow.Future[any], error) {
		in, err := rflow.Cast[In](v)
		if err != nil {
			return nil, err
		}
		f, err := fn(in)
		if err != nil || f == nil {
			return nil, err
		}
		if fa, ok := any(f).(rflow.Future[any]); ok {
			return fa, nil
		}
		return rflow.Then(f, func(o Out) (any, error) { return o, nil }), nil
	}}
}

// FlatMapIterable returns a stage mapping every element to a finite sequence.
func FlatMapIterable[In, Out any](fn func(In) (iter.Seq[Out], error)) Stage {
	if fn == nil {
		return FlatMapIterableStage{}
	}
	return FlatMapIterableStage{Fn: func(v any) (iter.Seq2[any, error], error) {
		in, err := rflow.Cast[In](v)
		if err != nil {
			return nil, err
		}
		seq, err := fn(in)
		if err != nil || seq == nil {
			return nil, err
		}
		return eraseSeq(seq), nil
	}}
}

// Of returns a stage emitting elems in order. The slice is copied.
func Of[T any](elems ...T) Stage {
	return FromSeq(slices.Values(slices.Clone(elems)))
}

// FromSeq returns a stage emitting the values of seq.
func FromSeq[T any](seq iter.Seq[T]) Stage {
	if seq == nil {
		return OfStage{}
	}
	return OfStage{Elements: eraseSeq(seq)}
}

// FromSeq2 returns a stage emitting the values of seq. The first non-nil
// error fails the stream.
func FromSeq2[T any](seq iter.Seq2[T, error]) Stage {
	if seq == nil {
		return OfStage{}
	}
	return OfStage{Elements: func(yield func(any, error) bool) {
		for v, err := range seq {
			if !yield(v, err) {
				return
			}
		}
	}}
}

func eraseSeq[T any](seq iter.Seq[T]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Failed returns a stage that fails the stream with err.
func Failed(err error) Stage {
	return FailedStage{Err: err}
}

// ExternalProducer returns a stage emitting what p publishes.
func ExternalProducer[T any](p rflow.Producer[T]) Stage {
	if p == nil {
		return ExternalProducerStage{}
	}
	return ExternalProducerStage{Producer: rflow.EraseProducer(p)}
}

// ExternalTransformer returns a stage routing elements through t.
func ExternalTransformer[In, Out any](t rflow.Transformer[In, Out]) Stage {
	if t == nil {
		return ExternalTransformerStage{}
	}
	return ExternalTransformerStage{Transformer: rflow.EraseTransformer(t)}
}

// ExternalConsumer returns a terminal stage handing the stream to c.
func ExternalConsumer[T any](c rflow.Consumer[T]) Stage {
	if c == nil {
		return ExternalConsumerStage{}
	}
	return ExternalConsumerStage{Consumer: rflow.EraseConsumer(c)}
}

// FindFirst returns a terminal stage resolving with the first element.
func FindFirst() Stage {
	return FindFirstStage{}
}

// Cancel returns a terminal stage cancelling its upstream right away.
func Cancel() Stage {
	return CancelStage{}
}

// Collect returns a terminal stage folding the stream with c.
func Collect[T, A, R any](c Collector[T, A, R]) Stage {
	if c.Supply == nil || c.Accumulate == nil || c.Finish == nil {
		return CollectStage{}
	}
	return CollectStage{Accumulator: c.erase()}
}
