package engine

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/birdayz/rstreams/internal/streamtest"
	"github.com/birdayz/rstreams/rflow"
	"github.com/birdayz/rstreams/rgraph"
)

func TestMap(t *testing.T) {
	e := New(Config{})

	t.Run("preserves order", func(t *testing.T) {
		got, err := collect(t, e,
			rgraph.Of(1, 2, 3),
			rgraph.Map(rgraph.Lift(func(v int) string { return fmt.Sprint(v * 10) })),
		)
		assert.NoError(t, err)
		assert.Equal(t, []any{"10", "20", "30"}, got)
	})

	t.Run("error fails the stream and cancels upstream", func(t *testing.T) {
		src := streamtest.NewSeqProducer(upTo(100)...)
		_, err := collect(t, e,
			rgraph.ExternalProducer(src),
			rgraph.Map(func(v int) (int, error) {
				if v == 2 {
					return 0, errBoom
				}
				return v, nil
			}),
		)
		assert.IsError(t, err, errBoom)
		assert.True(t, src.Cancelled())
	})

	t.Run("panic becomes a stream error", func(t *testing.T) {
		_, err := collect(t, e,
			rgraph.Of(1),
			rgraph.Map(func(int) (int, error) { panic("mapper exploded") }),
		)
		assert.IsError(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "mapper exploded")
	})

	t.Run("wrong element type", func(t *testing.T) {
		_, err := collect(t, e,
			rgraph.Of("one"),
			rgraph.Map(rgraph.Lift(func(v int) int { return v })),
		)
		assert.IsError(t, err, rflow.ErrElementType)
	})
}

func TestFilter(t *testing.T) {
	e := New(Config{})

	t.Run("keeps accepted elements", func(t *testing.T) {
		got, err := collect(t, e,
			rgraph.Of(1, 2, 3, 4, 5),
			rgraph.FilterFunc(func(v int) bool { return v%2 == 1 }),
		)
		assert.NoError(t, err)
		assert.Equal(t, ints(1, 3, 5), got)
	})

	t.Run("predicate state is per run", func(t *testing.T) {
		distinct := rgraph.Filter(func() func(int) (bool, error) {
			seen := map[int]bool{}
			return func(v int) (bool, error) {
				if seen[v] {
					return false, nil
				}
				seen[v] = true
				return true, nil
			}
		})
		g := rgraph.Must(rgraph.Of(1, 1, 2, 1, 3), distinct, rgraph.Collect(rgraph.ToSlice[int]()))
		for range 2 {
			f, err := e.RealizeAndRun(g)
			assert.NoError(t, err)
			got, err := await(t, f)
			assert.NoError(t, err)
			assert.Equal(t, any([]int{1, 2, 3}), got)
		}
	})

	t.Run("nil predicate from factory", func(t *testing.T) {
		_, err := collect(t, e,
			rgraph.Of(1),
			rgraph.Filter(func() func(int) (bool, error) { return nil }),
		)
		assert.IsError(t, err, ErrNilResult)
	})

	t.Run("predicate error", func(t *testing.T) {
		_, err := collect(t, e,
			rgraph.Of(1, 2),
			rgraph.Filter(func() func(int) (bool, error) {
				return func(int) (bool, error) { return false, errBoom }
			}),
		)
		assert.IsError(t, err, errBoom)
	})
}

func TestTakeWhile(t *testing.T) {
	e := New(Config{})
	below3 := func(v int) bool { return v < 3 }

	t.Run("exclusive", func(t *testing.T) {
		src := streamtest.NewSeqProducer(upTo(100)...)
		got, err := collect(t, e, rgraph.ExternalProducer(src), rgraph.TakeWhileFunc(below3, false))
		assert.NoError(t, err)
		assert.Equal(t, ints(1, 2), got)
		assert.True(t, src.Cancelled())
	})

	t.Run("inclusive", func(t *testing.T) {
		got, err := collect(t, e, rgraph.Of(1, 2, 3, 4, 5), rgraph.TakeWhileFunc(below3, true))
		assert.NoError(t, err)
		assert.Equal(t, ints(1, 2, 3), got)
	})

	t.Run("upstream ends first", func(t *testing.T) {
		got, err := collect(t, e, rgraph.Of(1, 2), rgraph.TakeWhileFunc(below3, true))
		assert.NoError(t, err)
		assert.Equal(t, ints(1, 2), got)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := collect(t, e, rgraph.Of(1, 2, 3, 4), rgraph.Limit[int](3))
		assert.NoError(t, err)
		assert.Equal(t, ints(1, 2, 3), got)
	})

	t.Run("limit zero never pulls", func(t *testing.T) {
		src := streamtest.NewSeqProducer(upTo(100)...)
		got, err := collect(t, e, rgraph.ExternalProducer(src), rgraph.Limit[int](0))
		assert.NoError(t, err)
		assert.Equal(t, 0, len(got))
		assert.True(t, src.Cancelled())
		assert.Equal(t, int64(0), src.Requested())
		assert.Equal(t, 0, src.Emitted())
	})
}

func TestOfAndFailed(t *testing.T) {
	e := New(Config{})

	t.Run("empty", func(t *testing.T) {
		got, err := collect(t, e, rgraph.Of[int]())
		assert.NoError(t, err)
		assert.Equal(t, 0, len(got))
	})

	t.Run("sequence error", func(t *testing.T) {
		got := 0
		seq := func(yield func(int, error) bool) {
			if !yield(1, nil) {
				return
			}
			yield(0, errBoom)
		}
		_, err := runGraph(t, e,
			rgraph.FromSeq2(seq),
			rgraph.Collect(rgraph.Collector[int, int, int]{
				Supply:     func() (int, error) { return 0, nil },
				Accumulate: func(n, _ int) (int, error) { got++; return n + 1, nil },
				Finish:     func(n int) (int, error) { return n, nil },
			}),
		)
		assert.IsError(t, err, errBoom)
		assert.Equal(t, 1, got)
	})

	t.Run("failed", func(t *testing.T) {
		_, err := collect(t, e, rgraph.Failed(errBoom))
		assert.IsError(t, err, errBoom)
	})
}

func TestFindFirst(t *testing.T) {
	e := New(Config{})

	t.Run("first element", func(t *testing.T) {
		v, err := runGraph(t, e, rgraph.Of(7, 8), rgraph.FindFirst())
		assert.NoError(t, err)
		assert.Equal(t, any(rflow.Some[any](7)), v)
	})

	t.Run("empty stream", func(t *testing.T) {
		v, err := runGraph(t, e, rgraph.Of[int](), rgraph.FindFirst())
		assert.NoError(t, err)
		assert.False(t, v.(rflow.Optional[any]).IsPresent())
	})

	t.Run("requests nothing beyond the first element", func(t *testing.T) {
		e := New(Config{RequestBatch: 1})
		src := streamtest.NewSeqProducer(upTo(100)...)
		v, err := runGraph(t, e, rgraph.ExternalProducer(src), rgraph.FindFirst())
		assert.NoError(t, err)
		assert.Equal(t, any(rflow.Some[any](1)), v)
		assert.Equal(t, int64(1), src.Requested())
		assert.Equal(t, 1, src.Emitted())
		assert.True(t, src.Cancelled())
	})

	t.Run("cancels upstream after the first element", func(t *testing.T) {
		src := streamtest.NewSeqProducer(make([]int, 100)...)
		_, err := runGraph(t, e, rgraph.ExternalProducer(src), rgraph.FindFirst())
		assert.NoError(t, err)
		assert.True(t, src.Cancelled())
	})

	t.Run("error", func(t *testing.T) {
		_, err := runGraph(t, e, rgraph.Failed(errBoom), rgraph.FindFirst())
		assert.IsError(t, err, errBoom)
	})
}

func TestCollect(t *testing.T) {
	t.Run("failure at the k-th element requests nothing more", func(t *testing.T) {
		e := New(Config{RequestBatch: 1})
		src := streamtest.NewSeqProducer(1, 2, 3, 4, 5, 6)

		var discarded []int
		_, err := runGraph(t, e,
			rgraph.ExternalProducer(src),
			rgraph.Collect(rgraph.Collector[int, []int, int]{
				Supply: func() ([]int, error) { return nil, nil },
				Accumulate: func(acc []int, v int) ([]int, error) {
					if v == 3 {
						return acc, errBoom
					}
					return append(acc, v), nil
				},
				Finish:  func(acc []int) (int, error) { return len(acc), nil },
				Discard: func(acc []int) { discarded = acc },
			}),
		)
		assert.IsError(t, err, errBoom)
		assert.True(t, src.Cancelled())
		assert.Equal(t, int64(3), src.Requested())
		assert.Equal(t, 3, src.Emitted())
		assert.Equal(t, []int{1, 2}, discarded)
	})

	t.Run("supply error", func(t *testing.T) {
		e := New(Config{})
		src := streamtest.NewSeqProducer(1)
		_, err := runGraph(t, e,
			rgraph.ExternalProducer(src),
			rgraph.Collect(rgraph.Collector[int, int, int]{
				Supply:     func() (int, error) { return 0, errBoom },
				Accumulate: func(n, _ int) (int, error) { return n, nil },
				Finish:     func(n int) (int, error) { return n, nil },
			}),
		)
		assert.IsError(t, err, errBoom)
		assert.True(t, src.Cancelled())
		assert.Equal(t, int64(0), src.Requested())
	})

	t.Run("finish error", func(t *testing.T) {
		e := New(Config{})
		_, err := runGraph(t, e,
			rgraph.Of(1),
			rgraph.Collect(rgraph.Collector[int, int, int]{
				Supply:     func() (int, error) { return 0, nil },
				Accumulate: func(n, _ int) (int, error) { return n, nil },
				Finish:     func(int) (int, error) { return 0, errBoom },
			}),
		)
		assert.IsError(t, err, errBoom)
	})

	t.Run("upstream failing before start supplies nothing", func(t *testing.T) {
		e := New(Config{})
		for _, upstream := range [][]rgraph.Stage{
			{rgraph.Failed(errBoom)},
			{rgraph.Of(1, 2), rgraph.Filter(func() func(int) (bool, error) { panic("factory exploded") })},
		} {
			supplied, discarded := 0, 0
			_, err := runGraph(t, e, append(upstream, rgraph.Collect(rgraph.Collector[int, int, int]{
				Supply:     func() (int, error) { supplied++; return 0, nil },
				Accumulate: func(n, _ int) (int, error) { return n + 1, nil },
				Finish:     func(n int) (int, error) { return n, nil },
				Discard:    func(int) { discarded++ },
			}))...)
			assert.Error(t, err)
			assert.Equal(t, supplied, discarded)
			assert.Equal(t, 0, supplied)
		}
	})

	t.Run("upstream failure discards", func(t *testing.T) {
		e := New(Config{})
		discarded := false
		_, err := runGraph(t, e,
			rgraph.ExternalProducer(streamtest.NewSeqProducer(1).FailWith(errBoom)),
			rgraph.Collect(rgraph.Collector[int, int, int]{
				Supply:     func() (int, error) { return 0, nil },
				Accumulate: func(n, _ int) (int, error) { return n + 1, nil },
				Finish:     func(n int) (int, error) { return n, nil },
				Discard:    func(int) { discarded = true },
			}),
		)
		assert.IsError(t, err, errBoom)
		assert.True(t, discarded)
	})
}

func TestCancel(t *testing.T) {
	e := New(Config{})
	src := streamtest.NewSeqProducer(1, 2, 3)

	v, err := runGraph(t, e, rgraph.ExternalProducer(src), rgraph.Cancel())
	assert.NoError(t, err)
	assert.Equal(t, any(struct{}{}), v)
	assert.True(t, src.Cancelled())
	assert.Equal(t, int64(0), src.Requested())
}
