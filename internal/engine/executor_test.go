package engine

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestExecutor(t *testing.T) {
	t.Run("events never overlap", func(t *testing.T) {
		var (
			ex      executor
			active  atomic.Int32
			overlap atomic.Bool
			count   atomic.Int32
			wg      sync.WaitGroup
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 1000 {
					ex.execute(func() {
						if active.Add(1) > 1 {
							overlap.Store(true)
						}
						count.Add(1)
						active.Add(-1)
					})
				}
			}()
		}
		wg.Wait()
		assert.False(t, overlap.Load())
		assert.Equal(t, int32(8000), count.Load())
	})

	t.Run("nested events run after the current one", func(t *testing.T) {
		var ex executor
		var order []string
		ex.execute(func() {
			ex.execute(func() { order = append(order, "inner") })
			order = append(order, "outer")
		})
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("recovers after a panic", func(t *testing.T) {
		var ex executor
		assert.Panics(t, func() { ex.execute(func() { panic("defect") }) })
		ran := false
		ex.execute(func() { ran = true })
		assert.True(t, ran)
	})
}
