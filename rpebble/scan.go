// Package rpebble reads and writes Pebble databases as streams.
package rpebble

import (
	"iter"

	"github.com/cockroachdb/pebble"

	"github.com/birdayz/rstreams/rgraph"
)

// KV is a key/value pair read from a database. Both slices are owned by the
// receiver.
type KV struct {
	Key   []byte
	Value []byte
}

// Scan returns a source graph emitting the pairs in [lower, upper) in key
// order. A nil bound is open. Every run opens its own iterator and closes it
// on completion, failure or cancellation.
func Scan(db *pebble.DB, lower, upper []byte) rgraph.Graph {
	return rgraph.Must(rgraph.FromSeq2(scan(db, lower, upper)))
}

func scan(db *pebble.DB, lower, upper []byte) iter.Seq2[KV, error] {
	return func(yield func(KV, error) bool) {
		it := db.NewIter(&pebble.IterOptions{
			LowerBound: lower,
			UpperBound: upper,
		})
		closed := false
		defer func() {
			if !closed {
				_ = it.Close()
			}
		}()

		for it.First(); it.Valid(); it.Next() {
			val, err := it.ValueAndErr()
			if err != nil {
				yield(KV{}, err)
				return
			}
			kv := KV{Key: clone(it.Key()), Value: clone(val)}
			if !yield(kv, nil) {
				return
			}
		}

		closed = true
		if err := it.Close(); err != nil {
			yield(KV{}, err)
		}
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
