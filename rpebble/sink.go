package rpebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"go.uber.org/multierr"

	"github.com/birdayz/rstreams/rgraph"
)

// ErrEncode wraps a failure to turn an element into a key/value pair.
var ErrEncode = errors.New("rpebble: encode failed")

// Sink returns a terminal stage writing every element into one batch per run.
// The batch is committed when the stream completes, so a failed stream
// writes nothing. A nil value deletes the key. The run resolves with the
// number of elements written.
func Sink[T any](db *pebble.DB, encode func(T) (key, value []byte, err error)) rgraph.Stage {
	if db == nil || encode == nil {
		return rgraph.Collect(rgraph.Collector[T, *pending, int]{})
	}
	return rgraph.Collect(rgraph.Collector[T, *pending, int]{
		Supply: func() (*pending, error) {
			return &pending{batch: db.NewBatch()}, nil
		},
		Accumulate: func(p *pending, v T) (*pending, error) {
			k, val, err := encode(v)
			if err != nil {
				return p, fmt.Errorf("%w: %w", ErrEncode, err)
			}
			if val == nil {
				err = p.batch.Delete(k, nil)
			} else {
				err = p.batch.Set(k, val, nil)
			}
			if err != nil {
				return p, err
			}
			p.n++
			return p, nil
		},
		Finish: func(p *pending) (int, error) {
			err := p.batch.Commit(pebble.Sync)
			if err != nil {
				err = fmt.Errorf("rpebble: commit batch: %w", err)
			}
			return p.n, multierr.Append(err, p.batch.Close())
		},
		Discard: func(p *pending) {
			_ = p.batch.Close()
		},
	})
}

type pending struct {
	batch *pebble.Batch
	n     int
}
