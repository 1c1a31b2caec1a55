package rkafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/birdayz/rstreams/rflow"
)

// ErrEncode wraps a failure to turn an element into a record.
var ErrEncode = errors.New("rkafka: encode failed")

// TopicConsumer produces every element it receives to a Kafka topic. It keeps
// a bounded number of produce requests in flight and requests one element per
// ack, so a slow broker slows the stream down.
type TopicConsumer[T any] struct {
	w      Writer
	topic  string
	encode func(T) (*kgo.Record, error)
	cfg    config

	ctx    context.Context
	cancel context.CancelFunc
	result *rflow.Promise[int]

	mu           sync.Mutex
	sub          rflow.Subscription
	inFlight     int
	produced     int
	upstreamDone bool
	failed       bool
}

var _ rflow.Consumer[string] = (*TopicConsumer[string])(nil)

// NewTopicConsumer creates a consumer writing to topic. Records returned by
// encode without a topic are sent to topic.
func NewTopicConsumer[T any](w Writer, topic string, encode func(T) (*kgo.Record, error), opts ...Option) *TopicConsumer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &TopicConsumer[T]{
		w:      w,
		topic:  topic,
		encode: encode,
		cfg:    apply(opts),
		ctx:    ctx,
		cancel: cancel,
		result: rflow.NewPromise[int](),
	}
}

// Done resolves with the number of records produced once the stream has
// completed and every record is acked.
func (c *TopicConsumer[T]) Done() rflow.Future[int] {
	return c.result
}

func (c *TopicConsumer[T]) OnSubscribe(s rflow.Subscription) {
	c.mu.Lock()
	if c.sub != nil || c.failed {
		c.mu.Unlock()
		s.Cancel()
		return
	}
	c.sub = s
	c.mu.Unlock()

	s.Request(int64(c.cfg.maxInFlight))
}

func (c *TopicConsumer[T]) OnNext(v T) {
	rec, err := c.encode(v)
	if err == nil && rec == nil {
		err = errors.New("no record")
	}
	if err != nil {
		c.fail(fmt.Errorf("%w: %w", ErrEncode, err), true)
		return
	}
	if rec.Topic == "" {
		rec.Topic = c.topic
	}

	c.mu.Lock()
	if c.failed {
		c.mu.Unlock()
		return
	}
	c.inFlight++
	c.mu.Unlock()

	c.w.Produce(c.ctx, rec, c.acked)
}

func (c *TopicConsumer[T]) acked(r *kgo.Record, err error) {
	if err != nil {
		c.fail(fmt.Errorf("produce to %s: %w", r.Topic, err), true)
		return
	}

	c.mu.Lock()
	c.inFlight--
	c.produced++
	if c.failed {
		c.mu.Unlock()
		return
	}
	if c.upstreamDone {
		done, produced := c.inFlight == 0, c.produced
		c.mu.Unlock()
		if done {
			c.finish(produced)
		}
		return
	}
	sub := c.sub
	c.mu.Unlock()

	sub.Request(1)
}

func (c *TopicConsumer[T]) OnError(err error) {
	c.fail(err, false)
}

func (c *TopicConsumer[T]) OnComplete() {
	c.mu.Lock()
	c.upstreamDone = true
	done, produced := c.inFlight == 0 && !c.failed, c.produced
	c.mu.Unlock()

	if done {
		c.finish(produced)
	}
}

func (c *TopicConsumer[T]) finish(produced int) {
	c.cfg.log.Debug("produced records", "topic", c.topic, "count", produced)
	c.cancel()
	c.result.Resolve(produced)
}

// fail rejects the result. cancelUpstream is set for failures that originate
// here rather than in the stream.
func (c *TopicConsumer[T]) fail(err error, cancelUpstream bool) {
	c.mu.Lock()
	if c.failed {
		c.mu.Unlock()
		return
	}
	c.failed = true
	sub := c.sub
	c.mu.Unlock()

	c.cfg.log.Error("topic consumer failed", "topic", c.topic, "error", err)
	if cancelUpstream && sub != nil {
		sub.Cancel()
	}
	c.cancel()
	c.result.Reject(err)
}
