package rkafka

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/birdayz/rstreams/rflow"
)

// TopicProducer emits the records polled from a Kafka client. Nothing is
// polled beyond the outstanding demand. The stream completes when the client
// is closed and fails on the first fetch error.
type TopicProducer struct {
	poller Poller
	cfg    config

	mu         sync.Mutex
	subscribed bool
}

var _ rflow.Producer[*kgo.Record] = (*TopicProducer)(nil)

func NewTopicProducer(poller Poller, opts ...Option) *TopicProducer {
	return &TopicProducer{poller: poller, cfg: apply(opts)}
}

// Subscribe starts polling on behalf of c. A TopicProducer serves a single
// subscription.
func (p *TopicProducer) Subscribe(c rflow.Consumer[*kgo.Record]) {
	p.mu.Lock()
	if p.subscribed {
		p.mu.Unlock()
		c.OnSubscribe(rflow.Inert)
		c.OnError(rflow.ErrAlreadySubscribed)
		return
	}
	p.subscribed = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s := &pollSubscription{
		p:      p,
		c:      c,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
	}
	c.OnSubscribe(s)
	go s.loop()
}

type pollSubscription struct {
	p      *TopicProducer
	c      rflow.Consumer[*kgo.Record]
	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}

	mu     sync.Mutex
	demand int64
	err    error
}

func (s *pollSubscription) Request(n int64) {
	s.mu.Lock()
	switch {
	case n <= 0:
		if s.err == nil {
			s.err = rflow.ErrNonPositiveRequest
		}
	case s.demand > math.MaxInt64-n:
		s.demand = math.MaxInt64
	default:
		s.demand += n
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *pollSubscription) Cancel() {
	s.cancel()
}

func (s *pollSubscription) loop() {
	defer s.cancel()
	log := s.p.cfg.log

	for {
		n, err := s.awaitDemand()
		if err != nil {
			s.c.OnError(err)
			return
		}
		if n == 0 {
			return
		}

		log.Debug("Polling Records", "max", n)
		f := s.p.poller.PollRecords(s.ctx, n)
		if s.ctx.Err() != nil {
			return
		}
		if f.IsClientClosed() {
			s.c.OnComplete()
			return
		}
		if err := fetchError(f); err != nil {
			log.Error("fetch error", "error", err)
			s.c.OnError(err)
			return
		}

		records := f.Records()
		if len(records) > n {
			s.c.OnError(fmt.Errorf("%w: polled %d records for a demand of %d", rflow.ErrDemandExceeded, len(records), n))
			return
		}
		s.mu.Lock()
		s.demand -= int64(len(records))
		s.mu.Unlock()

		for _, r := range records {
			if s.ctx.Err() != nil {
				return
			}
			s.c.OnNext(r)
		}
	}
}

// awaitDemand blocks until there is demand and returns how many records to
// poll. It returns 0 once the subscription is cancelled.
func (s *pollSubscription) awaitDemand() (int, error) {
	for {
		s.mu.Lock()
		err, demand := s.err, s.demand
		s.mu.Unlock()

		switch {
		case s.ctx.Err() != nil:
			return 0, nil
		case err != nil:
			return 0, err
		case demand > 0:
			return int(min(demand, int64(s.p.cfg.maxPollRecords))), nil
		}

		select {
		case <-s.wake:
		case <-s.ctx.Done():
			return 0, nil
		}
	}
}

// fetchError returns the first fetch error that is not a poll timeout.
func fetchError(f kgo.Fetches) error {
	for _, fe := range f.Errors() {
		if fe.Err == nil || errors.Is(fe.Err, context.DeadlineExceeded) || errors.Is(fe.Err, context.Canceled) {
			continue
		}
		return fmt.Errorf("fetch error on topic %s, partition %d: %w", fe.Topic, fe.Partition, fe.Err)
	}
	return nil
}
