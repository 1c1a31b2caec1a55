// Package rkafka connects Kafka topics to reactive streams through franz-go:
// a TopicProducer polls records as downstream demand allows, a TopicConsumer
// produces the elements it receives and requests more as writes are acked.
package rkafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Poller is the part of *kgo.Client a TopicProducer uses.
type Poller interface {
	PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches
}

// Writer is the part of *kgo.Client a TopicConsumer uses.
type Writer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

var (
	_ Poller = (*kgo.Client)(nil)
	_ Writer = (*kgo.Client)(nil)
)

type config struct {
	log            *slog.Logger
	maxPollRecords int
	maxInFlight    int
}

func defaultConfig() config {
	return config{
		log:            slog.New(slog.DiscardHandler),
		maxPollRecords: 10000,
		maxInFlight:    100,
	}
}

// Option configures a TopicProducer or TopicConsumer
type Option func(*config)

// WithLog sets the logger
var WithLog = func(log *slog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithMaxPollRecords caps the records fetched by a single poll
var WithMaxPollRecords = func(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPollRecords = n
		}
	}
}

// WithMaxInFlight caps the produce requests awaiting an ack
var WithMaxInFlight = func(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxInFlight = n
		}
	}
}

func apply(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
