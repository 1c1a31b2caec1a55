package rstreams

import (
	"log/slog"

	"github.com/go-logr/logr"
)

// Option is a function that configures an Engine
type Option func(*Engine)

// WithLog sets the logger for the engine
var WithLog = func(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithLogr sets a logr logger for the engine
var WithLogr = func(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = slog.New(logr.ToSlogHandler(log))
	}
}

// WithRequestBatch sets how many elements are requested at a time from an
// external producer
var WithRequestBatch = func(n int) Option {
	return func(e *Engine) {
		e.requestBatch = n
	}
}

// WithRunIDs sets the generator of the ids that tag the log lines of each run
var WithRunIDs = func(gen func() string) Option {
	return func(e *Engine) {
		e.runID = gen
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
