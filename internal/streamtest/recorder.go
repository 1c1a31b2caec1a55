// Package streamtest provides consumers and producers that record the
// signals they exchange with a stream and flag every broken protocol rule.
package streamtest

import (
	"slices"
	"sync"
	"testing"
	"time"
)

// Recorder is an ordered log of events shared by several probes.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(event string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Index returns the position of the first occurrence of event, or -1.
func (r *Recorder) Index(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Index(r.events, event)
}

// Timeout bounds every wait in this package.
const Timeout = 5 * time.Second

// Await fails the test if ch is not closed within Timeout.
func Await(t testing.TB, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(Timeout):
		t.Fatal("timed out waiting for stream")
	}
}
