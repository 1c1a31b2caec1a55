package engine

import "sync"

// executor runs the events of one run strictly one after another. An event
// submitted while another is running is queued and drained by the goroutine
// already running, so events never overlap and never nest.
type executor struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

func (e *executor) execute(fn func()) {
	e.mu.Lock()
	e.queue = append(e.queue, fn)
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.drain()
}

func (e *executor) drain() {
	// An event that panics is an engine defect. Hand the queue to the next
	// caller instead of wedging the run, then let the panic continue.
	defer func() {
		if r := recover(); r != nil {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			panic(r)
		}
	}()

	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}
		next := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		next()
	}
}
