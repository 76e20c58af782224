// Package schedule queues deferred callbacks for the host's event loop.
//
// A deferral runs on a later tick, after the host has finished handling
// the current event. Callbacks run on the goroutine that drains the
// queue, so they may touch single-threaded state freely. Deferrals are
// not individually cancellable; once the queue is closed, pending and
// future callbacks are dropped.
package schedule

import "sync"

// Scheduler defers callbacks to a later tick.
type Scheduler interface {
	// Defer queues fn and reports whether it was accepted.
	Defer(fn func()) bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithWake sets a function called after each accepted deferral. Hosts
// use it to interrupt a blocking event poll.
func WithWake(fn func()) Option {
	return func(q *Queue) {
		q.wake = fn
	}
}

// Queue is a FIFO of deferred callbacks. It is safe to Defer from any
// goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    func()
}

// New creates a queue.
func New(opts ...Option) *Queue {
	q := &Queue{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Defer queues fn for the next tick. It returns false once the queue is
// closed or when fn is nil.
func (q *Queue) Defer(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	wake := q.wake
	q.mu.Unlock()

	if wake != nil {
		wake()
	}
	return true
}

// Pending returns the number of queued callbacks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// RunPending runs the callbacks queued before the call, in order, and
// returns how many ran. Callbacks deferred while running wait for the
// next tick.
func (q *Queue) RunPending() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	ran := 0
	for _, fn := range batch {
		if q.Closed() {
			break
		}
		fn()
		ran++
	}
	return ran
}

// Drain runs ticks until the queue is empty or maxTicks have run, and
// returns the number of callbacks run. A maxTicks of zero or less means
// no limit.
func (q *Queue) Drain(maxTicks int) int {
	total := 0
	for tick := 0; maxTicks <= 0 || tick < maxTicks; tick++ {
		if q.Pending() == 0 {
			break
		}
		total += q.RunPending()
	}
	return total
}

// Close drops pending callbacks and rejects future ones. It is safe to
// call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
