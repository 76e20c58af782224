package event

import (
	"fmt"
	"slices"
	"sync"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityHigh is for state that other handlers read, such as host views.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and change callbacks that run last.
	PriorityLow Priority = 300
)

// HandlerFunc handles a type-erased event. Use PayloadOf to read it.
type HandlerFunc func(ev any) error

// PanicHandler is called when a handler panics.
type PanicHandler func(ev any, recovered any)

// Bus delivers events synchronously to subscribers in priority order.
// A Bus is safe for concurrent use, though the session only publishes from
// one goroutine.
type Bus struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextID  uint64
	closed  bool
	onPanic PanicHandler
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the callback invoked when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is a registered handler. Cancel it to stop delivery.
type Subscription struct {
	id       uint64
	pattern  Topic
	priority Priority
	once     bool
	handler  HandlerFunc
	bus      *Bus
}

// SubscriptionOption configures a Subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// Once removes the subscription after its first delivery.
func Once() SubscriptionOption {
	return func(s *Subscription) {
		s.once = true
	}
}

// Topic returns the subscribed pattern.
func (s *Subscription) Topic() Topic { return s.pattern }

// Cancel removes the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.bus.remove(s.id)
}

// Subscribe registers fn for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if pattern == "" {
		return nil, ErrInvalidTopic
	}
	sub := &Subscription{pattern: pattern, priority: PriorityNormal, handler: fn, bus: b}
	for _, opt := range opts {
		opt(sub)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)
	slices.SortStableFunc(b.subs, func(x, y *Subscription) int { return int(x.priority - y.priority) })
	return sub, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s *Subscription) bool { return s.id == id })
}

// Publish delivers ev to every matching subscriber and returns the first
// handler error. Every handler runs even when an earlier one fails.
func (b *Bus) Publish(ev Topical) error {
	t := ev.EventTopic()
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %q", err, t)
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	var matched []*Subscription
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	var first error
	for _, s := range matched {
		if s.once {
			s.Cancel()
		}
		if err := b.deliver(s, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (b *Bus) deliver(s *Subscription, ev any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if b.onPanic != nil {
				b.onPanic(ev, r)
			}
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return s.handler(ev)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops every subscription. Later calls to Publish and Subscribe
// return ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
}
