// Package ready provides sources of the "safe to start" signal.
//
// A source may fire any number of times; Once turns it into a one-shot
// trigger that unsubscribes itself after the first event.
package ready

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Handler is called when a source fires.
type Handler func()

// Source delivers ready events to subscribed handlers.
type Source interface {
	Subscribe(h Handler) (Subscription, error)
}

// Subscription detaches a handler from its source.
type Subscription interface {
	Unsubscribe()
}

// Once subscribes fn to src, calls it on the first event only and then
// unsubscribes.
func Once(src Source, fn func()) (Subscription, error) {
	o := &onceSubscription{}
	sub, err := src.Subscribe(func() {
		if !o.fire() {
			return
		}
		fn()
		o.Unsubscribe()
	})
	if err != nil {
		return nil, err
	}
	o.set(sub)
	return o, nil
}

type onceSubscription struct {
	mu        sync.Mutex
	sub       Subscription
	fired     bool
	cancelled bool
}

func (o *onceSubscription) fire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fired || o.cancelled {
		return false
	}
	o.fired = true
	return true
}

// set stores the source subscription; the handler may already have run.
func (o *onceSubscription) set(sub Subscription) {
	o.mu.Lock()
	if o.cancelled {
		o.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	o.sub = sub
	o.mu.Unlock()
}

func (o *onceSubscription) Unsubscribe() {
	o.mu.Lock()
	o.cancelled = true
	sub := o.sub
	o.sub = nil
	o.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Immediate fires once, on its own goroutine, right after Subscribe.
type Immediate struct{}

// Subscribe implements Source.
func (Immediate) Subscribe(h Handler) (Subscription, error) {
	sub := &flagSubscription{}
	go func() {
		if !sub.cancelled.Load() {
			h()
		}
	}()
	return sub, nil
}

type flagSubscription struct {
	cancelled atomic.Bool
}

func (s *flagSubscription) Unsubscribe() {
	s.cancelled.Store(true)
}

// Manual fires on demand. It is used by embedders that own the host's
// ready event, and by tests.
type Manual struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

// NewManual creates a manual source.
func NewManual() *Manual {
	return &Manual{handlers: make(map[int]Handler)}
}

// Subscribe implements Source.
func (m *Manual) Subscribe(h Handler) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.handlers[id] = h
	return manualSubscription{m: m, id: id}, nil
}

// Fire calls every subscribed handler on the calling goroutine.
func (m *Manual) Fire() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.handlers))
	for id := range m.handlers {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		m.mu.Lock()
		h, ok := m.handlers[id]
		m.mu.Unlock()
		if ok {
			h()
		}
	}
}

// Subscribers returns the number of attached handlers.
func (m *Manual) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

type manualSubscription struct {
	m  *Manual
	id int
}

func (s manualSubscription) Unsubscribe() {
	s.m.mu.Lock()
	delete(s.m.handlers, s.id)
	s.m.mu.Unlock()
}
