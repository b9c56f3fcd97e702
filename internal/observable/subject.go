// Package observable is a small publish/subscribe primitive for immutable
// snapshots: one producer, any number of consumers, every consumer sees
// every value in publish order, starting from the latest one.
package observable

import "sync"

// Subject holds the latest value of T and fans it out.
//
// Values passed to Publish must not be modified afterwards.
type Subject[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []listener[T]
	subs      map[*Subscription[T]]struct{}
	nextID    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// New returns a Subject whose current value is initial.
func New[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[*Subscription[T]]struct{}),
	}
}

// Get returns the latest published value.
func (s *Subject[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish replaces the current value and delivers it. Listeners run
// synchronously, in registration order, before Publish returns;
// subscriptions are queued and never block the caller.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, l := range s.listeners {
		l.fn(v)
	}
	for sub := range s.subs {
		sub.push(v)
	}
}

// OnPublish registers fn to run inside every later Publish. fn must not
// call back into s. The returned func unregisters it.
func (s *Subject[T]) OnPublish(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addListenerLocked(fn)
}

// Watch calls fn with the current value and then inside every later
// Publish, with no value missed in between. Same rules as OnPublish.
func (s *Subject[T]) Watch(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.value)
	return s.addListenerLocked(fn)
}

func (s *Subject[T]) addListenerLocked(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribe returns a subscription whose channel first yields the current
// value and then every later one.
func (s *Subject[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription[T]{
		owner: s,
		out:   make(chan T),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	sub.push(s.value)
	s.subs[sub] = struct{}{}
	go sub.pump()
	return sub
}

func (s *Subject[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, sub)
}
