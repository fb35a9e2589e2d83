// Package events implements the publish/subscribe channel used to report
// store changes and sync progress to the application.
package events

import (
	"context"
	"sync"
)

//go:generate moq -out publisher_mock.go . Publisher

// Publisher is the side of the bus the sync engine calls into.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Handler receives events in publish order.
type Handler func(event Event)

// Bus delivers every published event to every subscriber.
// Publish never waits for handlers: each subscriber drains its own FIFO
// queue in a dedicated goroutine, so a slow handler delays only itself.
type Bus struct {
	subscribers map[int]*subscriber
	nextID      int
	mu          sync.RWMutex
	closed      bool
}

var _ Publisher = (*Bus)(nil)

// NewBus creates an event bus
func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]*subscriber)}
}

// Subscribe registers handler and returns a function that removes it.
// Events already queued for the subscriber are still delivered.
func (b *Bus) Subscribe(handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber(handler)
	if b.closed {
		sub.close()
		return func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = sub

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			sub.close()
		})
	}
}

// Publish queues event for every current subscriber.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subscribers {
		sub.push(event)
	}
}

// Close stops accepting events and waits until every subscriber has
// drained its queue.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.subscribers))
	for id, sub := range b.subscribers {
		subs = append(subs, sub)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
		<-sub.done
	}
}

// subscriber держит очередь событий одного обработчика
type subscriber struct {
	handler Handler
	cond    *sync.Cond
	done    chan struct{}
	queue   []Event
	mu      sync.Mutex
	closed  bool
}

func newSubscriber(handler Handler) *subscriber {
	s := &subscriber{
		handler: handler,
		done:    make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

func (s *subscriber) push(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, event)
	s.cond.Signal()
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cond.Signal()
}

func (s *subscriber) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		event := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.handler(event)
	}
}
