// Package eventbus implements HushNode's in-process domain event bus
// (spec §4.A). Subscribers register for specific event kinds; delivery to a
// single subscriber is strictly ordered (handler n+1 never starts before
// handler n returns), while independent subscribers never block one another.
//
// The per-subscriber goroutine-plus-buffered-channel shape is grounded on the
// pack's pub-sub reference implementation; the global-accessor convenience
// (Init/Bus) mirrors Synnergy's core/event_management.go singleton idiom.
package eventbus

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "eventbus")

// Event is any domain event published on the bus. Kind is the dispatch key;
// subscribers register against it.
type Event interface {
	Kind() string
}

// Handler processes one event. A handler that returns an error is logged but
// never stops the bus or other subscribers (spec §4.A "a panic/fail inside a
// handler is logged and does not tear down other handlers").
type Handler func(ctx context.Context, ev Event) error

const subscriberBuffer = 256

// subscriber owns one buffered channel and exactly one worker goroutine, so
// events reach Handler in publish order and a slow handler never blocks the
// publisher from notifying other subscribers.
type subscriber struct {
	id      uint64
	handler Handler
	ch      chan Event
}

// Bus is a typed, in-process pub-sub dispatcher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	nextID      uint64
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// New creates a Bus whose subscriber workers run until Close is called.
func New() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		subscribers: make(map[string][]*subscriber),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Subscribe registers handler for events of the given kind. Each call spawns
// one dedicated worker goroutine that serialises delivery to handler.
func (b *Bus) Subscribe(kind string, handler Handler) {
	b.mu.Lock()
	b.nextID++
	sub := &subscriber{
		id:      b.nextID,
		handler: handler,
		ch:      make(chan Event, subscriberBuffer),
	}
	b.subscribers[kind] = append(b.subscribers[kind], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go b.run(sub)
}

func (b *Bus) run(sub *subscriber) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case ev, ok := <-sub.ch:
			if !ok {
				return
			}
			b.invoke(sub, ev)
		}
	}
}

func (b *Bus) invoke(sub *subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"subscriber": sub.id,
				"kind":       ev.Kind(),
				"panic":      r,
			}).Error("event handler panicked")
		}
	}()
	if err := sub.handler(b.ctx, ev); err != nil {
		log.WithFields(logrus.Fields{
			"subscriber": sub.id,
			"kind":       ev.Kind(),
			"error":      err,
		}).Error("event handler returned error")
	}
}

// Publish routes ev to every subscriber registered for ev.Kind(). Publish
// itself never blocks on a handler running; it only blocks briefly if a
// subscriber's own buffer is full, exerting backpressure on the publisher
// without affecting other subscribers' ordering.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := b.subscribers[ev.Kind()]
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		case <-b.ctx.Done():
			return
		}
	}
}

// Close stops all subscriber workers and waits for in-flight handlers to
// return. Safe to call once during shutdown.
func (b *Bus) Close() {
	b.cancel()
	b.wg.Wait()
}
