package status

import (
	"sync"

	"github.com/lattice-dds/rtps/pkg/rtps"
)

// Event is one status-changed notification: which entity, which kind, and
// an opaque snapshot value (one of the Read*Status results) the
// subscriber type-asserts.
type Event struct {
	Entity rtps.Guid
	Kind   Kind
	Value  interface{}
}

// Subscription is a channel that receives status events.
type Subscription chan Event

// Broker distributes status events to listener-delivery tasks. Adapted
// from the teacher's event bus: a buffered intake channel drained by a
// broadcast loop, non-blocking publish, and per-subscriber buffers that
// drop rather than block a slow listener.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[Subscription]bool
	eventCh     chan Event
	stopCh      chan struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscription]bool),
		eventCh:     make(chan Event, 100),
		stopCh:      make(chan struct{}),
	}
}

func (b *Broker) Start() { go b.run() }

func (b *Broker) Stop() { close(b.stopCh) }

// Subscribe returns a new per-subscriber channel, buffered so a burst of
// statuses does not block the broadcast loop.
func (b *Broker) Subscribe() Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := make(Subscription, 50)
	b.subscribers[sub] = true
	return sub
}

func (b *Broker) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub)
}

// Publish enqueues an event for broadcast; it never blocks past Stop().
func (b *Broker) Publish(ev Event) {
	select {
	case b.eventCh <- ev:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case ev := <-b.eventCh:
			b.broadcast(ev)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers {
		select {
		case sub <- ev:
		default:
		}
	}
}
