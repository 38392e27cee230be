package events

//go:generate mockgen -destination=mocks/bus.go . ISubscription,IBus

import (
	"context"
	"sync"
)

// Name identifies a loader lifecycle event
type Name string

const (
	// LoadStart is emitted when the dispatch loop begins ticking
	LoadStart Name = "load-start"
	// LoadStop is emitted when the dispatch loop stops
	LoadStop Name = "load-stop"
	// Status carries the current loader counters
	Status Name = "status"
	// FileLoaded carries an item that finished its pipeline
	FileLoaded Name = "file-loaded"
	// FileError carries an item that failed permanently
	FileError Name = "file-error"
	// LoadComplete carries the cache snapshot after an error-free drain
	LoadComplete Name = "load-complete"
	// LoadTerminated is emitted when the queue drains with outstanding errors
	LoadTerminated Name = "load-terminated"
	// InteractionRequired is emitted when sound items start waiting for a user gesture
	InteractionRequired Name = "user-interaction-required"
)

// Event is one notification on the bus
type Event struct {
	Name    Name
	Payload interface{}
}

// ISubscription defines the contract for subscription objects
type ISubscription interface {
	// Chan returns a read-only channel for self-handling events
	Chan() <-chan Event
	// Cancel unsubscribes and closes the channel. Safe for repeated calls
	Cancel()
	// Watch starts a goroutine that calls cb on each event
	// When parentCtx finishes, the subscription is automatically cancelled
	Watch(parentCtx context.Context, cb func(Event)) ISubscription
}

// IBus defines the contract for the lifecycle event bus
type IBus interface {
	// Subscribe creates a subscription for the given event names;
	// with no names, the subscription receives every event
	Subscribe(names ...Name) ISubscription
	// Unsubscribe removes a subscription by its channel
	Unsubscribe(ch chan Event)
	// Emit sends the event to all matching subscribers (non-blocking if their channel is full)
	Emit(ctx context.Context, evt Event)
}

type Subscription struct {
	ch     chan Event
	bus    *Bus
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events.
func (s *Subscription) Chan() <-chan Event { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.bus.Unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each event.
// When parentCtx finishes, the subscription is automatically cancelled.
func (s *Subscription) Watch(parentCtx context.Context, cb func(Event)) ISubscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	go func(ctx context.Context) {
		defer s.Cancel() // cancel subscription on exit
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-s.ch:
				if !ok {
					return
				}
				cb(evt)
			}
		}
	}(ctx)

	return s
}

// Bus fans loader lifecycle events out to subscribers
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]map[Name]struct{}
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[chan Event]map[Name]struct{}),
	}
}

func (b *Bus) Subscribe(names ...Name) ISubscription {
	ch := make(chan Event, 64)

	var filter map[Name]struct{}
	if len(names) > 0 {
		filter = make(map[Name]struct{}, len(names))
		for _, n := range names {
			filter[n] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subscribers[ch] = filter
	b.mu.Unlock()

	return &Subscription{ch: ch, bus: b}
}

func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Emit sends the event to all matching subscribers (non-blocking if their channel is full).
func (b *Bus) Emit(ctx context.Context, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, filter := range b.subscribers {
		if filter != nil {
			if _, ok := filter[evt.Name]; !ok {
				continue
			}
		}

		select {
		case <-ctx.Done():
			// Stop sending notifications when the context is cancelled
			return
		case ch <- evt:
			// Notified successfully
		default:
			// Skip notification if the subscriber's channel is full (non-blocking)
		}
	}
}
