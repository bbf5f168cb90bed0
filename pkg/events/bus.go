package events

import "sync"

// Type classifies automation notifications.
type Type int

const (
	TriggerFired Type = iota
	PlaybackStarted
	PlaybackFinished
	PlaybackError
)

// Notice is one automation notification with an optional payload.
type Notice struct {
	Type    Type
	Payload interface{}
}

// Bus distributes automation notices over channels. Publish never blocks:
// a subscriber that falls behind misses notices instead of stalling the
// trigger loop.
type Bus struct {
	subscribers map[Type][]chan Notice
	mu          sync.RWMutex
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Type][]chan Notice),
	}
}

// Subscribe returns a channel receiving notices of the given type.
func (b *Bus) Subscribe(t Type) <-chan Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Notice, 10)
	b.subscribers[t] = append(b.subscribers[t], ch)
	return ch
}

// SubscribeAll returns a channel receiving every notice type.
func (b *Bus) SubscribeAll() <-chan Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Notice, 20)
	for _, t := range []Type{TriggerFired, PlaybackStarted, PlaybackFinished, PlaybackError} {
		b.subscribers[t] = append(b.subscribers[t], ch)
	}
	return ch
}

// Publish broadcasts a notice to all subscribers of its type.
func (b *Bus) Publish(n Notice) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[n.Type] {
		select {
		case ch <- n:
		default:
			// Channel full, skip to prevent blocking
		}
	}
}

// Unsubscribe removes a subscriber channel.
func (b *Bus) Unsubscribe(ch <-chan Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[t] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := make(map[chan Notice]bool)
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}
	b.subscribers = make(map[Type][]chan Notice)
}
