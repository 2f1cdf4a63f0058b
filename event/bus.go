package event

import "sync"

// Bus fans events out to subscriber channels. Sends are non-blocking: a
// subscriber that falls behind loses events rather than stalling the
// emitting module.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a new buffered channel that will receive every event
// emitted after this call. The channel is never closed by the bus.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *Bus) Emit(evt Event) {
	b.mu.RLock()
	subs := append([]chan Event(nil), b.subs...)
	b.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
