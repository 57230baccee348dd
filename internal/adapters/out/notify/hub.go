// Package notify provides the in-process event fan-out used to push PO
// change notifications to connected clients. Publishing never blocks the
// caller: slow subscribers drop events instead of stalling command handlers.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Event is one published notification.
type Event struct {
	Name    string
	Payload any
}

// Hub implements EventPublisher by fanning events out to all current
// subscribers. Subscribers receive events on buffered channels; an event that
// does not fit a subscriber's buffer is dropped for that subscriber only.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

const subscriberBufferSize = 16

// NewHub creates an event hub with no subscribers.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its event channel together
// with an unsubscribe function. The unsubscribe function closes the channel
// and may be called once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish delivers the event to every subscriber without blocking.
func (h *Hub) Publish(ctx context.Context, event string, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for ch := range h.subscribers {
		select {
		case ch <- Event{Name: event, Payload: payload}:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		h.logger.WarnContext(ctx, "dropped event for slow subscribers",
			slog.String("event", event),
			slog.Int("dropped", dropped),
		)
	}

	return nil
}
