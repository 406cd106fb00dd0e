// Package broadcast keeps the set of live order-stream subscribers and fans
// events out to them. Nothing is stored or replayed.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"food-order-service/internal/domain"
	"food-order-service/internal/infra/events"

	"github.com/google/uuid"
)

const DefaultBuffer = 16

type Subscription struct {
	ID string
	C  <-chan []byte
}

// Hub is safe for concurrent use. Publish never blocks on a subscriber: a
// subscriber whose buffer is full is dropped and its channel closed.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]chan []byte
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: make(map[string]chan []byte), buffer: buffer}
}

// Subscribe registers a subscriber and queues an init frame for it.
func (h *Hub) Subscribe() Subscription {
	ch := make(chan []byte, h.buffer)
	if frame, err := json.Marshal(domain.NewOrderEvent(domain.EventInit, "")); err == nil {
		ch <- frame
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	slog.Debug("stream subscriber connected", "subscriber", id)
	return Subscription{ID: id, C: ch}
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id)
}

// remove must be called with h.mu held.
func (h *Hub) remove(id string) {
	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
}

// Publish serializes data once and offers it to every subscriber.
func (h *Hub) Publish(ctx context.Context, routingKey string, data any) error {
	frame, err := json.Marshal(data)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- frame:
		default:
			slog.Warn("stream subscriber too slow, dropping", "subscriber", id, "event", routingKey)
			h.remove(id)
		}
	}
	return nil
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.subs {
		h.remove(id)
	}
}

var _ events.PublisherInterface = (*Hub)(nil)
