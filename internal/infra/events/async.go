package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultAsyncBuffer  = 256
	DefaultAsyncTimeout = 5 * time.Second
)

var ErrQueueFull = errors.New("event queue full, dropped")

type queued struct {
	routingKey string
	data       any
}

// Async hands events to a slow publisher from its own goroutine. Publish
// never blocks: when the queue is full the event is dropped.
type Async struct {
	inner   PublisherInterface
	queue   chan queued
	timeout time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewAsync(inner PublisherInterface, buffer int, timeout time.Duration) *Async {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	a := &Async{
		inner:   inner,
		queue:   make(chan queued, buffer),
		timeout: timeout,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *Async) Publish(ctx context.Context, routingKey string, data any) error {
	select {
	case a.queue <- queued{routingKey: routingKey, data: data}:
		return nil
	default:
		slog.Warn("event queue full, dropping", "event", routingKey)
		return ErrQueueFull
	}
}

func (a *Async) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.stop:
			a.drain()
			return
		case m := <-a.queue:
			a.send(m)
		}
	}
}

func (a *Async) drain() {
	for {
		select {
		case m := <-a.queue:
			a.send(m)
		default:
			return
		}
	}
}

func (a *Async) send(m queued) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.inner.Publish(ctx, m.routingKey, m.data); err != nil {
		slog.Warn("async event publish failed", "event", m.routingKey, "err", err)
	}
}

// Close flushes what is queued and stops the worker, giving up when ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ PublisherInterface = (*Async)(nil)
