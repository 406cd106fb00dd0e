package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stalledPublisher blocks every call until release is closed.
type stalledPublisher struct {
	mu      sync.Mutex
	keys    []string
	started chan struct{}
	release chan struct{}
}

func newStalledPublisher() *stalledPublisher {
	return &stalledPublisher{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (p *stalledPublisher) Publish(ctx context.Context, key string, data any) error {
	p.started <- struct{}{}
	<-p.release
	p.mu.Lock()
	p.keys = append(p.keys, key)
	p.mu.Unlock()
	return nil
}

func (p *stalledPublisher) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestAsync_StalledPublisherDoesNotBlockCaller(t *testing.T) {
	stalled := newStalledPublisher()
	async := NewAsync(stalled, 4, time.Minute)
	hub := &recorder{}

	done := make(chan error, 1)
	go func() {
		done <- Fanout{hub, async}.Publish(context.Background(), "order_created", "o-1")
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a stalled publisher")
	}
	assert.Equal(t, []string{"order_created"}, hub.keys)

	close(stalled.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, async.Close(ctx))
	assert.Equal(t, []string{"order_created"}, stalled.seen())
}

func TestAsync_DropsWhenFull(t *testing.T) {
	stalled := newStalledPublisher()
	async := NewAsync(stalled, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, async.Publish(ctx, "first", nil))
	select {
	case <-stalled.started:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first event")
	}

	require.NoError(t, async.Publish(ctx, "second", nil))
	assert.ErrorIs(t, async.Publish(ctx, "third", nil), ErrQueueFull)

	close(stalled.release)
	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, async.Close(closeCtx))
	assert.Equal(t, []string{"first", "second"}, stalled.seen())
}

func TestAsync_CloseGivesUpOnStuckPublisher(t *testing.T) {
	stalled := newStalledPublisher()
	defer close(stalled.release)
	async := NewAsync(stalled, 1, time.Minute)

	require.NoError(t, async.Publish(context.Background(), "order_created", nil))
	<-stalled.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, async.Close(ctx), context.DeadlineExceeded)
}
