package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
	closed        bool
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisherWithChannel(ch, DefaultExchange)

	err := p.Publish(context.Background(), "order_created", map[string]string{"orderId": "o-1"})
	require.NoError(t, err)

	assert.Equal(t, "orders.events", ch.exchange)
	assert.Equal(t, "order_created", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var m struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &m))
	assert.Equal(t, "order_created", m.Event)
	assert.Equal(t, "o-1", m.Data["orderId"])

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := newPublisherWithChannel(&fakeChannel{err: errors.New("channel closed")}, DefaultExchange)

	err := p.Publish(context.Background(), "order_cancelled", nil)
	assert.EqualError(t, err, "failed to publish order_cancelled: channel closed")
}
