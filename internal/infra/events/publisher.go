package events

import (
	"context"
	"errors"
)

// PublisherInterface delivers an order event under a routing key. All
// implementations are best-effort.
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// Fanout publishes to every publisher and joins their errors. One failing
// publisher does not stop the others.
type Fanout []PublisherInterface

func (f Fanout) Publish(ctx context.Context, routingKey string, data any) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, routingKey, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ PublisherInterface = Fanout(nil)
