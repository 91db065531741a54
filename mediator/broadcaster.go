package mediator

import (
	"context"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/eventbus"
)

// PublisherFor returns an event.Publisher for Events of type T, publishing
// through the Mediator with the provided Strategy, or the one recorded by
// the Builder (see Mediator.PublishStrategy) if nil.
//
// Events go through the Mediator Behaviors, like Mediator.Publish.
func PublisherFor[T event.Event](m *Mediator, strategy eventbus.Strategy) event.Publisher[T] {
	return event.PublisherFunc[T](func(ctx context.Context, evt T) error {
		if strategy == nil {
			return m.Publish(ctx, evt)
		}

		return m.PublishWith(ctx, evt, strategy)
	})
}

// NewBroadcaster returns an event.Broadcaster for Events of type T already
// configured to publish through the Mediator, with the provided Strategy
// or the one recorded by the Builder if nil.
func NewBroadcaster[T event.Event](m *Mediator, strategy eventbus.Strategy) *event.Broadcaster[T] {
	return event.NewBroadcaster(PublisherFor[T](m, strategy))
}
