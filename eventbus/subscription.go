package eventbus

import (
	"context"
	"fmt"

	"github.com/hatchgrid/go-dispatch/event"
)

// SubscriptionsKey is the provider.DependencyProvider key under which the host
// application declares its Subscriptions, used by FromProvider.
const SubscriptionsKey = "eventbus.subscriptions"

// Subscription binds a Consumer to the Events it declared interest in.
//
// Use Subscribe to create a new Subscription.
type Subscription struct {
	name    string
	events  []string
	filter  event.Filter
	consume func(ctx context.Context, evt event.Event) error
}

// Name returns the name of the subscribed Consumer, used in logs and errors.
func (s Subscription) Name() string { return s.name }

// Events returns the Event names the Subscription has been restricted to,
// if any.
func (s Subscription) Events() []string { return append([]string(nil), s.events...) }

func (s Subscription) valid() bool { return s.filter != nil && s.consume != nil }

// Accept reports whether the subscribed Consumer wants to receive the Event.
func (s Subscription) Accept(evt event.Event) bool { return s.filter.Accept(evt) }

// SubscribeOption configures a Subscription created with Subscribe.
type SubscribeOption func(*Subscription)

// WithName sets the name of the subscribed Consumer.
// By default, the Go type of the Consumer is used.
func WithName(name string) SubscribeOption {
	return func(s *Subscription) { s.name = name }
}

// ForEvents restricts the Subscription to the Events with the specified names.
//
// The names are used as keys of the Bus dispatch table, so that
// publishing one of these Events does not need to evaluate
// the Subscriptions of unrelated Events.
func ForEvents(names ...string) SubscribeOption {
	return func(s *Subscription) { s.events = append(s.events, names...) }
}

// WithFilter narrows the Events delivered to the Consumer with an additional Filter.
func WithFilter(filter event.Filter) SubscribeOption {
	return func(s *Subscription) { s.filter = event.All(s.filter, filter) }
}

// Subscribe declares the interest of the Consumer in all the Events of type T.
//
// T can be a concrete Event type, or an interface implemented by a family
// of Events: the Consumer receives only the published Events accepted
// by event.OfType[T], plus any additional option specified.
func Subscribe[T event.Event](consumer event.Consumer[T], opts ...SubscribeOption) Subscription {
	s := Subscription{
		name:   fmt.Sprintf("%T", consumer),
		filter: event.OfType[T](),
		consume: func(ctx context.Context, evt event.Event) error {
			typed, ok := evt.(T)
			if !ok {
				return fmt.Errorf("%w: %T", event.ErrUnexpectedEvent, evt)
			}

			return consumer.Consume(ctx, typed)
		},
	}

	for _, opt := range opts {
		opt(&s)
	}

	if len(s.events) > 0 {
		s.filter = event.All(s.filter, event.Named(s.events...))
	}

	return s
}

// Delivery is a Consumer selected by the Bus to receive a published Event.
//
// Deliveries are handed to a Strategy, in subscription order.
type Delivery struct {
	subscription Subscription
}

// Consumer returns the name of the Consumer.
func (d Delivery) Consumer() string { return d.subscription.name }

// Deliver hands the Event to the Consumer.
func (d Delivery) Deliver(ctx context.Context, evt event.Event) error {
	return d.subscription.consume(ctx, evt)
}

// NewDelivery returns a Delivery for the provided Subscription.
// Useful for testing Strategy implementations.
func NewDelivery(s Subscription) Delivery {
	return Delivery{subscription: s}
}
