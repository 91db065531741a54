package eventbus

import (
	"context"
	"fmt"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/logger"
	"github.com/hatchgrid/go-dispatch/provider"
)

// Option configures a Bus created with New or FromProvider.
type Option func(*Bus)

// WithDefaultStrategy sets the Strategy used by Publish, and by the
// Publishers returned by PublisherFor with no explicit Strategy.
//
// StopOnError is used if unspecified.
func WithDefaultStrategy(strategy Strategy) Option {
	return func(b *Bus) {
		if strategy != nil {
			b.strategy = strategy
		}
	}
}

// WithLogger sets the Logger used by the Bus.
func WithLogger(l logger.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

// WithSubscriptions adds the Subscriptions to the Bus, after any
// previously added one.
func WithSubscriptions(subscriptions ...Subscription) Option {
	return func(b *Bus) { b.subscriptions = append(b.subscriptions, subscriptions...) }
}

var _ event.Publisher[event.Event] = new(Bus)

// Bus is the in-process event bus, multiplexing published Events
// to the subscribed Consumers.
//
// The dispatch table of the Bus is built once, in New, mapping each
// declared Event name to the positions of its Subscriptions; Subscriptions
// not restricted to a set of names are evaluated for every Event.
// Both are read-only afterwards.
type Bus struct {
	logger   logger.Logger
	strategy Strategy

	subscriptions []Subscription
	byName        map[string][]int
	anyName       []int
}

// New returns a new Bus with the Subscriptions provided through the options.
//
// Subscriptions not created with Subscribe are logged and skipped.
func New(opts ...Option) *Bus {
	b := &Bus{strategy: StopOnError{}}

	for _, opt := range opts {
		opt(b)
	}

	valid := make([]Subscription, 0, len(b.subscriptions))

	for i, s := range b.subscriptions {
		if !s.valid() {
			logger.Error(b.logger, "eventbus.Bus: skipping subscription",
				logger.With("subscription", i),
				logger.Err(ErrInvalidSubscription),
			)

			continue
		}

		valid = append(valid, s)
	}

	b.subscriptions = valid
	b.byName = make(map[string][]int)

	for i, s := range b.subscriptions {
		if len(s.events) == 0 {
			b.anyName = append(b.anyName, i)
			continue
		}

		for _, name := range uniq(s.events) {
			b.byName[name] = append(b.byName[name], i)
		}
	}

	return b
}

// FromProvider returns a new Bus with the Subscriptions declared in the
// provider.DependencyProvider under SubscriptionsKey, followed by
// the ones provided through the options.
//
// A declared Subscription not created with Subscribe fails with
// ErrInvalidSubscription.
func FromProvider(p provider.DependencyProvider, opts ...Option) (*Bus, error) {
	subscriptions, err := provider.InstancesOfType[Subscription](p, SubscriptionsKey)
	if err != nil {
		return nil, fmt.Errorf("eventbus.FromProvider: failed to resolve subscriptions: %w", err)
	}

	for i, s := range subscriptions {
		if !s.valid() {
			return nil, fmt.Errorf("eventbus.FromProvider: subscription #%d: %w", i, ErrInvalidSubscription)
		}
	}

	opts = append([]Option{WithSubscriptions(subscriptions...)}, opts...)

	return New(opts...), nil
}

// DefaultStrategy returns the Strategy used when none is specified.
func (b *Bus) DefaultStrategy() Strategy { return b.strategy }

// Deliveries returns the Consumers that want to receive the Event,
// in subscription order.
func (b *Bus) Deliveries(evt event.Event) []Delivery {
	candidates := mergeSorted(b.byName[evt.Name()], b.anyName)
	deliveries := make([]Delivery, 0, len(candidates))

	for _, i := range candidates {
		if s := b.subscriptions[i]; s.Accept(evt) {
			deliveries = append(deliveries, Delivery{subscription: s})
		}
	}

	return deliveries
}

// Publish delivers the Event to the interested Consumers using the default Strategy.
func (b *Bus) Publish(ctx context.Context, evt event.Event) error {
	return b.PublishWith(ctx, evt, nil)
}

// PublishWith delivers the Event to the interested Consumers using
// the provided Strategy, or the default one if nil.
//
// Publishing an Event no Consumer is interested in is not an error.
func (b *Bus) PublishWith(ctx context.Context, evt event.Event, strategy Strategy) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("eventbus.Bus: failed to publish '%s': %w", evt.Name(), err)
	}

	if strategy == nil {
		strategy = b.strategy
	}

	deliveries := b.Deliveries(evt)

	logger.Debug(b.logger, "eventbus.Bus: publishing event",
		logger.With("event.name", evt.Name()),
		logger.With("consumers", len(deliveries)),
		logger.With("strategy", fmt.Sprint(strategy)),
	)

	if len(deliveries) == 0 {
		return nil
	}

	return strategy.Publish(ctx, evt, deliveries)
}

// PublisherFor returns an event.Publisher for Events of type T, publishing
// to the Bus with the provided Strategy, or the Bus default one if nil.
//
// Use it to configure an event.Broadcaster.
func PublisherFor[T event.Event](b *Bus, strategy Strategy) event.Publisher[T] {
	return event.PublisherFunc[T](func(ctx context.Context, evt T) error {
		return b.PublishWith(ctx, evt, strategy)
	})
}

// NewBroadcaster returns an event.Broadcaster for Events of type T already
// configured to publish to the Bus with the provided Strategy,
// or the Bus default one if nil.
func NewBroadcaster[T event.Event](b *Bus, strategy Strategy) *event.Broadcaster[T] {
	return event.NewBroadcaster(PublisherFor[T](b, strategy))
}

func uniq(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		result = append(result, name)
	}

	return result
}

// mergeSorted merges two ascending lists of subscription positions.
func mergeSorted(a, b []int) []int {
	result := make([]int, 0, len(a)+len(b))

	for len(a) > 0 && len(b) > 0 {
		if a[0] < b[0] {
			result, a = append(result, a[0]), a[1:]
		} else {
			result, b = append(result, b[0]), b[1:]
		}
	}

	result = append(result, a...)

	return append(result, b...)
}
