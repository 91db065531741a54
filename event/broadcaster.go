package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoPublisher is returned by Broadcaster.Publish when no Publisher
	// has been configured through Broadcaster.Use.
	ErrNoPublisher = errors.New("event.Broadcaster: no publisher configured")

	// ErrPublisherAlreadySet is returned by Broadcaster.Use when the
	// Broadcaster has already been configured.
	ErrPublisherAlreadySet = errors.New("event.Broadcaster: publisher already configured")

	// ErrUnexpectedEvent is returned by Broadcaster.PublishAll when one of the
	// Events is not of the type handled by the Broadcaster.
	ErrUnexpectedEvent = errors.New("event.Broadcaster: unexpected event type")
)

// Publisher is the component that delivers a published Event to the
// interested Consumers, usually an eventbus.Bus.
type Publisher[T Event] interface {
	Publish(ctx context.Context, evt T) error
}

// PublisherFunc is a functional type that implements the Publisher interface.
type PublisherFunc[T Event] func(ctx context.Context, evt T) error

// Publish implements event.Publisher.
func (fn PublisherFunc[T]) Publish(ctx context.Context, evt T) error {
	return fn(ctx, evt)
}

// PublisherOf narrows a Publisher of any Event to a Publisher of Events of type T.
func PublisherOf[T Event](publisher Publisher[Event]) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, evt T) error {
		return publisher.Publish(ctx, evt)
	})
}

var _ Publisher[Event] = new(Broadcaster[Event])

// Broadcaster is the handle application services own to publish
// Domain Events, without depending on the concrete event bus.
//
// The Broadcaster is configured once, usually at startup, with the upstream
// Publisher through Use, and forwards every Event to it unmodified.
//
// The zero value is ready to be configured.
type Broadcaster[T Event] struct {
	mx        sync.RWMutex
	publisher Publisher[T]
}

// NewBroadcaster returns a Broadcaster already configured with the provided Publisher.
func NewBroadcaster[T Event](publisher Publisher[T]) *Broadcaster[T] {
	return &Broadcaster[T]{publisher: publisher}
}

// Use configures the upstream Publisher of the Broadcaster.
//
// ErrPublisherAlreadySet is returned if a Publisher was already configured.
func (b *Broadcaster[T]) Use(publisher Publisher[T]) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.publisher != nil {
		return ErrPublisherAlreadySet
	}

	b.publisher = publisher

	return nil
}

// Publish forwards the Event to the configured Publisher.
func (b *Broadcaster[T]) Publish(ctx context.Context, evt T) error {
	b.mx.RLock()
	publisher := b.publisher
	b.mx.RUnlock()

	if publisher == nil {
		return ErrNoPublisher
	}

	return publisher.Publish(ctx, evt)
}

// PublishAll publishes the provided Events in order, typically the batch
// returned by an Aggregate PullDomainEvents call.
//
// Publishing stops at the first failure.
func (b *Broadcaster[T]) PublishAll(ctx context.Context, events ...Event) error {
	for _, evt := range events {
		typed, ok := evt.(T)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedEvent, evt)
		}

		if err := b.Publish(ctx, typed); err != nil {
			return err
		}
	}

	return nil
}
