package event

import (
	"context"
	"slices"
)

// Consumer is a component reacting to a specific kind of Event.
//
// Consumers declare which Events they are interested in once,
// when they are subscribed to an eventbus.Bus, and are never asked
// at publish time.
type Consumer[T Event] interface {
	Consume(ctx context.Context, evt T) error
}

// ConsumerFunc is a functional type that implements the Consumer interface.
type ConsumerFunc[T Event] func(ctx context.Context, evt T) error

// Consume implements event.Consumer.
func (fn ConsumerFunc[T]) Consume(ctx context.Context, evt T) error {
	return fn(ctx, evt)
}

// Filter is a predicate over an Event instance, used to decide whether
// a Consumer should receive a published Event.
type Filter interface {
	Accept(evt Event) bool
}

// FilterFunc is a functional type that implements the Filter interface.
type FilterFunc func(evt Event) bool

// Accept implements event.Filter.
func (fn FilterFunc) Accept(evt Event) bool { return fn(evt) }

// OfType returns a Filter accepting only the Events whose dynamic type is T,
// or implements T when T is an interface.
//
// A Consumer subscribed to a broad Event interface can use OfType
// to narrow down to a single concrete Event type, rejecting its siblings.
func OfType[T Event]() Filter {
	return FilterFunc(func(evt Event) bool {
		_, ok := evt.(T)
		return ok
	})
}

// Named returns a Filter accepting only the Events with one of the specified names.
func Named(names ...string) Filter {
	return FilterFunc(func(evt Event) bool {
		return slices.Contains(names, evt.Name())
	})
}

// All returns a Filter accepting the Events accepted by every specified Filter.
// Nil filters are ignored.
func All(filters ...Filter) Filter {
	return FilterFunc(func(evt Event) bool {
		for _, filter := range filters {
			if filter != nil && !filter.Accept(evt) {
				return false
			}
		}

		return true
	})
}
