package eventbus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hatchgrid/go-dispatch/event"
)

// ErrConsumerPanicked is the cause of a ConsumerError raised by a Consumer
// that panicked while running in a parallel Strategy.
var ErrConsumerPanicked = errors.New("eventbus: consumer panicked")

// ErrInvalidSubscription is returned when a Subscription has not been
// created with Subscribe, e.g. its zero value.
var ErrInvalidSubscription = errors.New("eventbus: invalid subscription, use eventbus.Subscribe")

// ConsumerError is the failure of a single Consumer while consuming an Event.
type ConsumerError struct {
	Consumer string
	Event    event.Event
	Err      error
}

// Error implements the error interface.
func (e *ConsumerError) Error() string {
	return fmt.Sprintf("eventbus: consumer '%s' failed to consume '%s': %v", e.Consumer, e.Event.Name(), e.Err)
}

// Unwrap returns the Consumer failure.
func (e *ConsumerError) Unwrap() error { return e.Err }

// PublishError aggregates all the Consumer failures of a single publish.
//
// Failures are reported in subscription order, regardless of the order
// the Consumers have failed in.
type PublishError struct {
	Event    event.Event
	Failures []*ConsumerError
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		msgs = append(msgs, failure.Error())
	}

	return fmt.Sprintf("eventbus: %d consumer(s) failed to consume '%s': [%s]",
		len(e.Failures), e.Event.Name(), strings.Join(msgs, "; "))
}

// Unwrap returns all the Consumer failures, to be used with errors.Is and errors.As.
func (e *PublishError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure)
	}

	return errs
}

// Consumers returns the names of the failed Consumers, in subscription order.
func (e *PublishError) Consumers() []string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, failure.Consumer)
	}

	return names
}

// newPublishError returns a *PublishError with the non-nil failures,
// or nil if there are none.
func newPublishError(evt event.Event, failures []*ConsumerError) error {
	var actual []*ConsumerError

	for _, failure := range failures {
		if failure != nil {
			actual = append(actual, failure)
		}
	}

	if len(actual) == 0 {
		return nil
	}

	return &PublishError{Event: evt, Failures: actual}
}
