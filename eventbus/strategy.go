package eventbus

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/logger"
)

// Strategy controls how a single published Event is delivered
// to the Consumers selected by the Bus: in which order, with how
// much concurrency, and how failures are reported.
//
// Strategies are stateless values, safe for concurrent use.
type Strategy interface {
	Publish(ctx context.Context, evt event.Event, deliveries []Delivery) error
}

// StrategyName identifies one of the Strategies in configuration.
type StrategyName string

// All the Strategy names supported by ParseStrategy.
const (
	StopOnErrorName     StrategyName = "stop-on-error"
	ContinueOnErrorName StrategyName = "continue-on-error"
	ParallelWhenAllName StrategyName = "parallel-when-all"
	ParallelNoWaitName  StrategyName = "parallel-no-wait"
)

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
var ErrUnknownStrategy = errors.New("eventbus: unknown publish strategy")

// ParseStrategy returns the Strategy identified by name, using the default
// settings of the Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch StrategyName(name) {
	case StopOnErrorName:
		return StopOnError{}, nil
	case ContinueOnErrorName:
		return ContinueOnError{}, nil
	case ParallelWhenAllName:
		return ParallelWhenAll{}, nil
	case ParallelNoWaitName:
		return ParallelNoWait{}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownStrategy, name)
	}
}

func consumerError(d Delivery, evt event.Event, err error) *ConsumerError {
	return &ConsumerError{Consumer: d.Consumer(), Event: evt, Err: err}
}

// deliver hands the Event to a single Consumer, honoring ctx cancellation.
func deliver(ctx context.Context, d Delivery, evt event.Event) *ConsumerError {
	if err := ctx.Err(); err != nil {
		return consumerError(d, evt, err)
	}

	if err := d.Deliver(ctx, evt); err != nil {
		return consumerError(d, evt, err)
	}

	return nil
}

// deliverRecover is deliver for Consumers running in their own goroutine,
// where a panic would otherwise take the whole process down.
func deliverRecover(ctx context.Context, d Delivery, evt event.Event) (failure *ConsumerError) {
	defer func() {
		if r := recover(); r != nil {
			failure = consumerError(d, evt, fmt.Errorf("%w: %v", ErrConsumerPanicked, r))
		}
	}()

	return deliver(ctx, d, evt)
}

var _ Strategy = StopOnError{}

// StopOnError delivers the Event sequentially, in subscription order.
//
// The first Consumer failure is returned immediately as a *ConsumerError,
// and the remaining Consumers are never invoked.
type StopOnError struct{}

// Publish implements eventbus.Strategy.
func (StopOnError) Publish(ctx context.Context, evt event.Event, deliveries []Delivery) error {
	for _, d := range deliveries {
		if failure := deliver(ctx, d, evt); failure != nil {
			return failure
		}
	}

	return nil
}

func (StopOnError) String() string { return string(StopOnErrorName) }

var _ Strategy = ContinueOnError{}

// ContinueOnError delivers the Event sequentially, in subscription order.
//
// A Consumer failure does not prevent the next Consumers from being invoked:
// once all of them have been attempted, the failures are returned
// together as a *PublishError.
type ContinueOnError struct{}

// Publish implements eventbus.Strategy.
func (ContinueOnError) Publish(ctx context.Context, evt event.Event, deliveries []Delivery) error {
	failures := make([]*ConsumerError, len(deliveries))

	for i, d := range deliveries {
		failures[i] = deliver(ctx, d, evt)
	}

	return newPublishError(evt, failures)
}

func (ContinueOnError) String() string { return string(ContinueOnErrorName) }

var _ Strategy = ParallelWhenAll{}

// ParallelWhenAll delivers the Event to all the Consumers concurrently,
// and returns only once every Consumer has finished.
//
// Failures are returned together as a *PublishError, in subscription order.
// A panicking Consumer is reported as a failure wrapping ErrConsumerPanicked.
type ParallelWhenAll struct {
	// MaxConcurrency limits the number of Consumers running at the same time.
	// Zero or a negative value means no limit.
	MaxConcurrency int
}

// Publish implements eventbus.Strategy.
func (s ParallelWhenAll) Publish(ctx context.Context, evt event.Event, deliveries []Delivery) error {
	var group errgroup.Group

	if s.MaxConcurrency > 0 {
		group.SetLimit(s.MaxConcurrency)
	}

	failures := make([]*ConsumerError, len(deliveries))

	for i, d := range deliveries {
		group.Go(func() error {
			failures[i] = deliverRecover(ctx, d, evt)
			return nil
		})
	}

	_ = group.Wait() // Failures are collected in the slice, never returned to the group.

	return newPublishError(evt, failures)
}

func (ParallelWhenAll) String() string { return string(ParallelWhenAllName) }

var _ Strategy = ParallelNoWait{}

// ParallelNoWait delivers the Event to all the Consumers concurrently,
// and returns immediately without waiting for any of them.
//
// NOTE: this Strategy gives a weaker guarantee than the others.
// Consumer failures are NOT observable by the publisher: Publish
// always returns nil once the Consumers have been started.
// Failures are only logged through Logger, if set, so the Consumers
// delivered with this Strategy should handle and report their own failures.
//
// Consumers run with a context detached from the publisher cancellation,
// so that the publisher returning does not abort them; its values are
// still visible to the Consumers.
type ParallelNoWait struct {
	Logger logger.Logger
}

// Publish implements eventbus.Strategy.
func (s ParallelNoWait) Publish(ctx context.Context, evt event.Event, deliveries []Delivery) error {
	ctx = context.WithoutCancel(ctx)

	for _, d := range deliveries {
		go func() {
			if failure := deliverRecover(ctx, d, evt); failure != nil {
				logger.Error(s.Logger, "eventbus.ParallelNoWait: consumer failed",
					logger.With("consumer", failure.Consumer),
					logger.With("event.name", evt.Name()),
					logger.Err(failure.Err),
				)
			}
		}()
	}

	return nil
}

func (ParallelNoWait) String() string { return string(ParallelNoWaitName) }
