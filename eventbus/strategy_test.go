package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/internal/mocks"
	"github.com/hatchgrid/go-dispatch/logger"
)

func deliveries(subscriptions ...eventbus.Subscription) []eventbus.Delivery {
	result := make([]eventbus.Delivery, 0, len(subscriptions))
	for _, s := range subscriptions {
		result = append(result, eventbus.NewDelivery(s))
	}

	return result
}

// abc returns three Consumers, named "A", "B" and "C", where "B" fails with errB.
func abc(r *recorder, errB error) []eventbus.Delivery {
	return deliveries(
		eventbus.Subscribe[userCreated](consumer[userCreated](r, "A", nil), eventbus.WithName("A")),
		eventbus.Subscribe[userCreated](consumer[userCreated](r, "B", errB), eventbus.WithName("B")),
		eventbus.Subscribe[userCreated](consumer[userCreated](r, "C", nil), eventbus.WithName("C")),
	)
}

func TestStopOnError(t *testing.T) {
	ctx := context.Background()
	evt := userCreated{ID: "1"}

	t.Run("all consumers are invoked in order when none fails", func(t *testing.T) {
		r := new(recorder)

		err := eventbus.StopOnError{}.Publish(ctx, evt, abc(r, nil))
		assert.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, r.Calls())
	})

	t.Run("the first failure aborts the delivery", func(t *testing.T) {
		r := new(recorder)
		errB := errors.New("B failed")

		err := eventbus.StopOnError{}.Publish(ctx, evt, abc(r, errB))
		assert.Equal(t, []string{"A", "B"}, r.Calls())
		assert.ErrorIs(t, err, errB)

		var consumerErr *eventbus.ConsumerError
		require.ErrorAs(t, err, &consumerErr)
		assert.Equal(t, "B", consumerErr.Consumer)
		assert.Equal(t, evt, consumerErr.Event)
	})

	t.Run("the consumer is called exactly once with the event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mock := mocks.NewMockConsumer(ctrl)

		mock.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

		err := eventbus.StopOnError{}.Publish(ctx, evt, deliveries(
			eventbus.Subscribe[event.Event](mock),
		))
		assert.NoError(t, err)
	})
}

func TestContinueOnError(t *testing.T) {
	ctx := context.Background()
	evt := userCreated{ID: "1"}

	t.Run("every consumer is attempted and only the failures are reported", func(t *testing.T) {
		r := new(recorder)
		errB := errors.New("B failed")

		err := eventbus.ContinueOnError{}.Publish(ctx, evt, abc(r, errB))
		assert.Equal(t, []string{"A", "B", "C"}, r.Calls())
		assert.ErrorIs(t, err, errB)

		var publishErr *eventbus.PublishError
		require.ErrorAs(t, err, &publishErr)
		assert.Equal(t, []string{"B"}, publishErr.Consumers())
		assert.Equal(t, evt, publishErr.Event)
	})

	t.Run("every failure is reported, in subscription order", func(t *testing.T) {
		r := new(recorder)
		errA, errC := errors.New("A failed"), errors.New("C failed")

		err := eventbus.ContinueOnError{}.Publish(ctx, evt, deliveries(
			eventbus.Subscribe[userCreated](consumer[userCreated](r, "A", errA), eventbus.WithName("A")),
			eventbus.Subscribe[userCreated](consumer[userCreated](r, "B", nil), eventbus.WithName("B")),
			eventbus.Subscribe[userCreated](consumer[userCreated](r, "C", errC), eventbus.WithName("C")),
		))

		var publishErr *eventbus.PublishError
		require.ErrorAs(t, err, &publishErr)
		assert.Equal(t, []string{"A", "C"}, publishErr.Consumers())
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errC)
	})

	t.Run("no failures means no error", func(t *testing.T) {
		r := new(recorder)

		assert.NoError(t, eventbus.ContinueOnError{}.Publish(ctx, evt, abc(r, nil)))
	})
}

// sleepy returns a Consumer that sleeps for the specified duration
// and then marks itself as done.
func sleepy(name string, d time.Duration, done *atomic.Bool, err error) eventbus.Subscription {
	return eventbus.Subscribe[userCreated](
		event.ConsumerFunc[userCreated](func(ctx context.Context, _ userCreated) error {
			time.Sleep(d)
			done.Store(true)

			return err
		}),
		eventbus.WithName(name),
	)
}

func TestParallelWhenAll(t *testing.T) {
	ctx := context.Background()
	evt := userCreated{ID: "1"}

	t.Run("publish returns only after the slowest consumer has finished", func(t *testing.T) {
		var fast, medium, slow atomic.Bool

		err := eventbus.ParallelWhenAll{}.Publish(ctx, evt, deliveries(
			sleepy("slow", 150*time.Millisecond, &slow, nil),
			sleepy("fast", 10*time.Millisecond, &fast, nil),
			sleepy("medium", 50*time.Millisecond, &medium, nil),
		))

		assert.NoError(t, err)
		assert.True(t, fast.Load())
		assert.True(t, medium.Load())
		assert.True(t, slow.Load())
	})

	t.Run("all failures are aggregated in subscription order", func(t *testing.T) {
		var fast, medium, slow atomic.Bool

		errSlow, errFast := errors.New("slow failed"), errors.New("fast failed")

		err := eventbus.ParallelWhenAll{}.Publish(ctx, evt, deliveries(
			sleepy("slow", 100*time.Millisecond, &slow, errSlow),
			sleepy("medium", 50*time.Millisecond, &medium, nil),
			sleepy("fast", 10*time.Millisecond, &fast, errFast),
		))

		var publishErr *eventbus.PublishError
		require.ErrorAs(t, err, &publishErr)
		assert.Equal(t, []string{"slow", "fast"}, publishErr.Consumers())
		assert.ErrorIs(t, err, errSlow)
		assert.ErrorIs(t, err, errFast)
		assert.True(t, slow.Load())
	})

	t.Run("consumers run concurrently", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			started = make(chan struct{})
		)

		wg.Add(3)

		// Every Consumer waits for all the others to have started:
		// the publish would never complete if they were run sequentially.
		barrier := eventbus.Subscribe[userCreated](event.ConsumerFunc[userCreated](func(context.Context, userCreated) error {
			wg.Done()
			<-started

			return nil
		}))

		go func() {
			wg.Wait()
			close(started)
		}()

		err := eventbus.ParallelWhenAll{}.Publish(ctx, evt, deliveries(barrier, barrier, barrier))
		assert.NoError(t, err)
	})

	t.Run("max concurrency limits the consumers running at the same time", func(t *testing.T) {
		var running, peak atomic.Int32

		limited := eventbus.Subscribe[userCreated](event.ConsumerFunc[userCreated](func(context.Context, userCreated) error {
			current := running.Add(1)
			defer running.Add(-1)

			for {
				previous := peak.Load()
				if current <= previous || peak.CompareAndSwap(previous, current) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)

			return nil
		}))

		err := eventbus.ParallelWhenAll{MaxConcurrency: 2}.Publish(ctx, evt, deliveries(limited, limited, limited, limited, limited))
		assert.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("a panicking consumer is reported as a failure", func(t *testing.T) {
		r := new(recorder)

		err := eventbus.ParallelWhenAll{}.Publish(ctx, evt, deliveries(
			eventbus.Subscribe[userCreated](event.ConsumerFunc[userCreated](func(context.Context, userCreated) error {
				panic("boom")
			}), eventbus.WithName("panicking")),
			eventbus.Subscribe[userCreated](consumer[userCreated](r, "other", nil)),
		))

		assert.ErrorIs(t, err, eventbus.ErrConsumerPanicked)
		assert.Equal(t, []string{"other"}, r.Calls())
	})

	t.Run("consumers observe the publisher cancellation", func(t *testing.T) {
		r := new(recorder)

		ctx, cancel := context.WithCancel(ctx)
		cancel()

		err := eventbus.ParallelWhenAll{}.Publish(ctx, evt, abc(r, nil))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, r.Calls())
	})
}

func TestParallelNoWait(t *testing.T) {
	ctx := context.Background()
	evt := userCreated{ID: "1"}

	t.Run("publish returns before a blocked consumer finishes", func(t *testing.T) {
		var (
			release  = make(chan struct{})
			finished atomic.Bool
		)

		blocking := eventbus.Subscribe[userCreated](event.ConsumerFunc[userCreated](func(context.Context, userCreated) error {
			<-release
			finished.Store(true)

			return nil
		}))

		published := make(chan error, 1)
		go func() { published <- eventbus.ParallelNoWait{}.Publish(ctx, evt, deliveries(blocking)) }()

		select {
		case err := <-published:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("publish did not return while the consumer was blocked")
		}

		assert.False(t, finished.Load())

		close(release)
		assert.Eventually(t, finished.Load, time.Second, 5*time.Millisecond)
	})

	t.Run("consumer failures are not returned, only logged", func(t *testing.T) {
		log := logger.NewTest(t)
		errFailed := errors.New("failed")
		r := new(recorder)

		err := eventbus.ParallelNoWait{Logger: log}.Publish(ctx, evt, deliveries(
			eventbus.Subscribe[userCreated](consumer[userCreated](r, "failing", errFailed), eventbus.WithName("failing")),
		))
		assert.NoError(t, err)

		assert.Eventually(t, func() bool { return len(log.Entries()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Contains(t, log.Entries()[0], "failing")
	})

	t.Run("consumers are not canceled with the publisher context", func(t *testing.T) {
		var (
			release = make(chan struct{})
			seen    = make(chan error, 1)
		)

		blocking := eventbus.Subscribe[userCreated](event.ConsumerFunc[userCreated](func(ctx context.Context, _ userCreated) error {
			<-release
			seen <- ctx.Err()

			return nil
		}))

		publishCtx, cancel := context.WithCancel(ctx)
		require.NoError(t, eventbus.ParallelNoWait{}.Publish(publishCtx, evt, deliveries(blocking)))

		cancel()
		close(release)

		select {
		case err := <-seen:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("consumer was never invoked")
		}
	})
}

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		name     string
		expected eventbus.Strategy
	}{
		{name: "stop-on-error", expected: eventbus.StopOnError{}},
		{name: "continue-on-error", expected: eventbus.ContinueOnError{}},
		{name: "parallel-when-all", expected: eventbus.ParallelWhenAll{}},
		{name: "parallel-no-wait", expected: eventbus.ParallelNoWait{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			strategy, err := eventbus.ParseStrategy(tc.name)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, strategy)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		strategy, err := eventbus.ParseStrategy("retry-forever")
		assert.ErrorIs(t, err, eventbus.ErrUnknownStrategy)
		assert.Nil(t, strategy)
	})
}
