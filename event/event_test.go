package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchgrid/go-dispatch/event"
)

type orderEvent interface {
	event.Event
	isOrderEvent()
}

type orderPlaced struct{ event.Base }

func (orderPlaced) Name() string  { return "OrderPlaced" }
func (orderPlaced) isOrderEvent() {}

type orderShipped struct{ event.Base }

func (orderShipped) Name() string  { return "OrderShipped" }
func (orderShipped) isOrderEvent() {}

type invoiceSent struct{}

func (invoiceSent) Name() string { return "InvoiceSent" }

func TestBase(t *testing.T) {
	now := time.Now()

	t.Run("default version", func(t *testing.T) {
		base := event.NewBase(now)

		assert.Equal(t, event.DefaultVersion, base.Version())
		assert.Equal(t, now, base.OccurredOn())
		assert.NotEqual(t, event.NewBase(now).EventID(), base.EventID())
	})

	t.Run("explicit version", func(t *testing.T) {
		assert.Equal(t, 3, event.NewBaseWithVersion(now, 3).Version())
		assert.Equal(t, event.DefaultVersion, event.NewBaseWithVersion(now, 0).Version())
	})

	t.Run("zero value", func(t *testing.T) {
		var evt orderPlaced
		assert.Equal(t, event.DefaultVersion, evt.Version())
	})
}

func TestFilters(t *testing.T) {
	placed, shipped, invoice := orderPlaced{}, orderShipped{}, invoiceSent{}

	t.Run("of type", func(t *testing.T) {
		concrete := event.OfType[orderPlaced]()
		assert.True(t, concrete.Accept(placed))
		assert.False(t, concrete.Accept(shipped))

		supertype := event.OfType[orderEvent]()
		assert.True(t, supertype.Accept(placed))
		assert.True(t, supertype.Accept(shipped))
		assert.False(t, supertype.Accept(invoice))
	})

	t.Run("named", func(t *testing.T) {
		named := event.Named("OrderShipped", "InvoiceSent")

		assert.False(t, named.Accept(placed))
		assert.True(t, named.Accept(shipped))
		assert.True(t, named.Accept(invoice))
	})

	t.Run("all", func(t *testing.T) {
		all := event.All(event.OfType[orderEvent](), nil, event.Named("OrderShipped"))

		assert.False(t, all.Accept(placed))
		assert.True(t, all.Accept(shipped))
		assert.False(t, all.Accept(invoice))
	})
}

func TestBroadcaster(t *testing.T) {
	ctx := context.Background()

	recording := func(published *[]orderEvent) event.Publisher[orderEvent] {
		return event.PublisherFunc[orderEvent](func(_ context.Context, evt orderEvent) error {
			*published = append(*published, evt)
			return nil
		})
	}

	t.Run("publishing with no publisher fails", func(t *testing.T) {
		var b event.Broadcaster[orderEvent]

		assert.ErrorIs(t, b.Publish(ctx, orderPlaced{}), event.ErrNoPublisher)
	})

	t.Run("events are forwarded unmodified", func(t *testing.T) {
		var (
			b         event.Broadcaster[orderEvent]
			published []orderEvent
		)

		require.NoError(t, b.Use(recording(&published)))

		evt := orderPlaced{Base: event.NewBase(time.Now())}
		require.NoError(t, b.Publish(ctx, evt))

		assert.Equal(t, []orderEvent{evt}, published)
	})

	t.Run("the publisher can only be configured once", func(t *testing.T) {
		var published []orderEvent

		b := event.NewBroadcaster(recording(&published))

		assert.ErrorIs(t, b.Use(recording(&published)), event.ErrPublisherAlreadySet)
	})

	t.Run("publish all stops at the first failure", func(t *testing.T) {
		errFailed := errors.New("failed")
		calls := 0

		b := event.NewBroadcaster(event.PublisherFunc[orderEvent](func(context.Context, orderEvent) error {
			calls++
			return errFailed
		}))

		err := b.PublishAll(ctx, orderPlaced{}, orderShipped{})

		assert.ErrorIs(t, err, errFailed)
		assert.Equal(t, 1, calls)
	})

	t.Run("publish all rejects events of another type", func(t *testing.T) {
		var published []orderEvent

		b := event.NewBroadcaster(recording(&published))

		err := b.PublishAll(ctx, orderPlaced{}, invoiceSent{}, orderShipped{})

		assert.ErrorIs(t, err, event.ErrUnexpectedEvent)
		assert.Len(t, published, 1)
	})

	t.Run("publisher of narrows a generic publisher", func(t *testing.T) {
		var published []event.Event

		generic := event.PublisherFunc[event.Event](func(_ context.Context, evt event.Event) error {
			published = append(published, evt)
			return nil
		})

		require.NoError(t, event.PublisherOf[orderShipped](generic).Publish(ctx, orderShipped{}))
		assert.Equal(t, []event.Event{orderShipped{}}, published)
	})
}
