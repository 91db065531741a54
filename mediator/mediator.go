package mediator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/message"
	"github.com/hatchgrid/go-dispatch/query"
)

// Mediator dispatches Commands and Queries to their Handler, and Events
// to the attached event bus, through the configured Behaviors.
//
// A Mediator is safe for concurrent use: its routing table is never
// modified after Builder.Build.
type Mediator struct {
	commands  map[string]Binding
	queries   map[string]Binding
	behaviors []Behavior
	strategy  eventbus.Strategy
	bus       *eventbus.Bus
}

// PublishStrategy returns the default Strategy used by Publish.
func (m *Mediator) PublishStrategy() eventbus.Strategy { return m.strategy }

// EventBus returns the attached Bus, if any.
func (m *Mediator) EventBus() *eventbus.Bus { return m.bus }

// Send dispatches the Command to its Handler.
//
// A failure of the Handler is returned as a *command.ExecutionError.
func (m *Mediator) Send(ctx context.Context, cmd command.Command) error {
	_, err := m.dispatch(ctx, message.KindCommand, cmd, func(ctx context.Context, req Request) (any, error) {
		binding, err := m.lookup(m.commands, req)
		if err != nil {
			return nil, err
		}

		return binding.handle(ctx, req.Message)
	})

	return err
}

// SendWithResult dispatches the Command to its ResultHandler,
// returning the result of type R.
func SendWithResult[R any](ctx context.Context, m *Mediator, cmd command.Command) (R, error) {
	return dispatchFor[R](ctx, m, message.KindCommandWithResult, m.commands, cmd)
}

// Ask dispatches the Query to its Handler, returning exactly
// the Response of type R the Handler produced.
//
// A failure of the Handler is returned as a *query.ExecutionError.
func Ask[R any](ctx context.Context, m *Mediator, q query.Query) (R, error) {
	return dispatchFor[R](ctx, m, message.KindQuery, m.queries, q)
}

// Publish publishes the Event to the attached Bus, using the
// default publish Strategy.
func (m *Mediator) Publish(ctx context.Context, evt event.Event) error {
	return m.PublishWith(ctx, evt, m.strategy)
}

// PublishWith publishes the Event to the attached Bus, using the provided Strategy.
func (m *Mediator) PublishWith(ctx context.Context, evt event.Event, strategy eventbus.Strategy) error {
	_, err := m.dispatch(ctx, message.KindEvent, evt, func(ctx context.Context, req Request) (any, error) {
		if m.bus == nil {
			return nil, ErrNoEventBus
		}

		return nil, m.bus.PublishWith(ctx, req.Message, strategy)
	})

	return err
}

func (m *Mediator) dispatch(ctx context.Context, kind message.Kind, msg message.Message, handle Next) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mediator: failed to dispatch %s '%s': %w", kind, msg.Name(), err)
	}

	return chain(m.behaviors, handle)(ctx, Request{Kind: kind, Message: msg})
}

func (m *Mediator) lookup(table map[string]Binding, req Request) (Binding, error) {
	binding, ok := table[req.Message.Name()]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s '%s'", ErrHandlerNotFound, req.Kind, req.Message.Name())
	}

	return binding, nil
}

func dispatchFor[R any](
	ctx context.Context,
	m *Mediator,
	kind message.Kind,
	table map[string]Binding,
	msg message.Message,
) (R, error) {
	var zero R

	result, err := m.dispatch(ctx, kind, msg, func(ctx context.Context, req Request) (any, error) {
		binding, err := m.lookup(table, req)
		if err != nil {
			return nil, err
		}

		if binding.kind != kind || !returnsType[R](binding) {
			return nil, fmt.Errorf("%w: %s '%s' is not bound to a handler returning %s",
				ErrResponseTypeMismatch, kind, req.Message.Name(), typeName[R]())
		}

		return binding.handle(ctx, req.Message)
	})
	if err != nil {
		return zero, err
	}

	if result == nil {
		return zero, nil
	}

	response, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s '%s' returned %T, expected %s",
			ErrResponseTypeMismatch, kind, msg.Name(), result, typeName[R]())
	}

	return response, nil
}

func typeName[R any]() string {
	return strings.TrimPrefix(fmt.Sprintf("%T", (*R)(nil)), "*")
}
