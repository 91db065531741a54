package mediator

import (
	"context"
	"fmt"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/message"
	"github.com/hatchgrid/go-dispatch/query"
)

// Keys used by the Builder to resolve its dependencies from a
// provider.DependencyProvider.
const (
	BindingsKey        = "mediator.bindings"
	BehaviorsKey       = "mediator.behaviors"
	PublishStrategyKey = "mediator.publish_strategy"
)

type handleFunc func(ctx context.Context, msg message.Message) (any, error)

// Binding maps exactly one Message, identified by its name,
// to exactly one Handler.
//
// Bindings are immutable: use BindCommand, BindCommandWithResult
// or BindQuery to create one.
type Binding struct {
	kind    message.Kind
	name    string
	handle  handleFunc
	returns func(target any) bool
}

// Kind returns the kind of Message bound.
func (b Binding) Kind() message.Kind { return b.kind }

// MessageName returns the name of the Message bound.
func (b Binding) MessageName() string { return b.name }

func (b Binding) valid() bool { return b.handle != nil && b.name != "" }

// family groups the Message kinds sharing the same routing table:
// a Command can be bound to a single Handler, with or without result.
func (b Binding) family() message.Kind {
	if b.kind == message.KindCommandWithResult {
		return message.KindCommand
	}

	return b.kind
}

// returnsType reports whether the bound Handler returns values of type R.
func returnsType[R any](b Binding) bool {
	return b.returns != nil && b.returns((*R)(nil))
}

func returnsFunc[R any]() func(target any) bool {
	return func(target any) bool {
		_, ok := target.(*R)
		return ok
	}
}

func assertMessage[T message.Message](msg message.Message) (T, error) {
	typed, ok := msg.(T)
	if !ok {
		return typed, fmt.Errorf("%w: '%s' is %T, expected %T", ErrMessageTypeMismatch, msg.Name(), msg, typed)
	}

	return typed, nil
}

// BindCommand binds the Handler to the Command type T.
func BindCommand[T command.Command](handler command.Handler[T]) Binding {
	var zero T

	return Binding{
		kind: message.KindCommand,
		name: zero.Name(),
		handle: func(ctx context.Context, msg message.Message) (any, error) {
			cmd, err := assertMessage[T](msg)
			if err != nil {
				return nil, err
			}

			if err := handler.Handle(ctx, cmd); err != nil {
				return nil, command.NewExecutionError(cmd, err)
			}

			return nil, nil
		},
	}
}

// BindCommandWithResult binds the ResultHandler to the Command type T.
func BindCommandWithResult[T command.Command, R any](handler command.ResultHandler[T, R]) Binding {
	var zero T

	return Binding{
		kind:    message.KindCommandWithResult,
		name:    zero.Name(),
		returns: returnsFunc[R](),
		handle: func(ctx context.Context, msg message.Message) (any, error) {
			cmd, err := assertMessage[T](msg)
			if err != nil {
				return nil, err
			}

			result, err := handler.Handle(ctx, cmd)
			if err != nil {
				return nil, command.NewExecutionError(cmd, err)
			}

			return result, nil
		},
	}
}

// BindQuery binds the Handler to the Query type T, answering with
// a Response of type R.
func BindQuery[T query.Query, R any](handler query.Handler[T, R]) Binding {
	var zero T

	return Binding{
		kind:    message.KindQuery,
		name:    zero.Name(),
		returns: returnsFunc[R](),
		handle: func(ctx context.Context, msg message.Message) (any, error) {
			q, err := assertMessage[T](msg)
			if err != nil {
				return nil, err
			}

			result, err := handler.Handle(ctx, q)
			if err != nil {
				return nil, query.NewExecutionError(q, err)
			}

			return result, nil
		},
	}
}
