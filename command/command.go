package command

import (
	"context"

	"github.com/hatchgrid/go-dispatch/message"
)

// Command is a Message representing an action being performed by something
// or somebody.
//
// In order to enforce this concept, it is suggested to name Command types
// using "present tense".
type Command message.Message

// Handler is the interface that defines a Command Handler,
// a component that receives a specific kind of Command
// and executes the business logic related to that particular Command.
type Handler[T Command] interface {
	Handle(ctx context.Context, cmd T) error
}

// HandlerFunc is a functional type that implements the Handler interface.
// Useful for testing and stateless Handlers.
type HandlerFunc[T Command] func(context.Context, T) error

// Handle handles the provided Command through the functional Handler.
func (fn HandlerFunc[T]) Handle(ctx context.Context, cmd T) error {
	return fn(ctx, cmd)
}

// ResultHandler is a Command Handler that also returns a value to the caller,
// typically the identifier of the resource the Command has created.
//
// Prefer Handler where possible: a Command should not be used to read state.
type ResultHandler[T Command, R any] interface {
	Handle(ctx context.Context, cmd T) (R, error)
}

// ResultHandlerFunc is a functional type that implements the ResultHandler interface.
type ResultHandlerFunc[T Command, R any] func(context.Context, T) (R, error)

// Handle handles the provided Command through the functional ResultHandler.
func (fn ResultHandlerFunc[T, R]) Handle(ctx context.Context, cmd T) (R, error) {
	return fn(ctx, cmd)
}
