package mediator

import "errors"

// All the configuration errors returned by the Builder and the Mediator.
var (
	// ErrHandlerNotFound is returned when dispatching a Message no Handler has been bound to.
	ErrHandlerNotFound = errors.New("mediator: handler not found")

	// ErrDuplicateHandler is returned by Builder.Build when more than one
	// Handler has been bound to the same Message.
	ErrDuplicateHandler = errors.New("mediator: duplicate handler")

	// ErrInvalidBinding is returned by Builder.Build for zero-value Bindings.
	ErrInvalidBinding = errors.New("mediator: invalid binding")

	// ErrBuilderAlreadyUsed is returned when calling Builder.Build more than once.
	ErrBuilderAlreadyUsed = errors.New("mediator: builder already used")

	// ErrMessageTypeMismatch is returned when a Message shares its name with
	// the Message a Handler has been bound to, but not its type.
	ErrMessageTypeMismatch = errors.New("mediator: message type mismatch")

	// ErrResponseTypeMismatch is returned when the Response type requested
	// by the caller differs from the one of the bound Handler.
	ErrResponseTypeMismatch = errors.New("mediator: response type mismatch")

	// ErrNoEventBus is returned by Mediator.Publish when no event bus
	// has been provided to the Builder.
	ErrNoEventBus = errors.New("mediator: no event bus configured")
)
