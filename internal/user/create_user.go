package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/event"
)

var (
	_ command.Command                                 = CreateCommand{}
	_ command.ResultHandler[CreateCommand, uuid.UUID] = CreateCommandHandler{}
)

// CreateCommand is a domain command that can be used to create a new User.
type CreateCommand struct {
	FirstName, LastName string
	Email               string
}

// Name implements command.Command.
func (CreateCommand) Name() string { return "CreateUser" }

// CreateCommandHandler is the command handler for CreateCommand domain commands,
// returning the identifier of the new User.
type CreateCommandHandler struct {
	UUIDGenerator func() uuid.UUID
	Clock         func() time.Time
	Repository    *Repository
	Events        *event.Broadcaster[Event]
}

// Handle implements command.ResultHandler.
func (h CreateCommandHandler) Handle(ctx context.Context, cmd CreateCommand) (uuid.UUID, error) {
	user, err := Create(h.UUIDGenerator(), cmd.FirstName, cmd.LastName, cmd.Email, h.Clock())
	if err != nil {
		return uuid.Nil, fmt.Errorf("user.CreateCommandHandler: failed to create new User, %w", err)
	}

	if err := h.Repository.Save(ctx, user); err != nil {
		return uuid.Nil, fmt.Errorf("user.CreateCommandHandler: failed to save new User to repository, %w", err)
	}

	if err := publishRecorded(ctx, user, h.Events); err != nil {
		return uuid.Nil, fmt.Errorf("user.CreateCommandHandler: %w", err)
	}

	return user.AggregateID(), nil
}

var _ command.Handler[UpdateEmailCommand] = UpdateEmailCommandHandler{}

// UpdateEmailCommand is a domain command that can be used to update the email of a User.
type UpdateEmailCommand struct {
	ID    uuid.UUID
	Email string
}

// Name implements command.Command.
func (UpdateEmailCommand) Name() string { return "UpdateUserEmail" }

// UpdateEmailCommandHandler is the command handler for UpdateEmailCommand domain commands.
type UpdateEmailCommandHandler struct {
	Clock      func() time.Time
	Repository *Repository
	Events     *event.Broadcaster[Event]
}

// Handle implements command.Handler.
func (h UpdateEmailCommandHandler) Handle(ctx context.Context, cmd UpdateEmailCommand) error {
	user, err := h.Repository.Get(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("user.UpdateEmailCommandHandler: %w", err)
	}

	if err := user.UpdateEmail(cmd.Email, h.Clock()); err != nil {
		return fmt.Errorf("user.UpdateEmailCommandHandler: failed to update email, %w", err)
	}

	if err := h.Repository.Save(ctx, user); err != nil {
		return fmt.Errorf("user.UpdateEmailCommandHandler: failed to save User to repository, %w", err)
	}

	if err := publishRecorded(ctx, user, h.Events); err != nil {
		return fmt.Errorf("user.UpdateEmailCommandHandler: %w", err)
	}

	return nil
}
