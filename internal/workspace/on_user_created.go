package workspace

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/internal/user"
	"github.com/hatchgrid/go-dispatch/logger"
)

// Sender dispatches a Command to its Handler, e.g. *mediator.Mediator.
type Sender interface {
	Send(ctx context.Context, cmd command.Command) error
}

// Finder returns the Workspaces owned by a User.
type Finder interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]View, error)
}

const defaultDescription = "Default workspace created automatically upon user registration"

var _ event.Consumer[user.WasCreated] = CreateDefaultOnUserCreation{}

// CreateDefaultOnUserCreation creates a default Workspace for each new User
// that does not own one already.
//
// A failure to create the Workspace is logged, and never returned:
// the User stays valid, without a Workspace.
type CreateDefaultOnUserCreation struct {
	UUIDGenerator func() uuid.UUID
	Finder        Finder
	Sender        Sender
	Logger        logger.Logger
}

// Consume implements event.Consumer.
func (c CreateDefaultOnUserCreation) Consume(ctx context.Context, evt user.WasCreated) error {
	fields := []logger.Field{logger.With("user.id", evt.ID.String())}

	existing, err := c.Finder.FindByOwner(ctx, evt.ID)
	if err != nil {
		logger.Error(c.Logger, "Failed to look up the workspaces of the new user", append(fields, logger.Err(err))...)
		return nil
	}

	if len(existing) > 0 {
		logger.Debug(c.Logger, "User already has a workspace, skipping default workspace creation",
			append(fields, logger.With("workspaces", len(existing)))...)

		return nil
	}

	cmd := CreateCommand{
		ID:          c.UUIDGenerator(),
		Name:        DefaultName(evt.FirstName, evt.LastName),
		Description: defaultDescription,
		OwnerID:     evt.ID,
	}

	if err := c.Sender.Send(ctx, cmd); err != nil {
		logger.Error(c.Logger, "Failed to create the default workspace, the user will remain without one",
			append(fields, logger.Err(err))...)

		return nil
	}

	logger.Debug(c.Logger, "Default workspace created",
		append(fields, logger.With("workspace.id", cmd.ID.String()))...)

	return nil
}

// DefaultName returns the name of the default Workspace of a User.
func DefaultName(firstName, lastName string) string {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)

	switch {
	case firstName != "" && lastName != "":
		return firstName + " " + lastName + "'s Workspace"
	case firstName != "":
		return firstName + "'s Workspace"
	case lastName != "":
		return lastName + "'s Workspace"
	default:
		return "My Workspace"
	}
}
