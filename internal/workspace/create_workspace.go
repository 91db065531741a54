package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/event"
)

var _ command.Handler[CreateCommand] = CreateCommandHandler{}

// CreateCommand is a domain command that can be used to create a new Workspace.
type CreateCommand struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// Name implements command.Command.
func (CreateCommand) Name() string { return "CreateWorkspace" }

// CreateCommandHandler is the command handler for CreateCommand domain commands.
type CreateCommandHandler struct {
	Clock      func() time.Time
	Repository *Repository
	Events     *event.Broadcaster[WasCreated]
}

// Handle implements command.Handler.
func (h CreateCommandHandler) Handle(ctx context.Context, cmd CreateCommand) error {
	workspace, err := Create(cmd.ID, cmd.Name, cmd.Description, cmd.OwnerID, h.Clock())
	if err != nil {
		return fmt.Errorf("workspace.CreateCommandHandler: failed to create new Workspace, %w", err)
	}

	if err := h.Repository.Create(ctx, workspace); err != nil {
		return fmt.Errorf("workspace.CreateCommandHandler: failed to save new Workspace, %w", err)
	}

	if err := h.Events.PublishAll(ctx, workspace.PullDomainEvents()...); err != nil {
		return fmt.Errorf("workspace.CreateCommandHandler: failed to publish domain events, %w", err)
	}

	return nil
}
