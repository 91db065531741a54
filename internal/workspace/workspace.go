// Package workspace is the example domain reacting to the User Domain Events:
// a default Workspace is created through the Mediator for each new User.
//
// This package is used for integration tests in the parent module.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/aggregate"
	"github.com/hatchgrid/go-dispatch/event"
)

var _ aggregate.Root[uuid.UUID] = new(Workspace)

// WasCreated is the domain event fired after a Workspace is created.
type WasCreated struct {
	event.Base

	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// Name implements message.Message.
func (WasCreated) Name() string { return "WorkspaceWasCreated" }

// Workspace groups the resources owned by a User.
type Workspace struct {
	aggregate.BaseRoot

	id          uuid.UUID
	name        string
	description string
	ownerID     uuid.UUID
}

// All the errors returned by Workspace methods.
var (
	ErrInvalidName  = errors.New("workspace: invalid name, is empty")
	ErrInvalidOwner = errors.New("workspace: invalid owner, is empty")
)

// Create creates a new Workspace owned by the specified User.
func Create(id uuid.UUID, name, description string, ownerID uuid.UUID, now time.Time) (*Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwner
	}

	workspace := new(Workspace)

	if err := aggregate.RecordThat[uuid.UUID](workspace, WasCreated{
		Base:        event.NewBase(now),
		ID:          id,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}); err != nil {
		return nil, fmt.Errorf("workspace.Create: failed to record domain event, %w", err)
	}

	return workspace, nil
}

// Apply implements aggregate.Aggregate.
func (w *Workspace) Apply(evt event.Event) error {
	created, ok := evt.(WasCreated)
	if !ok {
		return fmt.Errorf("workspace.Apply: unexpected event type, %T", evt)
	}

	w.id = created.ID
	w.name = created.Name
	w.description = created.Description
	w.ownerID = created.OwnerID

	return nil
}

// AggregateID implements aggregate.Root.
func (w *Workspace) AggregateID() uuid.UUID { return w.id }

func (w *Workspace) view() View {
	return View{
		ID:          w.id,
		Name:        w.name,
		Description: w.description,
		OwnerID:     w.ownerID,
	}
}
