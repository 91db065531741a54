package workspace

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/query"
)

// View is a public-facing representation of a Workspace.
type View struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
}

var _ query.Handler[FindByOwner, []View] = FindByOwnerHandler{}

// FindByOwner is a Domain Query returning all the Workspaces owned by a User.
type FindByOwner struct {
	OwnerID uuid.UUID
}

// Name implements query.Query.
func (FindByOwner) Name() string { return "FindWorkspacesByOwner" }

// FindByOwnerHandler is the query handler for FindByOwner Domain Queries.
type FindByOwnerHandler struct {
	Repository *Repository
}

// Handle implements query.Handler.
func (h FindByOwnerHandler) Handle(ctx context.Context, q FindByOwner) ([]View, error) {
	views, err := h.Repository.FindByOwner(ctx, q.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("workspace.FindByOwnerHandler: failed to find Workspaces, %w", err)
	}

	return views, nil
}
