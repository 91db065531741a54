package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrAlreadyExists is returned when saving a new Workspace with
// the identifier of an existing one.
var ErrAlreadyExists = errors.New("workspace: already exists")

// Repository is a thread-safe, in-memory Workspace repository.
type Repository struct {
	mx         sync.RWMutex
	workspaces map[uuid.UUID]*Workspace
	byOwner    map[uuid.UUID][]uuid.UUID
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		workspaces: make(map[uuid.UUID]*Workspace),
		byOwner:    make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create stores the new Workspace.
func (r *Repository) Create(_ context.Context, w *Workspace) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	if _, ok := r.workspaces[w.id]; ok {
		return fmt.Errorf("workspace.Repository: failed to create Workspace '%s', %w", w.id, ErrAlreadyExists)
	}

	r.workspaces[w.id] = w
	r.byOwner[w.ownerID] = append(r.byOwner[w.ownerID], w.id)

	return nil
}

// FindByOwner returns the Workspaces owned by the User, in creation order.
func (r *Repository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]View, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	ids := r.byOwner[ownerID]
	views := make([]View, 0, len(ids))

	for _, id := range ids {
		views = append(views, r.workspaces[id].view())
	}

	return views, nil
}
