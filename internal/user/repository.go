package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/event"
)

// ErrNotFound is returned when a specific User has not been found.
var ErrNotFound = errors.New("user: not found")

// Repository is a thread-safe, in-memory User repository.
//
// Users are stored by value: every Get returns a new instance, so that
// concurrent mutations of the same User never share memory.
type Repository struct {
	mx    sync.RWMutex
	users map[uuid.UUID]snapshot
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{users: make(map[uuid.UUID]snapshot)}
}

// Get returns a copy of the User with the specified id.
func (r *Repository) Get(_ context.Context, id uuid.UUID) (*User, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user.Repository: failed to get User '%s', %w", id, ErrNotFound)
	}

	return user.restore(), nil
}

// Save stores the User state, without its pending Domain Events.
func (r *Repository) Save(_ context.Context, user *User) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.users[user.AggregateID()] = user.snapshot()

	return nil
}

// publishRecorded pulls the Domain Events recorded by the User,
// and publishes them once it has been saved.
func publishRecorded(ctx context.Context, user *User, events *event.Broadcaster[Event]) error {
	if err := events.PublishAll(ctx, user.PullDomainEvents()...); err != nil {
		return fmt.Errorf("user: failed to publish domain events, %w", err)
	}

	return nil
}
