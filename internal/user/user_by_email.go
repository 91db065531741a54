package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/query"
)

// View is a public-facing representation of a User entity.
// Can be obtained through a Query handler.
type View struct {
	ID                  uuid.UUID
	Email               string
	FirstName, LastName string
}

var (
	_ query.Query                     = GetByEmail("test@email.com")
	_ query.Handler[GetByEmail, View] = new(GetByEmailHandler)
	_ event.Consumer[Event]           = new(GetByEmailHandler)
)

// GetByEmail is a Domain Query that can be used to fetch a specific User given its email.
type GetByEmail string

// Name implements query.Query.
func (GetByEmail) Name() string { return "GetUserByEmail" }

// GetByEmailHandler is a stateful Query Handler that maintains a list of Users
// indexed by their email, by consuming the User Domain Events.
//
// GetByEmailHandler is thread-safe.
type GetByEmailHandler struct {
	mx   sync.RWMutex
	data map[string]View
}

// NewGetByEmailHandler creates a new GetByEmailHandler instance.
func NewGetByEmailHandler() *GetByEmailHandler {
	return &GetByEmailHandler{data: make(map[string]View)}
}

// Handle implements query.Handler.
func (handler *GetByEmailHandler) Handle(_ context.Context, q GetByEmail) (View, error) {
	handler.mx.RLock()
	defer handler.mx.RUnlock()

	user, ok := handler.data[string(q)]
	if !ok {
		return View{}, fmt.Errorf("user.GetByEmailHandler: failed to get User by email, %w", ErrNotFound)
	}

	return user, nil
}

// Consume implements event.Consumer.
func (handler *GetByEmailHandler) Consume(_ context.Context, evt Event) error {
	handler.mx.Lock()
	defer handler.mx.Unlock()

	switch evt := evt.(type) {
	case WasCreated:
		handler.data[evt.Email] = View{
			ID:        evt.ID,
			Email:     evt.Email,
			FirstName: evt.FirstName,
			LastName:  evt.LastName,
		}

	case EmailWasUpdated:
		view, ok := handler.data[evt.PreviousEmail]
		if !ok {
			return fmt.Errorf("user.GetByEmailHandler: expected view to be registered, none found")
		}

		delete(handler.data, evt.PreviousEmail)
		view.Email = evt.Email
		handler.data[view.Email] = view

	default:
		return fmt.Errorf("user.GetByEmailHandler: unexpected User event, %T", evt)
	}

	return nil
}
