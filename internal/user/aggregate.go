// Package user serves as a small domain example of an Aggregate whose
// mutations are dispatched through the Mediator, and whose Domain Events
// are published to the event bus.
//
// This package is used for integration tests in the parent module.
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/aggregate"
	"github.com/hatchgrid/go-dispatch/event"
)

var _ aggregate.Root[uuid.UUID] = new(User)

// User is a naive user implementation, modeled as an Aggregate.
type User struct {
	aggregate.BaseRoot

	// Aggregate field should remain unexported if possible,
	// to enforce encapsulation.

	id        uuid.UUID
	firstName string
	lastName  string
	email     string
}

// Apply implements aggregate.Aggregate.
func (user *User) Apply(evt event.Event) error {
	switch evt := evt.(type) {
	case WasCreated:
		user.id = evt.ID
		user.firstName = evt.FirstName
		user.lastName = evt.LastName
		user.email = evt.Email
	case EmailWasUpdated:
		user.email = evt.Email
	default:
		return fmt.Errorf("user.Apply: unexpected event type, %T", evt)
	}

	return nil
}

// AggregateID implements aggregate.Root.
func (user *User) AggregateID() uuid.UUID {
	return user.id
}

// Email returns the current User email.
func (user *User) Email() string { return user.email }

// snapshot is the state of a User, as kept by the Repository.
type snapshot struct {
	id        uuid.UUID
	firstName string
	lastName  string
	email     string
}

func (user *User) snapshot() snapshot {
	return snapshot{
		id:        user.id,
		firstName: user.firstName,
		lastName:  user.lastName,
		email:     user.email,
	}
}

func (s snapshot) restore() *User {
	return &User{
		id:        s.id,
		firstName: s.firstName,
		lastName:  s.lastName,
		email:     s.email,
	}
}

// All the errors returned by User methods.
var (
	ErrInvalidFirstName = errors.New("user: invalid first name, is empty")
	ErrInvalidEmail     = errors.New("user: invalid email, is empty")
)

// Create creates a new User using the provided input.
func Create(id uuid.UUID, firstName, lastName, email string, now time.Time) (*User, error) {
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}

	if email == "" {
		return nil, ErrInvalidEmail
	}

	user := new(User)

	if err := aggregate.RecordThat[uuid.UUID](user, WasCreated{
		Base:      newBase(now),
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}); err != nil {
		return nil, fmt.Errorf("user.Create: failed to record domain event, %w", err)
	}

	return user, nil
}

// UpdateEmail updates the User email with the specified one.
func (user *User) UpdateEmail(email string, now time.Time) error {
	if email == "" {
		return ErrInvalidEmail
	}

	if err := aggregate.RecordThat[uuid.UUID](user, EmailWasUpdated{
		Base:          newBase(now),
		ID:            user.id,
		PreviousEmail: user.email,
		Email:         email,
	}); err != nil {
		return fmt.Errorf("user.UpdateEmail: failed to record domain event, %w", err)
	}

	return nil
}
