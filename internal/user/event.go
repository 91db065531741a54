package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/event"
)

// Event is a Domain Event recorded by the User aggregate.
type Event interface {
	event.DomainEvent

	UserID() uuid.UUID
	isUserEvent()
}

var (
	_ Event = WasCreated{}
	_ Event = EmailWasUpdated{}
)

// WasCreated is the domain event fired after a User is created.
type WasCreated struct {
	event.Base

	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

// Name implements message.Message.
func (WasCreated) Name() string { return "UserWasCreated" }

// UserID returns the identifier of the created User.
func (evt WasCreated) UserID() uuid.UUID { return evt.ID }
func (WasCreated) isUserEvent()          {}

// EmailWasUpdated is the domain event fired after a User email is updated.
type EmailWasUpdated struct {
	event.Base

	ID            uuid.UUID
	PreviousEmail string
	Email         string
}

// Name implements message.Message.
func (EmailWasUpdated) Name() string { return "UserEmailWasUpdated" }

// UserID returns the identifier of the updated User.
func (evt EmailWasUpdated) UserID() uuid.UUID { return evt.ID }
func (EmailWasUpdated) isUserEvent()          {}

func newBase(now time.Time) event.Base { return event.NewBase(now) }
