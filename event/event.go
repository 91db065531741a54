// Package event contains the types used to describe Domain Events,
// the components reacting to them (Consumers) and the narrow
// Broadcaster handle application services use to publish them.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/hatchgrid/go-dispatch/message"
)

// Event is a Message representing some Domain information that has happened
// in the past, which is of vital information to the Domain itself.
//
// Event type names should be phrased in the past tense, to enforce the notion
// of "information happened in the past".
type Event message.Message

// DefaultVersion is the schema version of a Domain Event that has not
// specified one explicitly.
const DefaultVersion = 1

// DomainEvent is an Event produced by an Aggregate during a mutation.
//
// Domain Events are immutable: their identifier, occurrence time and
// schema version are fixed when the Event is created.
type DomainEvent interface {
	Event

	EventID() uuid.UUID
	OccurredOn() time.Time
	Version() int
}

// Base completes the DomainEvent interface implementation
// when embedded to a user-defined Domain Event type.
//
// Use NewBase or NewBaseWithVersion to create a new instance.
type Base struct {
	id         uuid.UUID
	occurredOn time.Time
	version    int
}

// NewBase returns a Base with a random identifier, occurred at the specified time,
// using the DefaultVersion schema version.
func NewBase(occurredOn time.Time) Base {
	return NewBaseWithVersion(occurredOn, DefaultVersion)
}

// NewBaseWithVersion returns a Base with a random identifier, occurred at
// the specified time, using the provided schema version.
//
// Versions lower than 1 are replaced with DefaultVersion.
func NewBaseWithVersion(occurredOn time.Time, version int) Base {
	if version < 1 {
		version = DefaultVersion
	}

	return Base{
		id:         uuid.New(),
		occurredOn: occurredOn,
		version:    version,
	}
}

// EventID returns the unique identifier of the Domain Event.
func (b Base) EventID() uuid.UUID { return b.id }

// OccurredOn returns the time the Domain Event has been created.
func (b Base) OccurredOn() time.Time { return b.occurredOn }

// Version returns the schema version of the Domain Event.
func (b Base) Version() int {
	if b.version == 0 {
		return DefaultVersion
	}

	return b.version
}
