// Package aggregate contains the building blocks for Aggregate Roots
// that record Domain Events during a mutation, so that the application
// services can publish them once the mutation has completed.
package aggregate

import (
	"fmt"
	"sync"

	"github.com/hatchgrid/go-dispatch/event"
)

// ID represents an Aggregate ID type.
type ID interface {
	fmt.Stringer
}

// StringID is a string-typed Aggregate ID.
type StringID string

func (id StringID) String() string { return string(id) }

// Aggregate is the segregated interface, part of the Aggregate Root interface,
// that describes the left-folding behavior of Domain Events to update the
// Aggregate Root state.
type Aggregate interface {
	// Apply applies the specified Event to the Aggregate Root,
	// by causing a state change in the Aggregate Root instance.
	//
	// Since this method cause a state change, implementors should make sure
	// to use pointer semantics on their Aggregate Root method receivers.
	//
	// This method should be free of side effects, save for the
	// Aggregate Root state mutation. Version returns the version
	// preceding the Event being applied.
	Apply(event.Event) error
}

// Root is the interface describing an Aggregate Root instance.
//
// This interface should be implemented by your Aggregate Root types.
// Make sure your Aggregate Root types embed the aggregate.BaseRoot type
// to complete the implementation of this interface.
type Root[I ID] interface {
	Aggregate

	// AggregateID returns the Aggregate Root identifier.
	AggregateID() I

	// Version returns the current Aggregate Root version, incremented
	// by each Domain Event recorded through aggregate.RecordThat.
	Version() int64

	// PullDomainEvents returns the Domain Events recorded since the
	// last call, emptying the pending buffer.
	PullDomainEvents() []event.Event

	recordThat(Aggregate, ...event.Event) error
}

// RecordThat applies the Domain Events to the Aggregate Root, and records
// them in its pending buffer.
//
// An error is returned if applying one of the Domain Events fails: the events
// preceding it stay recorded.
func RecordThat[I ID](root Root[I], events ...event.Event) error {
	return root.recordThat(root, events...)
}

// BaseRoot segregates and completes the aggregate.Root interface implementation
// when embedded to a user-defined Aggregate Root type.
//
// BaseRoot tracks the current Aggregate Root version and the
// recorded-but-unpublished Domain Events.
type BaseRoot struct {
	mx             sync.Mutex
	version        int64
	recordedEvents []event.Event
}

// Version returns the current version of the Aggregate Root instance.
func (br *BaseRoot) Version() int64 {
	br.mx.Lock()
	defer br.mx.Unlock()

	return br.version
}

// PullDomainEvents atomically returns the pending Domain Events and empties
// the buffer: a second call with no recording in between returns no events.
func (br *BaseRoot) PullDomainEvents() []event.Event {
	br.mx.Lock()
	defer br.mx.Unlock()

	pulled := br.recordedEvents
	br.recordedEvents = nil

	return pulled
}

func (br *BaseRoot) recordThat(aggregate Aggregate, events ...event.Event) error {
	for _, evt := range events {
		// mx must not be held while applying: Apply may read the Version.
		if err := aggregate.Apply(evt); err != nil {
			return fmt.Errorf("aggregate: failed to record event '%s': %w", evt.Name(), err)
		}

		br.mx.Lock()
		br.recordedEvents = append(br.recordedEvents, evt)
		br.version++
		br.mx.Unlock()
	}

	return nil
}
