package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchgrid/go-dispatch/event"
)

// ProcessorHandler is a Query Handler that can both handle domain queries,
// and consume domain events of type E to hydrate the query model.
//
// To be used in the Scenario.
type ProcessorHandler[Q Query, R any, E event.Event] interface {
	Handler[Q, R]
	event.Consumer[E]
}

// ScenarioInit is the entrypoint of the Query Handler scenario API.
//
// A Query Handler scenario can either set the current evaluation context
// by using Given(), or test a "clean-slate" scenario by using When() directly.
type ScenarioInit[Q Query, R any, E event.Event, T ProcessorHandler[Q, R, E]] struct{}

// Scenario can be used to test the result of Domain Queries
// being handled by a Query Handler.
//
// This scenario API helps you with testing the values returned by a Query
// Handler when handling a specific Domain Query, after it has consumed
// the Domain Events provided with Given().
func Scenario[Q Query, R any, E event.Event, T ProcessorHandler[Q, R, E]]() ScenarioInit[Q, R, E, T] {
	return ScenarioInit[Q, R, E, T]{}
}

// Given sets the Query Handler scenario preconditions: the Domain Events
// that have happened thus far, consumed in order before evaluating the Query.
func (sc ScenarioInit[Q, R, E, T]) Given(events ...E) ScenarioGiven[Q, R, E, T] {
	return ScenarioGiven[Q, R, E, T]{
		given: events,
	}
}

// When provides the Domain Query to evaluate.
func (sc ScenarioInit[Q, R, E, T]) When(q Q) ScenarioWhen[Q, R, E, T] {
	return ScenarioWhen[Q, R, E, T]{
		when: q,
	}
}

// ScenarioGiven is the state of the scenario once
// a set of Domain Events have been provided using Given(), to represent
// the state of the system at the time of evaluating a Domain Query.
type ScenarioGiven[Q Query, R any, E event.Event, T ProcessorHandler[Q, R, E]] struct {
	given []E
}

// When provides the Domain Query to evaluate.
func (sc ScenarioGiven[Q, R, E, T]) When(q Q) ScenarioWhen[Q, R, E, T] {
	return ScenarioWhen[Q, R, E, T]{
		ScenarioGiven: sc,
		when:          q,
	}
}

// ScenarioWhen is the state of the scenario once the state of the
// system and the Domain Query to evaluate has been provided.
type ScenarioWhen[Q Query, R any, E event.Event, T ProcessorHandler[Q, R, E]] struct {
	ScenarioGiven[Q, R, E, T]
	when Q
}

// Then sets a positive expectation on the scenario outcome, to produce
// the Response provided in input.
func (sc ScenarioWhen[Q, R, E, T]) Then(result R) ScenarioThen[Q, R, E, T] {
	return ScenarioThen[Q, R, E, T]{
		ScenarioWhen: sc,
		then:         result,
	}
}

// ThenError sets a negative expectation on the scenario outcome,
// to produce an error value that is similar to the one provided in input.
//
// Error assertion happens using errors.Is(), so the error returned
// by the Query Handler is unwrapped until the cause error to match
// the provided expectation.
func (sc ScenarioWhen[Q, R, E, T]) ThenError(err error) ScenarioThen[Q, R, E, T] {
	return ScenarioThen[Q, R, E, T]{
		ScenarioWhen: sc,
		wantError:    true,
		thenError:    err,
	}
}

// ThenFails sets a negative expectation on the scenario outcome,
// to fail the Domain Query evaluation with no particular assertion on the error returned.
func (sc ScenarioWhen[Q, R, E, T]) ThenFails() ScenarioThen[Q, R, E, T] {
	return ScenarioThen[Q, R, E, T]{
		ScenarioWhen: sc,
		wantError:    true,
	}
}

// ScenarioThen is the state of the scenario once the preconditions
// and expectations have been fully specified.
type ScenarioThen[Q Query, R any, E event.Event, T ProcessorHandler[Q, R, E]] struct {
	ScenarioWhen[Q, R, E, T]

	then      R
	thenError error
	wantError bool
}

// AssertOn performs the specified expectations of the scenario, using the Query Handler
// instance produced by the provided factory function.
func (sc ScenarioThen[Q, R, E, T]) AssertOn( //nolint:gocritic
	t *testing.T,
	handlerFactory func() T,
) {
	ctx := context.Background()
	queryHandler := handlerFactory()

	for _, evt := range sc.given {
		err := queryHandler.Consume(ctx, evt)
		require.NoError(t, err, "event failed to be consumed by the query handler", evt)
	}

	actual, err := queryHandler.Handle(ctx, sc.when)

	if !sc.wantError {
		assert.NoError(t, err)
		assert.Equal(t, sc.then, actual)

		return
	}

	if !assert.Error(t, err) {
		return
	}

	if sc.thenError != nil {
		assert.ErrorIs(t, err, sc.thenError)
	}
}
