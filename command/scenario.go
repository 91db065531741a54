package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hatchgrid/go-dispatch/event"
)

// ScenarioInit is the entrypoint of the Command Handler scenario API.
type ScenarioInit[Cmd Command, T Handler[Cmd]] struct{}

// Scenario is a scenario type to test the result of Commands
// being handled by a Command Handler.
//
// Command Handlers produce side effects that other components react to
// by means of Domain Events. This scenario API helps you with testing the
// Domain Events published by a Command Handler when handling a specific Command.
func Scenario[Cmd Command, T Handler[Cmd]]() ScenarioInit[Cmd, T] {
	return ScenarioInit[Cmd, T]{}
}

// When provides the Command to evaluate.
func (sc ScenarioInit[Cmd, T]) When(cmd Cmd) ScenarioWhen[Cmd, T] {
	return ScenarioWhen[Cmd, T]{when: cmd}
}

// ScenarioWhen is the state of the scenario once the Command
// to evaluate has been provided.
type ScenarioWhen[Cmd Command, T Handler[Cmd]] struct {
	when Cmd
}

// Then sets a positive expectation on the scenario outcome, to publish
// Domain Events with the names provided in input, in the same order.
//
// Domain Events carry a random identifier, so only their names are compared:
// use ThenPublished to assert on their content.
func (sc ScenarioWhen[Cmd, T]) Then(names ...string) ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		then:         names,
	}
}

// ThenError sets a negative expectation on the scenario outcome,
// to produce an error value that is similar to the one provided in input.
//
// Error assertion happens using errors.Is(), so the error returned
// by the Command Handler is unwrapped until the cause error to match
// the provided expectation.
func (sc ScenarioWhen[Cmd, T]) ThenError(err error) ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		thenError:    err,
		wantError:    true,
	}
}

// ThenFails sets a negative expectation on the scenario outcome,
// to fail the Command execution with no particular assertion on the error returned.
func (sc ScenarioWhen[Cmd, T]) ThenFails() ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		wantError:    true,
	}
}

// ScenarioThen is the state of the scenario once the Command
// and expectations have been fully specified.
type ScenarioThen[Cmd Command, T Handler[Cmd]] struct {
	ScenarioWhen[Cmd, T]

	then      []string
	published func(t *testing.T, events []event.Event)
	thenError error
	wantError bool
}

// ThenPublished adds an assertion on the Domain Events published by
// the Command Handler, evaluated when the Command succeeds.
func (sc ScenarioThen[Cmd, T]) ThenPublished(assertion func(t *testing.T, events []event.Event)) ScenarioThen[Cmd, T] {
	sc.published = assertion
	return sc
}

// AssertOn performs the specified expectations of the scenario, using the Command Handler
// instance produced by the provided factory function.
//
// The factory receives the Publisher the Command Handler should publish its
// Domain Events to: use event.PublisherOf to adapt it to the Handler needs.
// No Domain Event must be published when the Command fails.
func (sc ScenarioThen[Cmd, T]) AssertOn( //nolint:gocritic
	t *testing.T,
	handlerFactory func(event.Publisher[event.Event]) T,
) {
	recorder := new(publishRecorder)
	handler := handlerFactory(recorder)

	err := handler.Handle(context.Background(), sc.when)
	recorded := recorder.Recorded()

	if !sc.wantError {
		if !assert.NoError(t, err) {
			return
		}

		names := make([]string, 0, len(recorded))
		for _, evt := range recorded {
			names = append(names, evt.Name())
		}

		assert.Equal(t, sc.then, names)

		if sc.published != nil {
			sc.published(t, recorded)
		}

		return
	}

	if !assert.Error(t, err) {
		return
	}

	assert.Empty(t, recorded, "no domain event should be published on failure")

	if sc.thenError != nil {
		assert.ErrorIs(t, err, sc.thenError)
	}
}

type publishRecorder struct {
	mx     sync.Mutex
	events []event.Event
}

func (r *publishRecorder) Publish(_ context.Context, evt event.Event) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.events = append(r.events, evt)

	return nil
}

func (r *publishRecorder) Recorded() []event.Event {
	r.mx.Lock()
	defer r.mx.Unlock()

	return append([]event.Event(nil), r.events...)
}
