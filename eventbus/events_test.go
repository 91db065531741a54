package eventbus_test

import (
	"context"
	"sync"

	"github.com/hatchgrid/go-dispatch/event"
)

type userEvent interface {
	event.Event
	isUserEvent()
}

type userCreated struct{ ID string }

func (userCreated) Name() string { return "UserCreated" }
func (userCreated) isUserEvent() {}

type userDeleted struct{ ID string }

func (userDeleted) Name() string { return "UserDeleted" }
func (userDeleted) isUserEvent() {}

type formCreated struct{ ID string }

func (formCreated) Name() string { return "FormCreated" }

// recorder keeps track of the Consumers invocations, in order.
type recorder struct {
	mx    sync.Mutex
	calls []string
}

func (r *recorder) Calls() []string {
	r.mx.Lock()
	defer r.mx.Unlock()

	return append([]string(nil), r.calls...)
}

func (r *recorder) record(name string) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.calls = append(r.calls, name)
}

// consumer returns a Consumer recording its invocation under name,
// and returning err.
func consumer[T event.Event](r *recorder, name string, err error) event.ConsumerFunc[T] {
	return func(_ context.Context, _ T) error {
		r.record(name)
		return err
	}
}
