package mediator_test

import (
	"context"
	"sync"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/query"
)

type createUser struct{ Email string }

func (createUser) Name() string { return "CreateUser" }

type registerUser struct{ Email string }

func (registerUser) Name() string { return "RegisterUser" }

// impostor shares the name of createUser, but not its type.
type impostor struct{}

func (impostor) Name() string { return "CreateUser" }

type user struct {
	ID    string
	Email string
}

type userByEmail struct{ Email string }

func (userByEmail) Name() string { return "UserByEmail" }

type userCreated struct{ Email string }

func (userCreated) Name() string { return "UserCreated" }

type commandRecorder[T command.Command] struct {
	mx    sync.Mutex
	calls []T
	err   error
}

func (r *commandRecorder[T]) Handle(_ context.Context, cmd T) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.calls = append(r.calls, cmd)

	return r.err
}

func (r *commandRecorder[T]) Calls() []T {
	r.mx.Lock()
	defer r.mx.Unlock()

	return append([]T(nil), r.calls...)
}

func findUser(users map[string]*user) query.HandlerFunc[userByEmail, *user] {
	return func(_ context.Context, q userByEmail) (*user, error) {
		u, ok := users[q.Email]
		if !ok {
			return nil, errUserNotFound
		}

		return u, nil
	}
}
