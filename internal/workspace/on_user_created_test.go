package workspace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/internal/user"
	"github.com/hatchgrid/go-dispatch/internal/workspace"
	"github.com/hatchgrid/go-dispatch/logger"
)

type senderFunc func(ctx context.Context, cmd command.Command) error

func (fn senderFunc) Send(ctx context.Context, cmd command.Command) error { return fn(ctx, cmd) }

type finderFunc func(ctx context.Context, ownerID uuid.UUID) ([]workspace.View, error)

func (fn finderFunc) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]workspace.View, error) {
	return fn(ctx, ownerID)
}

func noWorkspaces(context.Context, uuid.UUID) ([]workspace.View, error) { return nil, nil }

func userWasCreated(firstName, lastName string) user.WasCreated {
	return user.WasCreated{
		Base:      event.NewBase(time.Now()),
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     "john@example.com",
	}
}

func TestCreateDefaultOnUserCreation(t *testing.T) {
	t.Run("a default workspace is created for a new user", func(t *testing.T) {
		var sent []command.Command

		workspaceID := uuid.New()
		consumer := workspace.CreateDefaultOnUserCreation{
			UUIDGenerator: func() uuid.UUID { return workspaceID },
			Finder:        finderFunc(noWorkspaces),
			Sender: senderFunc(func(_ context.Context, cmd command.Command) error {
				sent = append(sent, cmd)
				return nil
			}),
		}

		evt := userWasCreated("John", "Doe")
		require.NoError(t, consumer.Consume(context.Background(), evt))

		require.Len(t, sent, 1)

		cmd, ok := sent[0].(workspace.CreateCommand)
		require.True(t, ok)
		assert.Equal(t, workspaceID, cmd.ID)
		assert.Equal(t, "John Doe's Workspace", cmd.Name)
		assert.Equal(t, evt.ID, cmd.OwnerID)
	})

	t.Run("users owning a workspace already are skipped", func(t *testing.T) {
		consumer := workspace.CreateDefaultOnUserCreation{
			UUIDGenerator: uuid.New,
			Finder: finderFunc(func(_ context.Context, ownerID uuid.UUID) ([]workspace.View, error) {
				return []workspace.View{{ID: uuid.New(), OwnerID: ownerID}}, nil
			}),
			Sender: senderFunc(func(context.Context, command.Command) error {
				t.Fatal("no command should be sent")
				return nil
			}),
		}

		assert.NoError(t, consumer.Consume(context.Background(), userWasCreated("John", "Doe")))
	})

	t.Run("a failure to create the workspace is logged, not returned", func(t *testing.T) {
		log := logger.NewTest(t)
		errFailed := errors.New("failed")

		consumer := workspace.CreateDefaultOnUserCreation{
			UUIDGenerator: uuid.New,
			Finder:        finderFunc(noWorkspaces),
			Sender: senderFunc(func(context.Context, command.Command) error {
				return command.NewExecutionError(workspace.CreateCommand{}, errFailed)
			}),
			Logger: log,
		}

		assert.NoError(t, consumer.Consume(context.Background(), userWasCreated("John", "Doe")))

		entries := log.Entries()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0], "[error] Failed to create the default workspace")
	})
}

func TestDefaultName(t *testing.T) {
	testcases := []struct {
		firstName, lastName string
		expected            string
	}{
		{firstName: "John", lastName: "Doe", expected: "John Doe's Workspace"},
		{firstName: " John ", lastName: "", expected: "John's Workspace"},
		{firstName: "", lastName: "Doe", expected: "Doe's Workspace"},
		{firstName: " ", lastName: "", expected: "My Workspace"},
	}

	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, workspace.DefaultName(tc.firstName, tc.lastName))
		})
	}
}
