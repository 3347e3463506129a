package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := register(t, f, "ada@example.com")

	task, err := f.todos.CreateTask(ctx, owner.ID, "  write tests ", false)
	require.NoError(t, err)
	assert.Equal(t, "write tests", task.Description)
	assert.Equal(t, owner.ID, task.OwnerID)

	got, err := f.todos.GetTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Description, got.Description)

	updated, err := f.todos.UpdateTask(ctx, owner.ID, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write tests", updated.Description)

	deleted, err := f.todos.DeleteTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.True(t, deleted.Completed)

	_, err = f.todos.GetTask(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada, _ := register(t, f, "ada@example.com")
	grace, _ := register(t, f, "grace@example.com")

	task, err := f.todos.CreateTask(ctx, ada.ID, "private", false)
	require.NoError(t, err)

	_, err = f.todos.GetTask(ctx, grace.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.todos.UpdateTask(ctx, grace.ID, task.ID, domain.TaskUpdate{Description: strPtr("hijacked")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.todos.DeleteTask(ctx, grace.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := f.todos.ListTasks(ctx, grace.ID, domain.DefaultTaskQuery())
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.todos.GetTask(ctx, ada.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Description)
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := register(t, f, "ada@example.com")

	for _, tc := range []struct {
		desc string
		done bool
	}{
		{"Buy milk", true},
		{"buy bread", false},
		{"walk dog", false},
	} {
		_, err := f.todos.CreateTask(ctx, owner.ID, tc.desc, tc.done)
		require.NoError(t, err)
	}

	q := domain.DefaultTaskQuery()
	q.Completed = boolPtr(false)
	open, err := f.todos.ListTasks(ctx, owner.ID, q)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	q = domain.DefaultTaskQuery()
	q.Description = "BUY"
	q.SortField = domain.TaskSortDescription
	q.SortDesc = false
	bought, err := f.todos.ListTasks(ctx, owner.ID, q)
	require.NoError(t, err)
	require.Len(t, bought, 2)

	q = domain.DefaultTaskQuery()
	q.Limit = 1
	q.Offset = 2
	page, err := f.todos.ListTasks(ctx, owner.ID, q)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	q = domain.DefaultTaskQuery()
	q.Limit = 0
	_, err = f.todos.ListTasks(ctx, owner.ID, q)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Invalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := register(t, f, "ada@example.com")

	_, err := f.todos.CreateTask(ctx, owner.ID, "   ", false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	task, err := f.todos.CreateTask(ctx, owner.ID, "keep me", false)
	require.NoError(t, err)

	_, err = f.todos.UpdateTask(ctx, owner.ID, task.ID, domain.TaskUpdate{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	_, err = f.todos.UpdateTask(ctx, owner.ID, task.ID, domain.TaskUpdate{Description: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.todos.GetTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Description)

	_, err = f.todos.GetTask(ctx, owner.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
