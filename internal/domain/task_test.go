package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	owner := uuid.New()

	task, err := NewTask(owner, "  buy milk ", false)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.True(t, task.IsOwnedBy(owner))
	assert.False(t, task.IsOwnedBy(uuid.New()))
}

func TestNewTask_Invalid(t *testing.T) {
	_, err := NewTask(uuid.New(), "   ", false)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewTask(uuid.Nil, "buy milk", false)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestParseTaskSort(t *testing.T) {
	tests := []struct {
		expr      string
		wantField TaskSortField
		wantDesc  bool
		wantErr   bool
	}{
		{"createdAt:desc", TaskSortCreatedAt, true, false},
		{"updatedAt:asc", TaskSortUpdatedAt, false, false},
		{"description", TaskSortDescription, false, false},
		{"completed:DESC", TaskSortCompleted, true, false},
		{"owner:asc", "", false, true},
		{"createdAt:sideways", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			field, desc, err := ParseTaskSort(tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestTaskQueryValidate(t *testing.T) {
	q := DefaultTaskQuery()
	assert.NoError(t, q.Validate())

	q.Limit = 0
	assert.ErrorIs(t, q.Validate(), ErrValidation)

	q = DefaultTaskQuery()
	q.Limit = MaxTaskLimit + 1
	assert.ErrorIs(t, q.Validate(), ErrValidation)

	q = DefaultTaskQuery()
	q.Offset = -1
	assert.ErrorIs(t, q.Validate(), ErrValidation)

	q = DefaultTaskQuery()
	q.SortField = "owner"
	assert.ErrorIs(t, q.Validate(), ErrValidation)
}
