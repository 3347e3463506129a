package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing, scoping every
// lookup to the owner like the real store.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListFn          func(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByOwnerFn func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	data *memoryData
}

// NewMockTaskStore creates a standalone in-memory task store. Owners are not
// checked against any user store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{data: newMemoryData()}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	m.data.tasks[task.ID] = *task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	t, ok := m.data.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, q)
	}

	m.data.mu.Lock()
	var matched []*domain.Task
	needle := strings.ToLower(q.Description)
	for _, t := range m.data.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		task := t
		matched = append(matched, &task)
	}
	m.data.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.SortDesc {
			a, b = b, a
		}
		switch q.SortField {
		case domain.TaskSortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case domain.TaskSortDescription:
			return a.Description < b.Description
		case domain.TaskSortCompleted:
			return !a.Completed && b.Completed
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	result := make([]*domain.Task, 0)
	for i := q.Offset; i < len(matched) && len(result) < q.Limit; i++ {
		result = append(result, matched[i])
	}
	return result, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	existing, ok := m.data.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.data.tasks[task.ID] = *task
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	t, ok := m.data.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.data.tasks, id)
	return nil
}

// DeleteByOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	var n int64
	for id, t := range m.data.tasks {
		if t.OwnerID == ownerID {
			delete(m.data.tasks, id)
			n++
		}
	}
	return n, nil
}

// Count reports how many tasks ownerID has.
func (m *MockTaskStore) Count(ownerID uuid.UUID) int {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	n := 0
	for _, t := range m.data.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// WithTx implements the TaskStore interface
func (m *MockTaskStore) WithTx(tx store.DBTX) store.TaskStore {
	return m
}
