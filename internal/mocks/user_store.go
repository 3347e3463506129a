package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Function fields
// override the in-memory default behaviour.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	SetAvatarFn  func(ctx context.Context, id uuid.UUID, image []byte) error
	GetAvatarFn  func(ctx context.Context, id uuid.UUID) ([]byte, error)

	data *memoryData
}

// NewMockUserStore creates a standalone in-memory user store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{data: newMemoryData()}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, u := range m.data.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	stored.Password = ""
	m.data.users[user.ID] = stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	u, ok := m.data.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	email = domain.NormalizeEmail(email)
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	for _, u := range m.data.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, u := range m.data.users {
		if id != user.ID && u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	stored.Password = ""
	m.data.users[user.ID] = stored
	return nil
}

// Delete implements the UserStore interface. Tokens, tasks and the avatar
// go with the user.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.data.users, id)
	delete(m.data.avatars, id)
	delete(m.data.tokens, id)
	for taskID, task := range m.data.tasks {
		if task.OwnerID == id {
			delete(m.data.tasks, taskID)
		}
	}
	return nil
}

// SetAvatar implements the UserStore interface
func (m *MockUserStore) SetAvatar(ctx context.Context, id uuid.UUID, image []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, id, image)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.users[id]; !ok {
		return store.ErrUserNotFound
	}
	if len(image) == 0 {
		delete(m.data.avatars, id)
		return nil
	}
	m.data.avatars[id] = append([]byte(nil), image...)
	return nil
}

// GetAvatar implements the UserStore interface
func (m *MockUserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, id)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.users[id]; !ok {
		return nil, store.ErrUserNotFound
	}
	img, ok := m.data.avatars[id]
	if !ok {
		return nil, store.ErrAvatarNotFound
	}
	return append([]byte(nil), img...), nil
}

// WithTx implements the UserStore interface; the mock ignores transactions.
func (m *MockUserStore) WithTx(tx store.DBTX) store.UserStore {
	return m
}
