package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing.
type MockTokenStore struct {
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	FindUserFn  func(ctx context.Context, userID uuid.UUID, token string) (*domain.User, error)
	RemoveFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllFn func(ctx context.Context, userID uuid.UUID) (int64, error)

	data *memoryData
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// Add implements the TokenStore interface
func (m *MockTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.users[userID]; !ok {
		return store.ErrUserNotFound
	}
	if m.data.tokens[userID] == nil {
		m.data.tokens[userID] = make(map[string]struct{})
	}
	m.data.tokens[userID][token] = struct{}{}
	return nil
}

// FindUser implements the TokenStore interface
func (m *MockTokenStore) FindUser(ctx context.Context, userID uuid.UUID, token string) (*domain.User, error) {
	if m.FindUserFn != nil {
		return m.FindUserFn(ctx, userID, token)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.tokens[userID][token]; !ok {
		return nil, store.ErrTokenNotFound
	}
	u, ok := m.data.users[userID]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	return &u, nil
}

// Remove implements the TokenStore interface
func (m *MockTokenStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, token)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	if _, ok := m.data.tokens[userID][token]; !ok {
		return store.ErrTokenNotFound
	}
	delete(m.data.tokens[userID], token)
	return nil
}

// RemoveAll implements the TokenStore interface
func (m *MockTokenStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx, userID)
	}

	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	n := int64(len(m.data.tokens[userID]))
	delete(m.data.tokens, userID)
	return n, nil
}

// Count reports how many tokens userID holds.
func (m *MockTokenStore) Count(userID uuid.UUID) int {
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	return len(m.data.tokens[userID])
}

// WithTx implements the TokenStore interface
func (m *MockTokenStore) WithTx(tx store.DBTX) store.TokenStore {
	return m
}
