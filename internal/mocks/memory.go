package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// memoryData is the shared backing for the in-memory stores. Users, tokens
// and tasks live together so deleting a user can cascade the way the
// database does.
type memoryData struct {
	mu      sync.Mutex
	users   map[uuid.UUID]domain.User
	avatars map[uuid.UUID][]byte
	tokens  map[uuid.UUID]map[string]struct{}
	tasks   map[uuid.UUID]domain.Task
}

func newMemoryData() *memoryData {
	return &memoryData{
		users:   make(map[uuid.UUID]domain.User),
		avatars: make(map[uuid.UUID][]byte),
		tokens:  make(map[uuid.UUID]map[string]struct{}),
		tasks:   make(map[uuid.UUID]domain.Task),
	}
}

// NewMemoryStores returns user, token and task stores backed by the same
// in-memory data.
func NewMemoryStores() (*MockUserStore, *MockTokenStore, *MockTaskStore) {
	data := newMemoryData()
	return &MockUserStore{data: data}, &MockTokenStore{data: data}, &MockTaskStore{data: data}
}
