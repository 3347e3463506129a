package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every lookup and
// mutation is scoped to ownerID: a task owned by someone else behaves
// exactly like a task that does not exist.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the owner's task.
	// Returns ErrTaskNotFound if there is no such task for this owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching query.
	List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error)

	// Update writes description and completion state of the owner's task.
	// Returns ErrTaskNotFound if there is no such task for this owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the owner's task.
	// Returns ErrTaskNotFound if there is no such task for this owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task of the owner and reports how many were removed.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore bound to the transaction.
	WithTx(tx DBTX) TaskStore
}
