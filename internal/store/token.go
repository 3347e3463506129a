package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// TokenStore persists the session tokens issued to each user. A token is
// valid exactly as long as it is present here.
type TokenStore interface {
	// Add registers token for the user.
	// Returns ErrUserNotFound if the user does not exist.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// FindUser returns the user that holds token, provided the user's ID
	// matches userID. Returns ErrTokenNotFound otherwise.
	FindUser(ctx context.Context, userID uuid.UUID, token string) (*domain.User, error)

	// Remove revokes a single token.
	// Returns ErrTokenNotFound if the user does not hold it.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll revokes every token of the user and reports how many were removed.
	RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a TokenStore bound to the transaction.
	WithTx(tx DBTX) TokenStore
}
