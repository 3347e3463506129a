package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// PostgresTokenStore implements store.TokenStore on the user_tokens table.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a PostgresTokenStore. If logger is nil, a
// default logger will be used.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx store.DBTX) store.TokenStore {
	return &PostgresTokenStore{db: tx, logger: s.logger}
}

// Add implements store.TokenStore.Add
func (s *PostgresTokenStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO user_tokens (token, user_id, created_at) VALUES ($1, $2, $3)`,
		token,
		userID,
		time.Now().UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to store token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}
	return nil
}

// FindUser implements store.TokenStore.FindUser
func (s *PostgresTokenStore) FindUser(ctx context.Context, userID uuid.UUID, token string) (*domain.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.age, u.hashed_password, u.created_at, u.updated_at
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.token = $2
	`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, userID, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to look up token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return user, nil
}

// Remove implements store.TokenStore.Remove
func (s *PostgresTokenStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`,
		userID,
		token,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// RemoveAll implements store.TokenStore.RemoveAll
func (s *PostgresTokenStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("tokens revoked",
		slog.String("user_id", userID.String()),
		slog.Int64("count", n))
	return n, nil
}
