package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// SessionService issues, verifies and revokes session tokens.
type SessionService interface {
	// Issue mints a token for user and records it as valid.
	Issue(ctx context.Context, user *domain.User) (string, error)

	// Login verifies credentials and issues a token.
	// Returns auth.ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Authenticate resolves a presented token to its user. Returns
	// auth.ErrMissingToken, auth.ErrInvalidToken or auth.ErrRevokedToken.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// Logout revokes one token.
	Logout(ctx context.Context, userID uuid.UUID, token string) error

	// LogoutAll revokes every token of the user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

// SessionServiceImpl implements SessionService.
type SessionServiceImpl struct {
	users    store.UserStore
	tokens   store.TokenStore
	jwt      auth.JWTService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(
	users store.UserStore,
	tokens store.TokenStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *SessionServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionServiceImpl{
		users:    users,
		tokens:   tokens,
		jwt:      jwtService,
		verifier: verifier,
		logger:   logger.With("component", "session_service"),
	}
}

var _ SessionService = (*SessionServiceImpl)(nil)

// Issue implements SessionService.
func (s *SessionServiceImpl) Issue(ctx context.Context, user *domain.User) (string, error) {
	return issueToken(ctx, s.jwt, s.tokens, user.ID)
}

// issueToken signs a token and stores it. Shared with registration, which
// does the same inside its transaction.
func issueToken(ctx context.Context, jwtService auth.JWTService, tokens store.TokenStore, userID uuid.UUID) (string, error) {
	token, err := jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := tokens.Add(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Login implements SessionService.
func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	log.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Authenticate implements SessionService.
func (s *SessionServiceImpl) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.tokens.FindUser(ctx, claims.UserID, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, auth.ErrRevokedToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return user, nil
}

// Logout implements SessionService.
func (s *SessionServiceImpl) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.tokens.Remove(ctx, userID, token); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return auth.ErrRevokedToken
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("token revoked", "user_id", userID)
	return nil
}

// LogoutAll implements SessionService.
func (s *SessionServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	n, err := s.tokens.RemoveAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("all tokens revoked",
		"user_id", userID,
		"count", n)
	return nil
}
