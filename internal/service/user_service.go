package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/events"
	"github.com/phrazzld/taskmanager-api/internal/platform/imaging"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// AvatarUpload is a file submitted as a user's avatar.
type AvatarUpload struct {
	Filename string
	Data     []byte
}

// UserService provides account operations for the authenticated user and
// public profile lookups.
type UserService interface {
	// Register creates the account and its first session token atomically.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateUser applies a whitelisted patch and returns the stored result.
	UpdateUser(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error)

	// DeleteUser removes the user with all their tasks and tokens.
	DeleteUser(ctx context.Context, user *domain.User) error

	// SetAvatar validates, normalises and stores an avatar image.
	SetAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) error

	// DeleteAvatar clears the avatar. Clearing a missing avatar is not an error.
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error

	// GetAvatar returns the stored PNG avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// UserServiceConfig holds the avatar limits.
type UserServiceConfig struct {
	AvatarMaxBytes int64
	AvatarSize     int
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users   store.UserStore
	tokens  store.TokenStore
	tasks   store.TaskStore
	tx      store.Transactor
	jwt     auth.JWTService
	hasher  auth.PasswordHasher
	emitter events.EventEmitter
	cfg     UserServiceConfig
	logger  *slog.Logger
}

// UserServiceDeps groups the collaborators of UserServiceImpl.
type UserServiceDeps struct {
	Users      store.UserStore
	Tokens     store.TokenStore
	Tasks      store.TaskStore
	Transactor store.Transactor
	JWT        auth.JWTService
	Hasher     auth.PasswordHasher
	Emitter    events.EventEmitter
}

// NewUserService creates a new UserService
func NewUserService(deps UserServiceDeps, cfg UserServiceConfig, logger *slog.Logger) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AvatarSize <= 0 {
		cfg.AvatarSize = imaging.DefaultAvatarSize
	}
	return &UserServiceImpl{
		users:   deps.Users,
		tokens:  deps.Tokens,
		tasks:   deps.Tasks,
		tx:      deps.Transactor,
		jwt:     deps.JWT,
		hasher:  deps.Hasher,
		emitter: deps.Emitter,
		cfg:     cfg,
		logger:  logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Name, in.Email, in.Password, in.Age)
	if err != nil {
		return nil, "", err
	}

	if err := s.hashPassword(user); err != nil {
		return nil, "", err
	}

	var token string
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		var err error
		token, err = issueToken(ctx, s.jwt, s.tokens.WithTx(tx), user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email")
		} else {
			log.Error("failed to register user", "error", err)
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	s.emit(ctx, events.NewAccountEvent(events.UserRegistered, user.ID, user.Name, user.Email))
	return user, token, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateUser implements UserService.
// Following the pattern of getting the complete user first, then updating
// only the patched fields, and passing the whole user back to the store.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	user *domain.User,
	upd domain.UserUpdate,
) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	updated, err := upd.ApplyTo(current)
	if err != nil {
		return nil, err
	}
	if updated.Password != "" {
		if err := s.hashPassword(updated); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user updated", "user_id", updated.ID)
	return updated, nil
}

// DeleteUser implements UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removedTasks int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		var err error
		if removedTasks, err = s.tasks.WithTx(tx).DeleteByOwner(ctx, user.ID); err != nil {
			return err
		}
		if _, err := s.tokens.WithTx(tx).RemoveAll(ctx, user.ID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		log.Error("failed to delete user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted", "user_id", user.ID, "tasks_removed", removedTasks)
	s.emit(ctx, events.NewAccountEvent(events.UserDeleted, user.ID, user.Name, user.Email))
	return nil
}

// SetAvatar implements UserService.
func (s *UserServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) error {
	if len(upload.Data) == 0 {
		return domain.NewValidationError("avatar", ErrAvatarRequired.Error(), ErrAvatarRequired)
	}
	if s.cfg.AvatarMaxBytes > 0 && int64(len(upload.Data)) > s.cfg.AvatarMaxBytes {
		return domain.NewValidationError("avatar",
			fmt.Sprintf("must be at most %d bytes", s.cfg.AvatarMaxBytes), imaging.ErrTooLarge)
	}
	if err := imaging.CheckFilename(upload.Filename); err != nil {
		return domain.NewValidationError("avatar", err.Error(), err)
	}

	normalized, err := imaging.NormalizeAvatar(upload.Data, s.cfg.AvatarSize)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUndecodable):
			return domain.NewValidationError("avatar", imaging.ErrUndecodable.Error(), err)
		case errors.Is(err, imaging.ErrDimensionsTooLarge):
			return domain.NewValidationError("avatar",
				fmt.Sprintf("must be at most %dx%d pixels", imaging.MaxSourceDimension, imaging.MaxSourceDimension), err)
		}
		return err
	}

	if err := s.users.SetAvatar(ctx, userID, normalized); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	return nil
}

// DeleteAvatar implements UserService.
func (s *UserServiceImpl) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return nil
}

// GetAvatar implements UserService.
func (s *UserServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	img, err := s.users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve avatar: %w", err)
	}
	return img, nil
}

// hashPassword replaces the plaintext password with its hash.
func (s *UserServiceImpl) hashPassword(user *domain.User) error {
	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""
	return nil
}

// emit publishes an event. Notification failures never fail the request.
func (s *UserServiceImpl) emit(ctx context.Context, event *events.AccountEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit account event",
			"error", err,
			"event_type", event.Type,
			"user_id", event.UserID)
	}
}
