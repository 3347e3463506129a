package service_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/events"
	"github.com/phrazzld/taskmanager-api/internal/platform/imaging"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, token, err := f.accounts.Register(ctx, service.RegisterInput{
		Name:     "  Ada ",
		Email:    " Ada@Example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, 0, user.Age)
	assert.Empty(t, user.Password, "plaintext password must not survive registration")
	assert.Equal(t, "hashed:"+testPassword, user.HashedPassword)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, f.tokens.Count(user.ID))
	assert.Equal(t, 1, f.tx.Calls())

	emitted := f.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.UserRegistered, emitted[0].Type)
	assert.Equal(t, user.ID, emitted[0].UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f, "ada@example.com")

	_, _, err := f.accounts.Register(ctx, service.RegisterInput{
		Name:     "Other",
		Email:    "ADA@example.com",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.Len(t, f.emitter.Events(), 1)
}

func TestRegister_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   service.RegisterInput
		want error
	}{
		{"bad email", service.RegisterInput{Name: "Ada", Email: "nope", Password: testPassword}, domain.ErrInvalidEmail},
		{"weak password", service.RegisterInput{Name: "Ada", Email: "a@example.com", Password: "password"}, domain.ErrInvalidPassword},
		{"negative age", service.RegisterInput{Name: "Ada", Email: "a@example.com", Password: testPassword, Age: -1}, domain.ErrInvalidAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, _, err := f.accounts.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, f.tx.Calls())
		})
	}
}

func TestRegister_TokenFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tokens.AddFn = func(ctx context.Context, userID uuid.UUID, token string) error {
		return errors.New("insert failed")
	}

	_, _, err := f.accounts.Register(ctx, service.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: testPassword,
	})
	require.Error(t, err)
	assert.Empty(t, f.emitter.Events())
}

func TestRegister_EmitFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.emitter.EmitEventFn = func(ctx context.Context, event *events.AccountEvent) error {
		return errors.New("queue full")
	}
	_, token := register(t, f, "ada@example.com")
	assert.NotEmpty(t, token)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, _ := register(t, f, "ada@example.com")

	updated, err := f.accounts.UpdateUser(ctx, user, domain.UserUpdate{
		Name:     strPtr("Ada Lovelace"),
		Age:      intPtr(37),
		Password: strPtr("N3w!password"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, 37, updated.Age)
	assert.Equal(t, "hashed:N3w!password", updated.HashedPassword)
	assert.Empty(t, updated.Password)

	_, _, err = f.sessions.Login(ctx, "ada@example.com", "N3w!password")
	assert.NoError(t, err)
}

func TestUpdateUser_InvalidLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, _ := register(t, f, "ada@example.com")

	_, err := f.accounts.UpdateUser(ctx, user, domain.UserUpdate{
		Name:  strPtr("Changed"),
		Email: strPtr("not-an-email"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	stored, err := f.accounts.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f, "ada@example.com")
	grace, _ := register(t, f, "grace@example.com")

	_, err := f.accounts.UpdateUser(ctx, grace, domain.UserUpdate{Email: strPtr("ada@example.com")})
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestDeleteUser_CascadesTasksAndTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada, _ := register(t, f, "ada@example.com")
	grace, _ := register(t, f, "grace@example.com")

	for _, d := range []string{"one", "two"} {
		_, err := f.todos.CreateTask(ctx, ada.ID, d, false)
		require.NoError(t, err)
	}
	kept, err := f.todos.CreateTask(ctx, grace.ID, "grace's", false)
	require.NoError(t, err)

	require.NoError(t, f.accounts.DeleteUser(ctx, ada))

	assert.Equal(t, 0, f.tasks.Count(ada.ID))
	assert.Equal(t, 0, f.tokens.Count(ada.ID))
	_, err = f.accounts.GetUser(ctx, ada.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	got, err := f.todos.GetTask(ctx, grace.ID, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, got.ID)

	emitted := f.emitter.Events()
	assert.Equal(t, events.UserDeleted, emitted[len(emitted)-1].Type)
}

func TestDeleteUser_FailureIsReported(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, _ := register(t, f, "ada@example.com")
	f.users.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
		return errors.New("boom")
	}

	require.Error(t, f.accounts.DeleteUser(ctx, user))
	assert.Len(t, f.emitter.Events(), 1, "no deletion event after a failed delete")
}

func TestAvatarLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, _ := register(t, f, "ada@example.com")

	_, err := f.accounts.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)

	require.NoError(t, f.accounts.SetAvatar(ctx, user.ID, service.AvatarUpload{
		Filename: "me.PNG",
		Data:     pngBytes(t, 64, 40),
	}))

	stored, err := f.accounts.GetAvatar(ctx, user.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	require.NoError(t, f.accounts.DeleteAvatar(ctx, user.ID))
	_, err = f.accounts.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)

	assert.NoError(t, f.accounts.DeleteAvatar(ctx, user.ID))
}

func TestSetAvatar_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		upload service.AvatarUpload
		want   error
	}{
		{"empty", service.AvatarUpload{Filename: "a.png"}, service.ErrAvatarRequired},
		{"wrong extension", service.AvatarUpload{Filename: "a.gif", Data: []byte("GIF89a")}, imaging.ErrUnsupportedType},
		{"not an image", service.AvatarUpload{Filename: "a.png", Data: []byte("plain text")}, imaging.ErrUndecodable},
		{"too large", service.AvatarUpload{Filename: "a.png", Data: make([]byte, 1_000_001)}, imaging.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user, _ := register(t, f, "ada@example.com")

			err := f.accounts.SetAvatar(context.Background(), user.ID, tt.upload)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
