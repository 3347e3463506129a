package service_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/mocks"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "Str0ng!pass"
)

// fixture wires the services against shared in-memory stores.
type fixture struct {
	users    *mocks.MockUserStore
	tokens   *mocks.MockTokenStore
	tasks    *mocks.MockTaskStore
	tx       *mocks.MockTransactor
	emitter  *mocks.MockEventEmitter
	hasher   *mocks.MockPasswordHasher
	sessions *service.SessionServiceImpl
	accounts *service.UserServiceImpl
	todos    *service.TaskServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret, BcryptCost: 4})
	require.NoError(t, err)

	f := &fixture{
		tx:      &mocks.MockTransactor{},
		emitter: &mocks.MockEventEmitter{},
		hasher:  &mocks.MockPasswordHasher{},
	}
	f.users, f.tokens, f.tasks = mocks.NewMemoryStores()

	f.sessions = service.NewSessionService(f.users, f.tokens, jwtService, f.hasher, nil)
	f.accounts = service.NewUserService(service.UserServiceDeps{
		Users:      f.users,
		Tokens:     f.tokens,
		Tasks:      f.tasks,
		Transactor: f.tx,
		JWT:        jwtService,
		Hasher:     f.hasher,
		Emitter:    f.emitter,
	}, service.UserServiceConfig{AvatarMaxBytes: 1_000_000, AvatarSize: 32}, nil)
	f.todos = service.NewTaskService(f.tasks, nil)
	return f
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
