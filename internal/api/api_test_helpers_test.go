package api_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanager-api/internal/api"
	"github.com/phrazzld/taskmanager-api/internal/api/middleware"
	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/mocks"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "Str0ng!pass"
	avatarLimit  = 64 << 10
)

type testAPI struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	tokens *mocks.MockTokenStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	jwtService, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret, BcryptCost: 4})
	require.NoError(t, err)

	users, tokens, tasks := mocks.NewMemoryStores()
	hasher := &mocks.MockPasswordHasher{}

	sessions := service.NewSessionService(users, tokens, jwtService, hasher, log)
	accounts := service.NewUserService(service.UserServiceDeps{
		Users:      users,
		Tokens:     tokens,
		Tasks:      tasks,
		Transactor: &mocks.MockTransactor{},
		JWT:        jwtService,
		Hasher:     hasher,
		Emitter:    &mocks.MockEventEmitter{},
	}, service.UserServiceConfig{AvatarMaxBytes: avatarLimit, AvatarSize: 16}, log)
	todos := service.NewTaskService(tasks, log)

	userHandler := api.NewUserHandler(accounts, sessions, log)
	avatarHandler := api.NewAvatarHandler(accounts, avatarLimit, log)
	taskHandler := api.NewTaskHandler(todos, log)
	authMiddleware := middleware.NewAuthMiddleware(sessions)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Post("/users", userHandler.Register)
	r.Post("/users/login", userHandler.Login)
	r.Get("/users/{id}/avatar", avatarHandler.Get)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/users/logout", userHandler.Logout)
		r.Post("/users/logoutAll", userHandler.LogoutAll)
		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Delete("/users/me", userHandler.DeleteMe)
		r.Post("/users/me/avatar", avatarHandler.Upload)
		r.Delete("/users/me/avatar", avatarHandler.Delete)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})
	r.Get("/users/{id}", userHandler.GetUser)

	return &testAPI{router: r, users: users, tasks: tasks, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(t *testing.T, name, email string) api.AuthResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/users", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func multipartAvatar(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(api.AvatarFormField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (a *testAPI) uploadAvatar(t *testing.T, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartAvatar(t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
