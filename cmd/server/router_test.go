package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskmanager-api/internal/api"
	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/mocks"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ng!pass"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 1,
			CORSAllowedOrigins:     []string{"*"},
		},
		Auth: config.AuthConfig{
			JWTSecret:  "0123456789abcdef0123456789abcdef",
			BcryptCost: 4,
		},
		Mail: config.MailConfig{
			Provider:    "log",
			FromAddress: "no-reply@example.com",
			QueueSize:   10,
			WorkerCount: 1,
		},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 600, Burst: 50},
		Avatar:    config.AvatarConfig{MaxBytes: 1_000_000, Size: 32},
	}
}

type testServer struct {
	router http.Handler
	tasks  *mocks.MockTaskStore
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	users, tokens, tasks := mocks.NewMemoryStores()
	app, err := buildApplication(cfg, log, stores{
		users:      users,
		tokens:     tokens,
		tasks:      tasks,
		transactor: &mocks.MockTransactor{},
	})
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	return &testServer{router: app.setupRouter(), tasks: tasks}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email string) api.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", "", map[string]interface{}{
		"name":     "User",
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskmanager_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}

func TestRouter_EndToEnd(t *testing.T) {
	s := newTestServer(t, testConfig())

	ada := s.register(t, "ada@example.com")
	grace := s.register(t, "grace@example.com")

	// Duplicate registration fails.
	rec := s.do(t, http.MethodPost, "/users", "", map[string]interface{}{
		"name": "Again", "email": "ada@example.com", "password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Tasks are owner-scoped.
	rec = s.do(t, http.MethodPost, "/tasks", ada.Token, map[string]interface{}{"description": "ada's task"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/tasks/"+task.ID.String(), grace.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/tasks/"+task.ID.String(), ada.Token, nil).Code)

	// Public profile and own profile resolve on the same prefix.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users/"+ada.User.ID.String(), "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", "", nil).Code)

	// Deleting the account removes its tasks and invalidates its tokens.
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/users/me", ada.Token, nil).Code)
	assert.Equal(t, 0, s.tasks.Count(ada.User.ID))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/tasks", ada.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users/me", grace.Token, nil).Code)
}

func TestRouter_RateLimitsCredentialEndpoints(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerMinute: 1, Burst: 2}
	s := newTestServer(t, cfg)

	login := map[string]interface{}{"email": "nobody@example.com", "password": testPassword}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/users/login", "", login).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/users/login", "", login).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/users/login", "", login).Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
