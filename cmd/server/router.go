package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/taskmanager-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskmanager-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	metrics, err := apiMiddleware.NewMetrics(app.registry)
	if err != nil {
		// ALLOW-PANIC: the registry is private to the application, so a
		// duplicate registration is a programming error
		panic(err)
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{apiMiddleware.TraceHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(metrics.Instrument)

	userHandler := api.NewUserHandler(app.accounts, app.sessions, app.logger)
	avatarHandler := api.NewAvatarHandler(app.accounts, app.config.Avatar.MaxBytes, app.logger)
	taskHandler := api.NewTaskHandler(app.todos, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.sessions)
	credentialLimiter := apiMiddleware.NewRateLimiter(
		app.config.RateLimit.RequestsPerMinute,
		app.config.RateLimit.Burst,
	)

	r.Route("/users", func(r chi.Router) {
		// Public endpoints
		r.With(credentialLimiter.Limit).Post("/", userHandler.Register)
		r.With(credentialLimiter.Limit).Post("/login", userHandler.Login)
		r.Get("/{id}", userHandler.GetUser)
		r.Get("/{id}/avatar", avatarHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/logout", userHandler.Logout)
			r.Post("/logoutAll", userHandler.LogoutAll)
			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)
			r.Delete("/me", userHandler.DeleteMe)
			r.Post("/me/avatar", avatarHandler.Upload)
			r.Delete("/me/avatar", avatarHandler.Delete)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Get("/{id}", taskHandler.GetTask)
		r.Patch("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
