package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/events"
	"github.com/phrazzld/taskmanager-api/internal/platform/mailer"
	"github.com/phrazzld/taskmanager-api/internal/platform/postgres"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// stores groups the persistence dependencies so tests can swap in the
// in-memory implementations.
type stores struct {
	users      store.UserStore
	tokens     store.TokenStore
	tasks      store.TaskStore
	transactor store.Transactor
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry

	sessions service.SessionService
	accounts service.UserService
	todos    service.TaskService

	emitter    *events.InMemoryEventEmitter
	dispatcher *mailer.Dispatcher
}

// newApplication wires the Postgres stores into the application.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	s := stores{
		users:      postgres.NewPostgresUserStore(db, logger),
		tokens:     postgres.NewPostgresTokenStore(db, logger),
		tasks:      postgres.NewPostgresTaskStore(db, logger),
		transactor: store.NewSQLTransactor(db),
	}
	app, err := buildApplication(cfg, logger, s)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication creates services, the mail pipeline and metrics around s.
func buildApplication(cfg *config.Config, logger *slog.Logger, s stores) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	m, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.dispatcher, err = mailer.NewDispatcher(m, mailer.DispatcherConfig{
		QueueSize:   cfg.Mail.QueueSize,
		WorkerCount: cfg.Mail.WorkerCount,
	}, logger, app.registry)
	if err != nil {
		return nil, err
	}
	app.dispatcher.Start()

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(app.dispatcher)

	app.sessions = service.NewSessionService(s.users, s.tokens, jwtService, hasher, logger)
	app.accounts = service.NewUserService(service.UserServiceDeps{
		Users:      s.users,
		Tokens:     s.tokens,
		Tasks:      s.tasks,
		Transactor: s.transactor,
		JWT:        jwtService,
		Hasher:     hasher,
		Emitter:    app.emitter,
	}, service.UserServiceConfig{
		AvatarMaxBytes: cfg.Avatar.MaxBytes,
		AvatarSize:     cfg.Avatar.Size,
	}, logger)
	app.todos = service.NewTaskService(s.tasks, logger)

	logger.Info("application initialized",
		"mail_provider", cfg.Mail.Provider,
		"mail_workers", cfg.Mail.WorkerCount)
	return app, nil
}

// cleanup drains queued e-mail and closes the database.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Error("failed to drain mail queue", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
