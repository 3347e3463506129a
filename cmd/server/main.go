// Package main implements the entry point for the task manager API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/platform/postgres"
)

// flags are the command-line options of the server binary.
type flags struct {
	configFile string
	envFile    string
	migrate    string
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&f.envFile, "env", ".env", "path to a .env file loaded before reading the environment")
	fs.StringVar(&f.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}

	switch f.migrate {
	case "", "up", "down", "reset", "status", "version":
	default:
		return flags{}, fmt.Errorf("unknown migration command %q", f.migrate)
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		slog.Error("server exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either applies a
// migration command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(config.Options{ConfigFile: f.configFile, DotEnvFile: f.envFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"mail_provider", cfg.Mail.Provider)

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if f.migrate != "" {
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, f.migrate, l)
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
