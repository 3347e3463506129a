package mailer

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/redact"
)

// LogMailer writes messages to the structured log instead of sending them.
// It is the default provider for development and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. If logger is nil, slog.Default is used.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger.FromContextOrDefault(ctx, m.logger).Info("email",
		slog.String("kind", msg.Kind),
		slog.String("to", redact.String(msg.ToAddress)),
		slog.String("subject", msg.Subject))
	return nil
}
