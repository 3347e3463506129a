package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmanager-api/internal/config"
)

// Message is a single outbound e-mail.
type Message struct {
	// Kind labels the message for logs and metrics, e.g. "welcome".
	Kind      string
	ToAddress string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer delivers a message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the Mailer selected by cfg.Provider.
func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "log", "":
		return NewLogMailer(logger), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
