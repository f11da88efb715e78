package mailer

import (
	"context"
	"fmt"

	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the mail backend selected by the configuration: console output
// by default, real SMTP when configured.
func New(cfg *config.Config, log *logger.Logger) (Mailer, error) {
	switch cfg.EmailBackend {
	case config.EmailBackendConsole, "":
		return NewConsole(log), nil
	case config.EmailBackendSMTP:
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort), nil
	default:
		return nil, fmt.Errorf("unknown email backend %q", cfg.EmailBackend)
	}
}
