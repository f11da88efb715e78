package mailer

import (
	"context"
	"strings"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// Console writes messages to the log instead of delivering them, the
// development default.
type Console struct {
	log *logger.Logger
}

func NewConsole(baseLog *logger.Logger) *Console {
	return &Console{log: baseLog.With("mailer", "Console")}
}

func (m *Console) Send(_ context.Context, msg Message) error {
	m.log.Info("mail (console backend)",
		"from", msg.From,
		"to", strings.Join(msg.To, ", "),
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
