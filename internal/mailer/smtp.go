package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP delivers through a plain unauthenticated SMTP relay, matching the
// localhost:1025 development mailhost.
type SMTP struct {
	host string
	port int
}

func NewSMTP(host string, port int) *SMTP {
	return &SMTP{host: host, port: port}
}

// Send delivers the message in one SendMail call. The context is not
// honored: net/smtp exposes no cancellation hook, and the dev relay answers
// locally.
func (m *SMTP) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail message has no recipients")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, nil, msg.From, msg.To, []byte(b.String()))
}
