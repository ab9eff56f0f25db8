package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends outbound email over SMTP. It is used both as a Notifier for
// mention/portal events and directly by the inbox module to deliver
// composed messages.
type Mailer struct {
	addr   string // host:port
	from   string
	auth   smtp.Auth
	logger zerolog.Logger

	// send allows tests to intercept delivery.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a mailer for the given SMTP server address.
func NewMailer(addr, from string, auth smtp.Auth, logger zerolog.Logger) *Mailer {
	return &Mailer{
		addr:   addr,
		from:   from,
		auth:   auth,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send delivers a plain-text email to the given recipients.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)
	if err := m.send(m.addr, m.auth, m.from, to, msg); err != nil {
		m.logger.Error().Err(err).
			Strs("to", to).
			Str("subject", subject).
			Msg("email delivery failed")
		return fmt.Errorf("sending mail: %w", err)
	}

	m.logger.Debug().
		Strs("to", to).
		Str("subject", subject).
		Msg("email sent")
	return nil
}

// Notify implements Notifier by mailing the event to its recipients.
func (m *Mailer) Notify(ctx context.Context, ev Event) error {
	if len(ev.Recipients) == 0 {
		return nil
	}
	body := ev.Body
	if ev.Link != "" {
		body = body + "\r\n\r\n" + ev.Link
	}
	return m.Send(ctx, ev.Recipients, ev.Title, body)
}

// buildMessage assembles an RFC 5322 message with CRLF line endings.
func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF to prevent header injection through
// user-supplied subjects.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
