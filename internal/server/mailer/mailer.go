// Package mailer delivers password-reset links. SMTPMailer sends them by
// mail; LogMailer writes them to the server log for development setups.
package mailer

import (
	"context"
	"net/url"

	"github.com/themisai/themis/internal/logging"
)

type Mailer interface {
	SendReset(ctx context.Context, email, token string) error
}

type LogMailer struct {
	log      logging.Logger
	resetURL string
}

// NewLogMailer builds links as resetURL?token=<token>.
func NewLogMailer(log logging.Logger, resetURL string) *LogMailer {
	return &LogMailer{log: log, resetURL: resetURL}
}

func (m *LogMailer) SendReset(ctx context.Context, email, token string) error {
	m.log.Info(ctx, "password reset link", "email", email, "link", ResetLink(m.resetURL, token))
	return nil
}

// ResetLink appends the token as a query parameter to base.
func ResetLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
