package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

const resetSubject = "Reset Password - ThemisAI"

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// RequireTLS fails the send when the server does not offer STARTTLS.
	RequireTLS bool
	ResetURL   string
	// TokenTTL is quoted in the mail body.
	TokenTTL time.Duration
	Timeout  time.Duration
}

type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer checks cfg. From falls back to Username.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is empty")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, errors.New("smtp sender address is empty")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) SendReset(ctx context.Context, email, token string) error {
	msg, err := m.resetMessage(email, token)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []mail.Option {
	policy := mail.TLSOpportunistic
	if m.cfg.RequireTLS {
		policy = mail.TLSMandatory
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

func (m *SMTPMailer) resetMessage(email, token string) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextPlain, ResetBody(ResetLink(m.cfg.ResetURL, token), token, m.cfg.TokenTTL))
	return msg, nil
}

// ResetBody is the plain-text reset mail.
func ResetBody(link, token string, ttl time.Duration) string {
	return fmt.Sprintf("Anda meminta reset password.\n\n"+
		"Token: %s\n"+
		"Link: %s\n\n"+
		"Token berlaku %d menit. Jika Anda tidak meminta ini, abaikan email ini.",
		token, link, int(ttl.Minutes()))
}
