package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

var ErrNotConfigured = errors.New("mail relay account is not configured")

// Client defines the interface for sending a plain-text email to one address
type Client interface {
	SendEmail(ctx context.Context, to, subject, text string) error
}

// Config describes the authenticated mail relay. The relay account doubles as
// the sender address.
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type sender interface {
	DialAndSend(m ...*mail.Message) error
}

type clientImpl struct {
	dialer sender
	from   string
	log    *zap.Logger
}

// NewClient creates a new SMTP client for the given relay
func NewClient(cfg Config, log *zap.Logger) Client {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// SMTP_INSECURE_SKIP_VERIFY controls certificate checks against the relay
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}

	return &clientImpl{
		dialer: d,
		from:   cfg.Username,
		log:    log,
	}
}

func (c *clientImpl) SendEmail(ctx context.Context, to, subject, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.from == "" {
		return ErrNotConfigured
	}

	if err := c.dialer.DialAndSend(newMessage(c.from, to, subject, text)); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	c.log.Debug("email accepted by relay", zap.String("to", to))
	return nil
}

func newMessage(from, to, subject, text string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	return m
}
