// Package mailer sends outbound email over SMTP behind a circuit breaker.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/aromakopi/pos-backend/internal/config"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/jordan-wright/email"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("mailer: SMTP host not configured")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sendFunc matches email.Email.Send so tests can replace the transport.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

type SMTPMailer struct {
	host     string
	addr     string
	username string
	password string
	from     string
	breaker  *gobreaker.CircuitBreaker
	send     sendFunc
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		breaker:  newBreaker("smtp"),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.host == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.send(e, m.addr, auth)
	})
	if err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
