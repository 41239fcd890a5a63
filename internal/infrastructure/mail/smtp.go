// Package mail delivers rendered templated emails over SMTP, or to the log
// in development.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/ports"
)

// SMTPConfig holds outbound server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds one delivery, connection included. Zero means 30s.
	Timeout time.Duration
}

const defaultSMTPTimeout = 30 * time.Second

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	renderer *Renderer
	timeout  time.Duration
	send     func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTPSender. PLAIN auth is used when a username is set.
func NewSMTPSender(cfg SMTPConfig, renderer *Renderer) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:     cfg.From,
		auth:     auth,
		renderer: renderer,
		timeout:  timeout,
		send:     sendMail,
	}
}

func (s *SMTPSender) Deliver(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := s.renderer.Render(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.send(ctx, s.addr, s.auth, s.from, []string{msg.To}, buildMIME(s.from, msg, body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// sendMail is smtp.SendMail bounded by ctx: the dial honours it, the
// connection deadline follows it and cancellation closes the connection.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMIME(from string, msg ports.MailMessage, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogSender renders messages and writes them to the log instead of sending.
type LogSender struct {
	renderer *Renderer
	log      zerolog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(renderer *Renderer, log zerolog.Logger) *LogSender {
	return &LogSender{renderer: renderer, log: log}
}

func (s *LogSender) Deliver(_ context.Context, msg ports.MailMessage) error {
	if _, err := s.renderer.Render(msg); err != nil {
		return err
	}
	s.log.Info().
		Str("to", msg.To).
		Str("template", string(msg.Template)).
		Str("link", msg.Link).
		Msg("email rendered (log transport)")
	return nil
}
