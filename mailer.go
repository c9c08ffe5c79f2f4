package useradmin

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "gopkg.in/mail.v2"
)

// SMTPConfig holds mail delivery options
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// SkipTLSVerify is for local development against mailhog style catchers
	SkipTLSVerify bool
}

// SMTPMailer delivers invitation emails over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: defLogger{},
	}
}

func (m *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	m.logger = logger
	return m
}

func (m *SMTPMailer) SendInvitation(ctx context.Context, to, fullname, link string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "You have been invited")

	body := fmt.Sprintf("Hello %s,\n\nAn account has been created for you. Set your password here:\n\n%s\n", fullname, link)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hello %s,</p><p>An account has been created for you. <a href=%q>Set your password</a>.</p>",
		fullname, link,
	))

	d := mail.NewDialer(m.config.Host, m.config.Port, m.config.Username, m.config.Password)
	if m.config.SkipTLSVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// PrintMailer writes the invitation to stdout instead of sending it. Used in
// examples and tests where no SMTP server is around.
type PrintMailer struct{}

var _ Mailer = (*PrintMailer)(nil)

func (PrintMailer) SendInvitation(_ context.Context, to, fullname, link string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s (%s)\n", to, fullname)
	fmt.Printf("link: %s\n", link)
	return nil
}
