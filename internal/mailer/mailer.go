package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"promethia/training-api/internal/config"
)

// Mailer sends transactional email. Delivery failures must never affect the
// calling workflow; callers fire and forget.
type Mailer interface {
	SendWelcome(toEmail, firstName string) error
	SendCoachAccessGranted(toEmail, coachName, menteeName string) error
}

// smtpMailer delivers mail through a plain SMTP relay.
type smtpMailer struct {
	host string
	port int
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay. When no
// host is configured it returns a mailer that only logs, so development
// environments work without a relay.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		log.Println("SMTP host not configured, outbound email disabled")
		return &logMailer{}
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpMailer{
		host: cfg.Host,
		port: cfg.Port,
		auth: auth,
		from: cfg.From,
	}
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, m.auth, m.from, []string{to}, []byte(msg))
}

func (m *smtpMailer) SendWelcome(toEmail, firstName string) error {
	name := firstName
	if name == "" {
		name = "athlete"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Promethia! Your account is ready.\n\n"+
			"Set up your profile, connect with your coach, and start planning your season.\n\n"+
			"The Promethia team\n", name)
	return m.send(toEmail, "Welcome to Promethia", body)
}

func (m *smtpMailer) SendCoachAccessGranted(toEmail, coachName, menteeName string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has granted you access to their training calendar.\n\n"+
			"You can now view and plan their sessions from your dashboard.\n\n"+
			"The Promethia team\n", coachName, menteeName)
	return m.send(toEmail, "New athlete connected", body)
}

// logMailer is the no-relay fallback.
type logMailer struct{}

func (m *logMailer) SendWelcome(toEmail, firstName string) error {
	log.Printf("mailer disabled, skipping welcome email to %s", toEmail)
	return nil
}

func (m *logMailer) SendCoachAccessGranted(toEmail, coachName, menteeName string) error {
	log.Printf("mailer disabled, skipping coach-access email to %s", toEmail)
	return nil
}
