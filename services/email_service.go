package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/sahilchouksey/course-platform-api/config"
)

// EmailService sends transactional email over SMTP. Delivery failures are
// returned synchronously to the caller.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates a new email service instance
func NewEmailService(env *config.EnviornmentVariable) *EmailService {
	from := env.SMTP_FROM
	if from == "" {
		from = "noreply@courseplatform.app"
	}

	return &EmailService{
		host:     env.SMTP_HOST,
		port:     env.SMTP_PORT,
		username: env.SMTP_USERNAME,
		password: env.SMTP_PASSWORD,
		from:     from,
	}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendVerificationCode emails a registration verification code
func (e *EmailService) SendVerificationCode(toEmail, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>",
		code,
	)
	return e.send(toEmail, subject, body)
}

// SendResetCode emails a password reset code
func (e *EmailService) SendResetCode(toEmail, code string) error {
	subject := "Your password reset code"
	body := fmt.Sprintf(
		"<p>Use code <strong>%s</strong> to reset your password.</p><p>It expires in 10 minutes. If you did not request a reset, ignore this email.</p>",
		code,
	)
	return e.send(toEmail, subject, body)
}

func (e *EmailService) send(to, subject, htmlBody string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured, dropping email to %s (%s)", to, subject)
		return fmt.Errorf("SMTP not configured")
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Course Platform <%s>\r\n", e.from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	if err := smtp.SendMail(addr, auth, e.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	return nil
}
