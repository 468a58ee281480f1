package services

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"

	"smsportal/internal/metrics"
)

// Mailer is the part of *gomail.Dialer the service needs.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService interface {
	SendConfirmationEmail(email, confirmURL string) error
}

type emailService struct {
	mailer Mailer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	return NewEmailServiceWithMailer(gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword), fromEmail)
}

func NewEmailServiceWithMailer(mailer Mailer, fromEmail string) EmailService {
	return &emailService{mailer: mailer, from: fromEmail}
}

func (s *emailService) SendConfirmationEmail(email, confirmURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Email Confirmation")

	body := fmt.Sprintf(`
		<p>Please confirm your email by clicking on the link:
		<a href="%s">Confirm Email</a></p>
		<p>If you did not sign up, you can ignore this message.</p>
	`, html.EscapeString(confirmURL))
	m.SetBody("text/html", body)

	started := time.Now()
	err := s.mailer.DialAndSend(m)
	metrics.Dispatch("email", started, err)
	if err != nil {
		return fmt.Errorf("%w: confirmation email to %s: %v", ErrDispatchFailed, email, err)
	}
	return nil
}
