package email

import (
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the connection settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string // The "From" email address
}

// Service sends plain-text mail over SMTP.
type Service struct {
	config SMTPConfig
	auth   smtp.Auth
}

// NewService creates a mail service for the given server settings.
func NewService(config SMTPConfig) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)
	return &Service{
		config: config,
		auth:   auth,
	}
}

// SendNotification delivers a notification as a plain-text email to a
// single recipient.
func (s *Service) SendNotification(recipientEmail, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	message := []byte(
		"To: " + recipientEmail + "\r\n" +
			"From: " + s.config.Sender + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"\r\n" +
			body + "\r\n")

	if err := smtp.SendMail(addr, s.auth, s.config.Sender, []string{recipientEmail}, message); err != nil {
		return fmt.Errorf("smtp error: %w", err)
	}
	return nil
}
