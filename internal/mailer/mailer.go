package mailer

import (
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

// messageSender is implemented by *gomail.Dialer.
type messageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends listing notifications over SMTP.
type SMTPMailer struct {
	from   string
	sender messageSender
	logger *logger.Logger
}

func NewSMTPMailer(host string, port int, from, password string, log *logger.Logger) (*SMTPMailer, error) {
	if host == "" || from == "" || password == "" {
		return nil, ErrIncompleteConfig
	}
	return &SMTPMailer{
		from:   from,
		sender: gomail.NewDialer(host, port, from, password),
		logger: log.Named("SMTPMailer"),
	}, nil
}

func (m *SMTPMailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been created successfully.", listingTitle))

	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send listing created email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info("Listing created email sent", zap.String("to", toEmail))
	return nil
}
