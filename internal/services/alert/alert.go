// Package alert рассылает администраторам письма о событиях
// безопасности, потребляя очередь security.alerts.
package alert

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/lib/smtp"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Service отправляет письма о блокировках учётных записей.
type Service struct {
	transport  smtp.TransportInterface
	recipients []string
	log        *slog.Logger
}

// New создаёт новый Service. recipients — адреса администраторов.
func New(transport smtp.TransportInterface, recipients []string, log *slog.Logger) *Service {
	return &Service{
		transport:  transport,
		recipients: recipients,
		log:        log,
	}
}

// SendLockoutAlert обрабатывает сообщение очереди security.alerts:
// разбирает событие и отправляет письмо администраторам.
func (s *Service) SendLockoutAlert(body []byte) error {
	var alert models.SecurityAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.log.Error("failed to unmarshal security alert", sl.Err(err))
		return fmt.Errorf("error unmarshalling security alert: %w", err)
	}
	if len(s.recipients) == 0 {
		s.log.Warn("no alert recipients configured, dropping security alert",
			slog.String("email", alert.Email))
		return nil
	}

	subject := "Account locked: " + alert.Email
	bodyText := fmt.Sprintf(
		"Account %s (employee %s, %s) was locked after repeated failed login attempts.\n"+
			"Source IP: %s\nTime: %s\n\n"+
			"Review the security alerts screen and unlock the account if appropriate.",
		alert.Email, alert.EmployeeID, alert.Name,
		alert.IPAddress, alert.OccurredAt.Format("2006-01-02 15:04:05 MST"))

	return s.sendEmail(s.recipients, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("security alert sent", slog.Any("to", to))
	return nil
}
