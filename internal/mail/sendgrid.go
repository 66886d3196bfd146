package mail

import (
	"context"
	"fmt"

	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    logger.ZapLogger
}

func NewSendGridSender(apiKey, fromEmail, fromName string, log logger.ZapLogger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    log,
	}
}

func (s *SendGridSender) Send(ctx context.Context, m Message) error {
	if m.ToEmail == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.fromEmail),
		m.Subject,
		sgmail.NewEmail(m.ToName, m.ToEmail),
		m.Text,
		m.HTML,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected mail",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body),
		)
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	s.logger.Info("mail sent", zap.String("to", m.ToEmail), zap.String("subject", m.Subject))
	return nil
}

// LogSender records messages instead of delivering them. Used when no
// SendGrid key is configured.
type LogSender struct {
	logger logger.ZapLogger
}

func NewLogSender(log logger.ZapLogger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.logger.Info("mail delivery disabled, dropping message",
		zap.String("to", m.ToEmail),
		zap.String("subject", m.Subject),
	)
	return nil
}
