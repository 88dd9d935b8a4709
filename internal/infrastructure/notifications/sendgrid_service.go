package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/dedeku/tinicoach/domain"
)

// SendgridServiceImpl implements domain.NotificationService using SendGrid.
// With no API key configured it logs the message instead of sending, so
// local development works without credentials.
type SendgridServiceImpl struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSendgridService creates a new SendGrid notification service
func NewSendgridService(apiKey, fromEmail, fromName string, logger *zap.Logger) domain.NotificationService {
	var client *sendgrid.Client
	if apiKey != "" {
		client = sendgrid.NewSendClient(apiKey)
	}
	return &SendgridServiceImpl{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// SendWelcome implements domain.NotificationService
func (s *SendgridServiceImpl) SendWelcome(ctx context.Context, to, name, verificationLink string) error {
	subject := "Welcome to tinicoach!"
	body := fmt.Sprintf(
		"Hi %s!\n\nWelcome to tinicoach. Please confirm your email address by opening this link:\n\n%s\n\nThe link is valid for 24 hours.",
		name, verificationLink,
	)
	return s.send(ctx, to, subject, body)
}

// SendVerification implements domain.NotificationService
func (s *SendgridServiceImpl) SendVerification(ctx context.Context, to, name, verificationLink string) error {
	subject := "Confirm your email address"
	body := fmt.Sprintf(
		"Hi %s!\n\nPlease confirm your email address by opening this link:\n\n%s\n\nThe link is valid for 24 hours.",
		name, verificationLink,
	)
	return s.send(ctx, to, subject, body)
}

// SendPasswordReset implements domain.NotificationService
func (s *SendgridServiceImpl) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hi %s!\n\nWe received a request to reset your password. Open this link to choose a new one:\n\n%s\n\nThe link is valid for 24 hours. If you did not request this, you can ignore this email.",
		name, resetLink,
	)
	return s.send(ctx, to, subject, body)
}

// SendPasswordChanged implements domain.NotificationService
func (s *SendgridServiceImpl) SendPasswordChanged(ctx context.Context, to, name string) error {
	subject := "Your password was changed"
	body := fmt.Sprintf(
		"Hi %s!\n\nYour tinicoach password was just changed and you were signed out everywhere. If this was not you, reset your password immediately.",
		name,
	)
	return s.send(ctx, to, subject, body)
}

// SendAccountDeletion implements domain.NotificationService
func (s *SendgridServiceImpl) SendAccountDeletion(ctx context.Context, to, name, reactivationLink string) error {
	subject := "Your account has been deleted"
	body := fmt.Sprintf(
		"Hi %s!\n\nYour tinicoach account has been deleted. You have 30 days to change your mind - open this link to reactivate it:\n\n%s",
		name, reactivationLink,
	)
	return s.send(ctx, to, subject, body)
}

func (s *SendgridServiceImpl) send(ctx context.Context, to, subject, body string) error {
	if s.client == nil {
		s.logger.Info("email send skipped, no api key configured",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}

	s.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
