package mocks

import "context"

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendWelcomeFunc         func(ctx context.Context, to, name, verificationLink string) error
	SendVerificationFunc    func(ctx context.Context, to, name, verificationLink string) error
	SendPasswordResetFunc   func(ctx context.Context, to, name, resetLink string) error
	SendPasswordChangedFunc func(ctx context.Context, to, name string) error
	SendAccountDeletionFunc func(ctx context.Context, to, name, reactivationLink string) error
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendWelcome(ctx context.Context, to, name, verificationLink string) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, to, name, verificationLink)
	}
	return nil
}

func (m *MockNotificationService) SendVerification(ctx context.Context, to, name, verificationLink string) error {
	if m.SendVerificationFunc != nil {
		return m.SendVerificationFunc(ctx, to, name, verificationLink)
	}
	return nil
}

func (m *MockNotificationService) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, to, name, resetLink)
	}
	return nil
}

func (m *MockNotificationService) SendPasswordChanged(ctx context.Context, to, name string) error {
	if m.SendPasswordChangedFunc != nil {
		return m.SendPasswordChangedFunc(ctx, to, name)
	}
	return nil
}

func (m *MockNotificationService) SendAccountDeletion(ctx context.Context, to, name, reactivationLink string) error {
	if m.SendAccountDeletionFunc != nil {
		return m.SendAccountDeletionFunc(ctx, to, name, reactivationLink)
	}
	return nil
}
