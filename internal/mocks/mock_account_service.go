package mocks

import (
	"context"

	"github.com/dedeku/tinicoach/domain"
)

// MockAccountService implements domain.AccountService for testing
type MockAccountService struct {
	RegisterFunc             func(ctx context.Context, input domain.RegisterInput) (*domain.Account, error)
	LoginFunc                func(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error)
	LogoutFunc               func(ctx context.Context, sessionToken string) error
	LogoutAllFunc            func(ctx context.Context, accountID uint) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	VerifyEmailFunc          func(ctx context.Context, token string) error
	ResendVerificationFunc   func(ctx context.Context, email string) error
	DeleteAccountFunc        func(ctx context.Context, accountID uint) error
	ReactivateAccountFunc    func(ctx context.Context, token string) error
}

// NewMockAccountService creates a new MockAccountService with default behaviors
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) Register(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return &domain.Account{ID: 1, Email: input.Email, Status: domain.StatusActive}, nil
}

func (m *MockAccountService) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, rememberMe)
	}
	return nil, "", domain.ErrInvalidCredentials
}

func (m *MockAccountService) Logout(ctx context.Context, sessionToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionToken)
	}
	return nil
}

func (m *MockAccountService) LogoutAll(ctx context.Context, accountID uint) error {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, accountID)
	}
	return nil
}

func (m *MockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

func (m *MockAccountService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil
}

func (m *MockAccountService) ResendVerification(ctx context.Context, email string) error {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, email)
	}
	return nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID uint) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, accountID)
	}
	return nil
}

func (m *MockAccountService) ReactivateAccount(ctx context.Context, token string) error {
	if m.ReactivateAccountFunc != nil {
		return m.ReactivateAccountFunc(ctx, token)
	}
	return nil
}
