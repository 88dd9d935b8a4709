package mocks

import (
	"context"

	"github.com/dedeku/tinicoach/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc   func(ctx context.Context, accountID uint, tokenType domain.TokenType) (string, error)
	VerifyFunc  func(ctx context.Context, token string, tokenType domain.TokenType) (uint, error)
	ConsumeFunc func(ctx context.Context, token string, tokenType domain.TokenType) error
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(ctx context.Context, accountID uint, tokenType domain.TokenType) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, accountID, tokenType)
	}
	return "issued_token", nil
}

func (m *MockTokenService) Verify(ctx context.Context, token string, tokenType domain.TokenType) (uint, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token, tokenType)
	}
	return 0, domain.ErrTokenInvalid
}

func (m *MockTokenService) Consume(ctx context.Context, token string, tokenType domain.TokenType) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, token, tokenType)
	}
	return nil
}
