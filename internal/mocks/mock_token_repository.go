package mocks

import (
	"context"

	"github.com/dedeku/tinicoach/domain"
)

// MockTokenRepository implements domain.TokenRepository for testing
type MockTokenRepository struct {
	CreateFunc           func(ctx context.Context, token *domain.PurposeToken) error
	FindByTokenFunc      func(ctx context.Context, token string, tokenType domain.TokenType) (*domain.PurposeToken, error)
	DeleteByTokenFunc    func(ctx context.Context, token string, tokenType domain.TokenType) error
	DeleteForAccountFunc func(ctx context.Context, accountID uint, tokenType domain.TokenType) error
	DeleteByIDFunc       func(ctx context.Context, id uint) error
}

// NewMockTokenRepository creates a new MockTokenRepository with default behaviors
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{}
}

func (m *MockTokenRepository) Create(ctx context.Context, token *domain.PurposeToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	token.ID = 1
	return nil
}

func (m *MockTokenRepository) FindByToken(ctx context.Context, token string, tokenType domain.TokenType) (*domain.PurposeToken, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token, tokenType)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenRepository) DeleteByToken(ctx context.Context, token string, tokenType domain.TokenType) error {
	if m.DeleteByTokenFunc != nil {
		return m.DeleteByTokenFunc(ctx, token, tokenType)
	}
	return nil
}

func (m *MockTokenRepository) DeleteForAccount(ctx context.Context, accountID uint, tokenType domain.TokenType) error {
	if m.DeleteForAccountFunc != nil {
		return m.DeleteForAccountFunc(ctx, accountID, tokenType)
	}
	return nil
}

func (m *MockTokenRepository) DeleteByID(ctx context.Context, id uint) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}
