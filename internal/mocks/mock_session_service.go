package mocks

import (
	"context"

	"github.com/dedeku/tinicoach/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	CreateFunc        func(ctx context.Context, accountID uint, persistent bool) (string, error)
	ValidateFunc      func(ctx context.Context, token string) (*domain.Account, error)
	InvalidateFunc    func(ctx context.Context, token string) error
	InvalidateAllFunc func(ctx context.Context, accountID uint) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

func (m *MockSessionService) Create(ctx context.Context, accountID uint, persistent bool) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, accountID, persistent)
	}
	return "session_token", nil
}

func (m *MockSessionService) Validate(ctx context.Context, token string) (*domain.Account, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionService) Invalidate(ctx context.Context, token string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionService) InvalidateAll(ctx context.Context, accountID uint) error {
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx, accountID)
	}
	return nil
}
