package mocks

import (
	"context"

	"github.com/dedeku/tinicoach/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc              func(ctx context.Context, session *domain.Session) error
	FindByTokenFunc         func(ctx context.Context, token string) (*domain.Session, error)
	DeleteFunc              func(ctx context.Context, token string) error
	DeleteAllForAccountFunc func(ctx context.Context, accountID uint) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionRepository) DeleteAllForAccount(ctx context.Context, accountID uint) error {
	if m.DeleteAllForAccountFunc != nil {
		return m.DeleteAllForAccountFunc(ctx, accountID)
	}
	return nil
}
