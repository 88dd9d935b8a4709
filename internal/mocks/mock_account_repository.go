package mocks

import (
	"context"
	"time"

	"github.com/dedeku/tinicoach/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing
type MockAccountRepository struct {
	CreateFunc                  func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc             func(ctx context.Context, email string) (*domain.Account, error)
	FindByIDFunc                func(ctx context.Context, id uint) (*domain.Account, error)
	FindByReactivationTokenFunc func(ctx context.Context, token string) (*domain.Account, error)
	UpdateFunc                  func(ctx context.Context, account *domain.Account) error
	UpdateLastLoginFunc         func(ctx context.Context, accountID uint, at time.Time) error
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	account.ID = 1
	return nil
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByReactivationToken(ctx context.Context, token string) (*domain.Account, error) {
	if m.FindByReactivationTokenFunc != nil {
		return m.FindByReactivationTokenFunc(ctx, token)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	return nil
}

func (m *MockAccountRepository) UpdateLastLogin(ctx context.Context, accountID uint, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, accountID, at)
	}
	return nil
}
