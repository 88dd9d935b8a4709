package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dedeku/tinicoach/domain"
)

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	accountRepo domain.AccountRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, accountRepo domain.AccountRepository, ttl time.Duration) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create implements domain.SessionService. The server-side record always
// carries the full TTL; the persistent flag only changes the delivered
// cookie, so a lost browser-scoped cookie cannot leave an undead session.
func (s *SessionServiceImpl) Create(ctx context.Context, accountID uint, persistent bool) (string, error) {
	token, err := generateSecureToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &domain.Session{
		Token:     token,
		AccountID: accountID,
		ExpiresAt: s.now().Add(s.ttl),
		CreatedAt: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Validate implements domain.SessionService. Expired sessions are deleted
// lazily on first access. A session bound to a non-ACTIVE account fails
// closed but keeps its row, so reactivation within the session's lifetime
// restores access without a fresh login.
func (s *SessionServiceImpl) Validate(ctx context.Context, token string) (*domain.Account, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.ExpiresAt.Before(s.now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", err)
		}
		return nil, domain.ErrSessionExpired
	}

	account, err := s.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}

	switch account.Status {
	case domain.StatusActive:
		return account, nil
	case domain.StatusSuspended, domain.StatusDeleted:
		return nil, domain.ErrAccountNotActive
	default:
		return nil, domain.ErrAccountNotActive
	}
}

// Invalidate implements domain.SessionService
func (s *SessionServiceImpl) Invalidate(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// InvalidateAll implements domain.SessionService
func (s *SessionServiceImpl) InvalidateAll(ctx context.Context, accountID uint) error {
	return s.sessionRepo.DeleteAllForAccount(ctx, accountID)
}
