package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dedeku/tinicoach/domain"
)

// DefaultRole is assigned to every self-registered account.
const DefaultRole = "TEEN"

// AccountServiceImpl implements domain.AccountService, the state machine
// over Account.Status composing the credential, token and session services.
type AccountServiceImpl struct {
	accountRepo     domain.AccountRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	sessionSvc      domain.SessionService
	notificationSvc domain.NotificationService
	logger          *zap.Logger
	baseURL         string
	reactivationTTL time.Duration
	now             func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo domain.AccountRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	sessionSvc domain.SessionService,
	notificationSvc domain.NotificationService,
	logger *zap.Logger,
	baseURL string,
	reactivationTTL time.Duration,
) domain.AccountService {
	return &AccountServiceImpl{
		accountRepo:     accountRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		sessionSvc:      sessionSvc,
		notificationSvc: notificationSvc,
		logger:          logger,
		baseURL:         baseURL,
		reactivationTTL: reactivationTTL,
		now:             time.Now,
	}
}

// Register implements domain.AccountService. No session is created on
// success: registration never auto-logs-in.
func (s *AccountServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	if err := s.passwordSvc.ValidateStrength(input.Password); err != nil {
		return nil, err
	}

	hashed, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:           input.Email,
		PasswordHash:    hashed,
		FullName:        input.FullName,
		Nickname:        input.Nickname,
		Birthdate:       input.Birthdate,
		Role:            DefaultRole,
		Status:          domain.StatusActive,
		EmailVerified:   false,
		TermsAcceptedAt: s.now(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokenSvc.Issue(ctx, account.ID, domain.TokenEmailVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := s.verificationLink(token)
	if err := s.notificationSvc.SendWelcome(ctx, account.Email, account.FullName, link); err != nil {
		s.logger.Warn("failed to send welcome email",
			zap.Uint("account_id", account.ID),
			zap.Error(err),
		)
	}

	return account, nil
}

// Login implements domain.AccountService. Unknown email, missing credential
// and wrong password are indistinguishable to the caller; DELETED and
// SUSPENDED are reported distinctly, a deliberate UX tradeoff.
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		// Only a confirmed miss maps to the generic credential error;
		// an infrastructure failure must not look like a wrong password.
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load account: %w", err)
	}
	if account.PasswordHash == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	switch account.Status {
	case domain.StatusDeleted:
		return nil, "", domain.ErrAccountDeleted
	case domain.StatusSuspended:
		return nil, "", domain.ErrAccountSuspended
	case domain.StatusActive:
		// proceed
	default:
		return nil, "", domain.ErrAccountNotActive
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessionSvc.Create(ctx, account.ID, rememberMe)
	if err != nil {
		return nil, "", err
	}

	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID, s.now()); err != nil {
		s.logger.Warn("failed to update last login",
			zap.Uint("account_id", account.ID),
			zap.Error(err),
		)
	}

	return account, token, nil
}

// Logout implements domain.AccountService
func (s *AccountServiceImpl) Logout(ctx context.Context, sessionToken string) error {
	return s.sessionSvc.Invalidate(ctx, sessionToken)
}

// LogoutAll implements domain.AccountService
func (s *AccountServiceImpl) LogoutAll(ctx context.Context, accountID uint) error {
	return s.sessionSvc.InvalidateAll(ctx, accountID)
}

// RequestPasswordReset implements domain.AccountService. It always reports
// success so the response does not reveal whether the email is registered;
// a token is issued and mailed only for an ACTIVE account.
func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil || account.Status != domain.StatusActive {
		return nil
	}

	token, err := s.tokenSvc.Issue(ctx, account.ID, domain.TokenPasswordReset)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.baseURL, token)
	if err := s.notificationSvc.SendPasswordReset(ctx, account.Email, account.FullName, link); err != nil {
		s.logger.Warn("failed to send password reset email",
			zap.Uint("account_id", account.ID),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword implements domain.AccountService. The token is consumed only
// after the new credential is stored, and every session of the account is
// invalidated so the reset forces a re-login everywhere.
func (s *AccountServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	accountID, err := s.tokenSvc.Verify(ctx, token, domain.TokenPasswordReset)
	if err != nil {
		return err
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return domain.ErrAccountNotActive
	}
	if account.Status != domain.StatusActive {
		return domain.ErrAccountNotActive
	}

	if err := s.passwordSvc.ValidateStrength(newPassword); err != nil {
		return err
	}
	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	account.PasswordHash = hashed
	account.PasswordChangedAt = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenSvc.Consume(ctx, token, domain.TokenPasswordReset); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	if err := s.sessionSvc.InvalidateAll(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	if err := s.notificationSvc.SendPasswordChanged(ctx, account.Email, account.FullName); err != nil {
		s.logger.Warn("failed to send password changed email",
			zap.Uint("account_id", account.ID),
			zap.Error(err),
		)
	}

	return nil
}

// VerifyEmail implements domain.AccountService
func (s *AccountServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	accountID, err := s.tokenSvc.Verify(ctx, token, domain.TokenEmailVerification)
	if err != nil {
		return err
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	now := s.now()
	account.EmailVerified = true
	account.EmailVerifiedAt = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return s.tokenSvc.Consume(ctx, token, domain.TokenEmailVerification)
}

// ResendVerification implements domain.AccountService. A missing or inactive
// account is a silent no-op; an already verified email is a hard error.
// Sending the email is the whole operation here, so a transport failure is
// surfaced rather than swallowed.
func (s *AccountServiceImpl) ResendVerification(ctx context.Context, email string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil || account.Status != domain.StatusActive {
		return nil
	}

	if account.EmailVerified {
		return domain.ErrEmailAlreadyVerified
	}

	token, err := s.tokenSvc.Issue(ctx, account.ID, domain.TokenEmailVerification)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := s.verificationLink(token)
	if err := s.notificationSvc.SendVerification(ctx, account.Email, account.FullName, link); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// DeleteAccount implements domain.AccountService. Deletion is soft: the
// account keeps its data, gains a reactivation token and loses every
// session. Reactivation stays possible within the 30-day window.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, accountID uint) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return domain.ErrAccountNotActive
	}
	if account.Status != domain.StatusActive {
		return domain.ErrAccountNotActive
	}

	token, err := generateSecureToken()
	if err != nil {
		return fmt.Errorf("failed to generate reactivation token: %w", err)
	}

	now := s.now()
	account.Status = domain.StatusDeleted
	account.DeletedAt = &now
	account.ReactivationToken = &token
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if err := s.sessionSvc.InvalidateAll(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reactivate-account?token=%s", s.baseURL, token)
	if err := s.notificationSvc.SendAccountDeletion(ctx, account.Email, account.FullName, link); err != nil {
		s.logger.Warn("failed to send account deletion email",
			zap.Uint("account_id", account.ID),
			zap.Error(err),
		)
	}

	return nil
}

// ReactivateAccount implements domain.AccountService. The token is valid
// only while the account is DELETED and within reactivationTTL of the
// deletion. Old sessions are not restored.
func (s *AccountServiceImpl) ReactivateAccount(ctx context.Context, token string) error {
	account, err := s.accountRepo.FindByReactivationToken(ctx, token)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	if account.Status != domain.StatusDeleted || account.DeletedAt == nil {
		return domain.ErrTokenInvalid
	}
	if account.DeletedAt.Add(s.reactivationTTL).Before(s.now()) {
		return domain.ErrTokenInvalid
	}

	account.Status = domain.StatusActive
	account.DeletedAt = nil
	account.ReactivationToken = nil
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to reactivate account: %w", err)
	}

	return nil
}

func (s *AccountServiceImpl) verificationLink(token string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s", s.baseURL, token)
}
