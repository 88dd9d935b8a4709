package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	FindByReactivationToken(ctx context.Context, token string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	UpdateLastLogin(ctx context.Context, accountID uint, at time.Time) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForAccount(ctx context.Context, accountID uint) error
}

// TokenRepository defines purpose-token data access operations
type TokenRepository interface {
	Create(ctx context.Context, token *PurposeToken) error
	FindByToken(ctx context.Context, token string, tokenType TokenType) (*PurposeToken, error)
	DeleteByToken(ctx context.Context, token string, tokenType TokenType) error
	DeleteForAccount(ctx context.Context, accountID uint, tokenType TokenType) error
	DeleteByID(ctx context.Context, id uint) error
}

// PasswordService defines credential hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	ValidateStrength(password string) error
}

// TokenService defines purpose-token lifecycle operations. Verify never
// consumes; Consume is a separate step so callers can mutate state first.
type TokenService interface {
	Issue(ctx context.Context, accountID uint, tokenType TokenType) (string, error)
	Verify(ctx context.Context, token string, tokenType TokenType) (uint, error)
	Consume(ctx context.Context, token string, tokenType TokenType) error
}

// SessionService defines session lifecycle operations
type SessionService interface {
	Create(ctx context.Context, accountID uint, persistent bool) (string, error)
	Validate(ctx context.Context, token string) (*Account, error)
	Invalidate(ctx context.Context, token string) error
	InvalidateAll(ctx context.Context, accountID uint) error
}

// AccountService defines the account lifecycle state machine
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*Account, string, error)
	Logout(ctx context.Context, sessionToken string) error
	LogoutAll(ctx context.Context, accountID uint) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	DeleteAccount(ctx context.Context, accountID uint) error
	ReactivateAccount(ctx context.Context, token string) error
}

// NotificationService defines outbound, best-effort transactional email.
// Failures never roll back the state transition that triggered the send.
type NotificationService interface {
	SendWelcome(ctx context.Context, to, name, verificationLink string) error
	SendVerification(ctx context.Context, to, name, verificationLink string) error
	SendPasswordReset(ctx context.Context, to, name, resetLink string) error
	SendPasswordChanged(ctx context.Context, to, name string) error
	SendAccountDeletion(ctx context.Context, to, name, reactivationLink string) error
}
