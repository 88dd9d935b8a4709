package domain

import "time"

// AccountStatus is the lifecycle state of an account. Every status-dependent
// branch switches on this type rather than comparing raw strings.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusSuspended AccountStatus = "SUSPENDED"
	StatusDeleted   AccountStatus = "DELETED"
)

// IsValid reports whether s is one of the known statuses.
func (s AccountStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

// TokenType scopes a purpose token to the single operation it may authorize.
type TokenType string

const (
	TokenEmailVerification TokenType = "EMAIL_VERIFICATION"
	TokenPasswordReset     TokenType = "PASSWORD_RESET"
)

// Account represents a registered user identity
type Account struct {
	ID                uint
	Email             string
	PasswordHash      string
	FullName          string
	Nickname          string
	Birthdate         time.Time
	Role              string
	Status            AccountStatus
	EmailVerified     bool
	EmailVerifiedAt   *time.Time
	TermsAcceptedAt   time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
	DeletedAt         *time.Time
	ReactivationToken *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Session is server-held proof of an authenticated browser, exchanged via an
// opaque cookie token.
type Session struct {
	Token     string
	AccountID uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PurposeToken is a single-use, expiring credential bound to one account and
// one operation (email verification or password reset).
type PurposeToken struct {
	ID        uint
	AccountID uint
	Token     string
	Type      TokenType
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RegisterInput carries validated registration data into the orchestrator.
type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	Nickname  string
	Birthdate time.Time
}

// AccountSummary is the projection of an account returned to clients. The
// password hash never leaves the service layer.
type AccountSummary struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	Nickname      string `json:"nickname"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

// Summary returns the client-safe projection of a.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:            a.ID,
		Email:         a.Email,
		FullName:      a.FullName,
		Nickname:      a.Nickname,
		Role:          a.Role,
		EmailVerified: a.EmailVerified,
	}
}
