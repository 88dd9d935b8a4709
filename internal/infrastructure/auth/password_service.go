package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/dedeku/tinicoach/domain"
)

// DefaultBcryptCost yields roughly 200-300ms per hash on current hardware.
const DefaultBcryptCost = 12

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service. A cost outside bcrypt's
// valid range falls back to DefaultBcryptCost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. Comparison is constant-time
// inside bcrypt.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateStrength enforces the password policy: at least 8 characters, one
// uppercase letter, one lowercase letter, and one digit. Violations come back
// as a structured validation failure, not a generic error.
func (p *PasswordServiceImpl) ValidateStrength(password string) error {
	if len(password) < 8 {
		return domain.NewValidationError("password", "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return domain.NewValidationError("password", "password must contain at least 1 uppercase letter")
	}
	if !hasLower {
		return domain.NewValidationError("password", "password must contain at least 1 lowercase letter")
	}
	if !hasDigit {
		return domain.NewValidationError("password", "password must contain at least 1 digit")
	}
	return nil
}
