package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dedeku/tinicoach/domain"
)

// TokenServiceImpl implements domain.TokenService backed by the
// verification_tokens table.
type TokenServiceImpl struct {
	tokenRepo domain.TokenRepository
	config    TokenConfig
	now       func() time.Time
}

type TokenConfig struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(tokenRepo domain.TokenRepository, config TokenConfig) domain.TokenService {
	return &TokenServiceImpl{
		tokenRepo: tokenRepo,
		config:    config,
		now:       time.Now,
	}
}

// Issue implements domain.TokenService. Any existing unconsumed token of the
// same (account, type) pair is deleted first, so at most one stays live. The
// delete+insert pair is not atomic; under concurrent re-issuance a stale
// token can survive, which is accepted for this domain.
func (s *TokenServiceImpl) Issue(ctx context.Context, accountID uint, tokenType domain.TokenType) (string, error) {
	token, err := generateSecureToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokenRepo.DeleteForAccount(ctx, accountID, tokenType); err != nil {
		return "", fmt.Errorf("failed to delete existing tokens: %w", err)
	}

	purposeToken := &domain.PurposeToken{
		AccountID: accountID,
		Token:     token,
		Type:      tokenType,
		ExpiresAt: s.now().Add(s.ttl(tokenType)),
	}
	if err := s.tokenRepo.Create(ctx, purposeToken); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Verify implements domain.TokenService. It fails closed on any miss and
// deletes stale rows on sight, but never consumes a live token - that is
// Consume's job, called only after the dependent state change succeeded.
func (s *TokenServiceImpl) Verify(ctx context.Context, token string, tokenType domain.TokenType) (uint, error) {
	purposeToken, err := s.tokenRepo.FindByToken(ctx, token, tokenType)
	if err != nil {
		return 0, err
	}

	if purposeToken.ExpiresAt.Before(s.now()) {
		if err := s.tokenRepo.DeleteByID(ctx, purposeToken.ID); err != nil {
			return 0, fmt.Errorf("failed to delete expired token: %w", err)
		}
		return 0, domain.ErrTokenInvalid
	}

	return purposeToken.AccountID, nil
}

// Consume implements domain.TokenService
func (s *TokenServiceImpl) Consume(ctx context.Context, token string, tokenType domain.TokenType) error {
	return s.tokenRepo.DeleteByToken(ctx, token, tokenType)
}

func (s *TokenServiceImpl) ttl(tokenType domain.TokenType) time.Duration {
	switch tokenType {
	case domain.TokenPasswordReset:
		return s.config.ResetTTL
	default:
		return s.config.VerificationTTL
	}
}

// generateSecureToken returns 32 cryptographically random bytes hex-encoded,
// 256 bits of entropy per token.
func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
