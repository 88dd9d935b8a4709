package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dedeku/tinicoach/domain"
)

// TokenRepositoryImpl implements domain.TokenRepository using GORM
type TokenRepositoryImpl struct {
	db *gorm.DB
}

// DBVerificationToken represents the database model for PurposeToken. The
// unique index on Token makes a collision fail loudly instead of silently
// overwriting another account's token.
type DBVerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID uint   `gorm:"index"`
	Token     string `gorm:"uniqueIndex;size:64"`
	Type      string `gorm:"index;size:32"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBVerificationToken) TableName() string {
	return "verification_tokens"
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) domain.TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

// Create implements domain.TokenRepository
func (r *TokenRepositoryImpl) Create(ctx context.Context, token *domain.PurposeToken) error {
	dbToken := &DBVerificationToken{
		AccountID: token.AccountID,
		Token:     token.Token,
		Type:      string(token.Type),
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindByToken implements domain.TokenRepository. Lookup is by exact
// token+type match; a miss is reported as ErrTokenInvalid without detail.
func (r *TokenRepositoryImpl) FindByToken(ctx context.Context, token string, tokenType domain.TokenType) (*domain.PurposeToken, error) {
	var dbToken DBVerificationToken
	err := r.db.WithContext(ctx).Where("token = ? AND type = ?", token, string(tokenType)).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return &domain.PurposeToken{
		ID:        dbToken.ID,
		AccountID: dbToken.AccountID,
		Token:     dbToken.Token,
		Type:      domain.TokenType(dbToken.Type),
		ExpiresAt: dbToken.ExpiresAt,
		CreatedAt: dbToken.CreatedAt,
	}, nil
}

// DeleteByToken implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeleteByToken(ctx context.Context, token string, tokenType domain.TokenType) error {
	return r.db.WithContext(ctx).Where("token = ? AND type = ?", token, string(tokenType)).Delete(&DBVerificationToken{}).Error
}

// DeleteForAccount implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeleteForAccount(ctx context.Context, accountID uint, tokenType domain.TokenType) error {
	return r.db.WithContext(ctx).Where("account_id = ? AND type = ?", accountID, string(tokenType)).Delete(&DBVerificationToken{}).Error
}

// DeleteByID implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBVerificationToken{}).Error
}
