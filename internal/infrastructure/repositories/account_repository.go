package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dedeku/tinicoach/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags).
// DeletedAt is a plain nullable column, not gorm.DeletedAt: deletion is a
// domain state the lifecycle reads and reverses, not a query filter.
type DBAccount struct {
	ID                uint    `gorm:"primaryKey"`
	Email             string  `gorm:"uniqueIndex;size:255"`
	PasswordHash      string  `gorm:"column:password"`
	FullName          string  `gorm:"size:100"`
	Nickname          string  `gorm:"size:50"`
	Birthdate         time.Time
	Role              string `gorm:"index;size:32"`
	Status            string `gorm:"index;size:16"`
	EmailVerified     bool
	EmailVerifiedAt   *time.Time
	TermsAcceptedAt   time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
	DeletedAt         *time.Time
	ReactivationToken *string `gorm:"uniqueIndex;size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByReactivationToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByReactivationToken(ctx context.Context, token string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("reactivation_token = ?", token).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.AccountRepository. Save writes every column so
// clearing nullable fields (DeletedAt, ReactivationToken) works.
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	return r.db.WithContext(ctx).Save(dbAccount).Error
}

// UpdateLastLogin implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdateLastLogin(ctx context.Context, accountID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", accountID).Update("last_login_at", at).Error
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                account.ID,
		Email:             account.Email,
		PasswordHash:      account.PasswordHash,
		FullName:          account.FullName,
		Nickname:          account.Nickname,
		Birthdate:         account.Birthdate,
		Role:              account.Role,
		Status:            string(account.Status),
		EmailVerified:     account.EmailVerified,
		EmailVerifiedAt:   account.EmailVerifiedAt,
		TermsAcceptedAt:   account.TermsAcceptedAt,
		LastLoginAt:       account.LastLoginAt,
		PasswordChangedAt: account.PasswordChangedAt,
		DeletedAt:         account.DeletedAt,
		ReactivationToken: account.ReactivationToken,
		CreatedAt:         account.CreatedAt,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                dbAccount.ID,
		Email:             dbAccount.Email,
		PasswordHash:      dbAccount.PasswordHash,
		FullName:          dbAccount.FullName,
		Nickname:          dbAccount.Nickname,
		Birthdate:         dbAccount.Birthdate,
		Role:              dbAccount.Role,
		Status:            domain.AccountStatus(dbAccount.Status),
		EmailVerified:     dbAccount.EmailVerified,
		EmailVerifiedAt:   dbAccount.EmailVerifiedAt,
		TermsAcceptedAt:   dbAccount.TermsAcceptedAt,
		LastLoginAt:       dbAccount.LastLoginAt,
		PasswordChangedAt: dbAccount.PasswordChangedAt,
		DeletedAt:         dbAccount.DeletedAt,
		ReactivationToken: dbAccount.ReactivationToken,
		CreatedAt:         dbAccount.CreatedAt,
		UpdatedAt:         dbAccount.UpdatedAt,
	}
}
