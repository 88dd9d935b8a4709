package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dedeku/tinicoach/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DBAccount{}, &DBVerificationToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, repo domain.AccountRepository, email string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		Email:           email,
		PasswordHash:    "hashed",
		FullName:        "Kiss Anna",
		Nickname:        "anna",
		Birthdate:       time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC),
		Role:            "TEEN",
		Status:          domain.StatusActive,
		TermsAcceptedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, "anna@example.com")
	if account.ID == 0 {
		t.Fatal("Create did not backfill the ID")
	}

	byEmail, err := repo.FindByEmail(ctx, "anna@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if byEmail.ID != account.ID {
		t.Errorf("FindByEmail ID = %d, want %d", byEmail.ID, account.ID)
	}
	if byEmail.Status != domain.StatusActive {
		t.Errorf("Status = %s, want ACTIVE", byEmail.Status)
	}

	byID, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if byID.Email != "anna@example.com" {
		t.Errorf("FindByID email = %q", byID.Email)
	}
}

func TestAccountRepository_FindMisses(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("FindByEmail() error = %v, want ErrAccountNotFound", err)
	}
	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("FindByID() error = %v, want ErrAccountNotFound", err)
	}
	if _, err := repo.FindByReactivationToken(ctx, "nope"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("FindByReactivationToken() error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	seedAccount(t, repo, "anna@example.com")
	err := repo.Create(context.Background(), &domain.Account{
		Email:        "anna@example.com",
		PasswordHash: "hashed",
		Status:       domain.StatusActive,
	})
	if err == nil {
		t.Error("Create() with duplicate email: error = nil, want unique constraint violation")
	}
}

func TestAccountRepository_UpdateClearsNullableFields(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, "anna@example.com")

	deletedAt := time.Now().UTC().Truncate(time.Second)
	token := "reactivation-token"
	account.Status = domain.StatusDeleted
	account.DeletedAt = &deletedAt
	account.ReactivationToken = &token
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByReactivationToken(ctx, token)
	if err != nil {
		t.Fatalf("FindByReactivationToken() error = %v", err)
	}
	if found.Status != domain.StatusDeleted || found.DeletedAt == nil {
		t.Errorf("deleted state not persisted: status=%s deletedAt=%v", found.Status, found.DeletedAt)
	}

	// Reactivation clears the nullable columns; Save must write the nils.
	found.Status = domain.StatusActive
	found.DeletedAt = nil
	found.ReactivationToken = nil
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	restored, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if restored.DeletedAt != nil || restored.ReactivationToken != nil {
		t.Error("nullable columns were not cleared on update")
	}
	if restored.Status != domain.StatusActive {
		t.Errorf("Status = %s, want ACTIVE", restored.Status)
	}
	if _, err := repo.FindByReactivationToken(ctx, token); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("consumed reactivation token still resolves: err = %v", err)
	}
}

func TestAccountRepository_UpdateLastLogin(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, "anna@example.com")

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, account.ID, at); err != nil {
		t.Fatalf("UpdateLastLogin() error = %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.LastLoginAt == nil || !found.LastLoginAt.Equal(at) {
		t.Errorf("LastLoginAt = %v, want %v", found.LastLoginAt, at)
	}
}
